package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "shopctl",
		Short: "Fetch catalog data from connected stores",
	}
	rootCmd.PersistentFlags().String("tenant", "12345", "tenant id to act as")
	rootCmd.PersistentFlags().String("integration", "shopify", "integration engine to use")
	rootCmd.AddCommand(productsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
