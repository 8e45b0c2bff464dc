package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shopgate/internal/catalog"
	"shopgate/internal/shopify"
	"shopgate/pkg/config"
	"shopgate/pkg/logger"
	"shopgate/pkg/tenants"
)

func buildRegistry() (*catalog.Registry, error) {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	prov, err := tenants.NewMemoryProviderFromEnv(log, cfg.TenantsFile)
	if err != nil {
		return nil, err
	}
	reg := catalog.NewRegistry()
	reg.Register("shopify", shopify.NewEngine(cfg, prov, log))
	return reg, nil
}

func engineFor(cmd *cobra.Command) (catalog.Engine, string, error) {
	reg, err := buildRegistry()
	if err != nil {
		return nil, "", err
	}
	integration, _ := cmd.Root().PersistentFlags().GetString("integration")
	tenant, _ := cmd.Root().PersistentFlags().GetString("tenant")
	eng, err := reg.Get(integration)
	if err != nil {
		return nil, "", err
	}
	return eng, tenant, nil
}

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Product catalog operations",
	}
	cmd.AddCommand(productsListCmd(), productsGetCmd())
	return cmd
}

func productsListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tenant's products",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, tenant, err := engineFor(cmd)
			if err != nil {
				return err
			}
			doc, err := eng.ListProducts(cmd.Context(), tenant, limit)
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}
			fmt.Print(catalog.FormatProductList(doc))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum products to fetch (0 = platform default)")
	return cmd
}

func productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Fetch one product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			eng, tenant, err := engineFor(cmd)
			if err != nil {
				return err
			}
			doc, err := eng.GetProduct(cmd.Context(), tenant, id)
			if err != nil {
				return fmt.Errorf("get product: %w", err)
			}
			fmt.Print(catalog.FormatProduct(doc))
			return nil
		},
	}
}
