package catalog

import (
	"fmt"
	"strings"

	jmes "github.com/jmespath/go-jmespath"
)

// Extract evaluates a jmespath expression against a decoded API response.
// Returns nil on any evaluation failure; formatting is best-effort.
func Extract(doc map[string]any, expr string) any {
	v, err := jmes.Search(expr, doc)
	if err != nil {
		return nil
	}
	return v
}

func field(doc map[string]any, expr string) string {
	v := Extract(doc, expr)
	if v == nil {
		return "n/a"
	}
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatProduct renders a single-product response (`{"product": {...}}`)
// as a compact text block.
func FormatProduct(doc map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "product %s  %s\n", field(doc, "product.id"), field(doc, "product.title"))
	fmt.Fprintf(&b, "  vendor: %s  type: %s  status: %s\n",
		field(doc, "product.vendor"), field(doc, "product.product_type"), field(doc, "product.status"))
	fmt.Fprintf(&b, "  updated: %s\n", field(doc, "product.updated_at"))
	if variants, ok := Extract(doc, "product.variants").([]any); ok && len(variants) > 0 {
		fmt.Fprintf(&b, "  variants (%d):\n", len(variants))
		for _, raw := range variants {
			v, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "    - %s  sku=%s  price=%s  inventory=%s\n",
				field(v, "title"), field(v, "sku"), field(v, "price"), field(v, "inventory_quantity"))
		}
	}
	if images, ok := Extract(doc, "product.images").([]any); ok && len(images) > 0 {
		fmt.Fprintf(&b, "  images: %d\n", len(images))
	}
	return b.String()
}

// FormatProductList renders a list response (`{"products": [...]}`).
func FormatProductList(doc map[string]any) string {
	products, ok := Extract(doc, "products").([]any)
	if !ok {
		return "no products\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d products\n", len(products))
	for _, raw := range products {
		p, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-14s %-40s %s\n", field(p, "id"), field(p, "title"), field(p, "status"))
	}
	return b.String()
}
