package catalog

import (
	"strings"
	"testing"
)

func productDoc() map[string]any {
	return map[string]any{
		"product": map[string]any{
			"id":           float64(7530792648779),
			"title":        "Showcase Widget",
			"vendor":       "Acme",
			"product_type": "widget",
			"status":       "active",
			"updated_at":   "2026-08-29T10:00:00Z",
			"variants": []any{
				map[string]any{"title": "Default", "sku": "W-1", "price": "19.99", "inventory_quantity": float64(4)},
			},
			"images": []any{map[string]any{"id": float64(1)}},
		},
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	doc := productDoc()
	if got := Extract(doc, "product.title"); got != "Showcase Widget" {
		t.Fatalf("Extract(product.title) = %v", got)
	}
	if got := Extract(doc, "product.variants[0].sku"); got != "W-1" {
		t.Fatalf("Extract(variants[0].sku) = %v", got)
	}
	if got := Extract(doc, "product.missing"); got != nil {
		t.Fatalf("missing field must yield nil, got %v", got)
	}
	if got := Extract(doc, "not a valid [ expr"); got != nil {
		t.Fatalf("invalid expression must yield nil, got %v", got)
	}
}

func TestFormatProduct(t *testing.T) {
	t.Parallel()

	out := FormatProduct(productDoc())
	for _, want := range []string{"7530792648779", "Showcase Widget", "Acme", "W-1", "variants (1)", "images: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("formatted product missing %q:\n%s", want, out)
		}
	}
}

func TestFormatProductList(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"products": []any{
			map[string]any{"id": float64(1), "title": "One", "status": "active"},
			map[string]any{"id": float64(2), "title": "Two", "status": "draft"},
		},
	}
	out := FormatProductList(doc)
	if !strings.Contains(out, "2 products") || !strings.Contains(out, "One") || !strings.Contains(out, "draft") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	if got := FormatProductList(map[string]any{}); got != "no products\n" {
		t.Fatalf("empty doc: %q", got)
	}
}
