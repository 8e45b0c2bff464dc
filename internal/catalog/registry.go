// Package catalog exposes integration engines behind a common interface and
// renders fetched product data for human consumption.
package catalog

import (
	"context"
	"fmt"
)

// Engine is a catalog integration for one e-commerce platform.
type Engine interface {
	ListProducts(ctx context.Context, tenantID string, limit int) (map[string]any, error)
	GetProduct(ctx context.Context, tenantID string, productID int64) (map[string]any, error)
}

// Registry maps integration names to engines.
type Registry struct {
	engines map[string]Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: map[string]Engine{}}
}

func (r *Registry) Register(name string, e Engine) {
	r.engines[name] = e
}

func (r *Registry) Get(name string) (Engine, error) {
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown integration: %s", name)
	}
	return e, nil
}
