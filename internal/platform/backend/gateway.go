package backend

import (
	"context"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
)

// Gateway adapts Client to crud.Gateway for one entity collection.
type Gateway[T crud.Record] struct {
	client *Client
	entity string
}

// NewGateway binds client to the entity path segment, e.g. "partners".
func NewGateway[T crud.Record](client *Client, entity string) *Gateway[T] {
	return &Gateway[T]{client: client, entity: entity}
}

func (g *Gateway[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := g.client.List(ctx, g.entity, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway[T]) Create(ctx context.Context, payload any) error {
	return g.client.Create(ctx, g.entity, payload, nil)
}

func (g *Gateway[T]) Update(ctx context.Context, id string, payload any) error {
	return g.client.Update(ctx, g.entity, id, payload, nil)
}

func (g *Gateway[T]) Delete(ctx context.Context, id string) error {
	return g.client.Delete(ctx, g.entity, id)
}
