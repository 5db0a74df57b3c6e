// Package api is the registry backend: a JSON API over companies, channel
// partners and master data, persisted in Postgres.
package api

import (
	"context"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/companies"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/partners"
)

// Resource persists one entity collection. Lookups by an unknown id return
// an error matching httpx.ErrNotFound.
type Resource[T any, F any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, form F) (T, error)
	Update(ctx context.Context, id string, form F) (T, error)
	Delete(ctx context.Context, id string) error
}

// Store groups the registry resources.
type Store interface {
	Companies() Resource[companies.Company, companies.Form]
	Partners() Resource[partners.Partner, partners.Form]
	MasterData(ctx context.Context) (masterdata.Data, error)
	ReplaceMasterList(ctx context.Context, list string, options []masterdata.Option) error
	Ping(ctx context.Context) error
}
