// Package crud provides the list/detail/edit controller shared by the registry screens.
package crud

import "context"

// Record is an entity row managed by a Controller.
type Record interface {
	// RecordID returns the backend identifier used for update and delete calls.
	RecordID() string
	// SearchText returns the display field matched by the search box.
	SearchText() string
	// Field returns the value of a column key, or nil when the key is unknown.
	Field(key string) any
}

// Gateway is the backend collaborator a Controller talks to for one entity.
type Gateway[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload any) error
	Update(ctx context.Context, id string, payload any) error
	Delete(ctx context.Context, id string) error
}
