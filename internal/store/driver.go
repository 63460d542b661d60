package store

import (
	"context"

	"pcp-service/internal/model"
)

// Record is one row of an entity, keyed by header name (tabular backend) or
// column name (relational backend). The tabular backend produces string
// values; the relational backend produces decoded JSON values.
type Record map[string]any

// Driver binds the adapter's operation contract to one external storage
// service.
type Driver interface {
	List(ctx context.Context, entity model.Entity) ([]Record, error)
	Insert(ctx context.Context, entity model.Entity, record Record) (Record, error)
	Update(ctx context.Context, entity model.Entity, id string, patch Record) (Record, error)
	Delete(ctx context.Context, entity model.Entity, id string) error
}
