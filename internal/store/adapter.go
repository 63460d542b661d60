// Package store presents one operation contract to all callers regardless of
// which external service holds the data. Every operation is a single network
// call with no local caching and no retries; a failure surfaces immediately.
package store

import (
	"context"

	"go.uber.org/zap"

	"pcp-service/internal/model"
	"pcp-service/internal/settings"
)

// Adapter dispatches each operation to the driver selected by the settings
// store. The selection is read per call, so switching backends in settings
// takes effect on the very next operation.
type Adapter struct {
	settings *settings.Store
	drivers  map[string]Driver
}

// NewAdapter builds an adapter with both drivers wired
func NewAdapter(st *settings.Store, logger *zap.Logger) *Adapter {
	return &Adapter{
		settings: st,
		drivers: map[string]Driver{
			settings.BackendSheets:   NewSheetsDriver(st, logger),
			settings.BackendSupabase: NewSupabaseDriver(st, logger),
		},
	}
}

func (a *Adapter) driver() Driver {
	if d, ok := a.drivers[a.settings.Backend()]; ok {
		return d
	}
	return a.drivers[settings.BackendSheets]
}

func (a *Adapter) resolve(name string) (model.Entity, error) {
	entity, ok := model.EntityByName(name)
	if !ok {
		return model.Entity{}, &UnknownEntityError{Name: name}
	}
	return entity, nil
}

// List fetches all rows for the named entity. An entity with no rows yields
// an empty slice, never nil.
func (a *Adapter) List(ctx context.Context, name string) ([]Record, error) {
	entity, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return a.driver().List(ctx, entity)
}

// Insert stores one new record and returns it as stored
func (a *Adapter) Insert(ctx context.Context, name string, record Record) (Record, error) {
	entity, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return a.driver().Insert(ctx, entity, record)
}

// Update patches the record with the given identifier
func (a *Adapter) Update(ctx context.Context, name, id string, patch Record) (Record, error) {
	entity, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return a.driver().Update(ctx, entity, id, patch)
}

// Delete removes the record with the given identifier
func (a *Adapter) Delete(ctx context.Context, name, id string) error {
	entity, err := a.resolve(name)
	if err != nil {
		return err
	}
	return a.driver().Delete(ctx, entity, id)
}
