// Package repository defines the record store contract shared by every
// storage driver. Drivers never provide multi-record atomicity.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/buffalo/internal/domain/models"
)

// CollectionName is the collection (or table) holding buffalo records.
const CollectionName = "Buffalos"

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("buffalo not found")

// Store is the record store adapter.
type Store interface {
	// Get returns ErrNotFound when the id is absent.
	Get(ctx context.Context, id string) (models.BuffaloRecord, error)
	// Set creates or fully replaces the record keyed by record.ID.
	Set(ctx context.Context, record models.BuffaloRecord) error
	// Update shallow-merges the patch at top level. Last writer wins.
	Update(ctx context.Context, id string, patch models.BuffaloPatch) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.BuffaloRecord, error)
	ListIDs(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}
