// Package repository declares the storage contract for template content.
//
// The contract mirrors "save a blob, load a blob": one record per key, written
// wholesale, last write wins. Implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/folio/internal/model"
)

// ContentRepository persists one Content record per storage key.
type ContentRepository interface {
	// Get returns the record stored under key, or an apperror.ErrNotFound.
	Get(ctx context.Context, key string) (*model.Content, error)
	// Put replaces whatever is stored under key.
	Put(ctx context.Context, key string, content *model.Content) error
	// List returns every stored key, most recently updated first.
	List(ctx context.Context) ([]model.Entry, error)
}
