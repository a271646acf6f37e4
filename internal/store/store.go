// Package store persists the reference price catalog: priced items (insumos)
// and composition links (composicoes).
package store

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
)

// CatalogStats summarizes the loaded catalog.
type CatalogStats struct {
	Items        int `json:"items"`
	Links        int `json:"links"`
	Compositions int `json:"compositions"` // distinct parent codes
}

// Store defines the persistence interface for the price catalog.
// Read paths are used by the catalog service; ReplaceCatalog belongs to the importer.
type Store interface {
	// Catalog reads
	Search(ctx context.Context, f *search.Filter) ([]model.Item, error)
	ChildrenOf(ctx context.Context, parentCode string) ([]model.ChildLine, error)
	GetItem(ctx context.Context, code string) (*model.Item, error)
	Stats(ctx context.Context) (*CatalogStats, error)

	// Import
	ReplaceCatalog(ctx context.Context, items []model.Item, links []model.CompositionLink) error

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// unavailable marks err as a failure to reach or query the store, so callers
// can test it with errors.Is(err, model.ErrStoreUnavailable).
func unavailable(err error, msg string) error {
	if err == nil {
		return nil
	}
	return eris.Wrap(fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err), msg)
}
