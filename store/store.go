package store

import (
	"context"
	"fmt"

	"github.com/goliatone/go-itemstore/internal/storeinfra"
	"github.com/goliatone/go-itemstore/item"
)

// Store loads and persists the whole item collection.
type Store interface {
	// Load returns the full collection in insertion order. A store that has
	// never been written returns an empty collection.
	Load(ctx context.Context) ([]item.Item, error)
	// Persist replaces the stored collection with items.
	Persist(ctx context.Context, items []item.Item) error
	// Close releases backend resources.
	Close() error
}

// New constructs the backend selected by cfg.Backend.
func New(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendFile:
		return storeinfra.NewFileStore(cfg.Path, cfg.LockTimeout), nil
	case BackendSQLite:
		s, err := storeinfra.NewSQLiteStore(ctx, cfg.SQLite.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendS3:
		s, err := storeinfra.NewS3Store(ctx, cfg.S3.toInternal())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
