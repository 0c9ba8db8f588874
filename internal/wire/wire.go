// Package wire opens the store a Config names and binds the engine to it.
package wire

import (
	"context"
	"fmt"
	"log/slog"

	"nestedset/internal/adapters/memory"
	"nestedset/internal/adapters/sqlite"
	"nestedset/internal/config"
	"nestedset/internal/domain"
	"nestedset/internal/engine"
	"nestedset/internal/ports"
)

// Env is an opened tree and the resources behind it.
type Env struct {
	Config config.Config
	Tree   *engine.Tree
	Log    *slog.Logger

	close func() error
}

// Close releases the store.
func (e *Env) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}

// Open opens the configured store and returns the engine over its list and
// field.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Env, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	field := domain.NewField(cfg.Field)

	var (
		store   ports.TreeStore
		closeFn func() error
	)
	switch cfg.Driver {
	case config.DriverMemory:
		tree, err := memory.NewDatabase().Tree(cfg.List, field)
		if err != nil {
			return nil, err
		}
		store = tree
	default:
		db, err := sqlite.Open(ctx, cfg.Database, cfg.Driver)
		if err != nil {
			return nil, err
		}
		tree, err := db.Tree(ctx, cfg.List, field)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open list %s: %w", cfg.List, err)
		}
		store, closeFn = tree, db.Close
		log.Debug("database opened", slog.String("path", db.Path()), slog.String("driver", db.Driver()))
	}

	return &Env{
		Config: cfg,
		Tree:   engine.New(store, engine.WithLogger(log)),
		Log:    log,
		close:  closeFn,
	}, nil
}
