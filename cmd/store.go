package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/budget-cli/internal/catalog"
	"github.com/sells-group/budget-cli/internal/store"
)

const defaultSQLitePath = "orcamento_obras.db"

// initStore opens the configured catalog backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openCatalog validates cfg for mode, opens the store, ensures the schema
// and wraps it in a catalog service. Callers must Close the returned store.
func openCatalog(ctx context.Context, mode string) (*catalog.Service, store.Store, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, nil, err
	}
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, nil, eris.Wrap(err, "migrate store")
	}
	return catalog.NewService(st, catalog.WithMaxResults(cfg.Search.MaxResults)), st, nil
}

func defaultBDI() decimal.Decimal {
	return decimal.NewFromFloat(cfg.Budget.DefaultBDI)
}
