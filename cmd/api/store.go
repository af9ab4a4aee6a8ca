package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/invoicehub/internal/auth"
	"github.com/geocoder89/invoicehub/internal/config"
	"github.com/geocoder89/invoicehub/internal/db"
	"github.com/geocoder89/invoicehub/internal/observability"
	"github.com/geocoder89/invoicehub/internal/repo/cached"
	"github.com/geocoder89/invoicehub/internal/repo/memory"
	"github.com/geocoder89/invoicehub/internal/repo/postgres"
	"github.com/geocoder89/invoicehub/internal/repo/sqlite"
)

type stores struct {
	users    auth.CredentialStore
	invoices cached.Repository
	ping     func(ctx context.Context) error
	close    func()
}

// openStore opens the driver named by STORE_DRIVER and brings its schema
// up to date.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (stores, error) {
	switch cfg.StoreDriver {
	case "postgres":
		m, err := db.NewMigrator(cfg.DBURL, log)
		if err != nil {
			return stores{}, err
		}
		if err := m.Up(ctx); err != nil {
			return stores{}, fmt.Errorf("migrate: %w", err)
		}

		pool, err := db.NewPool(ctx, cfg.DBURL, db.PoolOptions{MaxConns: int32(cfg.DBMaxConns)})
		if err != nil {
			return stores{}, fmt.Errorf("connect postgres: %w", err)
		}

		return stores{
			users:    postgres.NewUsersRepo(pool, prom),
			invoices: postgres.NewInvoicesRepo(pool, prom),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case "sqlite":
		s, err := sqlite.NewStore(cfg.SQLitePath, prom)
		if err != nil {
			return stores{}, fmt.Errorf("open sqlite: %w", err)
		}
		if err := s.ApplyMigrations(); err != nil {
			_ = s.Close()
			return stores{}, fmt.Errorf("migrate: %w", err)
		}

		return stores{
			users:    s.Users(),
			invoices: s.Invoices(),
			ping:     s.Ping,
			close:    func() { _ = s.Close() },
		}, nil

	case "memory":
		users := memory.NewUsersRepo()
		log.Warn("using in-memory store, data is lost on restart")

		return stores{
			users:    users,
			invoices: memory.NewInvoicesRepo(),
			ping:     users.Ping,
			close:    func() {},
		}, nil
	}

	return stores{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
