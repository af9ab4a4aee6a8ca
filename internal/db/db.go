package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type PoolOptions struct {
	MaxConns int32
	// ConnectTimeout bounds dialing plus the startup ping.
	ConnectTimeout time.Duration
}

func (o PoolOptions) withDefaults() PoolOptions {
	if o.MaxConns <= 0 {
		o.MaxConns = 10
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 5 * time.Second
	}
	return o
}

// NewPool connects and pings, so a returned pool is known to be usable.
func NewPool(ctx context.Context, dbURL string, opts PoolOptions) (*pgxpool.Pool, error) {
	opts = opts.withDefaults()

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	ctx, span := otel.Tracer("invoicehub/db").Start(ctx, "db.connect")
	defer span.End()
	span.SetAttributes(attribute.Int("db.pool.max_conns", int(opts.MaxConns)))

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		span.RecordError(err)
		pool.Close()
		return nil, err
	}

	return pool, nil
}
