package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/invoicehub/internal/config"
	"github.com/geocoder89/invoicehub/internal/domain/user"
)

// Registrar is the signup path; seeding goes through it so the demo
// user is hashed and normalized like any other account.
type Registrar interface {
	Register(ctx context.Context, email, password, name string) (user.User, error)
}

// EnsureSeedUser creates the configured demo account once. It is a no-op
// when SEED_EMAIL or SEED_PASSWORD is unset, or when the account exists.
func EnsureSeedUser(ctx context.Context, reg Registrar, cfg config.Config, log *slog.Logger) error {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return nil
	}

	u, err := reg.Register(ctx, cfg.SeedEmail, cfg.SeedPassword, cfg.SeedName)

	if errors.Is(err, user.ErrDuplicateEmail) {
		return nil
	}

	if err != nil {
		return err
	}

	log.InfoContext(ctx, "seed user created", "user_id", u.ID)

	return nil
}
