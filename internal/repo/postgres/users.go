package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/invoicehub/internal/domain/user"
	"github.com/geocoder89/invoicehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	observer
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, observer: observer{prom: prom}}
}

// CreateUser relies on the users_email_key constraint; there is no
// read-before-write, so concurrent signups for one email cannot both land.
func (r *UsersRepo) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe(ctx, "users.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, name, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt,
		)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err, usersEmailKey) {
			return user.User{}, user.ErrDuplicateEmail
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe(ctx, "users.find_by_email", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, email, password_hash, name, created_at
			FROM users
			WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.Name,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}
