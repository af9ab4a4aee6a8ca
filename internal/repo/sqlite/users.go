package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/geocoder89/invoicehub/internal/domain/user"
)

type UsersRepo struct {
	db *sql.DB
	observer
}

func (r *UsersRepo) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe(ctx, "users.create", func() error {
		_, e := r.db.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Email, u.PasswordHash, u.Name, formatTime(u.CreatedAt),
		)
		return e
	})
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return user.User{}, user.ErrDuplicateEmail
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var (
		u       user.User
		created string
	)

	err := r.observe(ctx, "users.find_by_email", func() error {
		return r.db.QueryRowContext(ctx,
			`SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`,
			email,
		).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &created)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	u.CreatedAt, err = parseTime(created)
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}
