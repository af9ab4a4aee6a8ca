package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/geocoder89/invoicehub/internal/domain/user"
	"github.com/geocoder89/invoicehub/internal/domain/validation"
	"github.com/geocoder89/invoicehub/internal/security"
	"github.com/google/uuid"
)

// bcrypt ignores everything past 72 bytes; newer x/crypto rejects it outright.
const maxPasswordBytes = 72

// CredentialStore persists users. CreateUser must reject a duplicate email
// atomically with user.ErrDuplicateEmail.
type CredentialStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
}

type PasswordHasher interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) error
	Burn(plain string)
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      user.User
}

type Authenticator struct {
	store  CredentialStore
	hasher PasswordHasher
	tokens *Manager
	log    *slog.Logger
}

func NewAuthenticator(store CredentialStore, hasher PasswordHasher, tokens *Manager, log *slog.Logger) *Authenticator {
	if log == nil {
		log = slog.Default()
	}

	return &Authenticator{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

func (a *Authenticator) Register(ctx context.Context, email, password, name string) (user.User, error) {
	email = user.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	var errs validation.Errors
	errs.Required("email", email)
	if password == "" {
		errs.Add("password", "required", "is required")
	} else if len(password) > maxPasswordBytes {
		errs.Add("password", "max", "must be at most 72 bytes")
	}
	errs.Required("name", name)

	if err := errs.Err(); err != nil {
		return user.User{}, err
	}

	hash, err := a.hasher.HashPassword(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := a.store.CreateUser(ctx, user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return user.User{}, user.ErrDuplicateEmail
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	a.log.InfoContext(ctx, "user registered", "user_id", u.ID)

	return u, nil
}

// Authenticate never tells the caller which half of the credentials was wrong.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		a.hasher.Burn(password)
		return user.User{}, ErrInvalidCredentials
	}

	u, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			a.hasher.Burn(password)
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, fmt.Errorf("find user: %w", err)
	}

	if err := a.hasher.CheckPassword(u.PasswordHash, password); err != nil {
		if !security.IsMismatch(err) {
			a.log.ErrorContext(ctx, "stored password hash unusable", "user_id", u.ID, "err", err)
		}
		return user.User{}, ErrInvalidCredentials
	}

	return u, nil
}

// Login authenticates and issues a session token in one step.
func (a *Authenticator) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := a.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	token, expiresAt, err := a.IssueToken(u)
	if err != nil {
		return Session{}, err
	}

	a.log.InfoContext(ctx, "user logged in", "user_id", u.ID)

	return Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func (a *Authenticator) IssueToken(u user.User) (string, time.Time, error) {
	return a.tokens.Issue(u.ID, u.Email)
}

func (a *Authenticator) VerifyToken(raw string) (Identity, error) {
	return a.tokens.Verify(raw)
}
