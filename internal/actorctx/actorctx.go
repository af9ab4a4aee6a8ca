package actorctx

import (
	"context"

	"github.com/geocoder89/invoicehub/internal/auth"
)

type ctxKey struct{}

func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(auth.Identity)

	return id, ok && id.UserID != ""
}

func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := IdentityFrom(ctx)

	return id.UserID, ok
}
