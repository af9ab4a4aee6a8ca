package auth

import (
	"fmt"
	"strings"
)

type TokenVerifier interface {
	VerifyToken(raw string) (Identity, error)
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: unsupported authorization scheme", ErrInvalidToken)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}

// Authorize turns a raw Authorization header into a verified identity.
// It is the single gate in front of every owner-scoped operation.
func Authorize(header string, v TokenVerifier) (Identity, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return Identity{}, err
	}

	return v.VerifyToken(raw)
}
