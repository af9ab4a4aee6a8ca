package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type managerVerifier struct{ m *Manager }

func (v managerVerifier) VerifyToken(raw string) (Identity, error) { return v.m.Verify(raw) }

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "empty", header: "", wantErr: ErrMissingToken},
		{name: "scheme only", header: "Bearer", wantErr: ErrMissingToken},
		{name: "scheme and spaces", header: "Bearer    ", wantErr: ErrMissingToken},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidToken},
		{name: "ok", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorize(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)
	v := managerVerifier{m: m}

	token, _, err := m.Issue("user-7", "seven@example.com")
	require.NoError(t, err)

	id, err := Authorize("Bearer "+token, v)
	require.NoError(t, err)
	require.Equal(t, "user-7", id.UserID)

	_, err = Authorize("", v)
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = Authorize("Bearer nope", v)
	require.ErrorIs(t, err, ErrInvalidToken)
}
