package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)
	require.True(t, strings.HasPrefix(hash, "$2a$"))

	require.NoError(t, h.CheckPassword(hash, "password123"))

	err = h.CheckPassword(hash, "password124")
	require.Error(t, err)
	require.True(t, IsMismatch(err))
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, err := h.HashPassword("same")
	require.NoError(t, err)
	b, err := h.HashPassword("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestNewHasher_DefaultCost(t *testing.T) {
	h := NewHasher(0)
	hash, err := h.HashPassword("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, DefaultCost, cost)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := NewHasher(bcrypt.MinCost).CheckPassword("not-a-hash", "pw")
	require.Error(t, err)
	require.False(t, IsMismatch(err))
}

func TestBurn_DummyHashMatchesConfiguredCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 2, 0} {
		h := NewHasher(cost)

		want := cost
		if cost == 0 {
			want = DefaultCost
		}

		got, err := bcrypt.Cost(h.dummy)
		require.NoError(t, err)
		require.Equal(t, want, got)

		hash, err := h.HashPassword("pw")
		require.NoError(t, err)
		userCost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		require.Equal(t, userCost, got, "unknown-email path must cost the same as a real check")
	}
}
