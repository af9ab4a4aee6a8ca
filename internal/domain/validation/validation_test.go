package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	var errs Errors
	require.NoError(t, errs.Err())

	require.True(t, errs.Required("name", "Sam"))
	require.False(t, errs.Required("email", "   "))
	errs.Add("amount", "min", "must be at least 0")

	err := errs.Err()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalid)
	require.Contains(t, err.Error(), "email is required")

	var fields Errors
	require.True(t, errors.As(err, &fields))
	require.Len(t, fields, 2)
	require.Equal(t, "required", fields[0].Rule)
}
