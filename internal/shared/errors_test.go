package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorAggregates(t *testing.T) {
	verr := &ValidationError{}
	require.NoError(t, verr.OrNil())

	verr.Add("Company name is required")
	verr.Add("Line %d: Invalid website format", 3)

	err := verr.OrNil()
	require.Error(t, err)
	require.Equal(t, "Company name is required; Line 3: Invalid website format", err.Error())

	var got *ValidationError
	require.True(t, errors.As(err, &got))
	require.Len(t, got.Messages, 2)
}

func TestWrapPersistencePassesNotFoundThrough(t *testing.T) {
	require.NoError(t, WrapPersistence("load po", nil))
	require.ErrorIs(t, WrapPersistence("load po", ErrNotFound), ErrNotFound)

	inner := errors.New("connection reset")
	wrapped := WrapPersistence("save po", inner)
	require.ErrorIs(t, wrapped, inner)

	var perr *PersistenceError
	require.True(t, errors.As(wrapped, &perr))
	require.Equal(t, "save po", perr.Op)
}

func TestUserSafeMessage(t *testing.T) {
	require.Equal(t, "", UserSafeMessage(nil))
	require.Equal(t, "The requested record was not found.", UserSafeMessage(ErrNotFound))

	stateErr := NewInvalidStateError("purchase order", "only draft orders can be sent")
	require.Equal(t, "purchase order: only draft orders can be sent", UserSafeMessage(stateErr))

	cfgErr := NewConfigurationError("company GSTIN", "")
	require.Equal(t, "configuration incomplete: company GSTIN is not set", UserSafeMessage(cfgErr))

	require.Equal(t, "Something went wrong. Please try again.", UserSafeMessage(errors.New("boom")))
}
