package domain

import (
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/require"
)

func TestErrorsMatchSentinels(t *testing.T) {
	wrapped := fmt.Errorf("load plan: %w", notFound(MsgWorkoutPlanNotFound))
	require.ErrorIs(t, wrapped, ErrNotFound)
	require.NotErrorIs(t, wrapped, ErrForbidden)

	var httpErr HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	require.Equal(t, 404, httpErr.StatusCode())
	require.Equal(t, MsgWorkoutPlanNotFound, httpErr.Error())

	require.ErrorIs(t, &ConflictError{Message: MsgEmailTaken}, ErrConflict)
	require.Equal(t, 409, (&ConflictError{}).StatusCode())
}

func TestNewValidationErrorJoinsMessages(t *testing.T) {
	err := NewValidationError(validation.Errors{
		"title":    errors.New("Title is required"),
		"duration": errors.New("Duration must be at least 1 minute"),
		"ignored":  nil,
	})
	require.ErrorIs(t, err, ErrValidation)
	require.EqualError(t, err, "Duration must be at least 1 minute, Title is required")

	plain := errors.New("boom")
	require.Same(t, plain, NewValidationError(plain))
	require.NoError(t, NewValidationError(nil))
}

func TestStrongPassword(t *testing.T) {
	require.NoError(t, strongPassword("Password@1"))
	require.NoError(t, strongPassword(""))
	require.Error(t, strongPassword("password@1"))
	require.Error(t, strongPassword("Password1"))
	require.Error(t, strongPassword("Password@"))
	require.Error(t, strongPassword("Pass word@1"))
}
