package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "8c1f")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "8c1f", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 8c1f", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("restaurant", "42", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: restaurant, ID is: 42 (cause: connection reset)",
			err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	err := errs.NewValueIsInvalidError("price")
	assert.Equal(t, "value is invalid: price", err.Error())

	withCause := errs.NewValueIsInvalidErrorWithCause("price", errors.New("negative"))
	assert.Equal(t, "value is invalid: price (cause: negative)", withCause.Error())
	assert.Equal(t, errs.ErrValueIsInvalid, withCause.Unwrap())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("formats bounds", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 91.5, -90.0, 90.0)

		assert.Equal(t, 91.5, err.Value)
		assert.Equal(t, "value is invalid: 91.5 is latitude, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("page", -1, 1, 100, errors.New("bad query"))
		assert.Equal(t, "value is invalid: -1 is page, min value is 1, max value is 100 (cause: bad query)", err.Error())
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("address")
	assert.Equal(t, "value is required: address", err.Error())

	withCause := errs.NewValueIsRequiredErrorWithCause("address", errors.New("blank"))
	assert.Equal(t, "value is required: address (cause: blank)", withCause.Error())
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load order: %w", errs.NewObjectNotFoundError("order", "1"))

	require.ErrorIs(t, wrapped, errs.ErrObjectNotFound)

	var target *errs.ObjectNotFoundError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "order", target.ParamName)

	joined := errors.Join(errs.NewValueIsRequiredError("a"), errs.NewValueIsOutOfRangeError("b", 5, 0, 1))
	require.ErrorIs(t, joined, errs.ErrValueIsRequired)
	require.ErrorIs(t, joined, errs.ErrValueIsOutOfRange)
}
