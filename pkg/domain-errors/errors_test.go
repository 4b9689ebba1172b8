package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := New(CodeNotFound, "record not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", New(CodeInvalidInput, "no usable name"))
		assert.True(t, HasCode(err, CodeInvalidInput))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")

	err := Wrap(cause, CodeInternal, "failed to save run")
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, CodeInternal))
	assert.Contains(t, err.Error(), "failed to save run")

	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}
