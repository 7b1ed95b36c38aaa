package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationMatchesSentinel(t *testing.T) {
	err := Validation(FieldErrors{"email": "Enter a valid email address."})

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), ErrValidationFailed))
	assert.Equal(t, "Enter a valid email address.", Fields(err)["email"])
	assert.Contains(t, err.Error(), "email")
}

func TestValidationWithoutFieldsIsNil(t *testing.T) {
	assert.NoError(t, Validation(nil))
	assert.NoError(t, Validation(FieldErrors{}))
	assert.Nil(t, Fields(ErrNotFound))
}

func TestFieldErrorsKeepsFirstMessage(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("rating", "first")
	fe.Add("rating", "second")

	assert.Equal(t, "first", fe["rating"])
	assert.True(t, fe.Has("rating"))
	assert.False(t, fe.Has("text"))
}
