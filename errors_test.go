package rsc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageErrorMessageAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrapf(cause, CodeNotPerformed, "could not save the file %s", "a.txt")

	assert.Equal(t, CodeNotPerformed, err.Code())
	assert.Equal(t, "could not save the file a.txt", err.Message())
	assert.Equal(t, "could not save the file a.txt: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestStorageErrorWithoutCause(t *testing.T) {
	err := NewError(CodeNotFound, "no such file")
	assert.Equal(t, "no such file", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidInput, CodeOf(Errorf(CodeInvalidInput, "bad")))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))

	// The code survives further wrapping by callers.
	wrapped := fmt.Errorf("outer: %w", Errorf(CodeAlreadyExists, "dup"))
	assert.Equal(t, CodeAlreadyExists, CodeOf(wrapped))
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		code ErrorCode
		pred func(error) bool
	}{
		{CodeConnectionFailure, IsConnectionFailure},
		{CodeNotFound, IsNotFound},
		{CodeAlreadyExists, IsAlreadyExists},
		{CodeNotPerformed, IsNotPerformed},
		{CodeInvalidInput, IsInvalidInput},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.True(t, tt.pred(NewError(tt.code, "x")))
			assert.False(t, tt.pred(errors.New("plain")))
			assert.False(t, tt.pred(nil))
		})
	}
}

// Wrapping one storage error in another keeps the outer code visible and
// the inner one reachable through the chain.
func TestNestedStorageErrors(t *testing.T) {
	inner := NewError(CodeNotFound, "missing")
	outer := WrapError(inner, CodeNotPerformed, "walk aborted")

	assert.Equal(t, CodeNotPerformed, CodeOf(outer))
	assert.ErrorIs(t, outer, inner)
}
