package hive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsComparesKindOnly(t *testing.T) {
	err := newErr(KindInvalidIndex, "out of range %d", 5)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
	assert.False(t, errors.Is(err, ErrIoFailure))
}

func TestWrapErrPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := wrapErr(KindIoFailure, cause, "writing failed")
	assert.True(t, errors.Is(err, ErrIoFailure))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "InvalidIndex", KindInvalidIndex.String())
	assert.Equal(t, "LogicViolation", KindLogicViolation.String())
}
