package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayInsertAtMaintainsOrder(t *testing.T) {
	var a Array[int]
	a.InsertAt(0, 10)
	a.InsertAt(1, 30)
	a.InsertAt(1, 20)
	require.Equal(t, 3, a.Len())
	assert.Equal(t, 10, a.At(0))
	assert.Equal(t, 20, a.At(1))
	assert.Equal(t, 30, a.At(2))
}

func TestArrayDeleteAtShiftsTail(t *testing.T) {
	var a Array[string]
	a.InsertAt(0, "a")
	a.InsertAt(1, "b")
	a.InsertAt(2, "c")
	v := a.DeleteAt(1)
	assert.Equal(t, "b", v)
	require.Equal(t, 2, a.Len())
	assert.Equal(t, "a", a.At(0))
	assert.Equal(t, "c", a.At(1))
}

func TestArraySet(t *testing.T) {
	var a Array[int]
	a.InsertAt(0, 1)
	a.Set(0, 42)
	assert.Equal(t, 42, a.At(0))
}

func TestArrayClear(t *testing.T) {
	var a Array[int]
	a.InsertAt(0, 1)
	a.Clear()
	assert.Equal(t, 0, a.Len())
}

func TestArrayClone(t *testing.T) {
	var a Array[int]
	a.InsertAt(0, 1)
	a.InsertAt(1, 2)
	c := a.Clone()
	c.Set(0, 99)
	assert.Equal(t, 1, a.At(0), "clone must not alias the original backing array")
	assert.Equal(t, 99, c.At(0))
}

func TestArrayCloneNil(t *testing.T) {
	var a *Array[int]
	assert.Nil(t, a.Clone())
}
