package attr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarWriteToReadFromRoundTrip(t *testing.T) {
	a := NewInt32Attribute(-7)
	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)

	b := NewInt32Attribute(0)
	_, err = b.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, int32(-7), b.Value())
}

func TestFloat64ScalarRoundTrip(t *testing.T) {
	a := NewFloat64Attribute(3.14159)
	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)

	b := NewFloat64Attribute(0)
	_, err = b.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3.14159, b.Value())
}

func TestScalarEqual(t *testing.T) {
	a := NewInt32Attribute(5)
	b := NewInt32Attribute(5)
	c := NewInt32Attribute(6)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestStringAttributeEmptyUsesNULConvention(t *testing.T) {
	a := NewStringAttribute("")
	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, buf.Bytes())

	b := NewStringAttribute("placeholder")
	_, err = b.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, "", b.Value())
}

func TestStringAttributeRoundTrip(t *testing.T) {
	a := NewStringAttribute("volume description")
	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)

	b := NewStringAttribute("")
	_, err = b.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, "volume description", b.Value())
}

func TestCollectionInsertTypeMismatchRejected(t *testing.T) {
	var c Collection
	require.NoError(t, c.Insert("x", NewInt32Attribute(1)))
	err := c.Insert("x", NewStringAttribute("oops"))
	assert.Error(t, err)
}

func TestCollectionGetAndTypedValue(t *testing.T) {
	var c Collection
	require.NoError(t, c.Insert("name", NewStringAttribute("vol-a")))
	got, ok := TypedValue[*StringAttribute](&c, "name")
	require.True(t, ok)
	assert.Equal(t, "vol-a", got.Value())

	_, ok = TypedValue[*Scalar[int32]](&c, "name")
	assert.False(t, ok, "TypedValue must not assert across mismatched concrete types")
}

func TestCollectionNamesSorted(t *testing.T) {
	var c Collection
	require.NoError(t, c.Insert("zeta", NewInt32Attribute(1)))
	require.NoError(t, c.Insert("alpha", NewInt32Attribute(2)))
	assert.Equal(t, []string{"alpha", "zeta"}, c.Names())
}

func TestCollectionEqual(t *testing.T) {
	var a, b Collection
	require.NoError(t, a.Insert("n", NewInt32Attribute(1)))
	require.NoError(t, b.Insert("n", NewInt32Attribute(1)))
	assert.True(t, a.Equal(&b))

	require.NoError(t, b.Insert("n", NewInt32Attribute(2)))
	assert.False(t, a.Equal(&b))
}

func TestCollectionRemoveAndClear(t *testing.T) {
	var c Collection
	require.NoError(t, c.Insert("n", NewInt32Attribute(1)))
	c.Remove("n")
	assert.True(t, c.Empty())

	require.NoError(t, c.Insert("n", NewInt32Attribute(1)))
	c.Clear()
	assert.Equal(t, 0, c.Count())
}

func TestRegistryLookupAndNew(t *testing.T) {
	c, ok := Lookup("int32")
	require.True(t, ok)
	assert.NotNil(t, c)

	a, err := New("float64")
	require.NoError(t, err)
	assert.Equal(t, "float64", a.TypeName())
}

func TestRegistryNewUnknownTypeErrors(t *testing.T) {
	_, err := New("no-such-type")
	assert.Error(t, err)
}

func TestRegisterDuplicateNameErrors(t *testing.T) {
	err := Register("int32", func() Attribute { return NewInt32Attribute(0) })
	assert.Error(t, err, "int32 is already registered by init()")
}
