package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTypeIdentity(t *testing.T) {
	assert.True(t, Boolean.Equal(Boolean))
	assert.False(t, Boolean.Equal(Byte))
	assert.False(t, Boolean.Equal(nil))
}

func TestComposedTypeIdentityIsStructural(t *testing.T) {
	a := NewComposedType("pair", Boolean, Int32Range)
	b := NewComposedType("pair", Boolean, Int32Range)
	c := NewComposedType("pair", Boolean, String)

	assert.True(t, a.Equal(b), "composed types with identical children are equal")
	assert.False(t, a.Equal(c))
}

func TestAccessorFailsOnWrongType(t *testing.T) {
	p := NewBool(true)

	_, err := AsByte(p)
	assert.ErrorIs(t, err, ErrWrongType)

	v, err := AsBool(p)
	require.NoError(t, err)
	assert.True(t, v)
}

func TestComposedPacketRoundTrip(t *testing.T) {
	typ := NewComposedType("pair", Boolean, String)
	p, err := NewComposed(typ, []*Packet{NewBool(true), NewString("hi")})
	require.NoError(t, err)

	n, children, err := AsComposed(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bv, err := AsBool(children[0])
	require.NoError(t, err)
	assert.True(t, bv)

	sv, err := AsString(children[1])
	require.NoError(t, err)
	assert.Equal(t, "hi", sv)
}

func TestComposedMismatchedChildrenRejected(t *testing.T) {
	typ := NewComposedType("pair", Boolean, String)
	_, err := NewComposed(typ, []*Packet{NewBool(true)})
	assert.Error(t, err)

	_, err = NewComposed(typ, []*Packet{NewBool(true), NewBool(false)})
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestPacketReleaseExactlyOnce(t *testing.T) {
	p := NewBool(true)
	require.NoError(t, p.Release())
	assert.True(t, p.Released())
	assert.ErrorIs(t, p.Release(), ErrAlreadyReleased)
}
