package option

import (
	"testing"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want bool
	}{
		{"true", true}, {"1", true}, {"yes", true}, {"ON", true},
		{"false", false}, {"0", false}, {"no", false}, {"Off", false},
	} {
		v, err := ParseValue(KindBool, tc.raw)
		require.NoError(t, err, tc.raw)
		got, err := v.AsBool()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := ParseValue(KindBool, "maybe")
	assert.ErrorIs(t, err, flowerrors.ErrInvalidOption)
}

func TestParseByteRange(t *testing.T) {
	v, err := ParseValue(KindByte, "0x1F")
	require.NoError(t, err)
	b, err := v.AsByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x1F), b)

	_, err = ParseValue(KindByte, "256")
	assert.ErrorIs(t, err, flowerrors.ErrInvalidOption)
}

func TestParseIntRangeComposite(t *testing.T) {
	v, err := ParseValue(KindIntRange, "5|0|10|1")
	require.NoError(t, err)
	r, err := v.AsIntRange()
	require.NoError(t, err)
	assert.Equal(t, IntRangeSpec{Value: 5, Min: 0, Max: 10, Step: 1}, r)
}

func TestParseRGBShortAndLong(t *testing.T) {
	v, err := ParseValue(KindRGB, "10|20|30")
	require.NoError(t, err)
	r, err := v.AsRGB()
	require.NoError(t, err)
	assert.Equal(t, RGBSpec{R: 10, G: 20, B: 30, RMax: 255, GMax: 255, BMax: 255}, r)

	v, err = ParseValue(KindRGB, "10|20|30|100|100|100")
	require.NoError(t, err)
	r, err = v.AsRGB()
	require.NoError(t, err)
	assert.Equal(t, uint32(100), r.RMax)
}

func TestParseStringUnescape(t *testing.T) {
	v, err := ParseValue(KindString, `"hello\nworld"`)
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", s)

	v, err = ParseValue(KindString, "unquoted")
	require.NoError(t, err)
	s, err = v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "unquoted", s)
}

func TestQuotedValueRejectedForNonStringMember(t *testing.T) {
	_, err := ParseValue(KindInt32, `"5"`)
	assert.ErrorIs(t, err, flowerrors.ErrInvalidOption)
}

func TestNewOptionsUsesDefaultsAndRequiresMissing(t *testing.T) {
	desc := &Description{Members: []Member{
		{Name: "enabled", Kind: KindBool, HasDefault: true, Default: Bool(true)},
		{Name: "threshold", Kind: KindInt32, Required: true},
	}}

	_, err := New(desc, Named{})
	assert.ErrorIs(t, err, flowerrors.ErrMissingOption)

	opts, err := New(desc, Named{"threshold": Int32(5)})
	require.NoError(t, err)

	v, ok := opts.Get("enabled")
	require.True(t, ok)
	b, _ := v.AsBool()
	assert.True(t, b)

	v, ok = opts.Get("threshold")
	require.True(t, ok)
	n, _ := v.AsInt32()
	assert.Equal(t, int32(5), n)
}

func TestNamedRoundTrip(t *testing.T) {
	desc := &Description{Members: []Member{
		{Name: "name", Kind: KindString, Required: true},
	}}
	named, err := ParseNamedFromStrings(desc, []string{"name=bob"})
	require.NoError(t, err)

	opts, err := New(desc, named)
	require.NoError(t, err)

	roundTripped := opts.Named()
	assert.Equal(t, named, roundTripped)
}

func TestInlineOptionsWinOverResolverDefaults(t *testing.T) {
	resolverDefaults := Named{"level": Int32(1)}
	inline := Named{"level": Int32(9)}
	merged := resolverDefaults.Merge(inline)
	v := merged["level"]
	n, _ := v.AsInt32()
	assert.Equal(t, int32(9), n)
}
