package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeS2(t *testing.T) {
	// spec scenario S2.
	m, err := Decode("0x2000000000f0e189f")
	assert.NoError(t, err)
	want := Mask{}
	want[7] = 0x02
	want[12] = 0x0F
	want[13] = 0x0E
	want[14] = 0x18
	want[15] = 0x9F
	assert.Equal(t, want, m)
}

func TestEncodeRoundTrip(t *testing.T) {
	assert.Equal(t, "2000000000f0e189f", Encode(SupportedMask))

	m, err := Decode(Encode(SupportedMask))
	assert.NoError(t, err)
	assert.Equal(t, SupportedMask, m)
}

func TestEncodeZero(t *testing.T) {
	assert.Equal(t, "0", Encode(Mask{}))
}

func TestDecodeInvalidHex(t *testing.T) {
	_, err := Decode("zz")
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestDecodeOverlong(t *testing.T) {
	_, err := Decode("000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrOverlong)
}

func TestSetAndWithBand(t *testing.T) {
	var m Mask
	assert.False(t, m.Set(1))
	m = m.WithBand(1, true)
	assert.True(t, m.Set(1))
	assert.False(t, m.IsZero())
	m = m.WithBand(1, false)
	assert.True(t, m.IsZero())
}

func TestByteAndBitOutOfRange(t *testing.T) {
	var m Mask
	m2 := m.WithBand(0, true)
	assert.Equal(t, m, m2)
	m2 = m.WithBand(129, true)
	assert.Equal(t, m, m2)
}

func TestFilter(t *testing.T) {
	requested := SupportedMask.WithBand(7, true) // band 7 not in SupportedMask
	filtered, cleared := Filter(requested)
	assert.True(t, cleared)
	assert.Equal(t, SupportedMask, filtered)

	filtered, cleared = Filter(SupportedMask)
	assert.False(t, cleared)
	assert.Equal(t, SupportedMask, filtered)
}
