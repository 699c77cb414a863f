package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsOrder(t *testing.T) {
	var o Options
	o = o.Add(URIPath, []byte("a"))
	o = o.Add(Observe, nil)
	o = o.Add(URIPath, []byte("b"))
	o = o.Add(ContentFormat, []byte{41})

	ids := make([]OptionID, len(o))
	for i, opt := range o {
		ids[i] = opt.ID
	}
	assert.Equal(t, []OptionID{Observe, URIPath, URIPath, ContentFormat}, ids)
	assert.Equal(t, []string{"a", "b"}, o.Strings(URIPath))

	o = o.Set(URIPath, []byte("c"))
	assert.Equal(t, []string{"c"}, o.Strings(URIPath))

	o = o.Del(Observe)
	assert.False(t, o.Has(Observe))
}

func TestUintOptions(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, nil},
		{1, []byte{1}},
		{0xFF, []byte{0xFF}},
		{0x100, []byte{1, 0}},
		{0xFFFFFF, []byte{0xFF, 0xFF, 0xFF}},
		{0x1000000, []byte{1, 0, 0, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeUint(tt.v), "%#x", tt.v)

		var o Options
		o = o.SetUint(Observe, tt.v)
		got, ok := o.Uint(Observe)
		require.True(t, ok)
		assert.Equal(t, tt.v, got)
	}

	o := Options{{ID: ETag, Value: []byte{1, 2, 3, 4, 5}}}
	_, ok := o.Uint(ETag)
	assert.False(t, ok)
}

func TestOptionProperties(t *testing.T) {
	assert.True(t, URIPath.Critical())
	assert.False(t, ContentFormat.Critical())
	assert.True(t, Block2.Critical())
	assert.Equal(t, "Block2", Block2.String())
	assert.Equal(t, "Option(99)", OptionID(99).String())
	assert.False(t, OptionID(99).Known())
	assert.Equal(t, "application/xml", AppXML.String())
}

func TestBlock(t *testing.T) {
	b, err := ParseBlock(0x1A)
	require.NoError(t, err)
	assert.Equal(t, Block{Num: 1, More: true, SZX: 2}, b)
	assert.Equal(t, 64, b.Size())
	assert.Equal(t, 64, b.Offset())
	assert.Equal(t, uint32(0x1A), b.Value())
	assert.Equal(t, "1/1/64", b.String())

	b, err = ParseBlock(Block{Num: 15, SZX: 6}.Value())
	require.NoError(t, err)
	assert.Equal(t, 15*1024, b.Offset())
	assert.False(t, b.More)

	_, err = ParseBlock(0x07)
	assert.ErrorIs(t, err, ErrInvalidBlock)

	_, err = ParseBlock(uint32(MaxBlockNum+1) << 4)
	assert.ErrorIs(t, err, ErrInvalidBlock)
}

func TestSZXForSize(t *testing.T) {
	tests := map[int]uint8{0: 0, 16: 0, 31: 0, 32: 1, 64: 2, 100: 2, 1024: 6, 4096: 6}
	for size, want := range tests {
		assert.Equal(t, want, SZXForSize(size), "size %d", size)
	}
}

func TestMessageBlock2(t *testing.T) {
	m := &Message{Code: GET}
	_, ok, err := m.Block2()
	require.NoError(t, err)
	assert.False(t, ok)

	m.Options = m.Options.SetUint(Block2, Block{Num: 3, SZX: 1}.Value())
	b, ok, err := m.Block2()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 96, b.Offset())
}
