package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	bb := NewByteBuffer(4)
	require.Equal(t, 0, bb.Len())

	bb.B = append(bb.B, 1, 2, 3)
	bb.Grow(100)
	require.GreaterOrEqual(t, cap(bb.B)-bb.Len(), 100)
	require.Equal(t, []byte{1, 2, 3}, bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), 100)
}

func TestByteBufferPool(t *testing.T) {
	t.Run("returned buffers are empty", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		bb := p.Get()
		require.NotNil(t, bb)
		bb.B = append(bb.B, 'x')
		p.Put(bb)

		again := p.Get()
		require.Equal(t, 0, again.Len())
	})

	t.Run("nil put is ignored", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		require.NotPanics(t, func() { p.Put(nil) })
	})

	t.Run("oversized buffers are dropped", func(t *testing.T) {
		p := NewByteBufferPool(16, 32)
		bb := NewByteBuffer(64)
		bb.B = append(bb.B, 'y')
		p.Put(bb)
		require.Equal(t, 1, bb.Len(), "dropped buffer should not be reset")
	})

	t.Run("payload pool", func(t *testing.T) {
		bb := GetPayloadBuffer()
		require.GreaterOrEqual(t, cap(bb.B), PayloadBufferDefaultSize)
		PutPayloadBuffer(bb)
	})
}
