package pool

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(64)

	require.Zero(t, bb.Len())
	require.Equal(t, 64, bb.Cap())
	require.Empty(t, bb.Bytes())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte("header"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, []byte("header"), bb.Bytes())

	capBefore := bb.Cap()
	bb.Reset()
	require.Zero(t, bb.Len())
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		require.Equal(t, 100, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		bb.Grow(20)
		require.Equal(t, FileBufferDefaultSize, bb.Cap())
	})

	t.Run("large request", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(2 * FileBufferDefaultSize)
		require.GreaterOrEqual(t, bb.Cap(), 2*FileBufferDefaultSize)
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(2)
		_, _ = bb.Write([]byte{1, 2})
		bb.Grow(10)
		require.Equal(t, []byte{1, 2}, bb.Bytes())
	})
}

func TestByteBuffer_ReadFrom(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10_000)

	bb := NewByteBuffer(16)
	n, err := bb.ReadFrom(iotest.HalfReader(bytes.NewReader(data)))
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)
	require.Equal(t, data, bb.Bytes())
}

func TestByteBuffer_ReadFromError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(bytes.NewReader([]byte("abc")), iotest.ErrReader(boom))

	bb := NewByteBuffer(0)
	n, err := bb.ReadFrom(r)
	require.ErrorIs(t, err, boom)
	require.Equal(t, int64(3), n)
	require.Equal(t, []byte("abc"), bb.Bytes())
}

func TestByteBufferPool_Reuse(t *testing.T) {
	p := NewByteBufferPool(32, 0)

	bb := p.Get()
	_, _ = bb.Write([]byte("data"))
	p.Put(bb)

	got := p.Get()
	require.Zero(t, got.Len())
	p.Put(nil)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := p.Get()
	bb.Grow(1024)
	p.Put(bb) // dropped

	fresh := p.Get()
	require.LessOrEqual(t, fresh.Cap(), 16)
}

func TestFileBuffer_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			bb := GetFileBuffer()
			defer PutFileBuffer(bb)

			_, _ = bb.Write([]byte{byte(i)})
			assert.Equal(t, []byte{byte(i)}, bb.Bytes())
		}()
	}
	wg.Wait()
}

func TestGetFloat64Slice(t *testing.T) {
	s, release := GetFloat64Slice(8)
	require.Len(t, s, 8)
	for i := range s {
		s[i] = float64(i)
	}
	release()

	s2, release2 := GetFloat64Slice(4)
	defer release2()
	require.Len(t, s2, 4)
	require.Equal(t, []float64{0, 0, 0, 0}, s2)
}
