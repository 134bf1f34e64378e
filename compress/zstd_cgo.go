//go:build cgo && gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"

	"github.com/arloliu/ubinary/format"
)

// ZstdCompressor handles Zstandard frames through the libzstd bindings.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}

// Compress appends a Zstandard frame holding data to dst.
func (c ZstdCompressor) Compress(dst, data []byte) ([]byte, error) {
	return gozstd.CompressLevel(dst, data, 3), nil
}

// Decompress appends the content of the Zstandard frames in data to dst.
func (c ZstdCompressor) Decompress(dst, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return dst, nil
	}

	out, err := gozstd.Decompress(dst, data)
	if err != nil {
		return dst, fmt.Errorf("zstd decompression failed: %w", err)
	}

	if len(out)-len(dst) > MaxDecompressedSize {
		return dst, fmt.Errorf("decompressed size exceeds %d bytes", MaxDecompressedSize)
	}

	return out, nil
}
