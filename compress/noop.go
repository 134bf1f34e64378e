package compress

import "github.com/arloliu/ubinary/format"

// NoOpCompressor passes data through unchanged.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

func (c NoOpCompressor) Type() format.CompressionType {
	return format.CompressionNone
}

// Compress appends data to dst.
func (c NoOpCompressor) Compress(dst, data []byte) ([]byte, error) {
	return append(dst, data...), nil
}

// Decompress appends data to dst.
func (c NoOpCompressor) Decompress(dst, data []byte) ([]byte, error) {
	return append(dst, data...), nil
}
