package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/ubinary/format"
)

// S2Compressor handles S2 framed streams. Snappy framed streams decode too.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Type() format.CompressionType {
	return format.CompressionS2
}

// Compress appends an S2 stream holding data to dst.
func (c S2Compressor) Compress(dst, data []byte) ([]byte, error) {
	out := bytes.NewBuffer(dst)

	w := s2.NewWriter(out)
	if _, err := w.Write(data); err != nil {
		return dst, err
	}

	if err := w.Close(); err != nil {
		return dst, err
	}

	return out.Bytes(), nil
}

// Decompress appends the content of the S2 stream in data to dst.
func (c S2Compressor) Decompress(dst, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return dst, nil
	}

	out, err := readAll(dst, s2.NewReader(bytes.NewReader(data)))
	if err != nil {
		return dst, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
