package compress

import (
	"bytes"
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/ubinary/format"
)

// LZ4Compressor handles LZ4 frames as written by the lz4 command line tool.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

func (c LZ4Compressor) Type() format.CompressionType {
	return format.CompressionLZ4
}

// Compress appends an LZ4 frame holding data to dst.
func (c LZ4Compressor) Compress(dst, data []byte) ([]byte, error) {
	out := bytes.NewBuffer(dst)

	w := lz4.NewWriter(out)
	if _, err := w.Write(data); err != nil {
		return dst, err
	}

	if err := w.Close(); err != nil {
		return dst, err
	}

	return out.Bytes(), nil
}

// Decompress appends the content of the LZ4 frame in data to dst.
func (c LZ4Compressor) Decompress(dst, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return dst, nil
	}

	out, err := readAll(dst, lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return dst, fmt.Errorf("lz4 decompression failed: %w", err)
	}

	return out, nil
}
