package compress

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
	"github.com/arloliu/ubinary/internal/pool"
)

// MaxDecompressedSize bounds the output of a single decompression.
const MaxDecompressedSize = 1 << 30

// Compressor appends the compressed form of data to dst.
type Compressor interface {
	Compress(dst, data []byte) ([]byte, error)
}

// Decompressor appends the decompressed form of data to dst.
//
// Implementations return an error for corrupt input or when the output would
// exceed MaxDecompressedSize.
type Decompressor interface {
	Decompress(dst, data []byte) ([]byte, error)
}

// Codec combines both directions with the compression type it handles.
type Codec interface {
	Compressor
	Decompressor
	Type() format.CompressionType
}

var (
	zstdMagic   = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic    = []byte{0x04, 0x22, 0x4D, 0x18}
	s2Magic     = []byte("\xff\x06\x00\x00S2sTwO")
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// Detect returns the compression type announced by the leading bytes of
// data, or format.CompressionNone.
func Detect(data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return format.CompressionLZ4
	case bytes.HasPrefix(data, s2Magic), bytes.HasPrefix(data, snappyMagic):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}

// ForExtension maps a file name to the compression its extension implies.
func ForExtension(path string) (format.CompressionType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return format.CompressionZstd, true
	case ".s2", ".sz":
		return format.CompressionS2, true
	case ".lz4":
		return format.CompressionLZ4, true
	default:
		return format.CompressionNone, false
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in codec for a compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// readAll appends everything r yields to dst, failing past MaxDecompressedSize.
func readAll(dst []byte, r io.Reader) ([]byte, error) {
	bb := &pool.ByteBuffer{B: dst}
	start := bb.Len()

	_, err := bb.ReadFrom(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return dst, err
	}

	if bb.Len()-start > MaxDecompressedSize {
		return dst, fmt.Errorf("decompressed size exceeds %d bytes", MaxDecompressedSize)
	}

	return bb.B, nil
}
