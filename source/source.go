// Package source loads ubinary containers from disk into pooled buffers.
//
// Compressed containers are unwrapped on load; see package compress for the
// supported formats. A File must be released once its decoded values are no
// longer tied to it. Decoded value trees never alias the buffer, so releasing
// right after decoding is safe.
package source

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/ubinary/compress"
	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
	"github.com/arloliu/ubinary/internal/pool"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the source package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})

	return logger
}

// SetLogger configures the source package's logger.
func SetLogger(l *zap.Logger) {
	logger = l
}

// File is a loaded container.
type File struct {
	// Path is the file the data came from, or the name given to Read.
	Path string
	// Compression is the wrapping removed on load.
	Compression format.CompressionType
	// Size is the number of bytes read before decompression.
	Size int

	buf *pool.ByteBuffer
}

// Bytes returns the container bytes. They are valid until Release.
func (f *File) Bytes() []byte {
	if f.buf == nil {
		return nil
	}

	return f.buf.Bytes()
}

// Release returns the buffer to the pool. Bytes returns nil afterwards.
func (f *File) Release() {
	if f.buf == nil {
		return
	}

	pool.PutFileBuffer(f.buf)
	f.buf = nil
}

// Load reads the file at path and removes any compression.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	hint := 0
	if st, err := fh.Stat(); err == nil && st.Size() > 0 && st.Size() <= compress.MaxDecompressedSize {
		hint = int(st.Size())
	}

	return read(fh, path, hint)
}

// Read loads a container from r. name is used for the extension hint and in
// error messages.
func Read(r io.Reader, name string) (*File, error) {
	return read(r, name, 0)
}

func read(r io.Reader, name string, hint int) (*File, error) {
	start := time.Now()

	raw := pool.GetFileBuffer()
	raw.Grow(hint)

	if _, err := raw.ReadFrom(r); err != nil {
		pool.PutFileBuffer(raw)
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	f := &File{Path: name, Size: raw.Len(), Compression: format.CompressionNone, buf: raw}

	detected := compress.Detect(raw.Bytes())
	if byExt, ok := compress.ForExtension(name); ok && detected != byExt {
		pool.PutFileBuffer(raw)
		return nil, fmt.Errorf("%w: %s has a %s extension but no %s header",
			errs.ErrUnsupportedCompression, name, byExt, byExt)
	}

	if detected != format.CompressionNone {
		if err := f.unwrap(detected); err != nil {
			pool.PutFileBuffer(raw)
			return nil, fmt.Errorf("decompress %s: %w", name, err)
		}
	}

	Logger().Debug("source loaded",
		zap.String("path", name),
		zap.Stringer("compression", f.Compression),
		zap.Int("size", f.Size),
		zap.Int("bytes", len(f.Bytes())),
		zap.Duration("elapsed", time.Since(start)))

	return f, nil
}

// unwrap replaces the raw buffer by its decompressed form.
func (f *File) unwrap(ct format.CompressionType) error {
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return err
	}

	out := pool.GetFileBuffer()

	data, err := codec.Decompress(out.B[:0], f.buf.Bytes())
	if err != nil {
		pool.PutFileBuffer(out)
		return err
	}
	out.B = data

	pool.PutFileBuffer(f.buf)
	f.buf = out
	f.Compression = ct

	return nil
}
