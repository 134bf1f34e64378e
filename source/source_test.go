package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ubinary/compress"
	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
	"github.com/arloliu/ubinary/internal/fixture"
)

func container() []byte {
	return fixture.New().Tag("ubinary").
		Tag("run").Header([]string{"a"}, []uint16{10}).F64(1.25).
		Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestLoad_Plain(t *testing.T) {
	data := container()
	path := writeFile(t, "run.bin", data)

	f, err := Load(path)
	require.NoError(t, err)
	defer f.Release()

	require.Equal(t, path, f.Path)
	require.Equal(t, format.CompressionNone, f.Compression)
	require.Equal(t, len(data), f.Size)
	require.Equal(t, data, f.Bytes())
}

func TestLoad_Compressed(t *testing.T) {
	data := container()

	tests := []struct {
		name string
		file string
		ct   format.CompressionType
	}{
		{"zstd by extension", "run.bin.zst", format.CompressionZstd},
		{"s2 by extension", "run.bin.s2", format.CompressionS2},
		{"lz4 by extension", "run.bin.lz4", format.CompressionLZ4},
		{"zstd by magic only", "run.bin", format.CompressionZstd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := compress.GetCodec(tt.ct)
			require.NoError(t, err)

			packed, err := codec.Compress(nil, data)
			require.NoError(t, err)

			f, err := Load(writeFile(t, tt.file, packed))
			require.NoError(t, err)
			defer f.Release()

			require.Equal(t, tt.ct, f.Compression)
			require.Equal(t, len(packed), f.Size)
			require.Equal(t, data, f.Bytes())
		})
	}
}

func TestLoad_ExtensionWithoutHeader(t *testing.T) {
	_, err := Load(writeFile(t, "run.zst", container()))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.bin"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_CorruptCompressed(t *testing.T) {
	bad := append([]byte{0x04, 0x22, 0x4D, 0x18}, bytes.Repeat([]byte{0xff}, 16)...)

	_, err := Load(writeFile(t, "run.lz4", bad))
	require.Error(t, err)
}

func TestRead_Reader(t *testing.T) {
	data := container()

	f, err := Read(bytes.NewReader(data), "stdin")
	require.NoError(t, err)

	require.Equal(t, data, f.Bytes())
	f.Release()
	require.Nil(t, f.Bytes())
	f.Release()
}
