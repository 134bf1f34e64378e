package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	var probe uint16 = 0x0102
	first := (*[2]byte)(unsafe.Pointer(&probe))[0]

	switch first {
	case 0x01:
		require.Equal(t, binary.BigEndian, CheckEndianness())
		require.False(t, IsNativeLittleEndian())
	case 0x02:
		require.Equal(t, binary.LittleEndian, CheckEndianness())
		require.True(t, IsNativeLittleEndian())
	default:
		require.Failf(t, "unexpected probe byte", "got %v", first)
	}
}

func TestCompareNativeEndian(t *testing.T) {
	engine := GetLittleEndianEngine()

	require.Equal(t, IsNativeLittleEndian(), CompareNativeEndian(engine))
	require.Equal(t, !IsNativeLittleEndian(), CompareNativeEndian(binary.BigEndian))
}

func TestLittleEndianEngine_ReadAppend(t *testing.T) {
	engine := GetLittleEndianEngine()

	buf := engine.AppendUint32(nil, 0x01020304)
	buf = engine.AppendUint16(buf, 0xBEEF)

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0xEF, 0xBE}, buf)
	require.Equal(t, uint32(0x01020304), engine.Uint32(buf))
	require.Equal(t, uint16(0xBEEF), engine.Uint16(buf[4:]))
}
