// Package endian provides the byte order used to read ubinary containers.
//
// The container is little-endian throughout. EndianEngine bundles the
// ByteOrder and AppendByteOrder interfaces of encoding/binary so that the
// decoder and the test fixture builders share one value:
//
//	engine := endian.GetLittleEndianEngine()
//	n := engine.Uint32(buf[cur:])
//	fixture = engine.AppendUint32(fixture, n)
//
// The decoder also asks whether the host shares the container's byte order;
// when it does, fixed-width arrays are copied in bulk instead of being read
// element by element.
//
// All functions are safe for concurrent use. The returned engines are
// stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness inspects a known integer in memory to find the host byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100: a little-endian host stores the 0x00 byte first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the engine for the container byte order.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
