// Package format holds the wire-level vocabulary of the ubinary container:
// type codes, their byte widths and decode strategies, the waveform layout
// constants and the compression types accepted for source files.
package format

import "strconv"

// TypeCode names the kind of one structural node in a segment header.
type TypeCode uint16

const (
	TypeInt8     TypeCode = 1
	TypeInt16    TypeCode = 2
	TypeInt32    TypeCode = 3
	TypeInt64    TypeCode = 4
	TypeUint8    TypeCode = 5
	TypeUint16   TypeCode = 6
	TypeUint32   TypeCode = 7
	TypeUint64   TypeCode = 8
	TypeFloat32  TypeCode = 9
	TypeFloat64  TypeCode = 10
	TypeEnum     TypeCode = 22 // enum, stored as uint16
	TypeTab      TypeCode = 23 // tab control, stored as uint32
	TypeBool     TypeCode = 33
	TypeString   TypeCode = 48
	TypePicture  TypeCode = 51 // legacy picture, string layout
	TypeRefnum   TypeCode = 55 // resource handle, string layout
	TypeRefnum2  TypeCode = 112
	TypeArray    TypeCode = 64
	TypeCluster  TypeCode = 80
	TypeWaveform TypeCode = 84
)

// Strategy selects how a node is decoded.
type Strategy uint8

const (
	StrategyUnknown  Strategy = iota // 4-byte fallback, low confidence
	StrategyFixed                    // fixed-width little-endian primitive
	StrategyBool                     // one byte, nonzero is true
	StrategyText                     // uint32 length prefix followed by bytes
	StrategyArray                    // dimension header followed by elements
	StrategyCluster                  // member nodes, no delimiters
	StrategyWaveform                 // fixed waveform record
)

// Primitive is the Go kind a fixed-width code decodes to.
type Primitive uint8

const (
	PrimNone Primitive = iota
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimFloat32
	PrimFloat64
	PrimBool
)

// TypeInfo is one row of the type table.
type TypeInfo struct {
	Name      string
	Width     int // element width in bytes; 0 for variable-size strategies
	Strategy  Strategy
	Primitive Primitive
}

const (
	// UnknownWidth is the number of bytes consumed for an unrecognized code.
	UnknownWidth = 4

	// TextPrefixSize is the size of the text length prefix.
	TextPrefixSize = 4

	// DimSize is the size of one dimension count or dimension length.
	DimSize = 4

	// MaxArrayDims bounds the dimension count of any array.
	MaxArrayDims = 8

	// MaxNesting bounds how deeply clusters and arrays may nest.
	MaxNesting = 256

	// HeaderMaxDims is the dimension count of the name and type tables.
	HeaderMaxDims = 1

	// WaveformAttrSize is the size of the opaque waveform attribute blob.
	WaveformAttrSize = 29

	// WaveformFixedSize is the fixed part of a waveform before the sample array.
	WaveformFixedSize = 24

	// EpochOffset converts the instrument's 1904-based seconds to Unix seconds.
	EpochOffset int64 = 2082844800

	// ReservedTag is the tag marking the format itself; it never names a segment.
	ReservedTag = "ubinary"
)

var typeTable = map[TypeCode]TypeInfo{
	TypeInt8:     {Name: "int8", Width: 1, Strategy: StrategyFixed, Primitive: PrimInt8},
	TypeInt16:    {Name: "int16", Width: 2, Strategy: StrategyFixed, Primitive: PrimInt16},
	TypeInt32:    {Name: "int32", Width: 4, Strategy: StrategyFixed, Primitive: PrimInt32},
	TypeInt64:    {Name: "int64", Width: 8, Strategy: StrategyFixed, Primitive: PrimInt64},
	TypeUint8:    {Name: "uint8", Width: 1, Strategy: StrategyFixed, Primitive: PrimUint8},
	TypeUint16:   {Name: "uint16", Width: 2, Strategy: StrategyFixed, Primitive: PrimUint16},
	TypeUint32:   {Name: "uint32", Width: 4, Strategy: StrategyFixed, Primitive: PrimUint32},
	TypeUint64:   {Name: "uint64", Width: 8, Strategy: StrategyFixed, Primitive: PrimUint64},
	TypeFloat32:  {Name: "float32", Width: 4, Strategy: StrategyFixed, Primitive: PrimFloat32},
	TypeFloat64:  {Name: "float64", Width: 8, Strategy: StrategyFixed, Primitive: PrimFloat64},
	TypeEnum:     {Name: "enum", Width: 2, Strategy: StrategyFixed, Primitive: PrimUint16},
	TypeTab:      {Name: "tab", Width: 4, Strategy: StrategyFixed, Primitive: PrimUint32},
	TypeBool:     {Name: "bool", Width: 1, Strategy: StrategyBool, Primitive: PrimBool},
	TypeString:   {Name: "string", Strategy: StrategyText},
	TypePicture:  {Name: "picture", Strategy: StrategyText},
	TypeRefnum:   {Name: "refnum", Strategy: StrategyText},
	TypeRefnum2:  {Name: "refnum2", Strategy: StrategyText},
	TypeArray:    {Name: "array", Strategy: StrategyArray},
	TypeCluster:  {Name: "cluster", Strategy: StrategyCluster},
	TypeWaveform: {Name: "waveform", Strategy: StrategyWaveform},
}

// Lookup returns the table row for code. Unknown codes get the 4-byte
// fallback row and ok == false.
func Lookup(code TypeCode) (TypeInfo, bool) {
	info, ok := typeTable[code]
	if !ok {
		return TypeInfo{Name: "unknown", Width: UnknownWidth, Strategy: StrategyUnknown}, false
	}

	return info, true
}

// Known reports whether code is in the type table.
func (c TypeCode) Known() bool {
	_, ok := typeTable[c]
	return ok
}

// Strategy returns the decode strategy of the code.
func (c TypeCode) Strategy() Strategy {
	info, _ := Lookup(c)
	return info.Strategy
}

// IsBulk reports whether elements of this code can be decoded as one run.
func (c TypeCode) IsBulk() bool {
	switch c.Strategy() {
	case StrategyFixed, StrategyBool, StrategyText:
		return true
	default:
		return false
	}
}

// String returns the type name, or "unknown(N)" for codes outside the table.
func (c TypeCode) String() string {
	if info, ok := typeTable[c]; ok {
		return info.Name
	}

	return "unknown(" + strconv.Itoa(int(c)) + ")"
}

func (s Strategy) String() string {
	switch s {
	case StrategyFixed:
		return "Fixed"
	case StrategyBool:
		return "Bool"
	case StrategyText:
		return "Text"
	case StrategyArray:
		return "Array"
	case StrategyCluster:
		return "Cluster"
	case StrategyWaveform:
		return "Waveform"
	default:
		return "Unknown"
	}
}
