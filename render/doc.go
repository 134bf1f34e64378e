// Package render writes decoded values in a fixed set of output formats.
//
// JSON, MessagePack and YAML keep cluster fields in decode order. CBOR uses
// Core Deterministic Encoding (RFC 8949 §4.2), which sorts map keys, so the
// same value always produces the same bytes. The tree format is a styled,
// human-oriented outline; it only uses color when the writer is a terminal.
//
// Multi-dimensional arrays are nested row by row in storage order. Waveform
// attributes are rendered as a hex string and unknown words as a small map
// flagged lowConfidence.
package render
