// Package ident turns arbitrary header text into safe field identifiers.
//
// Field names in a segment header are free text typed by the instrument
// operator ("Sample Rate (Hz)", "2nd channel", ""). Sanitize maps them onto a
// stable identifier alphabet so decoded clusters can be addressed by path.
package ident

import (
	"strings"
	"unicode"
)

const (
	// MaxLength is the longest identifier Sanitize returns.
	MaxLength = 63

	// Filler is prefixed to names that do not start with a letter or that
	// collide with a keyword.
	Filler = "x"

	// Placeholder is returned when nothing survives sanitization.
	Placeholder = "x"
)

// keywords lists the reserved words of the Go language and of the
// instrument's scripting environment. Both are rejected as field names.
var keywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},

	"catch": {}, "classdef": {}, "elseif": {}, "end": {}, "function": {},
	"global": {}, "otherwise": {}, "parfor": {}, "persistent": {},
	"spmd": {}, "try": {}, "while": {},
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// IsValid reports whether s can be used as a field identifier unchanged.
func IsValid(s string) bool {
	if s == "" || len(s) > MaxLength || !isLetter(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}

	return !IsKeyword(s)
}

// Sanitize converts text into a valid identifier.
//
// Valid identifiers are returned unchanged. Otherwise a filler letter is
// prefixed when the text does not start with a letter, whitespace runs are
// removed with the following character upper-cased, every remaining byte
// outside [A-Za-z0-9_] is dropped, keywords become "x" plus the capitalized
// keyword and the result is cut to MaxLength. An empty result yields
// Placeholder.
func Sanitize(text string) string {
	if IsValid(text) {
		return text
	}

	if text == "" {
		return Placeholder
	}

	if !isLetter(text[0]) {
		text = Filler + text
	}

	var b strings.Builder
	b.Grow(len(text))

	upperNext := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			upperNext = b.Len() > 0
			continue
		}

		if r >= unicode.MaxASCII || !isIdentByte(byte(r)) {
			continue
		}

		c := byte(r)
		if upperNext && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upperNext = false
		b.WriteByte(c)
	}

	out := b.String()
	if out == "" {
		return Placeholder
	}

	if IsKeyword(out) {
		out = Filler + strings.ToUpper(out[:1]) + out[1:]
	}

	if len(out) > MaxLength {
		out = out[:MaxLength]
	}

	return out
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
