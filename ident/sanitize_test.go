package ident

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid unchanged", "voltage", "voltage"},
		{"valid with digits", "ch2_gain", "ch2_gain"},
		{"leading digit and punctuation", "2 bad name!", "x2BadName"},
		{"whitespace camel case", "sample rate hz", "sampleRateHz"},
		{"whitespace run", "a \t  b", "aB"},
		{"trailing whitespace", "gain  ", "gain"},
		{"leading whitespace", "  gain", "xGain"},
		{"punctuation stripped", "Rate (Hz)", "RateHz"},
		{"leading underscore", "_hidden", "x_hidden"},
		{"go keyword", "for", "xFor"},
		{"scripting keyword", "end", "xEnd"},
		{"only punctuation", "!!!", "x"},
		{"empty", "", "x"},
		{"non ascii dropped", "température", "temprature"},
		{"non ascii first", "éclair", "xclair"},
		{"digit after space stays", "ch 2", "ch2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			require.Equal(t, tt.want, got)
			require.True(t, IsValid(got), "result %q must be valid", got)
		})
	}
}

func TestSanitize_Truncates(t *testing.T) {
	long := strings.Repeat("ab ", 40)

	got := Sanitize(long)

	require.Len(t, got, MaxLength)
	require.True(t, IsValid(got))
	require.True(t, strings.HasPrefix(got, "abAbAb"))
}

func TestSanitize_LongValidNameTruncated(t *testing.T) {
	long := strings.Repeat("a", MaxLength+10)

	require.False(t, IsValid(long))
	require.Equal(t, strings.Repeat("a", MaxLength), Sanitize(long))
}

func TestSanitize_BadNameProperties(t *testing.T) {
	got := Sanitize("2 bad name!")

	require.False(t, got[0] >= '0' && got[0] <= '9')
	require.NotContains(t, got, " ")
	require.NotContains(t, got, "!")
	require.Contains(t, got, "Bad")
}

func TestIsValid(t *testing.T) {
	require.True(t, IsValid("a"))
	require.True(t, IsValid("A_1"))
	require.False(t, IsValid(""))
	require.False(t, IsValid("1a"))
	require.False(t, IsValid("a-b"))
	require.False(t, IsValid("func"))
	require.True(t, IsKeyword("while"))
	require.False(t, IsKeyword("whilst"))
}
