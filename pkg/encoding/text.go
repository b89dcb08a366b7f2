// Package encoding provides text decoding utilities for osu! file formats.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts raw file bytes to a UTF-8 string.
//
// A UTF-8 byte order mark is stripped and UTF-16 input with a byte order
// mark is transcoded. Lines that are still not valid UTF-8 are decoded as
// Shift-JIS, the legacy encoding of old beatmaps, one line at a time so
// valid lines are never reinterpreted.
func DecodeText(data []byte) string {
	result, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		result = data
	}
	if utf8.Valid(result) {
		return string(result)
	}

	var sb strings.Builder
	sb.Grow(len(result))
	for _, line := range strings.SplitAfter(string(result), "\n") {
		if !utf8.ValidString(line) {
			line = strings.ToValidUTF8(ShiftJISToUTF8([]byte(line)), "\uFFFD")
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// ShiftJISToUTF8 converts Shift-JIS encoded bytes to a UTF-8 string.
// Returns the original string if conversion fails.
func ShiftJISToUTF8(data []byte) string {
	result, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// CleanFilename trims whitespace and surrounding double quotes from a
// file reference and converts backslashes to forward slashes.
func CleanFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"")
	return strings.ReplaceAll(s, "\\", "/")
}

// NormalizePath normalizes an archive path for case-insensitive lookup.
func NormalizePath(path string) string {
	return strings.ToLower(CleanFilename(path))
}
