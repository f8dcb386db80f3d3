// Package wintext converts between Go strings and the Windows-1252 byte
// strings the game's file formats store.
package wintext

import (
	"golang.org/x/text/encoding/charmap"
)

// Decode converts Windows-1252 bytes to a string. Undefined code points
// decode to U+FFFD, matching the charmap table.
func Decode(b []byte) string {
	if isASCII(b) {
		return string(b)
	}
	out := make([]rune, len(b))
	for i, c := range b {
		out[i] = charmap.Windows1252.DecodeByte(c)
	}
	return string(out)
}

// Encode converts a string to Windows-1252 bytes. Unmappable runes encode
// as '?', so serialization never fails on odd input.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, c)
		} else {
			out = append(out, '?')
		}
	}
	return out
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
