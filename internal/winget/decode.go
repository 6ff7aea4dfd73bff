package winget

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw console bytes to text. The console code page depends on
// the user's locale, so UTF-8 is tried first, then GBK, then Latin-1. The
// Latin-1 step cannot fail, so Decode always returns printable text even when
// the guess is wrong.
func Decode(b []byte) string {
	b = bytes.TrimPrefix(b, utf8BOM)
	if utf8.Valid(b) {
		return string(b)
	}
	if s, ok := decodeGBK(b); ok {
		return s
	}
	return decodeLatin1(b)
}

func decodeGBK(b []byte) (string, bool) {
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	// The decoder substitutes U+FFFD for byte sequences that are not GBK.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

func decodeLatin1(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// unreachable: every byte maps to a Latin-1 code point
		runes := make([]rune, len(b))
		for i, c := range b {
			runes[i] = rune(c)
		}
		return string(runes)
	}
	return string(out)
}
