// Package payload implements the text to URL-safe token transform used to
// embed fragment content into a target's long URL.
//
// The token format is LZ-string Base64 over ASCII-escaped text, remapped to
// a URL-safe alphabet and reversed. Consumers never need to decode it here;
// the destination applications own the inverse transform.
package payload

import (
	"fmt"
	"strings"

	lzstring "github.com/daku10/go-lz-string"
)

// Encoder turns fragment text into URL-safe payload tokens. The zero value
// is ready to use.
type Encoder struct{}

// Encode transforms text deterministically: every non-ASCII rune becomes its
// decimal XML character reference, the result is LZ-string compressed to
// Base64, '+' and '/' are remapped to '-' and '_', '=' padding is stripped,
// and the whole token is reversed. The output contains no characters that
// need URL escaping.
func (Encoder) Encode(text string) (string, error) {
	compressed, err := lzstring.CompressToBase64(escapeNonASCII(text))
	if err != nil {
		return "", fmt.Errorf("payload: compress: %w", err)
	}
	token := strings.NewReplacer("+", "-", "/", "_").Replace(compressed)
	token = strings.TrimRight(token, "=")
	return reverse(token), nil
}

// escapeNonASCII replaces every rune above 0x7F with its decimal XML
// character reference, e.g. 'é' becomes "&#233;".
func escapeNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
		} else {
			fmt.Fprintf(&b, "&#%d;", r)
		}
	}
	return b.String()
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
