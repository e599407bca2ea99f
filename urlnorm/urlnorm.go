/*
Package urlnorm normalizes percent-encoded URI text before it reaches a
matcher.

Attackers stack encodings ("%2541" is "%41" is "A"), so a single decoding
pass is not enough: Decode repeats until a pass makes no replacement.
Malformed escapes -- a trailing '%', or '%' followed by anything but two
hex digits -- are left exactly as they are rather than rejected, because
the bytes still need to be inspected. Decoding is idempotent: running it
over already-decoded text returns the text unchanged.
*/
package urlnorm

import "bytes"

// Decode percent-decodes b repeatedly until no %HH escapes remain. The
// input is never modified; when nothing needs decoding the input slice is
// returned as-is.
func Decode(b []byte) []byte {
	for {
		out, changed := decodeOnce(b)
		if !changed {
			return out
		}
		b = out
	}
}

// DecodeString is Decode over string text.
func DecodeString(s string) string {
	return string(Decode([]byte(s)))
}

// decodeOnce replaces every well-formed %HH in one left-to-right sweep.
func decodeOnce(b []byte) ([]byte, bool) {
	if bytes.IndexByte(b, '%') < 0 {
		return b, false
	}

	out := make([]byte, 0, len(b))
	changed := false
	for i := 0; i < len(b); i++ {
		if b[i] == '%' && i+2 < len(b) && isHexDigit(b[i+1]) && isHexDigit(b[i+2]) {
			out = append(out, hexByte(b[i+1], b[i+2]))
			i += 2
			changed = true
			continue
		}
		out = append(out, b[i])
	}
	return out, changed
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexByte(hi, lo byte) byte {
	return hexVal(hi)<<4 | hexVal(lo)
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}
