package syntax

import "strings"

// The bytes that may legally follow a backslash. Escaping anything else is
// an ErrInvalidMetacharacter.
const metacharacters = `^$().[]*+?|\Ssdbfnrtv`

func isMetachar(b byte) bool {
	return strings.IndexByte(metacharacters, b) >= 0
}

// IsQuantifier reports whether b is one of the repetition operators.
func IsQuantifier(b byte) bool {
	return b == '*' || b == '+' || b == '?'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) byte {
	if b >= '0' && b <= '9' {
		return b - '0'
	}
	return lowerByte(b) - 'a' + 10
}

func hexByte(hi, lo byte) byte {
	return hexVal(hi)<<4 | hexVal(lo)
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// isSpace matches the classic C locale whitespace set.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// escLen is the byte length of the single (possibly escaped) token at
// pattern[i:], without validating it. Escapes are 2 bytes, \xHH is 4,
// everything else is 1.
func escLen(pattern string, i int) int {
	if pattern[i] != '\\' {
		return 1
	}
	if i+1 < len(pattern) && pattern[i+1] == 'x' {
		return 4
	}
	return 2
}

// TokenLen returns the length in bytes of the pattern token starting at i:
// 1 for an ordinary byte, 2 for an escape, 4 for \xHH, and for '[' the
// length of the whole character class through its closing ']'. Malformed
// escapes and unterminated classes are rejected here, so one analysis pass
// validates every token it measures.
func TokenLen(pattern string, i int) (int, error) {
	switch pattern[i] {
	case '[':
		j := i + 1
		for j < len(pattern) && pattern[j] != ']' {
			j += escLen(pattern, j)
		}
		if j >= len(pattern) {
			return 0, newError(ErrInvalidCharacterSet, pattern)
		}
		return j - i + 1, nil
	case '\\':
		if i+1 >= len(pattern) {
			return 0, newError(ErrInvalidMetacharacter, pattern)
		}
		if pattern[i+1] == 'x' {
			if i+3 >= len(pattern) || !isHexDigit(pattern[i+2]) || !isHexDigit(pattern[i+3]) {
				return 0, newError(ErrInvalidMetacharacter, pattern)
			}
			return 4, nil
		}
		if !isMetachar(pattern[i+1]) {
			return 0, newError(ErrInvalidMetacharacter, pattern)
		}
		return 2, nil
	}
	return 1, nil
}

// MatchToken evaluates the single token at the start of tok against one
// subject byte. tok must be at least escLen bytes long; the caller hands in
// the exact token span it measured with TokenLen.
func MatchToken(tok string, b byte, foldCase bool) bool {
	switch tok[0] {
	case '\\':
		switch tok[1] {
		case 'S':
			return !isSpace(b)
		case 's':
			return isSpace(b)
		case 'd':
			return isDigit(b)
		case 'b':
			return b == '\b'
		case 'f':
			return b == '\f'
		case 'n':
			return b == '\n'
		case 'r':
			return b == '\r'
		case 't':
			return b == '\t'
		case 'v':
			return b == '\v'
		case 'x':
			return hexByte(tok[2], tok[3]) == b
		default:
			// Escaped metacharacter matches itself, never folded.
			return tok[1] == b
		}
	case '$', '|':
		// Anchors and alternation are resolved by the matcher; as plain
		// tokens (inside a class body) they match nothing.
		return false
	case '.':
		return true
	}
	if foldCase {
		return lowerByte(tok[0]) == lowerByte(b)
	}
	return tok[0] == b
}

// MatchClass evaluates a character class against one subject byte. body is
// the text between '[' and ']', exclusive. A leading '^' negates the class.
// 'a-b' is an inclusive byte range unless the '-' is the last byte of the
// body, in which case it is a literal.
func MatchClass(body string, b byte, foldCase bool) bool {
	negate := false
	if len(body) > 0 && body[0] == '^' {
		negate = true
		body = body[1:]
	}

	matched := false
	for i := 0; i < len(body) && !matched; {
		if body[i] != '-' && i+2 < len(body) && body[i+1] == '-' {
			lo, hi, c := body[i], body[i+2], b
			if foldCase {
				lo, hi, c = lowerByte(lo), lowerByte(hi), lowerByte(c)
			}
			matched = c >= lo && c <= hi
			i += 3
			continue
		}
		n := escLen(body, i)
		if i+n > len(body) {
			// Truncated escape; a validated class never ends this way.
			break
		}
		matched = MatchToken(body[i:], b, foldCase)
		i += n
	}

	return matched != negate
}
