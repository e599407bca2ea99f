package syntax

import (
	"errors"
	"testing"
)

func TestTokenLen(t *testing.T) {
	cases := []struct {
		pattern string
		at      int
		want    int
	}{
		{"abc", 0, 1},
		{".", 0, 1},
		{`\d`, 0, 2},
		{`\.`, 0, 2},
		{`\xFF`, 0, 4},
		{`a\x41b`, 1, 4},
		{"[abc]", 0, 5},
		{"[a-z]x", 0, 5},
		{"[]x]", 0, 2}, // empty class body; ']' closes immediately
		{`[\]]`, 0, 4}, // escaped ']' stays inside the class
		{`[\x41-\x5A]`, 0, 11},
	}
	for _, c := range cases {
		got, err := TokenLen(c.pattern, c.at)
		if err != nil {
			t.Errorf("TokenLen(%q, %d): unexpected error %v", c.pattern, c.at, err)
			continue
		}
		if got != c.want {
			t.Errorf("TokenLen(%q, %d) = %d, want %d", c.pattern, c.at, got, c.want)
		}
	}
}

func TestTokenLenErrors(t *testing.T) {
	cases := []struct {
		pattern string
		at      int
		code    ErrorCode
	}{
		{"[abc", 0, ErrInvalidCharacterSet},
		{`[a\]`, 0, ErrInvalidCharacterSet},
		{`\`, 0, ErrInvalidMetacharacter},
		{`\q`, 0, ErrInvalidMetacharacter},
		{`\x`, 0, ErrInvalidMetacharacter},
		{`\x4`, 0, ErrInvalidMetacharacter},
		{`\xZZ`, 0, ErrInvalidMetacharacter},
	}
	for _, c := range cases {
		_, err := TokenLen(c.pattern, c.at)
		var serr *Error
		if !errors.As(err, &serr) {
			t.Errorf("TokenLen(%q, %d): expected *Error, got %v", c.pattern, c.at, err)
			continue
		}
		if serr.Code != c.code {
			t.Errorf("TokenLen(%q, %d): code = %v, want %v", c.pattern, c.at, serr.Code, c.code)
		}
	}
}

func TestMatchToken(t *testing.T) {
	cases := []struct {
		tok  string
		b    byte
		fold bool
		want bool
	}{
		{"a", 'a', false, true},
		{"a", 'A', false, false},
		{"a", 'A', true, true},
		{".", 0x00, false, true},
		{".", '\n', false, true},
		{`\s`, ' ', false, true},
		{`\s`, '\t', false, true},
		{`\s`, 'x', false, false},
		{`\S`, 'x', false, true},
		{`\S`, ' ', false, false},
		{`\d`, '7', false, true},
		{`\d`, 'a', false, false},
		{`\n`, '\n', false, true},
		{`\r`, '\r', false, true},
		{`\t`, '\t', false, true},
		{`\v`, '\v', false, true},
		{`\f`, '\f', false, true},
		{`\b`, '\b', false, true},
		{`\x41`, 'A', false, true},
		{`\x41`, 'a', false, false},
		{`\xff`, 0xFF, false, true},
		{`\.`, '.', false, true},
		{`\.`, 'x', false, false},
		{`\*`, '*', false, true},
		{"$", '$', false, false}, // anchors match no byte
		{"|", '|', false, false},
	}
	for _, c := range cases {
		if got := MatchToken(c.tok, c.b, c.fold); got != c.want {
			t.Errorf("MatchToken(%q, %q, fold=%v) = %v, want %v", c.tok, c.b, c.fold, got, c.want)
		}
	}
}

func TestMatchClass(t *testing.T) {
	cases := []struct {
		body string
		b    byte
		fold bool
		want bool
	}{
		{"abc", 'b', false, true},
		{"abc", 'd', false, false},
		{"a-z", 'm', false, true},
		{"a-z", 'M', false, false},
		{"a-z", 'M', true, true},
		{"^a-z", 'M', false, true},
		{"^a-z", 'm', false, false},
		{"0-9a-f", 'c', false, true},
		{"0-9a-f", 'g', false, false},
		{"a-", '-', false, true}, // trailing '-' is a literal
		{"a-", 'a', false, true},
		{"a-", 'b', false, false},
		{"-x", '-', false, true}, // leading '-' is a literal
		{`\d`, '5', false, true},
		{`\s\d`, '\t', false, true},
		{`^\s`, 'x', false, true},
		{`^\s`, ' ', false, false},
		{`\x41-\x43`, 'B', false, false}, // escapes are single tokens, not range endpoints
		{`\x41`, 'A', false, true},
		{"", 'a', false, false},
		{"^", 'a', false, true}, // negated empty class matches anything
	}
	for _, c := range cases {
		if got := MatchClass(c.body, c.b, c.fold); got != c.want {
			t.Errorf("MatchClass(%q, %q, fold=%v) = %v, want %v", c.body, c.b, c.fold, got, c.want)
		}
	}
}
