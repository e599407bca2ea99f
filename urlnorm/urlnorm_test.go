package urlnorm

import (
	"testing"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/index.html", "/index.html"},
		{"%41", "A"},
		{"a%20b", "a b"},
		{"%3Cscript%3E", "<script>"},
		{"%3cscript%3e", "<script>"}, // lower-case hex digits
		{"%2541", "A"},               // double-encoded
		{"%252541", "A"},             // triple-encoded
		{"%25", "%"},
		{"%%41", "%A"},   // first '%' is not an escape
		{"%G1", "%G1"},   // bad hex digit stays
		{"abc%", "abc%"}, // trailing '%' stays
		{"%4", "%4"},     // truncated escape stays
		{"%00", "\x00"},
		{"%ff%FE", "\xff\xfe"},
	}
	for _, c := range cases {
		if got := DecodeString(c.in); got != c.want {
			t.Errorf("DecodeString(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecode_Idempotent(t *testing.T) {
	inputs := []string{
		"%2541", "%3Cscript%3E", "plain", "%G1%", "a%25b%25c",
	}
	for _, in := range inputs {
		once := DecodeString(in)
		if twice := DecodeString(once); twice != once {
			t.Errorf("Decode(%q) not idempotent: %q then %q", in, once, twice)
		}
	}
}

func TestDecode_InputUntouched(t *testing.T) {
	in := []byte("%41%42")
	out := Decode(in)
	if string(in) != "%41%42" {
		t.Errorf("input was modified: %q", in)
	}
	if string(out) != "AB" {
		t.Errorf("Decode = %q, want %q", out, "AB")
	}
}

func TestDecode_NoEscapeReturnsInput(t *testing.T) {
	in := []byte("/plain/path")
	out := Decode(in)
	if &in[0] != &out[0] {
		t.Error("expected the input slice back when nothing decodes")
	}
}
