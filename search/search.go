/*
Package search provides multi-pattern literal scanning over payload bytes.

It fronts an Aho-Corasick automaton with the small token tables an HTTP
inspector actually hunts for: the script-tag opener in URIs and bodies,
and the script-type names that classify an embedded script block. Scanning
a payload for these literals is much cheaper than running full patterns,
so callers typically use a Tool as a prefilter and only fall through to a
matcher on a hit.
*/
package search

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/coregx/ahocorasick"
)

// IDs reported by the predefined token tables.
const (
	TokenJavaScript = iota
	TokenHTMLJS
	TokenHTMLEcma
	TokenHTMLVB
)

// Token is one literal to hunt for, tagged with a caller-chosen id.
type Token struct {
	Name string
	ID   int
}

// ScriptTokens flags inline script injection in request URIs.
var ScriptTokens = []Token{
	{Name: "<SCRIPT", ID: TokenJavaScript},
}

// HTMLTypeTokens classifies the script language named in a script block.
var HTMLTypeTokens = []Token{
	{Name: "JAVASCRIPT", ID: TokenHTMLJS},
	{Name: "ECMASCRIPT", ID: TokenHTMLEcma},
	{Name: "VBSCRIPT", ID: TokenHTMLVB},
}

// Hit is one token occurrence in the scanned data.
type Hit struct {
	ID     int
	Index  int
	Length int
}

// Tool scans byte data for a fixed token set in one pass. It is immutable
// after New and safe for concurrent use.
type Tool struct {
	auto   *ahocorasick.Automaton
	tokens []Token
	names  [][]byte // token names as added to the automaton
	fold   bool
}

// New builds a Tool for the given tokens. With caseSensitive false the
// scan ignores case, which is what protocol inspection wants.
func New(tokens []Token, caseSensitive bool) (*Tool, error) {
	if len(tokens) == 0 {
		return nil, errors.New("search: no tokens")
	}

	t := &Tool{
		tokens: append([]Token(nil), tokens...),
		names:  make([][]byte, 0, len(tokens)),
		fold:   !caseSensitive,
	}

	builder := ahocorasick.NewBuilder()
	for _, tok := range t.tokens {
		if tok.Name == "" {
			return nil, errors.New("search: empty token name")
		}
		name := []byte(tok.Name)
		if t.fold {
			name = bytes.ToUpper(name)
		}
		t.names = append(t.names, name)
		builder.AddPattern(name)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("search: building automaton: %w", err)
	}
	t.auto = auto
	return t, nil
}

// Find returns the leftmost token occurrence in data.
func (t *Tool) Find(data []byte) (Hit, bool) {
	return t.FindAt(data, 0)
}

// FindAt returns the leftmost token occurrence at or after offset at.
func (t *Tool) FindAt(data []byte, at int) (Hit, bool) {
	if at >= len(data) {
		return Hit{}, false
	}
	hay := t.haystack(data)
	m := t.auto.Find(hay, at)
	if m == nil {
		return Hit{}, false
	}
	hit := Hit{ID: -1, Index: m.Start, Length: m.End - m.Start}
	matched := hay[m.Start:m.End]
	for k, name := range t.names {
		if bytes.Equal(name, matched) {
			hit.ID = t.tokens[k].ID
			break
		}
	}
	return hit, true
}

// Contains reports whether any token occurs in data.
func (t *Tool) Contains(data []byte) bool {
	return t.auto.Find(t.haystack(data), 0) != nil
}

// haystack folds the data for a case-insensitive scan. Folding is
// length-preserving, so hit offsets are valid in the original data.
func (t *Tool) haystack(data []byte) []byte {
	if !t.fold {
		return data
	}
	return bytes.ToUpper(data)
}
