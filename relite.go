/*
Package relite is a small backtracking pattern matcher for inspecting
decoded protocol payloads (URIs, headers, bodies).

It supports literals, '.', escapes (\s \S \d \b \f \n \r \t \v \xHH and
escaped metacharacters), character classes with ranges and negation,
anchors, capturing groups, alternation, and greedy/non-greedy quantifiers.
There is deliberately no lookaround, no backreferences and no Unicode
class support: subjects are raw byte spans and every comparison is a byte
comparison.

Unlike most regexp packages there is no compiled-pattern object: each call
re-analyzes the pattern into small bounded tables and matches in one pass.
That keeps the engine re-entrant by construction -- concurrent calls share
no mutable state -- at the cost of repeating the (cheap) analysis. Flags
are passed out of band; inline flag syntax such as a "(?i)" prefix is not
recognized, and fails as a quantifier with nothing to repeat.

Backtracking engines can take exponential time on adversarial patterns, so
a Matcher carries a MatchTimeout that bounds one call's search.
*/
package relite

import (
	"errors"
	"math"
	"time"

	"github.com/d0lph1n98/relite/syntax"
)

// Default timeout used when running matches -- "forever"
var DefaultMatchTimeout = time.Duration(math.MaxInt64)

// ErrMatchTimeout is returned when a Matcher's MatchTimeout expires before
// the search finishes. Captures are not trustworthy after any error.
var ErrMatchTimeout = errors.New("relite: match timeout")

// Options alter how subject bytes are compared.
type Options int32

const (
	IgnoreCase Options = 0x0001 // "i"
)

// Matcher runs patterns against byte subjects. The zero value is not
// usable; construct with New or NewWithLimits. A Matcher holds no per-call
// state and is safe for concurrent use.
type Matcher struct {
	// MatchTimeout bounds the total time one call may spend, including
	// backtracking. Deeply nested quantifiers can otherwise search an
	// exponential number of split points.
	MatchTimeout time.Duration

	// Limits caps the structural tables built per call.
	Limits syntax.Limits
}

// New returns a Matcher with the default table limits and no timeout.
func New() *Matcher {
	return &Matcher{
		MatchTimeout: DefaultMatchTimeout,
		Limits:       syntax.DefaultLimits(),
	}
}

// NewWithLimits returns a Matcher with explicit table capacities.
func NewWithLimits(limits syntax.Limits) (*Matcher, error) {
	if limits.MaxBrackets <= 0 || limits.MaxBranches <= 0 {
		return nil, errors.New("relite: table limits must be positive")
	}
	m := New()
	m.Limits = limits
	return m, nil
}

// Find returns the leftmost match of pattern in subject, or nil if the
// pattern matches nowhere its anchoring permits. Capture slots are
// allocated automatically, one per capturing group.
func (m *Matcher) Find(pattern string, subject []byte, opt Options) (*Match, error) {
	return m.run(pattern, subject, nil, true, opt)
}

// FindWithCaptures is Find with a caller-owned capture slot array. len(caps)
// is the slot capacity: zero means "don't record captures", and a nonzero
// capacity smaller than the pattern's group count is an error. Slot i holds
// the span of group i+1 and is overwritten only when that group takes part
// in a successful match attempt.
func (m *Matcher) FindWithCaptures(pattern string, subject []byte, caps []Capture, opt Options) (*Match, error) {
	return m.run(pattern, subject, caps, false, opt)
}

// IsMatch reports whether pattern matches anywhere in subject.
func (m *Matcher) IsMatch(pattern string, subject []byte, opt Options) (bool, error) {
	match, err := m.run(pattern, subject, nil, false, opt)
	return match != nil, err
}

func (m *Matcher) run(pattern string, subject []byte, caps []Capture, autoCaps bool, opt Options) (*Match, error) {
	prog, err := syntax.Analyze(pattern, m.Limits, len(caps))
	if err != nil {
		return nil, err
	}
	if autoCaps && prog.NumGroups() > 0 {
		caps = make([]Capture, prog.NumGroups())
	}

	mach := &machine{
		prog:    prog,
		subject: subject,
		caps:    caps,
		opt:     opt,
	}
	if m.MatchTimeout != DefaultMatchTimeout {
		mach.deadline = makeDeadline(m.MatchTimeout)
		mach.timed = true
	}

	start, length, err := mach.search()
	if err == errNoMatch {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Match{
		Index:    start,
		Length:   length,
		Captures: caps,
		subject:  subject,
	}, nil
}

var defaultMatcher = New()

// Find runs pattern against subject with the default Matcher.
func Find(pattern string, subject []byte, opt Options) (*Match, error) {
	return defaultMatcher.Find(pattern, subject, opt)
}

// FindWithCaptures runs pattern against subject with the default Matcher
// and caller-owned capture slots.
func FindWithCaptures(pattern string, subject []byte, caps []Capture, opt Options) (*Match, error) {
	return defaultMatcher.FindWithCaptures(pattern, subject, caps, opt)
}

// IsMatch reports whether pattern matches anywhere in subject, using the
// default Matcher.
func IsMatch(pattern string, subject []byte, opt Options) (bool, error) {
	return defaultMatcher.IsMatch(pattern, subject, opt)
}
