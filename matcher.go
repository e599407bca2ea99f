package relite

import (
	"errors"

	"github.com/d0lph1n98/relite/syntax"
)

// Internal sentinel for "this attempt matched nothing"; converted to a nil
// Match at the API boundary. Distinct from the structural errors, which
// abort the whole call.
var errNoMatch = errors.New("relite: no match")

// Recursion steps between deadline checks. Checking is one atomic load, so
// the stride mostly limits how far past the deadline a search can run.
const deadlineCheckSteps = 256

// machine is the working state of one match call: the structural tables,
// the subject window, and the capture slots. It is built fresh per call
// and discarded, so calls never share mutable state.
type machine struct {
	prog    *syntax.Program
	subject []byte
	caps    []Capture
	opt     Options

	// searchStart anchors '^': the offset the current candidate window
	// begins at, not wherever a nested group happens to restart matching.
	searchStart int

	deadline fasttime
	timed    bool
	steps    int
}

func (m *machine) fold() bool {
	return m.opt&IgnoreCase != 0
}

func (m *machine) internalError() error {
	return &syntax.Error{Code: syntax.ErrInternal, Pattern: m.prog.Pattern}
}

func (m *machine) tick() error {
	if !m.timed {
		return nil
	}
	m.steps++
	if m.steps%deadlineCheckSteps != 0 {
		return nil
	}
	if m.deadline.reached() {
		return ErrMatchTimeout
	}
	return nil
}

// search drives the unanchored scan: try each start offset left to right
// and return the first that succeeds. A pattern whose first token is '^'
// is tried at offset 0 only. Exhausting the subject is a no-match, not an
// engine failure.
func (m *machine) search() (start, length int, err error) {
	p := m.prog.Pattern
	anchored := len(p) > 0 && p[0] == '^'

	for i := 0; i <= len(m.subject); i++ {
		m.searchStart = i
		n, err := m.resolveBracket(0, i, len(m.subject))
		if err == nil {
			return i, n, nil
		}
		if err != errNoMatch {
			return 0, 0, err
		}
		if anchored {
			break
		}
	}
	return 0, 0, errNoMatch
}

// resolveBracket tries the alternation branches of bracket bi against
// subject[off:end], leftmost branch first, and returns the first
// non-negative consumed length. A bracket with no '|' has one implicit
// branch: its whole body.
func (m *machine) resolveBracket(bi, off, end int) (int, error) {
	b := &m.prog.Brackets[bi]

	for k := 0; k <= b.BranchCount; k++ {
		ps := b.Start
		if k > 0 {
			ps = m.prog.Branches[b.BranchStart+k-1].Sep + 1
		}
		pe := b.Start + b.Len
		if k < b.BranchCount {
			pe = m.prog.Branches[b.BranchStart+k].Sep
		}

		n, err := m.matchBranch(ps, pe, off, end)
		if err == nil {
			return n, nil
		}
		if err != errNoMatch {
			return 0, err
		}
	}
	return 0, errNoMatch
}

// matchBranch matches the token sequence pattern[ps:pe] against
// subject[off:end] and returns the number of subject bytes consumed.
// Subject positions are absolute offsets into m.subject throughout, which
// is what lets captures reference the original buffer directly.
func (m *machine) matchBranch(ps, pe, off, end int) (int, error) {
	if err := m.tick(); err != nil {
		return 0, err
	}

	p := m.prog.Pattern
	i, j := ps, off

	for i < pe && j <= end {
		var step int
		gi := -1
		if p[i] == '(' {
			gi = m.prog.BracketAt(i + 1)
			if gi < 0 {
				return 0, m.internalError()
			}
			step = m.prog.Brackets[gi].Len + 2
		} else {
			n, err := syntax.TokenLen(p, i)
			if err != nil {
				// Analysis validated every token already.
				return 0, m.internalError()
			}
			step = n
		}

		if syntax.IsQuantifier(p[i]) {
			return 0, &syntax.Error{Code: syntax.ErrUnexpectedQuantifier, Pattern: p}
		}

		if i+step < pe && syntax.IsQuantifier(p[i+step]) {
			if p[i+step] == '?' {
				n, err := m.matchBranch(i, i+step, j, end)
				if err == nil && n > 0 {
					j += n
				} else if err != nil && err != errNoMatch {
					return 0, err
				}
				i += step + 1
				continue
			}
			// '*' and '+' consume through the end of the branch.
			final, err := m.matchRepeat(i, step, pe, j, end)
			if err != nil {
				return 0, err
			}
			return final - off, nil
		}

		switch p[i] {
		case '[':
			if j >= end || !syntax.MatchClass(p[i+1:i+step-1], m.subject[j], m.fold()) {
				return 0, errNoMatch
			}
			j++

		case '(':
			n, err := m.matchGroup(gi, i+step, pe, j, end)
			if err != nil {
				return 0, err
			}
			if len(m.caps) > 0 && n > 0 {
				if gi-1 >= len(m.caps) {
					return 0, m.internalError()
				}
				m.caps[gi-1] = Capture{Index: j, Length: n}
			}
			j += n

		case '^':
			if j != m.searchStart {
				return 0, errNoMatch
			}

		case '$':
			if j != end {
				return 0, errNoMatch
			}

		case '|':
			// Branch resolution splits these out before we get here.
			return 0, m.internalError()

		default:
			if j >= end || !syntax.MatchToken(p[i:i+step], m.subject[j], m.fold()) {
				return 0, errNoMatch
			}
			j++
		}

		i += step
	}

	return j - off, nil
}

// matchGroup resolves the bracket gi at subject position j. When the group
// is the branch's last token it simply gets the whole remaining window.
// Otherwise the engine searches split points: it re-resolves the group
// under progressively shorter windows until it finds a group length whose
// remainder-of-branch also matches, taking the first workable split.
func (m *machine) matchGroup(gi, rest, pe, j, end int) (int, error) {
	if rest >= pe {
		return m.resolveBracket(gi, j, end)
	}

	for cut := 0; cut <= end-j; cut++ {
		n, err := m.resolveBracket(gi, j, end-cut)
		if err == errNoMatch {
			continue
		}
		if err != nil {
			return 0, err
		}
		_, err = m.matchBranch(rest, pe, j+n, end)
		if err == errNoMatch {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	return 0, errNoMatch
}

// matchRepeat resolves a '*' or '+' applied to the unit at pattern[i:i+step]
// inside the branch ending at pe. It owns the rest of the branch: after
// choosing a repetition count it also matches everything that follows, and
// returns the final absolute subject position. Greedy repetition keeps the
// largest position for which unit repetitions plus remainder both succeed;
// the non-greedy forms ('*?', '+?') return at the first position where the
// remainder succeeds.
func (m *machine) matchRepeat(i, step, pe, j, end int) (int, error) {
	p := m.prog.Pattern
	q := p[i+step]
	rest := i + step + 1
	nonGreedy := false
	if rest < pe && p[rest] == '?' {
		nonGreedy = true
		rest++
	}

	matchRest := func(at int) (int, error) {
		if rest >= pe {
			return 0, nil
		}
		return m.matchBranch(rest, pe, at, end)
	}

	if nonGreedy {
		j2, reps := j, 0
		for {
			if q == '*' || reps > 0 {
				n2, err := matchRest(j2)
				if err == nil {
					return j2 + n2, nil
				}
				if err != errNoMatch {
					return 0, err
				}
			}
			n1, err := m.matchBranch(i, i+step, j2, end)
			if err == errNoMatch {
				return 0, errNoMatch
			}
			if err != nil {
				return 0, err
			}
			reps++
			if n1 <= 0 {
				// The unit matched nothing; repeating cannot advance, so
				// one last remainder attempt settles it.
				n2, err := matchRest(j2)
				if err == nil {
					return j2 + n2, nil
				}
				if err != errNoMatch {
					return 0, err
				}
				return 0, errNoMatch
			}
			j2 += n1
		}
	}

	best := -1
	j2, reps := j, 0

	if q == '*' {
		// Zero-repetition baseline.
		n2, err := matchRest(j2)
		if err == nil {
			best = j2 + n2
		} else if err != errNoMatch {
			return 0, err
		}
	}

	for {
		n1, err := m.matchBranch(i, i+step, j2, end)
		if err == errNoMatch {
			break
		}
		if err != nil {
			return 0, err
		}
		reps++
		if n1 > 0 {
			j2 += n1
		}
		n2, err := matchRest(j2)
		if err == nil {
			if j2+n2 > best {
				best = j2 + n2
			}
		} else if err != errNoMatch {
			return 0, err
		}
		if n1 <= 0 {
			break
		}
	}

	if q == '+' && reps == 0 {
		return 0, errNoMatch
	}
	if best < 0 {
		return 0, errNoMatch
	}
	return best, nil
}
