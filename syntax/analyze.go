package syntax

import "sort"

// Structural table capacities used when a Limits field is zero. Generous
// for inspection rules, which rarely use more than a handful of groups.
const (
	DefaultMaxBrackets = 100
	DefaultMaxBranches = 100
)

// Limits bounds the structural tables built for one analysis pass.
// Exceeding a limit is a reported error, never silent truncation.
type Limits struct {
	MaxBrackets int
	MaxBranches int
}

// DefaultLimits returns the capacities the package-level API runs with.
func DefaultLimits() Limits {
	return Limits{MaxBrackets: DefaultMaxBrackets, MaxBranches: DefaultMaxBranches}
}

func (l Limits) orDefaults() Limits {
	if l.MaxBrackets == 0 {
		l.MaxBrackets = DefaultMaxBrackets
	}
	if l.MaxBranches == 0 {
		l.MaxBranches = DefaultMaxBranches
	}
	return l
}

// BracketPair is the structural record for one '(...)' group: its byte span
// in the pattern and the alternation branches it owns. Entry 0 always spans
// the whole pattern, even when the pattern has no explicit groups.
type BracketPair struct {
	Start int // offset of the first byte inside the group
	Len   int // byte distance from Start to the closing ')'

	// Filled in by branch indexing after the pass.
	BranchStart int
	BranchCount int
}

// Branch is one '|'-delimited alternative: the bracket that owns it and the
// offset of its separator in the pattern.
type Branch struct {
	Bracket int
	Sep     int
}

// Program holds the structural tables for one pattern. It is working state
// for a single match call; nothing is cached across calls.
type Program struct {
	Pattern  string
	Brackets []BracketPair
	Branches []Branch
}

// Analyze makes one left-to-right pass over pattern, recording every
// bracket pair and alternation separator and validating token
// well-formedness. numCaps is the caller's capture-slot capacity; a nonzero
// value smaller than the number of capturing groups fails with
// ErrCapsArrayTooSmall.
func Analyze(pattern string, limits Limits, numCaps int) (*Program, error) {
	limits = limits.orDefaults()

	prog := &Program{
		Pattern:  pattern,
		Brackets: make([]BracketPair, 1, 4),
	}
	prog.Brackets[0] = BracketPair{Start: 0, Len: len(pattern)}

	var open []int // indexes of brackets not yet closed, innermost last

	for i := 0; i < len(pattern); {
		step, err := TokenLen(pattern, i)
		if err != nil {
			return nil, err
		}

		switch pattern[i] {
		case '|':
			if len(prog.Branches) >= limits.MaxBranches {
				return nil, newError(ErrTooManyBranches, pattern)
			}
			owner := 0
			if len(open) > 0 {
				owner = open[len(open)-1]
			}
			prog.Branches = append(prog.Branches, Branch{Bracket: owner, Sep: i})

		case '(':
			if len(prog.Brackets) >= limits.MaxBrackets {
				return nil, newError(ErrTooManyBrackets, pattern)
			}
			open = append(open, len(prog.Brackets))
			prog.Brackets = append(prog.Brackets, BracketPair{Start: i + 1, Len: -1})
			if numCaps > 0 && len(prog.Brackets)-1 > numCaps {
				return nil, newError(ErrCapsArrayTooSmall, pattern)
			}

		case ')':
			if len(open) == 0 {
				return nil, newError(ErrUnbalancedBrackets, pattern)
			}
			if i > 0 && pattern[i-1] == '(' {
				// Empty group.
				return nil, newError(ErrUnbalancedBrackets, pattern)
			}
			bi := open[len(open)-1]
			open = open[:len(open)-1]
			prog.Brackets[bi].Len = i - prog.Brackets[bi].Start
		}

		i += step
	}

	if len(open) != 0 {
		return nil, newError(ErrUnbalancedBrackets, pattern)
	}

	prog.indexBranches()
	return prog, nil
}

// indexBranches groups the branch table by owning bracket and records each
// bracket's slice of it. The sort must be stable: alternation order within
// a bracket has to keep the pattern's left-to-right '|' order.
func (p *Program) indexBranches() {
	sort.SliceStable(p.Branches, func(i, j int) bool {
		return p.Branches[i].Bracket < p.Branches[j].Bracket
	})

	j := 0
	for bi := range p.Brackets {
		b := &p.Brackets[bi]
		b.BranchStart = j
		for j < len(p.Branches) && p.Branches[j].Bracket == bi {
			j++
		}
		b.BranchCount = j - b.BranchStart
	}
}

// BracketAt returns the index of the bracket whose body starts at pattern
// offset off, or -1. Brackets are stored in source order of their '(', so
// Start values are strictly increasing.
func (p *Program) BracketAt(off int) int {
	lo, hi := 1, len(p.Brackets)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case p.Brackets[mid].Start == off:
			return mid
		case p.Brackets[mid].Start < off:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return -1
}

// NumGroups is the number of capturing groups in the pattern.
func (p *Program) NumGroups() int {
	return len(p.Brackets) - 1
}
