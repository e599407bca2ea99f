package relite

// Capture is the subject span matched by one capturing group. Spans index
// into the original subject; no bytes are copied. A slot with Length 0 was
// not exercised by the winning derivation, or matched nothing and was left
// alone; callers cannot distinguish the two.
type Capture struct {
	Index  int
	Length int
}

// Bytes returns the captured span of subject.
func (c Capture) Bytes(subject []byte) []byte {
	return subject[c.Index : c.Index+c.Length]
}

// Match is the result of a successful pattern application: where the match
// starts, how many subject bytes it consumed, and the capture slots that
// were in effect for the call.
type Match struct {
	Index    int
	Length   int
	Captures []Capture

	subject []byte
}

// Bytes returns the matched span of the subject.
func (m *Match) Bytes() []byte {
	return m.subject[m.Index : m.Index+m.Length]
}

func (m *Match) String() string {
	return string(m.Bytes())
}

// Group returns the span captured by group n (1-based), or nil if the
// group recorded nothing.
func (m *Match) Group(n int) []byte {
	if n < 1 || n > len(m.Captures) {
		return nil
	}
	c := m.Captures[n-1]
	if c.Length == 0 {
		return nil
	}
	return c.Bytes(m.subject)
}
