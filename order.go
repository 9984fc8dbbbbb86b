package itc

// Ordering is the causal relationship between two stamps.
type Ordering int

const (
	// Equal stamps have seen the same events.
	Equal Ordering = iota
	// Before means every event the first stamp saw, the second saw too.
	Before
	// After means the second stamp happened before the first.
	After
	// Concurrent stamps have each seen events the other has not.
	Concurrent
)

func (o Ordering) String() string {
	switch o {
	case Equal:
		return "equal"
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "concurrent"
	}
}

// Compare orders s against o by history.
func (s Stamp) Compare(o Stamp) Ordering {
	le := s.Leq(o)
	ge := o.Leq(s)
	switch {
	case le && ge:
		return Equal
	case le:
		return Before
	case ge:
		return After
	default:
		return Concurrent
	}
}

// Concurrent reports whether neither stamp happened before the other.
func (s Stamp) Concurrent(o Stamp) bool {
	return !s.Leq(o) && !o.Leq(s)
}
