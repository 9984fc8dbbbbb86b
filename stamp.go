package itc

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverlappingIdentity is returned by MergeStrict when both stamps claim
// some part of the identity interval.
var ErrOverlappingIdentity = errors.New("itc: stamps have overlapping identities")

// Stamp pairs the identity a replica owns with the causal history it has
// seen. Stamps are values: every operation returns new stamps and leaves
// its inputs untouched. The zero Stamp owns nothing and has seen nothing.
type Stamp struct {
	id    *IDTree
	event *EventTree
}

// Seed returns the stamp every other stamp in a system descends from. It
// owns the whole identity interval and has seen no events. Create it
// once per system and Split it to hand identities out.
func Seed() Stamp {
	return Stamp{oneID, zeroEvent}
}

// NewStamp returns a stamp with normalized copies of the given trees.
func NewStamp(id *IDTree, event *EventTree) Stamp {
	if id == nil {
		id = zeroID
	}
	if event == nil {
		event = zeroEvent
	}
	return Stamp{id.Normalize(), event.Normalize()}
}

// ID returns the identity owned by the stamp.
func (s Stamp) ID() *IDTree {
	if s.id == nil {
		return zeroID
	}
	return s.id
}

// History returns the events seen by the stamp.
func (s Stamp) History() *EventTree {
	if s.event == nil {
		return zeroEvent
	}
	return s.event
}

// IsAnonymous reports whether the stamp owns no identity, as with the
// reader returned by Snapshot. Anonymous stamps cannot record events.
func (s Stamp) IsAnonymous() bool {
	return s.ID().IsZero()
}

// Normalize returns the stamp with both trees in normal form.
func (s Stamp) Normalize() Stamp {
	return NewStamp(s.id, s.event)
}

// Split divides the stamp's identity in two. Both halves keep the whole
// history.
func (s Stamp) Split() (Stamp, Stamp) {
	l, r := s.ID().Split()
	e := s.History()
	return Stamp{l, e}, Stamp{r, e}
}

// Snapshot returns an anonymous reader carrying s's history, and s
// itself.
func (s Stamp) Snapshot() (Stamp, Stamp) {
	return Stamp{zeroID, s.History()}, s
}

// Merge combines the identities and histories of two stamps. The
// identities must be disjoint; this is not checked (see MergeStrict).
func (s Stamp) Merge(o Stamp) Stamp {
	return Stamp{
		s.ID().Sum(o.ID()),
		s.History().Join(o.History()),
	}
}

// MergeStrict is Merge, but fails rather than combining overlapping
// identities.
func (s Stamp) MergeStrict(o Stamp) (Stamp, error) {
	if !s.ID().Disjoint(o.ID()) {
		return Stamp{}, fmt.Errorf("merge %v with %v: %w", s.ID(), o.ID(), ErrOverlappingIdentity)
	}
	return s.Merge(o), nil
}

// Advance records a new event. It first tries to raise counts in owned
// parts of the interval to levels already reached elsewhere, which needs
// no new tree nodes; failing that it increments the owned position that
// needs the fewest new nodes. Anonymous stamps are returned unchanged.
// Advance panics if the new count would not fit in a uint32.
func (s Stamp) Advance() Stamp {
	id, e := s.ID(), s.History()
	if id.IsZero() {
		return s
	}
	if filled := fill(id, e); !filled.Equal(e) {
		return Stamp{id, filled}
	}
	grown, c := grow(id, e, 0)
	if c.overflow {
		panic("itc: event count overflows uint32")
	}
	return Stamp{id, grown.Normalize()}
}

// Leq reports whether every event seen by s has also been seen by o.
// Identity plays no part.
func (s Stamp) Leq(o Stamp) bool {
	return s.History().Leq(o.History())
}

// Outbound records a send event and returns the anonymous message to
// transmit along with the stamp to keep.
func (s Stamp) Outbound() (msg Stamp, kept Stamp) {
	return s.Advance().Snapshot()
}

// Inbound merges a received message and records the receive event.
func (s Stamp) Inbound(msg Stamp) Stamp {
	return s.Merge(msg).Advance()
}

// Resync merges two stamps and splits the result, giving both replicas
// the combined history.
func (s Stamp) Resync(o Stamp) (Stamp, Stamp) {
	return s.Merge(o).Split()
}

// Equal compares both identity and history.
func (s Stamp) Equal(o Stamp) bool {
	return s.ID().Equal(o.ID()) && s.History().Equal(o.History())
}

// String renders the stamp as (id, history) in wire form.
func (s Stamp) String() string {
	buf := []byte{'('}
	buf = s.ID().appendText(buf)
	buf = append(buf, ", "...)
	buf = s.History().appendText(buf)
	return string(append(buf, ')'))
}

// fill raises owned positions up to counts already implied by their
// neighbours.
func fill(id *IDTree, e *EventTree) *EventTree {
	switch {
	case id.IsZero():
		return e
	case id.IsOne():
		return EventLeaf(e.Max())
	case e.IsLeaf():
		return e
	}
	if id.left.IsOne() {
		right := fill(id.right, e.right)
		left := EventLeaf(max32(e.left.Max(), right.Min()))
		return EventNode(e.n, left, right).Normalize()
	}
	if id.right.IsOne() {
		left := fill(id.left, e.left)
		right := EventLeaf(max32(e.right.Max(), left.Min()))
		return EventNode(e.n, left, right).Normalize()
	}
	return EventNode(e.n, fill(id.left, e.left), fill(id.right, e.right)).Normalize()
}

// grow increments one owned position of e, choosing the cheapest one and
// preferring the right on ties. id must own something. base is the sum
// of the bases above e; a position whose count is already the largest
// uint32 cannot be incremented and costs more than any other.
func grow(id *IDTree, e *EventTree, base uint32) (*EventTree, cost) {
	if e.IsLeaf() {
		if id.IsOne() {
			if uint64(base)+uint64(e.n) >= math.MaxUint32 {
				return e, cost{overflow: true}
			}
			return EventLeaf(e.n + 1), cost{}
		}
		grown, c := grow(id, EventNode(e.n, zeroEvent, zeroEvent), base)
		return grown, c.expanded()
	}
	below := add32(base, e.n)
	il, ir := id.halves()
	if il.IsZero() {
		right, c := grow(ir, e.right, below)
		return EventNode(e.n, e.left, right), c.deeper()
	}
	if ir.IsZero() {
		left, c := grow(il, e.left, below)
		return EventNode(e.n, left, e.right), c.deeper()
	}
	left, cl := grow(il, e.left, below)
	right, cr := grow(ir, e.right, below)
	if cl.less(cr) {
		return EventNode(e.n, left, e.right), cl.deeper()
	}
	return EventNode(e.n, e.left, right), cr.deeper()
}
