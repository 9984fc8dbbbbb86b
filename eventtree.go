package itc

import (
	"math"
	"strconv"
)

// EventTree maps the identity interval to event counts. A leaf is a
// constant count over its range; a node adds its base to both children.
// In normal form a node's base is the minimum count below it and no node
// has two equal leaves as children.
type EventTree struct {
	n           uint32
	left, right *EventTree
}

var zeroEvent = &EventTree{}

// EventLeaf returns a constant count.
func EventLeaf(n uint32) *EventTree {
	if n == 0 {
		return zeroEvent
	}
	return &EventTree{n: n}
}

// EventNode returns a node with base n. The result is not normalized.
func EventNode(n uint32, left, right *EventTree) *EventTree {
	if left == nil || right == nil {
		panic("itc: EventNode with nil subtree")
	}
	return &EventTree{n: n, left: left, right: right}
}

func (e *EventTree) IsLeaf() bool {
	return e.left == nil
}

// Base is a leaf's count, or a node's offset.
func (e *EventTree) Base() uint32 {
	return e.n
}

func (e *EventTree) Left() *EventTree {
	return e.left
}

func (e *EventTree) Right() *EventTree {
	return e.right
}

// Lift returns e with m added to its base. The base must not overflow.
func (e *EventTree) Lift(m uint32) *EventTree {
	if m == 0 {
		return e
	}
	return &EventTree{n: add32(e.n, m), left: e.left, right: e.right}
}

// Sink returns e with m subtracted from its base. m must not exceed the
// base.
func (e *EventTree) Sink(m uint32) *EventTree {
	if m == 0 {
		return e
	}
	if m > e.n {
		panic("itc: sinking event tree below zero")
	}
	return &EventTree{n: e.n - m, left: e.left, right: e.right}
}

// Min is the smallest count anywhere in the tree.
func (e *EventTree) Min() uint32 {
	if e.IsLeaf() {
		return e.n
	}
	return add32(e.n, min32(e.left.Min(), e.right.Min()))
}

// Max is the largest count anywhere in the tree.
func (e *EventTree) Max() uint32 {
	if e.IsLeaf() {
		return e.n
	}
	return add32(e.n, max32(e.left.Max(), e.right.Max()))
}

// Normalize pushes common offsets up into bases and collapses nodes with
// two equal leaves.
func (e *EventTree) Normalize() *EventTree {
	if e.IsLeaf() {
		return e
	}
	left := e.left.Normalize()
	right := e.right.Normalize()
	if left.IsLeaf() && right.IsLeaf() && left.n == right.n {
		return EventLeaf(add32(e.n, left.n))
	}
	// normalized subtrees have min == base
	m := min32(left.n, right.n)
	if m == 0 && left == e.left && right == e.right {
		return e
	}
	return EventNode(add32(e.n, m), left.Sink(m), right.Sink(m))
}

// Join is the pointwise maximum of two trees, normalized.
func (e *EventTree) Join(o *EventTree) *EventTree {
	switch {
	case e.IsLeaf() && o.IsLeaf():
		return EventLeaf(max32(e.n, o.n))
	case e.IsLeaf():
		return EventNode(e.n, zeroEvent, zeroEvent).Join(o)
	case o.IsLeaf():
		return e.Join(EventNode(o.n, zeroEvent, zeroEvent))
	case e.n > o.n:
		return o.Join(e)
	}
	d := o.n - e.n
	return EventNode(e.n,
		e.left.Join(o.left.Lift(d)),
		e.right.Join(o.right.Lift(d)),
	).Normalize()
}

// Leq reports whether e's count is nowhere greater than o's. o must be
// normalized.
func (e *EventTree) Leq(o *EventTree) bool {
	return leq(e, 0, o, 0)
}

// leq compares e lifted by de against o lifted by do without allocating
// the lifted trees.
func leq(e *EventTree, de uint32, o *EventTree, do uint32) bool {
	en := add32(e.n, de)
	on := add32(o.n, do)
	if e.IsLeaf() {
		return en <= on
	}
	if en > on {
		return false
	}
	if o.IsLeaf() {
		return leq(e.left, en, o, do) && leq(e.right, en, o, do)
	}
	return leq(e.left, en, o.left, on) && leq(e.right, en, o.right, on)
}

// Equal compares shape and counts.
func (e *EventTree) Equal(o *EventTree) bool {
	if e == o {
		return true
	}
	if e.n != o.n || e.IsLeaf() != o.IsLeaf() {
		return false
	}
	if e.IsLeaf() {
		return true
	}
	return e.left.Equal(o.left) && e.right.Equal(o.right)
}

// String renders the tree in its wire form, e.g. [1,2,0].
func (e *EventTree) String() string {
	return string(e.appendText(nil))
}

func (e *EventTree) appendText(buf []byte) []byte {
	if e.IsLeaf() {
		return strconv.AppendUint(buf, uint64(e.n), 10)
	}
	buf = append(buf, '[')
	buf = e.left.appendText(buf)
	buf = append(buf, ',')
	buf = strconv.AppendUint(buf, uint64(e.n), 10)
	buf = append(buf, ',')
	buf = e.right.appendText(buf)
	return append(buf, ']')
}

// add32 adds event counts, panicking rather than wrapping around.
func add32(x, y uint32) uint32 {
	if x > math.MaxUint32-y {
		panic("itc: event count overflows uint32")
	}
	return x + y
}

func min32(x, y uint32) uint32 {
	if x < y {
		return x
	}
	return y
}

func max32(x, y uint32) uint32 {
	if x > y {
		return x
	}
	return y
}
