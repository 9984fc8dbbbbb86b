package itc

// IDTree records which part of the identity interval a stamp owns. A leaf
// owns all (true) or none (false) of its range; a node divides its range
// in half between its children. IDTrees are immutable and may share
// subtrees.
type IDTree struct {
	owned       bool
	left, right *IDTree
}

var (
	zeroID = &IDTree{owned: false}
	oneID  = &IDTree{owned: true}
)

// IDLeaf returns a leaf that owns its whole range, or none of it.
func IDLeaf(owned bool) *IDTree {
	if owned {
		return oneID
	}
	return zeroID
}

// IDNode returns a node dividing ownership between left and right halves.
// The result is not normalized.
func IDNode(left, right *IDTree) *IDTree {
	if left == nil || right == nil {
		panic("itc: IDNode with nil subtree")
	}
	return &IDTree{left: left, right: right}
}

func (i *IDTree) IsLeaf() bool {
	return i.left == nil
}

// Owned is the value of a leaf. It is false for nodes.
func (i *IDTree) Owned() bool {
	return i.IsLeaf() && i.owned
}

// Left returns the left child, or nil for a leaf.
func (i *IDTree) Left() *IDTree {
	return i.left
}

// Right returns the right child, or nil for a leaf.
func (i *IDTree) Right() *IDTree {
	return i.right
}

// IsZero reports whether the tree owns nothing.
func (i *IDTree) IsZero() bool {
	return i.IsLeaf() && !i.owned
}

// IsOne reports whether the tree owns its whole range.
func (i *IDTree) IsOne() bool {
	return i.IsLeaf() && i.owned
}

// Normalize collapses every node whose children are equal leaves.
func (i *IDTree) Normalize() *IDTree {
	if i.IsLeaf() {
		return i
	}
	left := i.left.Normalize()
	right := i.right.Normalize()
	if left.IsLeaf() && right.IsLeaf() && left.owned == right.owned {
		return IDLeaf(left.owned)
	}
	if left == i.left && right == i.right {
		return i
	}
	return IDNode(left, right)
}

// Split divides ownership into two disjoint trees whose Sum is the
// original. A tree that owns nothing splits into two that own nothing.
func (i *IDTree) Split() (*IDTree, *IDTree) {
	if i.IsLeaf() {
		if !i.owned {
			return zeroID, zeroID
		}
		return IDNode(oneID, zeroID), IDNode(zeroID, oneID)
	}
	switch {
	case i.left.IsZero():
		l, r := i.right.Split()
		return IDNode(zeroID, l), IDNode(zeroID, r)
	case i.right.IsZero():
		l, r := i.left.Split()
		return IDNode(l, zeroID), IDNode(r, zeroID)
	default:
		return IDNode(i.left, zeroID), IDNode(zeroID, i.right)
	}
}

// Sum merges two disjoint ownership trees. Overlapping trees still give
// a result, but it does not mean anything; see Disjoint.
func (i *IDTree) Sum(o *IDTree) *IDTree {
	if i.IsZero() {
		return o
	}
	if o.IsZero() {
		return i
	}
	if i.IsLeaf() && o.IsLeaf() {
		return oneID
	}
	il, ir := i.halves()
	ol, or := o.halves()
	return IDNode(il.Sum(ol), ir.Sum(or)).Normalize()
}

// Disjoint reports whether no part of the interval is owned by both trees.
func (i *IDTree) Disjoint(o *IDTree) bool {
	if i.IsZero() || o.IsZero() {
		return true
	}
	if i.IsLeaf() && o.IsLeaf() {
		return false
	}
	il, ir := i.halves()
	ol, or := o.halves()
	return il.Disjoint(ol) && ir.Disjoint(or)
}

// halves returns the children of a node, or the leaf twice.
func (i *IDTree) halves() (*IDTree, *IDTree) {
	if i.IsLeaf() {
		return i, i
	}
	return i.left, i.right
}

// Equal compares shape and leaf values.
func (i *IDTree) Equal(o *IDTree) bool {
	if i == o {
		return true
	}
	if i.IsLeaf() || o.IsLeaf() {
		return i.IsLeaf() && o.IsLeaf() && i.owned == o.owned
	}
	return i.left.Equal(o.left) && i.right.Equal(o.right)
}

// String renders the tree in its wire form, e.g. [1,[0,1]].
func (i *IDTree) String() string {
	return string(i.appendText(nil))
}

func (i *IDTree) appendText(buf []byte) []byte {
	if i.IsLeaf() {
		if i.owned {
			return append(buf, '1')
		}
		return append(buf, '0')
	}
	buf = append(buf, '[')
	buf = i.left.appendText(buf)
	buf = append(buf, ',')
	buf = i.right.appendText(buf)
	return append(buf, ']')
}
