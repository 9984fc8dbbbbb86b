package itc

// cost ranks the places an event could be recorded. Expanding a leaf into
// a node is always worse than descending one more level of mixed
// ownership, so expansions are compared first. A position that would
// overflow is never chosen while another is available.
type cost struct {
	overflow   bool
	expansions uint
	depth      uint
}

func (c cost) less(o cost) bool {
	if c.overflow != o.overflow {
		return o.overflow
	}
	if c.expansions != o.expansions {
		return c.expansions < o.expansions
	}
	return c.depth < o.depth
}

func (c cost) expanded() cost {
	c.expansions++
	return c
}

func (c cost) deeper() cost {
	c.depth++
	return c
}
