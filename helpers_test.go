package itc

import (
	"math/rand"

	"github.com/leanovate/gopter"
)

var defaultGopterParameters = gopter.DefaultTestParameters()

func randomIDTree(r *rand.Rand, depth int) *IDTree {
	if depth == 0 || r.Intn(3) == 0 {
		return IDLeaf(r.Intn(2) == 1)
	}
	return IDNode(randomIDTree(r, depth-1), randomIDTree(r, depth-1))
}

func randomEventTree(r *rand.Rand, depth int) *EventTree {
	n := uint32(r.Intn(5))
	if depth == 0 || r.Intn(3) == 0 {
		return EventLeaf(n)
	}
	return EventNode(n, randomEventTree(r, depth-1), randomEventTree(r, depth-1))
}

// randomStamps plays a random history from a seed and returns the
// replicas alive at the end. Their identities partition the interval.
func randomStamps(r *rand.Rand, steps int) []Stamp {
	live := []Stamp{Seed()}
	for i := 0; i < steps; i++ {
		k := r.Intn(len(live))
		switch r.Intn(4) {
		case 0, 1:
			live[k] = live[k].Advance()
		case 2:
			var forked Stamp
			live[k], forked = live[k].Split()
			live = append(live, forked)
		case 3:
			j := r.Intn(len(live))
			if j == k {
				continue
			}
			live[k] = live[k].Merge(live[j])
			live = append(live[:j], live[j+1:]...)
		}
	}
	return live
}

func id(l, r *IDTree) *IDTree { return IDNode(l, r) }

var (
	i0 = IDLeaf(false)
	i1 = IDLeaf(true)
)

func ev(n uint32, l, r *EventTree) *EventTree { return EventNode(n, l, r) }

func lf(n uint32) *EventTree { return EventLeaf(n) }
