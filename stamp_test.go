package itc

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireStamp(t *testing.T, wantID *IDTree, wantEvent *EventTree, s Stamp) {
	t.Helper()
	require.True(t, wantID.Equal(s.ID()), "id: got %v, want %v", s.ID(), wantID)
	require.True(t, wantEvent.Equal(s.History()), "history: got %v, want %v", s.History(), wantEvent)
}

func TestSeed(t *testing.T) {
	t.Parallel()
	requireStamp(t, i1, lf(0), Seed())
	require.False(t, Seed().IsAnonymous())
}

func TestZeroStamp(t *testing.T) {
	t.Parallel()
	var s Stamp
	require.True(t, s.IsAnonymous())
	requireStamp(t, i0, lf(0), s)
	require.True(t, s.Leq(Seed()))
	require.True(t, s.Equal(s.Advance()))
	requireStamp(t, i1, lf(0), s.Merge(Seed()))
}

func TestSplitThenAdvance(t *testing.T) {
	t.Parallel()
	seed := Seed()
	l, r := seed.Split()
	requireStamp(t, id(i1, i0), lf(0), l)
	requireStamp(t, id(i0, i1), lf(0), r)

	le := l.Advance()
	requireStamp(t, id(i1, i0), ev(0, lf(1), lf(0)), le)
	require.True(t, seed.Leq(le))
	require.False(t, le.Leq(r))
	require.True(t, r.Leq(le))
}

// Walks through forks, events and joins, checking every intermediate
// stamp.
func TestHistoryWalkthrough(t *testing.T) {
	t.Parallel()
	l, r := Seed().Split()

	le := l.Advance()
	re := r.Advance()
	requireStamp(t, id(i1, i0), ev(0, lf(1), lf(0)), le)
	requireStamp(t, id(i0, i1), ev(0, lf(0), lf(1)), re)

	lel, ler := le.Split()
	requireStamp(t, id(id(i1, i0), i0), ev(0, lf(1), lf(0)), lel)
	requireStamp(t, id(id(i0, i1), i0), ev(0, lf(1), lf(0)), ler)

	ree := re.Advance()
	requireStamp(t, id(i0, i1), ev(0, lf(0), lf(2)), ree)

	lele := lel.Advance()
	requireStamp(t, id(id(i1, i0), i0), ev(0, ev(1, lf(1), lf(0)), lf(0)), lele)

	lerjree := ler.Merge(ree)
	requireStamp(t, id(id(i0, i1), i1), ev(1, lf(0), lf(1)), lerjree)

	lerjreel, lerjreer := lerjree.Split()
	requireStamp(t, id(id(i0, i1), i0), ev(1, lf(0), lf(1)), lerjreel)
	requireStamp(t, id(i0, i1), ev(1, lf(0), lf(1)), lerjreer)

	joined := lele.Merge(lerjreel)
	requireStamp(t, id(i1, i0), ev(1, ev(0, lf(1), lf(0)), lf(1)), joined)

	requireStamp(t, id(i1, i0), lf(2), joined.Advance())
}

func TestAdvanceFillsBeforeGrowing(t *testing.T) {
	t.Parallel()
	// the left half is owned and behind the right: filling catches it up
	s := NewStamp(id(i1, i0), ev(0, lf(0), lf(3)))
	requireStamp(t, id(i1, i0), lf(3), s.Advance())

	// nothing to fill when the owned part is already ahead
	s = NewStamp(id(i1, i0), ev(0, lf(3), lf(0)))
	requireStamp(t, id(i1, i0), ev(0, lf(4), lf(0)), s.Advance())
}

func TestAdvanceGrowthCost(t *testing.T) {
	t.Parallel()
	// a fully owned half is cheaper than expanding a leaf
	s := NewStamp(id(i1, id(i0, i1)), lf(0))
	requireStamp(t, id(i1, id(i0, i1)), ev(0, lf(1), lf(0)), s.Advance())

	// equal cost on both sides grows the right
	s = NewStamp(id(id(i1, i0), id(i0, i1)), lf(0))
	requireStamp(t, id(id(i1, i0), id(i0, i1)), ev(0, lf(0), ev(0, lf(0), lf(1))), s.Advance())
}

func TestAdvanceOverflow(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() { NewStamp(i1, lf(math.MaxUint32)).Advance() })

	// a full position is passed over in favour of one that can still grow
	s := NewStamp(id(id(i1, i0), id(i0, i1)), ev(0, lf(math.MaxUint32), lf(0)))
	a := s.Advance()
	requireStamp(t, s.ID(), ev(0, lf(math.MaxUint32), ev(0, lf(0), lf(1))), a)
	require.True(t, s.Leq(a))
	require.False(t, a.Leq(s))
}

func TestAdvanceAnonymous(t *testing.T) {
	t.Parallel()
	reader, _ := Seed().Advance().Snapshot()
	require.True(t, reader.IsAnonymous())
	require.True(t, reader.Equal(reader.Advance()))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()
	s := Seed().Advance()
	reader, kept := s.Snapshot()
	require.True(t, kept.Equal(s))
	requireStamp(t, i0, s.History(), reader)
	require.Equal(t, Equal, reader.Compare(s))
}

func TestMergeStrict(t *testing.T) {
	t.Parallel()
	l, r := Seed().Split()
	merged, err := l.Advance().MergeStrict(r)
	require.NoError(t, err)
	require.True(t, merged.ID().IsOne())

	_, err = l.MergeStrict(Seed())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOverlappingIdentity))
}

func TestMessages(t *testing.T) {
	t.Parallel()
	alice, bob := Seed().Split()
	msg, alice := alice.Outbound()
	require.True(t, msg.IsAnonymous())
	require.Equal(t, Equal, msg.Compare(alice))
	require.Equal(t, After, msg.Compare(bob))

	bob = bob.Inbound(msg)
	require.Equal(t, Before, alice.Compare(bob))
	require.True(t, msg.Leq(bob))

	alice = alice.Advance()
	require.Equal(t, Concurrent, alice.Compare(bob))
	require.True(t, alice.Concurrent(bob))

	a2, b2 := alice.Resync(bob)
	require.Equal(t, Equal, a2.Compare(b2))
	require.True(t, alice.Leq(a2))
	require.True(t, bob.Leq(b2))
	require.True(t, a2.ID().Disjoint(b2.ID()))
	require.True(t, a2.ID().Sum(b2.ID()).IsOne())
}

func TestOrderingString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "equal", Equal.String())
	assert.Equal(t, "before", Before.String())
	assert.Equal(t, "after", After.String())
	assert.Equal(t, "concurrent", Concurrent.String())
}

func TestStampString(t *testing.T) {
	t.Parallel()
	l, _ := Seed().Split()
	require.Equal(t, "([1,0], [1,0,0])", l.Advance().String())
}

func TestStampProperties(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(defaultGopterParameters)
	stamps := func(seed int64) []Stamp {
		return randomStamps(rand.New(rand.NewSource(seed)), 40)
	}

	properties.Property("leq is reflexive", prop.ForAll(
		func(seed int64) bool {
			for _, s := range stamps(seed) {
				if !s.Leq(s) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))
	properties.Property("split preserves ancestry and partitions identity", prop.ForAll(
		func(seed int64) bool {
			for _, s := range stamps(seed) {
				l, r := s.Split()
				if !s.Leq(l) || !s.Leq(r) || !l.ID().Disjoint(r.ID()) {
					return false
				}
				if !l.ID().Sum(r.ID()).Equal(s.ID()) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))
	properties.Property("advance strictly progresses", prop.ForAll(
		func(seed int64) bool {
			for _, s := range stamps(seed) {
				a := s.Advance()
				if !s.Leq(a) || a.Leq(s) || a.Equal(s) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))
	properties.Property("merge is commutative and an upper bound", prop.ForAll(
		func(seed int64) bool {
			live := stamps(seed)
			for i := 1; i < len(live); i++ {
				a, b := live[i-1], live[i]
				m := a.Merge(b)
				if !m.Equal(b.Merge(a)) || !a.Leq(m) || !b.Leq(m) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))
	properties.Property("merge is idempotent on history", prop.ForAll(
		func(seed int64) bool {
			for _, s := range stamps(seed) {
				if !s.Merge(s).History().Equal(s.History()) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))
	properties.Property("stamps stay normalized", prop.ForAll(
		func(seed int64) bool {
			for _, s := range stamps(seed) {
				if !s.Normalize().Equal(s) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))
	properties.TestingRun(t)
}
