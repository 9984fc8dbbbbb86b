package itc

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ReplicaOptions configures a Replica.
type ReplicaOptions struct {
	// Name labels debug output.
	Name string
	// Debug traces every change of the replica's stamp.
	Debug bool
}

// Replica holds the current stamp of one replica. A stamp must only be
// advanced or split by one writer at a time; Replica serializes those
// changes so it can be shared between goroutines.
type Replica struct {
	l     sync.Mutex
	stamp Stamp
	seq   uint64
	name  string
	debug bool
}

var replicaSeq uint64

// NewReplica returns a replica starting from the given stamp, usually
// Seed() for the first replica of a system.
func NewReplica(s Stamp, opts *ReplicaOptions) *Replica {
	if opts == nil {
		opts = &ReplicaOptions{}
	}
	return &Replica{
		stamp: s.Normalize(),
		seq:   atomic.AddUint64(&replicaSeq, 1),
		name:  opts.Name,
		debug: opts.Debug,
	}
}

// Stamp returns the replica's current stamp.
func (r *Replica) Stamp() Stamp {
	r.l.Lock()
	defer r.l.Unlock()
	return r.stamp
}

// Event records a local event and returns the new stamp.
func (r *Replica) Event() Stamp {
	r.l.Lock()
	defer r.l.Unlock()
	r.set("event", r.stamp.Advance())
	return r.stamp
}

// Fork hands half of the replica's identity to a new replica with the same
// history.
func (r *Replica) Fork(opts *ReplicaOptions) *Replica {
	r.l.Lock()
	defer r.l.Unlock()
	kept, given := r.stamp.Split()
	r.set("fork", kept)
	child := NewReplica(given, opts)
	if child.debug {
		fmt.Printf("%s: forked from %s -> %v\n", child.name, r.name, given)
	}
	return child
}

// Send records a send event and returns the message stamp to transmit.
func (r *Replica) Send() Stamp {
	r.l.Lock()
	defer r.l.Unlock()
	msg, kept := r.stamp.Outbound()
	r.set("send", kept)
	return msg
}

// Receive merges a message stamp and records the receive event.
func (r *Replica) Receive(msg Stamp) Stamp {
	r.l.Lock()
	defer r.l.Unlock()
	r.set("receive", r.stamp.Inbound(msg))
	return r.stamp
}

// Observed reports whether every event seen by s has been seen by the
// replica.
func (r *Replica) Observed(s Stamp) bool {
	return s.Leq(r.Stamp())
}

// Retire absorbs other's identity and history into r. other is left
// anonymous, able to compare stamps but not to record events.
func (r *Replica) Retire(other *Replica) error {
	if r == other {
		return fmt.Errorf("replica %q cannot retire itself", r.name)
	}
	unlock := lockPair(r, other)
	defer unlock()
	merged, err := r.stamp.MergeStrict(other.stamp)
	if err != nil {
		return fmt.Errorf("retire %q into %q: %w", other.name, r.name, err)
	}
	r.set("retire", merged)
	reader, _ := other.stamp.Snapshot()
	other.set("retired", reader)
	return nil
}

// Sync gives both replicas the union of their histories, redividing their
// combined identity between them.
func (r *Replica) Sync(other *Replica) error {
	if r == other {
		return nil
	}
	unlock := lockPair(r, other)
	defer unlock()
	merged, err := r.stamp.MergeStrict(other.stamp)
	if err != nil {
		return fmt.Errorf("sync %q with %q: %w", r.name, other.name, err)
	}
	mine, theirs := merged.Split()
	r.set("sync", mine)
	other.set("sync", theirs)
	return nil
}

// set replaces the stamp; the caller holds r.l.
func (r *Replica) set(op string, s Stamp) {
	r.stamp = s
	if r.debug {
		fmt.Printf("%s: %s -> %v\n", r.name, op, s)
	}
}

// lockPair locks two replicas in creation order.
func lockPair(a, b *Replica) func() {
	first, second := a, b
	if b.seq < a.seq {
		first, second = b, a
	}
	first.l.Lock()
	second.l.Lock()
	return func() {
		second.l.Unlock()
		first.l.Unlock()
	}
}
