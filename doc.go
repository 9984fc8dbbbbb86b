/*
Package itc provides Interval Tree Clocks: compact, immutable stamps that
track causality between replicas which come and go, without the fixed
replica count a vector clock needs.

Uses

- Deciding whether one update happened before another, or concurrently

- Giving new replicas an identity without central coordination

- Retiring replicas without leaving a permanent slot behind


What are ITCs

Itc is an implementation of the mechanism described in the paper,
"Interval Tree Clocks: A Logical Clock for Dynamic Systems", by Paulo
Sérgio Almeida, Carlos Baquero and Victor Fonte, 2008
(http://gsd.di.uminho.pt/members/cbm/ps/itc2008.pdf).

A stamp pairs an identity tree, saying which part of the [0,1) interval
the replica owns, with an event tree, a function from that interval to
event counts. A replica records an event by raising the counts in the
part it owns; since nobody else owns that part, the raise is something
only replicas that have heard from it can know about. Identities are
split when a replica forks and summed when replicas merge, so the
interval is always shared out among the live replicas.

	s := itc.Seed()
	a, b := s.Split()
	a = a.Advance()
	b = b.Advance()
	fmt.Println(a.Compare(b)) // concurrent
	a = a.Merge(b)
	fmt.Println(b.Leq(a)) // true

Trees are kept in normal form, so equal histories have equal
representations and equal Fingerprints.

Encoding

Stamps encode as {"id":...,"event":...}, where an identity is 0, 1 or
[left,right] and an event tree is n or [left,n,right]. The same layout is
available as JSON, as a protobuf Struct and as CBOR. Decoding is strict:
anything but an exact encoding is a *DecodeError.

Concurrency

Stamps are values and their trees are never modified after
construction, so a stamp can be read from any number of goroutines.
Only one writer may advance or split a given replica's stamp; Replica
serializes that for callers who share a replica between goroutines.
*/
package itc
