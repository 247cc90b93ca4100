package engine

import "math/bits"

// MaxSeats is the largest table this engine supports, per spec.md §3
// ("keyed by seat index (≤10)").
const MaxSeats = 10

// SeatSet is a fixed-capacity bitset keyed by seat index, generalized
// from internal/card.Set down to MaxSeats bits. It is used for
// "seated", "active this round", "needs to act" and "all in" seat
// membership.
type SeatSet uint16

// Enable returns a set with seat added.
func (s SeatSet) Enable(seat int) SeatSet { return s | (1 << uint(seat)) }

// Disable returns a set with seat removed.
func (s SeatSet) Disable(seat int) SeatSet { return s &^ (1 << uint(seat)) }

// Has reports whether seat is a member.
func (s SeatSet) Has(seat int) bool { return s&(1<<uint(seat)) != 0 }

// Count returns the number of member seats.
func (s SeatSet) Count() int { return bits.OnesCount16(uint16(s)) }

// Empty reports whether the set has no members.
func (s SeatSet) Empty() bool { return s == 0 }

// Union returns the set union.
func (s SeatSet) Union(o SeatSet) SeatSet { return s | o }

// Intersect returns the set intersection.
func (s SeatSet) Intersect(o SeatSet) SeatSet { return s & o }

// Ones returns member seats in ascending order.
func (s SeatSet) Ones() []int {
	out := make([]int, 0, s.Count())
	for seat := 0; seat < MaxSeats; seat++ {
		if s.Has(seat) {
			out = append(out, seat)
		}
	}
	return out
}

// NextFrom returns the lowest member seat at or after from, wrapping
// around modulo n, or -1 if the set has no member among the n seats.
// This is how RoundData.ToActIdx and dealing order advance "to the
// next seat whose bit is set" per spec.md §3.
func (s SeatSet) NextFrom(from, n int) int {
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if s.Has(seat) {
			return seat
		}
	}
	return -1
}
