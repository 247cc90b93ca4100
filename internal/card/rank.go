package card

import "math/bits"

// Category is the poker hand category, ordered weakest to strongest so
// that comparing Categories alone orders hands of different kinds.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "high card"
	case OnePair:
		return "one pair"
	case TwoPair:
		return "two pair"
	case ThreeOfAKind:
		return "three of a kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case FourOfAKind:
		return "four of a kind"
	case StraightFlush:
		return "straight flush"
	default:
		return "unknown"
	}
}

// Rank is a totally ordered reduction of a 5-7 card hand: Category
// first, then Tiebreak, per spec.md §3's encoding rules. Rank is a
// struct, so compare Ranks with Less and Equal.
type Rank struct {
	Category Category
	Tiebreak uint32
}

// Less reports whether r is a weaker hand than o.
func (r Rank) Less(o Rank) bool {
	if r.Category != o.Category {
		return r.Category < o.Category
	}
	return r.Tiebreak < o.Tiebreak
}

// Equal reports categorical and tiebreak equivalence.
func (r Rank) Equal(o Rank) bool {
	return r.Category == o.Category && r.Tiebreak == o.Tiebreak
}

func (r Rank) String() string {
	return r.Category.String()
}

// straightMasks are the ten possible 5-consecutive-value masks over the
// 13 value bits (bit i = value i present), index 0 is the wheel
// (A-2-3-4-5) and index 9 is the nut straight (T-J-Q-K-A), per
// spec.md §3. The wheel reuses the Ace bit (bit 12) alongside 2-3-4-5
// rather than a dedicated low-ace bit.
var straightMasks [10]uint16

func init() {
	straightMasks[0] = 0x100F // wheel: A(12) 2(0) 3(1) 4(2) 5(3)
	for i := 1; i <= 9; i++ {
		var m uint16
		for v := i - 1; v < i+4; v++ {
			m |= 1 << uint(v)
		}
		straightMasks[i] = m
	}
}

// Evaluate reduces 5 to 7 cards to their best 5-card Rank. The caller
// need not enumerate subsets; Evaluate partitions the hand into a
// value mask, a suit mask, and a per-value count and works from those.
func Evaluate(cards Set) Rank {
	var suitMasks [4]uint16
	var valueCounts [13]uint8
	var valueMask uint16

	remaining := uint64(cards)
	for remaining != 0 {
		idx := bits.TrailingZeros64(remaining)
		c := Card(idx)
		v := uint8(c.Value())
		suitMasks[c.Suit()] |= 1 << v
		valueCounts[v]++
		valueMask |= 1 << v
		remaining &= remaining - 1
	}

	for _, sm := range suitMasks {
		if bits.OnesCount16(sm) >= 5 {
			if sIdx, ok := bestStraight(sm); ok {
				return Rank{Category: StraightFlush, Tiebreak: uint32(sIdx)}
			}
		}
	}

	for _, sm := range suitMasks {
		if bits.OnesCount16(sm) >= 5 {
			return Rank{Category: Flush, Tiebreak: uint32(topFive(sm))}
		}
	}

	if sIdx, ok := bestStraight(valueMask); ok {
		return Rank{Category: Straight, Tiebreak: uint32(sIdx)}
	}

	quad := findCount(valueCounts, 4, 0xFFFF)
	if quad >= 0 {
		kicker := topKickers(valueMask, bitOf(quad), 1)
		return Rank{Category: FourOfAKind, Tiebreak: (uint32(1<<uint(quad)) << 13) | uint32(kicker)}
	}

	trip := findCount(valueCounts, 3, 0xFFFF)
	if trip >= 0 {
		pair := findCountAtLeast(valueCounts, 2, 0xFFFF, trip)
		if pair >= 0 {
			return Rank{Category: FullHouse, Tiebreak: (uint32(1<<uint(trip)) << 13) | uint32(1<<uint(pair))}
		}
	}

	if trip >= 0 {
		kickers := topKickers(valueMask, bitOf(trip), 2)
		return Rank{Category: ThreeOfAKind, Tiebreak: (uint32(1<<uint(trip)) << 13) | uint32(kickers)}
	}

	pair1 := findCount(valueCounts, 2, 0xFFFF)
	if pair1 >= 0 {
		pair2 := findCount(valueCounts, 2, ^uint16(1<<uint(pair1)))
		if pair2 >= 0 {
			pairMask := bitOf(pair1) | bitOf(pair2)
			kicker := topKickers(valueMask, pairMask, 1)
			return Rank{Category: TwoPair, Tiebreak: (uint32(pairMask) << 13) | uint32(kicker)}
		}
		kickers := topKickers(valueMask, bitOf(pair1), 3)
		return Rank{Category: OnePair, Tiebreak: (uint32(bitOf(pair1)) << 13) | uint32(kickers)}
	}

	return Rank{Category: HighCard, Tiebreak: uint32(topFive(valueMask))}
}

// bestStraight tests a value mask against the ten straight masks in
// descending order so the highest-ranking straight wins, and returns
// its index (0 = wheel, 9 = nut straight).
func bestStraight(mask uint16) (int, bool) {
	for i := 9; i >= 0; i-- {
		if mask&straightMasks[i] == straightMasks[i] {
			return i, true
		}
	}
	return 0, false
}

func bitOf(value int) uint16 { return 1 << uint(value) }

// findCount returns the highest value with exactly n cards whose bit
// is set in allow (used to exclude a previously-claimed value).
func findCount(counts [13]uint8, n uint8, allow uint16) int {
	for v := 12; v >= 0; v-- {
		if allow&(1<<uint(v)) == 0 {
			continue
		}
		if counts[v] == n {
			return v
		}
	}
	return -1
}

// findCountAtLeast returns the highest value with at least n cards,
// excluding the value at exceptIdx.
func findCountAtLeast(counts [13]uint8, n uint8, allow uint16, exceptIdx int) int {
	for v := 12; v >= 0; v-- {
		if v == exceptIdx {
			continue
		}
		if allow&(1<<uint(v)) == 0 {
			continue
		}
		if counts[v] >= n {
			return v
		}
	}
	return -1
}

// topFive returns the five highest value bits of mask as a bitmask,
// used as the HighCard/Flush tiebreaker per spec.md §3.
func topFive(mask uint16) uint16 {
	var out uint16
	count := 0
	for v := 12; v >= 0 && count < 5; v-- {
		if mask&(1<<uint(v)) != 0 {
			out |= 1 << uint(v)
			count++
		}
	}
	return out
}

// topKickers returns the top n values from mask excluding used, packed
// into a bitmask (spec.md §3's "kicker_value_mask").
func topKickers(mask, used uint16, n int) uint16 {
	available := mask &^ used
	var out uint16
	count := 0
	for v := 12; v >= 0 && count < n; v-- {
		if available&(1<<uint(v)) != 0 {
			out |= 1 << uint(v)
			count++
		}
	}
	return out
}
