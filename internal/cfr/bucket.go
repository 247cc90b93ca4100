package cfr

import "github.com/lox/holdem-arena/internal/card"

// HoleBucketCount and BoardBucketCount size the coarse abstraction
// buckets below. Grounded on sdk/solver/bucket.go's BucketMapper,
// adapted from its poker.Hand/classification.AnalyzeBoardTexture
// inputs to this module's card.Set/card.Card types.
const (
	HoleBucketCount  = 20
	BoardBucketCount = 10
)

// HoleBucket deterministically maps a two-card hand into a preflop
// bucket, combining rank strength, pair, and suitedness into one
// score before bucketing, exactly as sdk/solver/bucket.go's
// HoleBucket does for its own Hand type.
func HoleBucket(hole card.Set) int {
	cards := hole.Ones()
	if len(cards) != 2 {
		return 0
	}
	r0 := int(cards[0].Value())
	r1 := int(cards[1].Value())
	if r0 < r1 {
		r0, r1 = r1, r0
	}
	score := float64(r0*13 + r1)
	if r0 == r1 {
		score += 200
	}
	if cards[0].Suit() == cards[1].Suit() {
		score += 13
	}
	bucket := int(score / (312.0 / float64(HoleBucketCount)))
	return clampBucket(bucket, HoleBucketCount)
}

// BoardBucket maps a 0-5 card board texture into a coarse bucket:
// paired boards and high-card-heavy boards score higher, the same
// shape as AnalyzeBoardTexture's paired+highCards heuristic.
func BoardBucket(board []card.Card) int {
	if len(board) == 0 {
		return 0
	}
	var valueCounts [13]int
	highCards := 0
	for _, c := range board {
		v := int(c.Value())
		valueCounts[v]++
		if v >= int(card.Ten) {
			highCards++
		}
	}
	paired := 0
	for _, n := range valueCounts {
		if n >= 2 {
			paired++
		}
	}
	score := float64(paired)*2 + float64(highCards)*0.5
	bucket := int(score / (4.0 / float64(BoardBucketCount)))
	return clampBucket(bucket, BoardBucketCount)
}

// PotBucket and ToCallBucket threshold the live pot and the amount
// owed against the big blind, grounded on traversal.go's
// potBucket/toCallBucket.
func PotBucket(pot, bigBlind float32) int {
	bb := bigBlind
	if bb <= 0 {
		bb = 1
	}
	thresholds := []float32{bb, bb * 3, bb * 6, bb * 12}
	for i, boundary := range thresholds {
		if pot <= boundary {
			return i
		}
	}
	return len(thresholds)
}

func ToCallBucket(toCall, bigBlind float32) int {
	bb := bigBlind
	if bb <= 0 {
		bb = 1
	}
	thresholds := []float32{0, bb, bb * 2, bb * 4}
	for i, boundary := range thresholds {
		if toCall <= boundary {
			return i
		}
	}
	return len(thresholds)
}

func clampBucket(b, count int) int {
	if b >= count {
		return count - 1
	}
	if b < 0 {
		return 0
	}
	return b
}
