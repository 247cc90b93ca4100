package card

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndStringRoundtrip(t *testing.T) {
	for v := Two; v <= Ace; v++ {
		for s := Clubs; s <= Spades; s++ {
			c := New(v, s)
			str := c.String()
			parsed, err := Parse(str)
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{"", "A", "Asx", "Xs", "Az"}
	for _, in := range cases {
		_, err := Parse(in)
		require.Error(t, err)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	}
}

func TestCardTotalOrder(t *testing.T) {
	// card = value*4 + suit, so ordering by integer value orders by
	// Value first then Suit, per spec.md §3.
	lo := New(Two, Spades)
	hi := New(Three, Clubs)
	assert.Less(t, uint8(lo), uint8(hi))
}

func TestSetInsertRemoveHas(t *testing.T) {
	var s Set
	c := New(Ace, Spades)
	assert.False(t, s.Has(c))
	s = s.Insert(c)
	assert.True(t, s.Has(c))
	assert.Equal(t, 1, s.Count())
	s = s.Remove(c)
	assert.False(t, s.Has(c))
	assert.Equal(t, 0, s.Count())
}

func TestSetAlgebra(t *testing.T) {
	a := Of(New(Two, Clubs), New(Three, Clubs))
	b := Of(New(Three, Clubs), New(Four, Clubs))

	assert.Equal(t, 3, a.Union(b).Count())
	assert.Equal(t, 1, a.Intersect(b).Count())
	assert.Equal(t, 2, a.SymmetricDiff(b).Count())
	assert.Equal(t, 50, a.Complement().Count())
}

func TestSetOnlyLow52BitsEverSet(t *testing.T) {
	full := Of()
	for c := Card(0); c < 52; c++ {
		full = full.Insert(c)
	}
	assert.Equal(t, 52, full.Count())
	assert.Equal(t, Set(0), full.Complement())
}

func TestSetOnesAscendingBitOrder(t *testing.T) {
	s := Of(New(King, Hearts), New(Two, Clubs), New(Ace, Spades))
	ones := s.Ones()
	require.Len(t, ones, 3)
	for i := 1; i < len(ones); i++ {
		assert.Less(t, uint8(ones[i-1]), uint8(ones[i]))
	}
}

func TestSetSampleRandomStaysInSet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := Of(New(Two, Clubs), New(Seven, Diamonds), New(Ace, Spades))
	for i := 0; i < 100; i++ {
		c := s.SampleRandom(rng)
		assert.True(t, s.Has(c))
	}
}

func TestSetSampleRandomEmptyPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Panics(t, func() { Set(0).SampleRandom(rng) })
}

func TestDeckDrawsAllDistinctCards(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deck := NewDeck()
	drawn := deck.DrawN(rng, 52)
	seen := make(map[Card]bool, 52)
	for _, c := range drawn {
		assert.False(t, seen[c], "card drawn twice: %v", c)
		seen[c] = true
	}
	assert.Equal(t, 0, deck.CardsRemaining())
}

func TestSequencedDeckDealsInOrder(t *testing.T) {
	seq := []Card{New(Ace, Spades), New(King, Spades), New(Queen, Spades)}
	deck := NewSequencedDeck(seq)
	for _, want := range seq {
		got := deck.Draw(nil)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, deck.CardsRemaining())
}

func TestSequencedDeckExhaustionPanics(t *testing.T) {
	deck := NewSequencedDeck([]Card{New(Two, Clubs)})
	deck.Draw(nil)
	assert.Panics(t, func() { deck.Draw(nil) })
}
