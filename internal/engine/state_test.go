package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/card"
)

func advanceTo(t *testing.T, g *GameState, round Round) {
	t.Helper()
	for g.Round != round {
		g.AdvanceRound()
		require.LessOrEqual(t, int(g.Round), int(Complete))
	}
}

func TestHeadsUpFoldToOne(t *testing.T) {
	g, _ := NewStarting([]float32{100, 100}, 10, 5, 0, 0)
	advanceTo(t, g, DealPreflop)
	g.DealHole(0, card.New(card.Ace, card.Spades))
	g.DealHole(1, card.New(card.King, card.Spades))
	g.DealHole(0, card.New(card.Two, card.Clubs))
	g.DealHole(1, card.New(card.Three, card.Clubs))
	events := g.AdvanceRound() // -> Preflop, posts blinds
	require.NotEmpty(t, events)
	assert.Equal(t, Preflop, g.Round)
	assert.Equal(t, float32(95), g.Stacks[0]) // dealer posted SB
	assert.Equal(t, float32(90), g.Stacks[1]) // other seat posted BB

	// Heads-up: dealer (seat 0, the SB) acts first preflop.
	require.Equal(t, 0, g.RoundData.ToActIdx)
	g.Fold()

	assert.Equal(t, Complete, g.Round)
	assert.Equal(t, float32(95), g.Stacks[0])
	assert.Equal(t, float32(105), g.Stacks[1])
	assert.Equal(t, float32(15), g.PlayerWinnings[1])
}

func TestDoBetRejectsShortRaise(t *testing.T) {
	g, _ := NewStarting([]float32{100, 100, 100}, 10, 5, 0, 0)
	advanceTo(t, g, DealPreflop)
	for seat := 0; seat < 3; seat++ {
		g.DealHole(seat, card.New(card.Value(seat), card.Clubs))
		g.DealHole(seat, card.New(card.Value(seat+4), card.Diamonds))
	}
	g.AdvanceRound() // -> Preflop
	seat := g.RoundData.ToActIdx
	_, _, err := g.DoBet(g.RoundData.Bet+1, false) // raise of 1, below min raise of 10
	require.Error(t, err)
	var agentErr *AgentError
	assert.ErrorAs(t, err, &agentErr)
	assert.Equal(t, seat, g.RoundData.ToActIdx) // actor unchanged, nothing committed
}

func TestSidePotSettlement(t *testing.T) {
	// Seat 0 shoves preflop for 20 with the best hand (pocket aces).
	// Seats 1 and 2 call, then build a second betting layer on the
	// flop that seat 0 can no longer contest: seat 0 only contests
	// the 60-chip main pot, seat 1 (second-best hand) takes the
	// 60-chip side pot outright over seat 2's worse hand.
	g, _ := NewStarting([]float32{20, 100, 100}, 10, 5, 0, 0)
	advanceTo(t, g, DealPreflop)
	g.DealHole(0, card.New(card.Ace, card.Spades))
	g.DealHole(0, card.New(card.Ace, card.Clubs))
	g.DealHole(1, card.New(card.King, card.Spades))
	g.DealHole(1, card.New(card.King, card.Clubs))
	g.DealHole(2, card.New(card.Queen, card.Diamonds))
	g.DealHole(2, card.New(card.Queen, card.Hearts))
	g.AdvanceRound() // -> Preflop, blinds posted (seat1 SB, seat2 BB for n=3)

	require.Equal(t, 0, g.RoundData.ToActIdx)
	_, _, err := g.DoBet(20, false) // seat0 all-in for 20
	require.NoError(t, err)
	require.Equal(t, 1, g.RoundData.ToActIdx)
	_, _, err = g.DoBet(20, false) // seat1 calls
	require.NoError(t, err)
	require.Equal(t, 2, g.RoundData.ToActIdx)
	_, _, err = g.DoBet(20, false) // seat2 calls
	require.NoError(t, err)

	g.AdvanceRound() // -> DealFlop
	g.AdvanceRound() // -> Flop, to-act seat1

	require.Equal(t, 1, g.RoundData.ToActIdx)
	_, _, err = g.DoBet(30, false) // seat1 bets into the side pot
	require.NoError(t, err)
	require.Equal(t, 2, g.RoundData.ToActIdx)
	_, _, err = g.DoBet(30, false) // seat2 calls
	require.NoError(t, err)

	for g.Round != Turn {
		g.AdvanceRound()
	}
	_, _, err = g.DoBet(0, false) // seat1 checks turn
	require.NoError(t, err)
	_, _, err = g.DoBet(0, false) // seat2 checks turn
	require.NoError(t, err)
	for g.Round != River {
		g.AdvanceRound()
	}
	_, _, err = g.DoBet(0, false) // seat1 checks river
	require.NoError(t, err)
	_, _, err = g.DoBet(0, false) // seat2 checks river
	require.NoError(t, err)

	advanceTo(t, g, Complete)

	assert.Equal(t, float32(60), g.PlayerWinnings[0]) // main pot: 20*3
	assert.Equal(t, float32(60), g.PlayerWinnings[1]) // side pot: 30*2, best of {1,2}
	assert.Equal(t, float32(0), g.PlayerWinnings[2])
}
