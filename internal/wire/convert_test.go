package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/card"
	"github.com/lox/holdem-arena/internal/engine"
)

func TestFromGameStateHidesOpponentHoleCards(t *testing.T) {
	g, _ := engine.NewStarting([]float32{100, 100}, 10, 5, 0, 0)
	for g.Round != engine.DealPreflop {
		g.AdvanceRound()
	}
	g.DealHole(0, card.New(card.Ace, card.Spades))
	g.DealHole(1, card.New(card.King, card.Hearts))
	g.DealHole(0, card.New(card.Ace, card.Hearts))
	g.DealHole(1, card.New(card.King, card.Spades))
	g.AdvanceRound()

	view := FromGameState(g)
	require.Len(t, view.HoleCards, 2)
	assert.True(t, view.Possible.CanFold || view.Possible.CanCall)
	assert.Equal(t, "preflop", view.Round)
}

func TestFromPossibleActionsOmitsBetRangeWhenNotAllowed(t *testing.T) {
	dto := FromPossibleActions(engine.PossibleActions{CanFold: true, CanCall: true}, 10)
	assert.Nil(t, dto.BetMin)
	assert.Nil(t, dto.BetMax)
}
