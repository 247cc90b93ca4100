package wire

import (
	"github.com/lox/holdem-arena/internal/card"
	"github.com/lox/holdem-arena/internal/engine"
)

// FromPossibleActions converts an engine.PossibleActions into the
// wire DTO an external decision maker marshals against.
func FromPossibleActions(actions engine.PossibleActions, toCall float32) PossibleActions {
	out := PossibleActions{
		CanFold:  actions.CanFold,
		CanCall:  actions.CanCall,
		ToCall:   toCall,
		CanBet:   actions.CanBet,
		CanAllIn: actions.CanAllIn,
	}
	if actions.CanBet {
		min, max := actions.BetMin, actions.BetMax
		out.BetMin = &min
		out.BetMax = &max
	}
	return out
}

// FromGameState builds the public TableView for the seat currently to
// act, omitting every other seat's hole cards.
func FromGameState(g *engine.GameState) TableView {
	seat := g.RoundData.ToActIdx
	seats := make([]Seat, g.NumSeats())
	for i := range seats {
		seats[i] = Seat{
			Index:  i,
			Stack:  g.Stacks[i],
			Bet:    g.PlayerBet[i],
			Folded: !g.PlayerActive.Has(i) && !g.PlayerAllIn.Has(i),
			AllIn:  g.PlayerAllIn.Has(i),
		}
	}

	board := make([]string, len(g.Board))
	for i, c := range g.Board {
		board[i] = c.String()
	}

	var hole []string
	var possible PossibleActions
	if seat >= 0 {
		hole = holeCardStrings(g.Hands[seat], g.Board)
		toCall := g.RoundData.Bet - g.RoundData.Contribution[seat]
		possible = FromPossibleActions(g.PossibleActions(), toCall)
	}

	return TableView{
		Round:     g.Round.String(),
		Board:     board,
		Pot:       g.TotalPot,
		Seats:     seats,
		ToAct:     seat,
		HoleCards: hole,
		Possible:  possible,
	}
}

// holeCardStrings recovers a seat's two private cards from its
// Hands[seat] set by subtracting the known board cards, since
// GameState folds community cards into every hand's Set (state.go's
// DealCommunity).
func holeCardStrings(hand card.Set, board []card.Card) []string {
	boardSet := card.Set(0)
	for _, c := range board {
		boardSet = boardSet.Insert(c)
	}
	hole := hand.Intersect(boardSet.Complement())
	out := make([]string, 0, 2)
	for _, c := range hole.Ones() {
		out = append(out, c.String())
	}
	return out
}
