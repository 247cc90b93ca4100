package cfr

import "github.com/lox/holdem-arena/internal/engine"

// The three action indices CFR trains over, narrowed from the
// teacher's open bet-sizing abstraction (sdk/solver/traversal.go's
// BetSizing fractions) down to a fixed Fold/Call/AllIn set per
// spec.md §5, so InfoSetKey's action dimension never needs to grow.
const (
	ActFold = iota
	ActCall
	ActAllIn
)

// legalActionIdxs returns the action indices available at a node,
// mirroring traversal.go's legalActions but over the fixed 3-slot
// abstraction instead of a raise ladder.
func legalActionIdxs(actions engine.PossibleActions) []int {
	out := make([]int, 0, 3)
	if actions.CanFold {
		out = append(out, ActFold)
	}
	out = append(out, ActCall)
	if actions.CanAllIn {
		out = append(out, ActAllIn)
	}
	return out
}

// applyAction commits the chosen abstract action to the engine.
func applyAction(g *engine.GameState, actIdx int, actions engine.PossibleActions) ([]engine.Action, error) {
	switch actIdx {
	case ActFold:
		return g.Fold(), nil
	case ActAllIn:
		_, events, err := g.DoBet(actions.BetMax, false)
		return events, err
	default: // ActCall
		_, events, err := g.DoBet(g.RoundData.Bet, false)
		return events, err
	}
}
