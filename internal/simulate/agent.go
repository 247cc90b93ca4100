// Package simulate drives a single hand of Hold'em to completion,
// pausing at each to-act seat for an Agent decision and fanning the
// resulting Action events out to Historians. Grounded on
// internal/game/engine.go's GameEngine.PlayHand loop and
// internal/bot's per-seat Agent implementations, generalized from the
// teacher's int-chip TableState/ValidAction/Decision shapes to
// engine.GameState/PossibleActions/AgentAction.
package simulate

import (
	"math/rand"

	"github.com/lox/holdem-arena/internal/engine"
)

// AgentActionKind is the closed three-way choice from spec.md §4.3's
// AgentAction grammar, plus Bet for a sized raise.
type AgentActionKind int

const (
	ActionFold AgentActionKind = iota
	ActionCall
	ActionBet
	ActionAllIn
)

// AgentAction is what an Agent returns for the seat currently to act.
// Target is only meaningful for ActionBet, and is a target total for
// the street, not a delta.
type AgentAction struct {
	Kind   AgentActionKind
	Target float32
}

// Agent decides an action for the seat at state.RoundData.ToActIdx,
// given the legal action menu. Implementations must not mutate state.
type Agent interface {
	Decide(state *engine.GameState, actions engine.PossibleActions) AgentAction
}

// Historian observes every Action as it is produced. Returning an
// error aborts the driver; this mirrors spec.md §4.3's requirement
// that a Historian error is fatal to the run, not logged-and-ignored.
type Historian interface {
	Observe(ev engine.Action) error
}

// FoldBot always folds, checking instead when folding would cost
// nothing. Grounded on internal/bot/foldbot.go.
type FoldBot struct{}

func (FoldBot) Decide(_ *engine.GameState, actions engine.PossibleActions) AgentAction {
	if !actions.CanFold {
		return AgentAction{Kind: ActionCall}
	}
	return AgentAction{Kind: ActionFold}
}

// CallBot always calls (or checks), never folding or raising.
// Grounded on internal/bot/callbot.go.
type CallBot struct{}

func (CallBot) Decide(_ *engine.GameState, _ engine.PossibleActions) AgentAction {
	return AgentAction{Kind: ActionCall}
}

// AllInBot always shoves. Grounded on internal/bot/maniacbot.go's
// always-aggressive posture, narrowed to the single all-in action.
type AllInBot struct{}

func (AllInBot) Decide(_ *engine.GameState, _ engine.PossibleActions) AgentAction {
	return AgentAction{Kind: ActionAllIn}
}

// RandomBot picks uniformly among the legal action kinds, sizing a
// Bet uniformly between min and max. Grounded on
// internal/bot/randbot.go.
type RandomBot struct {
	Rng *rand.Rand
}

func NewRandomBot(rng *rand.Rand) *RandomBot { return &RandomBot{Rng: rng} }

func (r *RandomBot) Decide(_ *engine.GameState, actions engine.PossibleActions) AgentAction {
	var choices []AgentActionKind
	if actions.CanFold {
		choices = append(choices, ActionFold)
	}
	choices = append(choices, ActionCall)
	if actions.CanBet {
		choices = append(choices, ActionBet)
	}
	if actions.CanAllIn {
		choices = append(choices, ActionAllIn)
	}
	kind := choices[r.Rng.Intn(len(choices))]
	if kind != ActionBet {
		return AgentAction{Kind: kind}
	}
	span := actions.BetMax - actions.BetMin
	target := actions.BetMin
	if span > 0 {
		target += span * r.Rng.Float32()
	}
	return AgentAction{Kind: ActionBet, Target: target}
}
