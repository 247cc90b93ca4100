package cfr

import (
	"math/rand"

	"github.com/lox/holdem-arena/internal/engine"
	"github.com/lox/holdem-arena/internal/simulate"
)

// Agent wraps a trained Trainer as a simulate.Agent, sampling from the
// regret table's average strategy at decision time. When
// RolloutIterations is positive it first runs that many additional
// full-hand Train passes from scratch, a background-refinement
// rollout rather than a node-rooted resimulation from the live
// mid-hand state: reconstructing an arbitrary partial betting ledger
// generically, without the path that produced it, isn't something the
// live Agent has access to, so refinement instead deepens the shared
// regret table the same way ongoing Train calls would.
type Agent struct {
	Trainer           *Trainer
	Rng               *rand.Rand
	RolloutIterations int
}

func NewAgent(tr *Trainer, rng *rand.Rand) *Agent {
	return &Agent{Trainer: tr, Rng: rng}
}

func (a *Agent) Decide(state *engine.GameState, actions engine.PossibleActions) simulate.AgentAction {
	if a.RolloutIterations > 0 {
		if err := a.Trainer.Train(a.RolloutIterations, a.Rng); err != nil {
			// The simulate.Agent interface has no error return, and a
			// broken rollout here is an engine.ProgrammerError (a
			// corrupted GameState or invariant violation), not an
			// AgentError a driver can legalize around, so it aborts
			// per spec.md §7 rather than playing on from a Trainer
			// that may have left its regret table half-updated.
			panic(&engine.ProgrammerError{Msg: "cfr: background rollout failed: " + err.Error()})
		}
	}

	seat := state.RoundData.ToActIdx
	legal := legalActionIdxs(actions)
	key := a.Trainer.infoSetKey(state, seat)
	entry := a.Trainer.Regrets.Get(key, len(legal))
	strategy := entry.AverageStrategy()

	idx, _ := sampleStrategyIndex(strategy, a.Rng)
	switch legal[idx] {
	case ActFold:
		return simulate.AgentAction{Kind: simulate.ActionFold}
	case ActAllIn:
		return simulate.AgentAction{Kind: simulate.ActionAllIn}
	default: // ActCall
		return simulate.AgentAction{Kind: simulate.ActionCall}
	}
}
