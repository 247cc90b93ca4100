package simulate

import (
	"math/rand"

	"github.com/lox/holdem-arena/internal/card"
	"github.com/lox/holdem-arena/internal/engine"
)

// Driver owns the deck and the per-seat Agents for one hand and is
// the sole mutator of the engine.GameState it advances, per spec.md
// §3's ownership note ("the driver exclusively owns game state, deck").
// Grounded on internal/game/engine.go's GameEngine, generalized from
// its single eventBus.Publish fan-out to a slice of Historians and
// from its in-struct *Table to the standalone engine.GameState value.
type Driver struct {
	Agents     []Agent
	Historians []Historian
}

// NewDriver builds a Driver for one seat-indexed Agent per player.
func NewDriver(agents []Agent, historians ...Historian) *Driver {
	return &Driver{Agents: agents, Historians: historians}
}

func (d *Driver) publish(events []engine.Action) error {
	for _, ev := range events {
		for _, h := range d.Historians {
			if err := h.Observe(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunHand plays a single hand from Starting to Complete, dealing from
// a fresh 52-card deck and pausing at each to-act seat for its
// Agent's decision. It returns the finished GameState so a caller
// (tournament, CFR rollout) can inspect final stacks.
func (d *Driver) RunHand(rng *rand.Rand, stacks []float32, bb, sb, ante float32, dealerIdx int) (*engine.GameState, error) {
	g, events := engine.NewStarting(stacks, bb, sb, ante, dealerIdx)
	if err := d.publish(events); err != nil {
		return g, err
	}
	deck := card.NewDeck()

	for g.Round != engine.Complete {
		switch g.Round {
		case engine.Starting, engine.Ante:
			if err := d.publish(g.AdvanceRound()); err != nil {
				return g, err
			}

		case engine.DealPreflop:
			if err := d.dealHole(g, deck, rng); err != nil {
				return g, err
			}
			if err := d.publish(g.AdvanceRound()); err != nil {
				return g, err
			}

		case engine.DealFlop:
			if err := d.dealCommunity(g, deck, rng, 3); err != nil {
				return g, err
			}
			if err := d.publish(g.AdvanceRound()); err != nil {
				return g, err
			}

		case engine.DealTurn, engine.DealRiver:
			if err := d.dealCommunity(g, deck, rng, 1); err != nil {
				return g, err
			}
			if err := d.publish(g.AdvanceRound()); err != nil {
				return g, err
			}

		case engine.Preflop, engine.Flop, engine.Turn, engine.River:
			if err := d.runBettingStreet(g); err != nil {
				return g, err
			}
			if g.Round == engine.Complete {
				continue
			}
			if err := d.publish(g.AdvanceRound()); err != nil {
				return g, err
			}

		case engine.Showdown:
			if err := d.publish(g.AdvanceRound()); err != nil {
				return g, err
			}
		}
	}
	return g, nil
}

func (d *Driver) dealHole(g *engine.GameState, deck *card.Deck, rng *rand.Rand) error {
	n := g.NumSeats()
	first := (g.DealerIdx + 1) % n
	for round := 0; round < 2; round++ {
		for i := 0; i < n; i++ {
			seat := (first + i) % n
			if !g.Seated.Has(seat) {
				continue
			}
			c := deck.Draw(rng)
			if err := d.publish([]engine.Action{g.DealHole(seat, c)}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Driver) dealCommunity(g *engine.GameState, deck *card.Deck, rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		c := deck.Draw(rng)
		if err := d.publish([]engine.Action{g.DealCommunity(c)}); err != nil {
			return err
		}
	}
	return nil
}

// runBettingStreet pauses at every to-act seat for its Agent's
// decision, normalizes the AgentAction against the current
// PossibleActions, and applies it, until no seat needs to act or the
// hand short-circuits to Complete via fold-to-one.
func (d *Driver) runBettingStreet(g *engine.GameState) error {
	for g.RoundData.ToActIdx >= 0 && g.Round != engine.Complete {
		seat := g.RoundData.ToActIdx
		actions := g.PossibleActions()
		decision := d.Agents[seat].Decide(g, actions)

		fold, target := normalize(decision, actions, g.RoundData.Bet)
		if fold {
			if err := d.publish(g.Fold()); err != nil {
				return err
			}
			continue
		}

		_, events, err := g.DoBet(target, false)
		if err != nil {
			failEvent := engine.Action{
				Kind:       engine.ActionFailedAction,
				Seat:       seat,
				BetAction:  engine.BetFold,
				FailReason: err,
			}
			if !actions.CanFold {
				failEvent.BetAction = engine.BetCall
				failEvent.Target = g.RoundData.Bet
			}
			if pubErr := d.publish([]engine.Action{failEvent}); pubErr != nil {
				return pubErr
			}
			// Fall back to the cheapest legal action, mirroring
			// GameEngine.PlayHand's fallback-to-first-valid-action.
			if actions.CanFold {
				if err := d.publish(g.Fold()); err != nil {
					return err
				}
				continue
			}
			_, events, err = g.DoBet(g.RoundData.Bet, true)
			if err != nil {
				return err
			}
		}
		if err := d.publish(events); err != nil {
			return err
		}
	}
	return nil
}

// normalize maps an AgentAction onto a legal DoBet target, per
// spec.md §4.3: Fold downgrades to Call when nothing is owed, Bet
// clamps to [min,max], AllIn always requests the full stack.
func normalize(a AgentAction, actions engine.PossibleActions, currentBet float32) (fold bool, target float32) {
	switch a.Kind {
	case ActionFold:
		if !actions.CanFold {
			return false, currentBet
		}
		return true, 0
	case ActionAllIn:
		return false, actions.BetMax
	case ActionBet:
		if !actions.CanBet {
			return false, actions.BetMax
		}
		t := a.Target
		if t < actions.BetMin {
			t = actions.BetMin
		}
		if t > actions.BetMax {
			t = actions.BetMax
		}
		return false, t
	default: // ActionCall
		return false, currentBet
	}
}
