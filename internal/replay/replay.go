// Package replay reconstructs a GameState by deterministically
// reapplying a recorded Action log, per spec.md §4.4. Grounded on
// internal/game/hand_history.go's HandHistory (which records actions
// for display and file persistence); this package instead replays the
// log back through the engine itself so a caller can step to any
// point in the hand and inspect live engine.GameState, not just a
// flattened summary.
package replay

import (
	"fmt"

	"github.com/lox/holdem-arena/internal/engine"
)

// Recorder is the simplest Historian: it appends every observed
// Action to an in-memory log, grounded on HandHistory.AddAction's
// role of accumulating one hand's events.
type Recorder struct {
	Events []engine.Action
}

func (r *Recorder) Observe(ev engine.Action) error {
	r.Events = append(r.Events, ev)
	return nil
}

// ReplayError reports a recorded event that could not be reapplied:
// a corrupt or hand-edited log, not a live engine bug.
type ReplayError struct {
	Index  int
	Reason string
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay: event %d: %s", e.Index, e.Reason)
}

// Replay walks a recorded Action log against a fresh engine.GameState.
// Only DealStartingHand, DealCommunity, PlayedAction and RoundAdvance
// events drive the engine forward; GameStart/PlayerSit seed the
// initial state, and ForcedBet/FailedAction/Award entries are
// informational, since the engine reproduces them itself as a
// side effect of the RoundAdvance or Fold that originally emitted
// them.
type Replay struct {
	events    []engine.Action
	headerLen int
	dealerIdx int
	sb, bb    float32
	ante      float32
	stacks    []float32

	state *engine.GameState
	idx   int
}

// New parses the GameStart/PlayerSit header off events and builds a
// Replay positioned at the start of the hand.
func New(events []engine.Action) (*Replay, error) {
	if len(events) == 0 || events[0].Kind != engine.ActionGameStart {
		return nil, &ReplayError{Index: 0, Reason: "log does not start with a GameStart event"}
	}
	start := events[0]
	var stacks []float32
	i := 1
	for i < len(events) && events[i].Kind == engine.ActionPlayerSit {
		stacks = append(stacks, events[i].StartingStack)
		i++
	}
	if len(stacks) != start.NumSeats {
		return nil, &ReplayError{Index: 0, Reason: "PlayerSit count does not match GameStart seat count"}
	}
	r := &Replay{
		events:    events,
		headerLen: i,
		dealerIdx: start.DealerIdx,
		sb:        start.SmallBlind,
		bb:        start.BigBlind,
		ante:      start.Ante,
		stacks:    stacks,
	}
	r.Reset()
	return r, nil
}

// Reset rebuilds a fresh GameState and rewinds the cursor to just
// after the header.
func (r *Replay) Reset() {
	g, _ := engine.NewStarting(r.stacks, r.bb, r.sb, r.ante, r.dealerIdx)
	r.state = g
	r.idx = r.headerLen
}

// State returns the GameState as of the current cursor position.
func (r *Replay) State() *engine.GameState { return r.state }

// Len returns the total number of recorded events.
func (r *Replay) Len() int { return len(r.events) }

// Index returns the cursor: the number of events applied so far.
func (r *Replay) Index() int { return r.idx }

// StepForward applies the next recorded event, if any remain.
func (r *Replay) StepForward() error {
	if r.idx >= len(r.events) {
		return nil
	}
	if err := r.apply(r.events[r.idx]); err != nil {
		return err
	}
	r.idx++
	return nil
}

// StepTo moves the cursor to index i. Moving forward replays the
// intervening events; moving backward resets to the start of the
// hand and replays forward from zero, since the engine keeps no
// undo log of its own.
func (r *Replay) StepTo(i int) error {
	if i < r.idx {
		r.Reset()
	}
	for r.idx < i {
		if err := r.StepForward(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Replay) apply(ev engine.Action) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ReplayError{Index: r.idx, Reason: fmt.Sprintf("%v", p)}
		}
	}()
	switch ev.Kind {
	case engine.ActionDealStartingHand:
		r.state.DealHole(ev.Seat, ev.Card)
	case engine.ActionDealCommunity:
		r.state.DealCommunity(ev.Card)
	case engine.ActionPlayedAction:
		if ev.BetAction == engine.BetFold {
			r.state.Fold()
		} else if _, _, derr := r.state.DoBet(ev.Target, false); derr != nil {
			return &ReplayError{Index: r.idx, Reason: derr.Error()}
		}
	case engine.ActionRoundAdvance:
		r.state.AdvanceRound()
	}
	return nil
}
