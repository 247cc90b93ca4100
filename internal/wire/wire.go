// Package wire defines the plain DTOs an external decision-making
// layer (an LLM agent, a remote bot process) would marshal against:
// a possible-action menu going out, and a reasoned decision coming
// back. No transport is built around them — spec.md §1 scopes
// networking out of this module — but the shapes are stable so a
// caller outside this module can serialize them. Grounded on
// internal/protocol/messages.go's DTO style, adapted from its msgp
// tags to encoding/json per spec.md §6.
package wire

// ActionKind is the closed set of action names an external decision
// DTO can name.
type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCall  ActionKind = "call"
	ActionBet   ActionKind = "bet"
	ActionAllIn ActionKind = "all_in"
)

// PossibleActions is what gets sent out to an external decision maker
// describing the legal action menu at the current to-act seat,
// mirroring engine.PossibleActions.
type PossibleActions struct {
	CanFold  bool     `json:"can_fold"`
	CanCall  bool     `json:"can_call"`
	ToCall   float32  `json:"to_call"`
	CanBet   bool     `json:"can_bet"`
	BetMin   *float32 `json:"bet_min,omitempty"`
	BetMax   *float32 `json:"bet_max,omitempty"`
	CanAllIn bool     `json:"can_all_in"`
}

// Decision is what comes back from an external decision maker: the
// chosen action plus an optional free-text justification, per
// spec.md §6's {reason, action} shape.
type Decision struct {
	Reason string     `json:"reason,omitempty"`
	Action ActionKind `json:"action"`
	Amount float32    `json:"amount,omitempty"`
}

// Seat describes one seat's public state for an external observer.
type Seat struct {
	Index  int     `json:"index"`
	Stack  float32 `json:"stack"`
	Bet    float32 `json:"bet"`
	Folded bool    `json:"folded"`
	AllIn  bool    `json:"all_in"`
}

// TableView is the public snapshot an external caller sees before
// being asked for a Decision: everything needed to reason about the
// hand without exposing opponents' hole cards.
type TableView struct {
	Round      string  `json:"round"`
	Board      []string `json:"board"`
	Pot        float32 `json:"pot"`
	Seats      []Seat  `json:"seats"`
	ToAct      int     `json:"to_act"`
	HoleCards  []string `json:"hole_cards"`
	Possible   PossibleActions `json:"possible_actions"`
}
