package engine

import "github.com/lox/holdem-arena/internal/card"

// ActionKind tags the closed sum type of hand events (spec.md §3,
// "Event log (Action)"). There is no open extension: historians switch
// exhaustively over Kind, grounded on the teacher's GameEvent union in
// internal/game/events.go, collapsed here into one struct-of-union
// shape instead of many named event types, since every consumer in
// this module (historians, replay) needs the same closed set.
type ActionKind int

const (
	ActionGameStart ActionKind = iota
	ActionPlayerSit
	ActionDealStartingHand
	ActionForcedBet
	ActionPlayedAction
	ActionFailedAction
	ActionDealCommunity
	ActionRoundAdvance
	ActionAward
)

func (k ActionKind) String() string {
	switch k {
	case ActionGameStart:
		return "GameStart"
	case ActionPlayerSit:
		return "PlayerSit"
	case ActionDealStartingHand:
		return "DealStartingHand"
	case ActionForcedBet:
		return "ForcedBet"
	case ActionPlayedAction:
		return "PlayedAction"
	case ActionFailedAction:
		return "FailedAction"
	case ActionDealCommunity:
		return "DealCommunity"
	case ActionRoundAdvance:
		return "RoundAdvance"
	case ActionAward:
		return "Award"
	default:
		return "Unknown"
	}
}

// ForcedBetKind distinguishes the three forced bets in spec.md §3.
type ForcedBetKind int

const (
	ForcedAnte ForcedBetKind = iota
	ForcedSmallBlind
	ForcedBigBlind
)

// BetKind is the normalized action a player took, mirroring
// spec.md §4.3's AgentAction grammar after normalization against
// state (Fold/Call/Bet/AllIn); Check is represented as BetCall at the
// current price.
type BetKind int

const (
	BetFold BetKind = iota
	BetCall
	BetRaiseOrBet
	BetAllIn
)

// StateSnapshot is the subset of GameState a PlayedAction event
// carries before and after the action, for historians that inspect
// it. internal/replay does not read these snapshots: it re-applies
// the logged Target through DoBet (or the fold through Fold).
type StateSnapshot struct {
	Bet           float32
	MinRaise      float32
	Pot           float32
	PlayerActive  SeatSet
	PlayerAllIn   SeatSet
	PlayerBet     []float32
	Stacks        []float32
	ActorStack    float32
	ActorBet      float32
}

// Action is one entry in the hand's event log. Exactly one of the
// typed payload fields is meaningful, selected by Kind — a closed sum
// type rather than an interface hierarchy, per spec.md §9's "Deep
// inheritance" design note.
type Action struct {
	Kind ActionKind

	// ActionGameStart
	Ante, SmallBlind, BigBlind float32
	DealerIdx                  int
	NumSeats                   int

	// ActionPlayerSit / ActionDealStartingHand / ActionForcedBet /
	// ActionPlayedAction / ActionFailedAction / ActionAward: seat index
	Seat int

	// ActionPlayerSit
	StartingStack float32

	// ActionDealStartingHand / ActionDealCommunity
	Card card.Card

	// ActionForcedBet
	ForcedKind ForcedBetKind
	Amount     float32

	// ActionPlayedAction / ActionFailedAction
	BetAction BetKind
	Target    float32 // target total requested
	Before    StateSnapshot
	After     StateSnapshot
	// FailedAction only: why the attempt was rejected, and what the
	// driver substituted in its place (the legalized BetAction/Target).
	FailReason error

	// ActionRoundAdvance
	NewRound Round

	// ActionAward
	AwardAmount  float32
	TotalPot     float32
	HasRank      bool
	Rank         card.Rank
	Hand         card.Set
}
