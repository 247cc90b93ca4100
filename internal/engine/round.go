package engine

// Round is a step of the hand lifecycle. Values are declared in the
// order the hand must pass through them; AdvanceRound only ever moves
// forward by exactly one step (spec.md I4: "no skip, no backtrack").
// Unlike the teacher's collapsed Street (which folds dealing and
// betting into one step), DealX and X are kept separate per the
// REDESIGN note in spec.md §9 — downstream historians key off the
// separation.
type Round int

const (
	Starting Round = iota
	Ante
	DealPreflop
	Preflop
	DealFlop
	Flop
	DealTurn
	Turn
	DealRiver
	River
	Showdown
	Complete
)

func (r Round) String() string {
	switch r {
	case Starting:
		return "starting"
	case Ante:
		return "ante"
	case DealPreflop:
		return "deal_preflop"
	case Preflop:
		return "preflop"
	case DealFlop:
		return "deal_flop"
	case Flop:
		return "flop"
	case DealTurn:
		return "deal_turn"
	case Turn:
		return "turn"
	case DealRiver:
		return "deal_river"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// IsBettingRound reports whether a Round has a live betting ledger,
// i.e. is one of Preflop/Flop/Turn/River.
func (r Round) IsBettingRound() bool {
	switch r {
	case Preflop, Flop, Turn, River:
		return true
	default:
		return false
	}
}

// RoundData is the per-street betting ledger from spec.md §3: current
// high bet, minimum raise, per-seat contribution this street, per-seat
// bet/raise counts, the needs-action bitset, and the to-act pointer.
// Generalized from internal/game/betting.go's BettingRound, which
// tracks ActedThisRound as a []bool rather than a SeatSet and chip
// amounts as int rather than float32.
type RoundData struct {
	Bet          float32
	MinRaise     float32
	Contribution []float32
	BetCount     []int
	RaiseCount   []int
	NeedsAction  SeatSet
	ToActIdx     int
}

// NewRoundData builds an empty ledger for n seats with the given
// minimum raise (the big blind, reset at the top of every street).
func NewRoundData(n int, minRaise float32) *RoundData {
	return &RoundData{
		MinRaise:     minRaise,
		Contribution: make([]float32, n),
		BetCount:     make([]int, n),
		RaiseCount:   make([]int, n),
	}
}

// Advance moves ToActIdx to the next seat whose bit is set in
// needsAction & active, per spec.md §3, or -1 if none remain.
func (rd *RoundData) Advance(active SeatSet, n int) {
	eligible := rd.NeedsAction.Intersect(active)
	rd.ToActIdx = eligible.NextFrom(rd.ToActIdx+1, n)
}
