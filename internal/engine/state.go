// Package engine implements the Hold'em street-level state machine:
// bet validation, side-pot settlement, and the replayable Action event
// log from spec.md §3-§4.2. It is generalized from
// internal/game/hand.go's HandState (int chips, a single collapsed
// Street) to float32 stacks and the full Starting..Complete Round
// sequence, with side pots computed by rank-then-bet grouping instead
// of PotManager's all-in-amount sweep.
package engine

import (
	"sort"

	"github.com/lox/holdem-arena/internal/card"
)

// GameState is the authoritative struct from spec.md §3. The
// simulation driver exclusively owns it; historians only see the
// Action events, while agents are handed the live *GameState to read
// (simulate.Agent implementations must not mutate it).
type GameState struct {
	Round          Round
	Stacks         []float32
	StartingStacks []float32
	Hands          []card.Set // hole + community merged after dealing
	Board          []card.Card
	PlayerActive   SeatSet
	PlayerAllIn    SeatSet
	PlayerBet      []float32 // total wager this hand, per seat
	TotalPot       float32
	SmallBlind     float32
	BigBlind       float32
	Ante           float32
	DealerIdx      int
	SBPosted       bool
	BBPosted       bool
	RoundData      *RoundData
	PlayerWinnings []float32

	Seated SeatSet
	n      int
}

func fullSeatSet(n int) SeatSet {
	var s SeatSet
	for i := 0; i < n; i++ {
		s = s.Enable(i)
	}
	return s
}

// NewStarting builds a fresh hand for the given starting stacks and
// returns it alongside the GameStart/PlayerSit events spec.md §4.2
// requires ("all invariants hold; round = Starting").
func NewStarting(stacks []float32, bb, sb, ante float32, dealerIdx int) (*GameState, []Action) {
	n := len(stacks)
	g := &GameState{
		Round:          Starting,
		Stacks:         append([]float32(nil), stacks...),
		StartingStacks: append([]float32(nil), stacks...),
		Hands:          make([]card.Set, n),
		PlayerActive:   fullSeatSet(n),
		PlayerBet:      make([]float32, n),
		SmallBlind:     sb,
		BigBlind:       bb,
		Ante:           ante,
		DealerIdx:      dealerIdx,
		Seated:         fullSeatSet(n),
		PlayerWinnings: make([]float32, n),
		RoundData:      NewRoundData(n, bb),
		n:              n,
	}
	events := []Action{{Kind: ActionGameStart, Ante: ante, SmallBlind: sb, BigBlind: bb, DealerIdx: dealerIdx, NumSeats: n}}
	for s := 0; s < n; s++ {
		events = append(events, Action{Kind: ActionPlayerSit, Seat: s, StartingStack: stacks[s]})
	}
	return g, events
}

// NumSeats returns the number of seats in the hand.
func (g *GameState) NumSeats() int { return g.n }

func (g *GameState) snapshot(actorSeat int) StateSnapshot {
	return StateSnapshot{
		Bet:          g.RoundData.Bet,
		MinRaise:     g.RoundData.MinRaise,
		Pot:          g.TotalPot,
		PlayerActive: g.PlayerActive,
		PlayerAllIn:  g.PlayerAllIn,
		PlayerBet:    append([]float32(nil), g.PlayerBet...),
		Stacks:       append([]float32(nil), g.Stacks...),
		ActorStack:   g.Stacks[actorSeat],
		ActorBet:     g.RoundData.Contribution[actorSeat],
	}
}

// activeCanAct counts active (non-folded) seats that are not all-in,
// i.e. seats that could still take a betting action.
func (g *GameState) activeCanAct() int {
	n := 0
	for _, s := range g.PlayerActive.Ones() {
		if !g.PlayerAllIn.Has(s) {
			n++
		}
	}
	return n
}

// bettingComplete implements spec.md §4.2's advance_round legality
// rule: needs_action & player_active is empty, or at most one seat can
// still act.
func (g *GameState) bettingComplete() bool {
	if g.RoundData.NeedsAction.Intersect(g.PlayerActive).Empty() {
		return true
	}
	return g.activeCanAct() <= 1
}

// PossibleActions computes the pause-point action menu from spec.md
// §4.3: Fold iff money is owed, Call always, Bet{min,max} when
// min<=max, AllIn iff max exceeds the current high bet.
type PossibleActions struct {
	CanFold  bool
	CanCall  bool
	CanBet   bool
	BetMin   float32
	BetMax   float32
	CanAllIn bool
}

func (g *GameState) PossibleActions() PossibleActions {
	seat := g.RoundData.ToActIdx
	contrib := g.RoundData.Contribution[seat]
	stack := g.Stacks[seat]
	owed := g.RoundData.Bet - contrib
	min := g.RoundData.Bet + g.RoundData.MinRaise
	max := contrib + stack
	return PossibleActions{
		CanFold:  owed > 0,
		CanCall:  true,
		CanBet:   min <= max,
		BetMin:   min,
		BetMax:   max,
		CanAllIn: max > g.RoundData.Bet,
	}
}

// DoBet commits a wager for the current to-act seat. amount is the
// target total this street for that seat, not a delta, per spec.md
// §4.2. It silently clamps to all-in when amount exceeds the
// remaining stack.
func (g *GameState) DoBet(amount float32, forced bool) (actual float32, events []Action, err error) {
	seat := g.RoundData.ToActIdx
	if seat < 0 {
		panicInvariant("do_bet called with no seat to act")
	}
	contribBefore := g.RoundData.Contribution[seat]
	stack := g.Stacks[seat]
	target := amount
	wentAllIn := false
	if target-contribBefore >= stack {
		target = contribBefore + stack
		wentAllIn = true
	}

	isRaise := target > g.RoundData.Bet
	if !forced {
		if target < g.RoundData.Bet && !wentAllIn {
			return 0, nil, agentErr(ErrBetSizeDoesntCall)
		}
		if isRaise {
			raiseDelta := target - g.RoundData.Bet
			if raiseDelta < g.RoundData.MinRaise && !wentAllIn {
				return 0, nil, agentErr(ErrRaiseSizeTooSmall)
			}
		}
	}

	before := g.snapshot(seat)
	delta := target - contribBefore

	g.Stacks[seat] -= delta
	g.RoundData.Contribution[seat] = target
	g.PlayerBet[seat] += delta
	g.TotalPot += delta
	g.RoundData.BetCount[seat]++

	if isRaise {
		raiseDelta := target - g.RoundData.Bet
		if raiseDelta > g.RoundData.MinRaise {
			g.RoundData.MinRaise = raiseDelta
		}
		g.RoundData.Bet = target
		g.RoundData.RaiseCount[seat]++
	}
	if wentAllIn {
		g.PlayerAllIn = g.PlayerAllIn.Enable(seat)
	}

	g.RoundData.NeedsAction = g.RoundData.NeedsAction.Disable(seat)
	if isRaise {
		for _, s := range g.PlayerActive.Ones() {
			if s != seat && !g.PlayerAllIn.Has(s) {
				g.RoundData.NeedsAction = g.RoundData.NeedsAction.Enable(s)
			}
		}
	}

	after := g.snapshot(seat)
	betAction := BetCall
	if isRaise {
		betAction = BetRaiseOrBet
	}
	if wentAllIn {
		betAction = BetAllIn
	}
	ev := Action{
		Kind:      ActionPlayedAction,
		Seat:      seat,
		BetAction: betAction,
		Target:    target,
		Before:    before,
		After:     after,
	}
	g.RoundData.Advance(g.PlayerActive, g.n)
	return target, []Action{ev}, nil
}

// Fold clears the actor from player_active and needs_action. When at
// most one contestant remains, the hand short-circuits straight to
// Complete and awards the pot without a rank computation (spec.md
// §4.2 "Fold-to-one").
func (g *GameState) Fold() []Action {
	seat := g.RoundData.ToActIdx
	if seat < 0 {
		panicInvariant("fold called with no seat to act")
	}
	before := g.snapshot(seat)
	g.PlayerActive = g.PlayerActive.Disable(seat)
	g.RoundData.NeedsAction = g.RoundData.NeedsAction.Disable(seat)
	after := g.snapshot(seat)

	events := []Action{{
		Kind:      ActionPlayedAction,
		Seat:      seat,
		BetAction: BetFold,
		Before:    before,
		After:     after,
	}}

	contestants := g.PlayerActive.Union(g.PlayerAllIn)
	if contestants.Count() <= 1 {
		events = append(events, g.awardFoldToOne(contestants)...)
		return events
	}
	g.RoundData.Advance(g.PlayerActive, g.n)
	return events
}

// Award increments stacks[idx] and player_winnings[idx] directly,
// mirroring spec.md §4.2's public award operation used by showdown
// and fold-to-one settlement.
func (g *GameState) Award(seat int, amount float32) Action {
	g.Stacks[seat] += amount
	g.PlayerWinnings[seat] += amount
	return Action{Kind: ActionAward, Seat: seat, AwardAmount: amount, TotalPot: g.TotalPot}
}

func (g *GameState) awardFoldToOne(contestants SeatSet) []Action {
	seats := contestants.Ones()
	if len(seats) != 1 {
		panicInvariant("fold-to-one reached with contestants != 1")
	}
	seat := seats[0]
	amount := g.TotalPot
	ev := g.Award(seat, amount)
	g.Round = Complete
	return []Action{ev}
}

// Complete forces round = Complete. Idempotent.
func (g *GameState) Complete() []Action {
	if g.Round == Complete {
		return nil
	}
	g.Round = Complete
	return []Action{{Kind: ActionRoundAdvance, NewRound: Complete}}
}

// DealHole adds a hole card to a seat's hand, checking I6 (unique
// hole/board cards) as a programmer invariant.
func (g *GameState) DealHole(seat int, c card.Card) Action {
	g.checkCardUnique(c)
	g.Hands[seat] = g.Hands[seat].Insert(c)
	return Action{Kind: ActionDealStartingHand, Seat: seat, Card: c}
}

// DealCommunity adds a board card and merges it into every seated
// hand, per spec.md §3's "hands[n]... merged after dealing".
func (g *GameState) DealCommunity(c card.Card) Action {
	g.checkCardUnique(c)
	g.Board = append(g.Board, c)
	for _, s := range g.Seated.Ones() {
		g.Hands[s] = g.Hands[s].Insert(c)
	}
	return Action{Kind: ActionDealCommunity, Card: c}
}

func (g *GameState) checkCardUnique(c card.Card) {
	for _, s := range g.Seated.Ones() {
		if g.Hands[s].Has(c) {
			panicInvariant("duplicate card dealt")
		}
	}
}

func (g *GameState) postForced(seat int, amount float32, kind ForcedBetKind) Action {
	actual := amount
	if actual > g.Stacks[seat] {
		actual = g.Stacks[seat]
	}
	g.Stacks[seat] -= actual
	g.PlayerBet[seat] += actual
	g.TotalPot += actual
	g.RoundData.Contribution[seat] += actual
	if g.RoundData.Contribution[seat] > g.RoundData.Bet {
		g.RoundData.Bet = g.RoundData.Contribution[seat]
	}
	if g.Stacks[seat] == 0 {
		g.PlayerAllIn = g.PlayerAllIn.Enable(seat)
	}
	return Action{Kind: ActionForcedBet, Seat: seat, ForcedKind: kind, Amount: actual}
}

func (g *GameState) blindSeats() (sb, bb int) {
	if g.n == 2 {
		return g.DealerIdx, (g.DealerIdx + 1) % g.n
	}
	return (g.DealerIdx + 1) % g.n, (g.DealerIdx + 2) % g.n
}

func (g *GameState) firstToActPreflop() int {
	if g.n == 2 {
		return g.DealerIdx
	}
	return (g.DealerIdx + 3) % g.n
}

func (g *GameState) firstToActPostflop() int {
	return (g.DealerIdx + 1) % g.n
}

func (g *GameState) beginStreetLedger() {
	g.RoundData = NewRoundData(g.n, g.BigBlind)
}

func (g *GameState) finalizeNeedsAction(first int) {
	var needs SeatSet
	for _, s := range g.PlayerActive.Ones() {
		if !g.PlayerAllIn.Has(s) {
			needs = needs.Enable(s)
		}
	}
	g.RoundData.NeedsAction = needs
	g.RoundData.ToActIdx = needs.NextFrom(first, g.n)
}

func (g *GameState) postBlinds() []Action {
	sbSeat, bbSeat := g.blindSeats()
	events := []Action{g.postForced(sbSeat, g.SmallBlind, ForcedSmallBlind)}
	g.SBPosted = true
	events = append(events, g.postForced(bbSeat, g.BigBlind, ForcedBigBlind))
	g.BBPosted = true
	if g.RoundData.Bet < g.BigBlind {
		g.RoundData.Bet = g.BigBlind
	}
	g.RoundData.MinRaise = g.BigBlind
	return events
}

// AdvanceRound moves the hand to the next Round in the sequence from
// spec.md §3, resetting round_data for betting streets. It panics
// (ProgrammerError) if called while betting is still live, or past
// Complete, per I4.
func (g *GameState) AdvanceRound() []Action {
	switch g.Round {
	case Starting:
		g.Round = Ante
		return []Action{{Kind: ActionRoundAdvance, NewRound: Ante}}

	case Ante:
		var events []Action
		if g.Ante > 0 {
			for _, s := range g.Seated.Ones() {
				events = append(events, g.postForced(s, g.Ante, ForcedAnte))
			}
		}
		g.Round = DealPreflop
		return append(events, Action{Kind: ActionRoundAdvance, NewRound: DealPreflop})

	case DealPreflop:
		g.beginStreetLedger()
		events := g.postBlinds()
		g.finalizeNeedsAction(g.firstToActPreflop())
		g.Round = Preflop
		return append(events, Action{Kind: ActionRoundAdvance, NewRound: Preflop})

	case Preflop:
		g.requireBettingComplete()
		g.Round = DealFlop
		return []Action{{Kind: ActionRoundAdvance, NewRound: DealFlop}}

	case DealFlop:
		g.beginStreetLedger()
		g.finalizeNeedsAction(g.firstToActPostflop())
		g.Round = Flop
		return []Action{{Kind: ActionRoundAdvance, NewRound: Flop}}

	case Flop:
		g.requireBettingComplete()
		g.Round = DealTurn
		return []Action{{Kind: ActionRoundAdvance, NewRound: DealTurn}}

	case DealTurn:
		g.beginStreetLedger()
		g.finalizeNeedsAction(g.firstToActPostflop())
		g.Round = Turn
		return []Action{{Kind: ActionRoundAdvance, NewRound: Turn}}

	case Turn:
		g.requireBettingComplete()
		g.Round = DealRiver
		return []Action{{Kind: ActionRoundAdvance, NewRound: DealRiver}}

	case DealRiver:
		g.beginStreetLedger()
		g.finalizeNeedsAction(g.firstToActPostflop())
		g.Round = River
		return []Action{{Kind: ActionRoundAdvance, NewRound: River}}

	case River:
		g.requireBettingComplete()
		events := []Action{{Kind: ActionRoundAdvance, NewRound: Showdown}}
		g.Round = Showdown
		events = append(events, g.settleShowdown()...)
		return events

	case Showdown:
		g.Round = Complete
		return []Action{{Kind: ActionRoundAdvance, NewRound: Complete}}

	default:
		panicInvariant("advance_round called on Complete")
		return nil
	}
}

func (g *GameState) requireBettingComplete() {
	if !g.bettingComplete() {
		panicInvariant("advance_round called while betting is still live")
	}
}

type contestantRank struct {
	seat int
	rank card.Rank
}

// settleShowdown implements spec.md §4.2's side-pot settlement:
// contestants grouped by rank descending, each group swept in
// ascending-bet layers using the still-live bet amounts, folded
// seats' contributions drained into every layer they reach, and any
// residue above the highest live bet merged into the first
// (highest-rank) pot.
func (g *GameState) settleShowdown() []Action {
	contestantSeats := g.PlayerActive.Union(g.PlayerAllIn).Ones()
	if len(contestantSeats) == 0 {
		return nil
	}
	infos := make([]contestantRank, len(contestantSeats))
	for i, s := range contestantSeats {
		infos[i] = contestantRank{seat: s, rank: card.Evaluate(g.Hands[s])}
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[j].rank.Less(infos[i].rank) })

	remaining := append([]float32(nil), g.PlayerBet...)
	type layer struct {
		amount  float32
		winners []int
	}
	var layers []layer

	i := 0
	for i < len(infos) {
		j := i
		for j < len(infos) && infos[j].rank.Equal(infos[i].rank) {
			j++
		}
		group := append([]contestantRank(nil), infos[i:j]...)
		sort.SliceStable(group, func(a, b int) bool {
			return remaining[group[a].seat] < remaining[group[b].seat]
		})
		owed := make([]int, len(group))
		for k, c := range group {
			owed[k] = c.seat
		}
		for len(owed) > 0 {
			w := remaining[owed[0]]
			for _, s := range owed {
				if remaining[s] < w {
					w = remaining[s]
				}
			}
			if w <= 0 {
				owed = dropZero(owed, remaining)
				continue
			}
			var potAmt float32
			for s := 0; s < g.n; s++ {
				drain := remaining[s]
				if drain > w {
					drain = w
				}
				remaining[s] -= drain
				potAmt += drain
			}
			layers = append(layers, layer{amount: potAmt, winners: append([]int(nil), owed...)})
			owed = dropZero(owed, remaining)
		}
		i = j
	}

	var leftover float32
	for s := 0; s < g.n; s++ {
		leftover += remaining[s]
	}
	if leftover > 0 && len(layers) > 0 {
		layers[0].amount += leftover
	}

	totals := make([]float32, g.n)
	for _, l := range layers {
		if len(l.winners) == 0 {
			continue
		}
		share := l.amount / float32(len(l.winners))
		for _, s := range l.winners {
			totals[s] += share
		}
	}

	rankByContestant := make(map[int]card.Rank, len(infos))
	for _, c := range infos {
		rankByContestant[c.seat] = c.rank
	}

	var events []Action
	for s := 0; s < g.n; s++ {
		if totals[s] <= 0 {
			continue
		}
		g.Stacks[s] += totals[s]
		g.PlayerWinnings[s] += totals[s]
		events = append(events, Action{
			Kind:        ActionAward,
			Seat:        s,
			AwardAmount: totals[s],
			TotalPot:    g.TotalPot,
			HasRank:     true,
			Rank:        rankByContestant[s],
			Hand:        g.Hands[s],
		})
	}
	return events
}

func dropZero(owed []int, remaining []float32) []int {
	out := owed[:0]
	for _, s := range owed {
		if remaining[s] > 0 {
			out = append(out, s)
		}
	}
	return out
}
