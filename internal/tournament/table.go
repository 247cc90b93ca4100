// Package tournament runs a single table from its starting stacks
// down to one surviving seat, rotating the dealer button, escalating
// blinds on a schedule, and recording a finishing order as seats bust.
// Grounded on original_source/rs-poker-tower/src/tower.rs's bust and
// placement bookkeeping (WorkersManager's status map generalizes here
// to a per-seat busted flag plus a placements slice) and on the
// teacher's internal/regression.Orchestrator's ExecuteBatches batch
// loop, narrowed from "run N hands and collect stats" to "run hands
// until one seat owns every chip".
package tournament

import (
	"math/rand"
	"sort"

	"github.com/lox/holdem-arena/internal/simulate"
)

// BlindLevel is one step of the escalating blind schedule.
type BlindLevel struct {
	SmallBlind float32
	BigBlind   float32
	Ante       float32
}

// Config is the fixed shape of a tournament: its seats, starting
// stacks, and blind schedule.
type Config struct {
	Agents        []simulate.Agent
	StartStacks   []float32
	BlindSchedule []BlindLevel
	HandsPerLevel int
	// MaxHands bounds a pathological tournament that never converges
	// to one survivor (e.g. every Agent always folds to a chop); 0
	// means unbounded.
	MaxHands int
}

// Placement records the order seats left the tournament: Place 1 is
// the last seat standing, increasing Place means busting earlier.
type Placement struct {
	Seat  int
	Place int
}

// Result is the outcome of a completed Table.Run.
type Result struct {
	Placements []Placement
	HandsPlayed int
}

// Table drives hands on a single table until one seat survives,
// rotating the dealer button among seats still in the tournament and
// removing seats as they bust.
type Table struct {
	Config     Config
	Historians []simulate.Historian
}

func New(cfg Config, historians ...simulate.Historian) *Table {
	return &Table{Config: cfg, Historians: historians}
}

// Run plays hands until one seat holds every chip (or MaxHands is
// reached), returning the bust order.
func (t *Table) Run(rng *rand.Rand) (*Result, error) {
	n := len(t.Config.StartStacks)
	stacks := append([]float32(nil), t.Config.StartStacks...)
	busted := make([]bool, n)
	dealer := 0
	hands := 0
	var placements []Placement
	place := n

	for remaining(busted) > 1 {
		if t.Config.MaxHands > 0 && hands >= t.Config.MaxHands {
			break
		}

		active, activeStacks := activeSeats(stacks, busted)
		level := t.blindLevelFor(hands)
		driver := simulate.NewDriver(agentsFor(t.Config.Agents, active), t.Historians...)

		dealerLocal := localIndex(active, t.nextDealer(active, dealer))
		final, err := driver.RunHand(rng, activeStacks, level.BigBlind, level.SmallBlind, level.Ante, dealerLocal)
		if err != nil {
			return nil, err
		}
		hands++
		dealer = t.nextDealer(active, dealer)

		for i, seat := range active {
			stacks[seat] = final.Stacks[i]
		}

		// Busts within the same hand are placed by this hand's starting
		// stack: the poorer seat takes the worse (higher-numbered) place
		// first, so a seat that started the hand richer busts "later"
		// in the tiebreak, per spec.md §4.5.
		type bust struct {
			seat       int
			startStack float32
		}
		var busts []bust
		for i, seat := range active {
			if stacks[seat] <= 0 && !busted[seat] {
				busts = append(busts, bust{seat: seat, startStack: activeStacks[i]})
			}
		}
		sort.SliceStable(busts, func(i, j int) bool { return busts[i].startStack < busts[j].startStack })
		for _, b := range busts {
			busted[b.seat] = true
			placements = append(placements, Placement{Seat: b.seat, Place: place})
			place--
		}
	}

	for seat := 0; seat < n; seat++ {
		if !busted[seat] {
			placements = append(placements, Placement{Seat: seat, Place: place})
		}
	}

	return &Result{Placements: placements, HandsPlayed: hands}, nil
}

func (t *Table) blindLevelFor(hands int) BlindLevel {
	schedule := t.Config.BlindSchedule
	if len(schedule) == 0 {
		return BlindLevel{SmallBlind: 5, BigBlind: 10}
	}
	perLevel := t.Config.HandsPerLevel
	if perLevel <= 0 {
		perLevel = 1
	}
	idx := hands / perLevel
	if idx >= len(schedule) {
		idx = len(schedule) - 1
	}
	return schedule[idx]
}

// nextDealer advances the button to the next non-busted seat after
// the current dealer, wrapping modulo the full seat count.
func (t *Table) nextDealer(active []int, dealer int) int {
	n := len(t.Config.StartStacks)
	for i := 1; i <= n; i++ {
		seat := (dealer + i) % n
		if containsSeat(active, seat) {
			return seat
		}
	}
	return dealer
}

func containsSeat(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}

func localIndex(active []int, seat int) int {
	for i, s := range active {
		if s == seat {
			return i
		}
	}
	return 0
}

func remaining(busted []bool) int {
	n := 0
	for _, b := range busted {
		if !b {
			n++
		}
	}
	return n
}

func activeSeats(stacks []float32, busted []bool) (seats []int, activeStacks []float32) {
	for seat, b := range busted {
		if !b {
			seats = append(seats, seat)
			activeStacks = append(activeStacks, stacks[seat])
		}
	}
	return seats, activeStacks
}

func agentsFor(agents []simulate.Agent, active []int) []simulate.Agent {
	out := make([]simulate.Agent, len(active))
	for i, seat := range active {
		out[i] = agents[seat]
	}
	return out
}
