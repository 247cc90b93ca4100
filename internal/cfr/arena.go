package cfr

import "github.com/lox/holdem-arena/internal/engine"

// NodeKind tags the closed variant carried by a Node's Data field,
// mirroring spec.md §4.6's "Root | Chance | Player | Terminal".
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeChance
	NodePlayer
	NodeTerminal
)

// NodeData is the per-kind payload of a Node. Only the fields for
// Data.Kind are meaningful, the same closed-sum-type idiom
// engine.Action uses for its event log.
type NodeData struct {
	Kind NodeKind

	// NodePlayer
	PlayerIdx int

	// NodeTerminal
	TotalUtility float64
	Visits       uint32
}

// Node is one index-addressed entry in an Arena, grounded on
// spec.md §4.6's "nodes: Vec<Node>" with parent/child links replacing
// the pointer graph a CFR game tree would otherwise need (spec.md §9's
// "Cyclic/arena graphs" redesign note).
type Node struct {
	Parent         int
	ParentChildIdx int
	Children       map[int]int
	Counts         map[int]uint32
	Data           NodeData
}

// Arena is the index-addressed CFR game tree: every traversed hand
// walks it from node 0 (Root), adding nodes the first time a path is
// seen and following the existing index on repeat visits.
type Arena struct {
	Nodes []Node
}

// NewArena builds an Arena containing only its Root at index 0.
func NewArena() *Arena {
	return &Arena{Nodes: []Node{{Parent: -1, ParentChildIdx: -1, Data: NodeData{Kind: NodeRoot}}}}
}

// add appends a new node wired under parent at child_idx and returns
// its index, or returns the existing child's index if that edge has
// already been taken by a prior traversal — add is idempotent per
// (parent, child_idx), exactly spec.md §4.6's "add/follow a ... child".
func (a *Arena) add(parent, childIdx int, data NodeData) int {
	p := &a.Nodes[parent]
	if p.Children == nil {
		p.Children = make(map[int]int)
		p.Counts = make(map[int]uint32)
	}
	if idx, ok := p.Children[childIdx]; ok {
		p.Counts[childIdx]++
		return idx
	}
	idx := len(a.Nodes)
	a.Nodes = append(a.Nodes, Node{Parent: parent, ParentChildIdx: childIdx, Data: data})
	p.Children[childIdx] = idx
	p.Counts[childIdx] = 1
	return idx
}

// Size is the number of nodes the Arena has accumulated, root
// included.
func (a *Arena) Size() int {
	return len(a.Nodes)
}

// betActionIdx maps the engine's four-way BetKind onto the CFR
// package's fixed 3-action abstraction (actions.go), so the tree's
// Player children share the same action-index space the regret
// tables are keyed on. BetRaiseOrBet only ever reaches the engine
// from an agent that isn't one of this package's three abstract
// actions (a human or a future sizing-aware agent); it buckets with
// AllIn as the "aggressive" edge rather than growing a fourth key.
func betActionIdx(k engine.BetKind) int {
	switch k {
	case engine.BetFold:
		return ActFold
	case engine.BetAllIn, engine.BetRaiseOrBet:
		return ActAllIn
	default: // BetCall
		return ActCall
	}
}

// TreeHistorian walks an Arena as it observes one hand's Action
// stream, per spec.md §4.6's "Historian wiring" rules: it tracks only
// PlayerIdx's own chance draws (others' hole cards are "baked into
// root"), every community chance draw, every player decision along the
// path, and the single terminal node the hand's awards settle into.
// It implements simulate.Historian so a Driver can attach it directly
// to a rollout.
type TreeHistorian struct {
	Arena     *Arena
	PlayerIdx int

	cursor   int
	terminal int
}

// NewTreeHistorian returns a TreeHistorian rooted at arena's node 0,
// tracking the chance and reward events relevant to playerIdx.
func NewTreeHistorian(arena *Arena, playerIdx int) *TreeHistorian {
	return &TreeHistorian{Arena: arena, PlayerIdx: playerIdx, cursor: 0, terminal: -1}
}

// Reset returns the historian to the Arena's root, ready to walk a
// fresh hand along whatever path it takes.
func (h *TreeHistorian) Reset() {
	h.cursor = 0
	h.terminal = -1
}

// enterTerminal is idempotent per hand: the fold-to-one path emits an
// Award with no accompanying RoundAdvance(Complete), while the
// showdown path emits its Awards before RoundAdvance(Complete), so
// whichever event reaches the current terminal node first creates it
// and records the single visit.
func (h *TreeHistorian) enterTerminal() {
	if h.terminal >= 0 {
		return
	}
	h.terminal = h.Arena.add(h.cursor, 0, NodeData{Kind: NodeTerminal})
	h.Arena.Nodes[h.terminal].Data.Visits++
}

func (h *TreeHistorian) Observe(ev engine.Action) error {
	switch ev.Kind {
	case engine.ActionDealStartingHand:
		if ev.Seat != h.PlayerIdx {
			return nil
		}
		h.cursor = h.Arena.add(h.cursor, int(ev.Card), NodeData{Kind: NodeChance})

	case engine.ActionDealCommunity:
		h.cursor = h.Arena.add(h.cursor, int(ev.Card), NodeData{Kind: NodeChance})

	case engine.ActionPlayedAction, engine.ActionFailedAction:
		idx := betActionIdx(ev.BetAction)
		h.cursor = h.Arena.add(h.cursor, idx, NodeData{Kind: NodePlayer, PlayerIdx: ev.Seat})

	case engine.ActionAward:
		h.enterTerminal()
		if ev.Seat == h.PlayerIdx {
			h.Arena.Nodes[h.terminal].Data.TotalUtility += float64(ev.AwardAmount)
		}

	case engine.ActionRoundAdvance:
		if ev.NewRound == engine.Complete {
			h.enterTerminal()
		}

	default: // GameStart, PlayerSit, ForcedBet, others' DealStartingHand
	}
	return nil
}
