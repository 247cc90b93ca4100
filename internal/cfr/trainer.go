package cfr

import (
	"math/rand"

	"github.com/lox/holdem-arena/internal/card"
	"github.com/lox/holdem-arena/internal/engine"
	"github.com/lox/holdem-arena/internal/simulate"
)

// Config is the fixed table configuration a Trainer solves for: one
// starting-stack vector, blind structure, and dealer seat. Training
// more dealer rotations or stack depths means building more Trainers;
// spec.md §5 scopes CFR to a single abstracted situation at a time.
type Config struct {
	Stacks     []float32
	SmallBlind float32
	BigBlind   float32
	Ante       float32
	DealerIdx  int
}

// Trainer runs external-sampling MCCFR over engine.GameState, grounded
// on sdk/solver/trainer.go/traversal.go. Its regret updates still work
// the teacher's way: every traversal step rebuilds its GameState by
// replaying the abstract action path from scratch (simulatePath),
// since engine.GameState mutates in place and the tree itself is
// small enough, under the 3-action abstraction, to re-derive on
// demand rather than index. Arena is the separate index-addressed
// node tree spec.md §4.6 calls for (see arena.go); walkTree grows it
// every iteration from a real played hand.
type Trainer struct {
	Config               Config
	Regrets              *RegretTable
	ClampNegativeRegrets bool
	LinearAveraging      bool

	// Arena is the index-addressed node tree spec.md §4.6 describes
	// (C9). It is not what traverse/simulatePath use to compute
	// regret — that remains the bucketed-InfoSetKey MCCFR below — it
	// is built and walked separately, by attaching a TreeHistorian to
	// an ordinary Driver-played hand each iteration, so the tree
	// reflects the actual path the trained strategies take rather
	// than a synthetic replay of the abstract path alone.
	Arena *Arena
}

// NewTrainer builds a Trainer with CFR+ clamping enabled, the regret
// table's default per spec.md §5's "optional CFR+ clamping".
func NewTrainer(cfg Config) *Trainer {
	return &Trainer{Config: cfg, Regrets: NewRegretTable(), ClampNegativeRegrets: true, Arena: NewArena()}
}

type deal struct {
	hole  [][2]card.Card
	board [5]card.Card
}

func randomDeal(rng *rand.Rand, n int) deal {
	deck := card.NewDeck()
	d := deal{hole: make([][2]card.Card, n)}
	for s := 0; s < n; s++ {
		d.hole[s][0] = deck.Draw(rng)
		d.hole[s][1] = deck.Draw(rng)
	}
	for i := range d.board {
		d.board[i] = deck.Draw(rng)
	}
	return d
}

// autoAdvance runs the engine through every non-decision Round (deal
// steps, ante, showdown) until either a seat needs to act or the hand
// completes, mirroring traversal.go's advanceToNextDecision.
func autoAdvance(g *engine.GameState, d deal) {
	for {
		switch g.Round {
		case engine.Starting, engine.Ante:
			g.AdvanceRound()
		case engine.DealPreflop:
			for s := 0; s < g.NumSeats(); s++ {
				g.DealHole(s, d.hole[s][0])
			}
			for s := 0; s < g.NumSeats(); s++ {
				g.DealHole(s, d.hole[s][1])
			}
			g.AdvanceRound()
		case engine.DealFlop:
			g.DealCommunity(d.board[0])
			g.DealCommunity(d.board[1])
			g.DealCommunity(d.board[2])
			g.AdvanceRound()
		case engine.DealTurn:
			g.DealCommunity(d.board[3])
			g.AdvanceRound()
		case engine.DealRiver:
			g.DealCommunity(d.board[4])
			g.AdvanceRound()
		case engine.Showdown:
			g.AdvanceRound()
		case engine.Preflop, engine.Flop, engine.Turn, engine.River:
			if g.RoundData.ToActIdx < 0 {
				g.AdvanceRound()
				continue
			}
			return
		case engine.Complete:
			return
		}
	}
}

// simulatePath rebuilds a GameState from scratch and replays an
// abstract action path against it, per traversal.go's simulatePath.
func (tr *Trainer) simulatePath(d deal, path []int) *engine.GameState {
	g, _ := engine.NewStarting(tr.Config.Stacks, tr.Config.BigBlind, tr.Config.SmallBlind, tr.Config.Ante, tr.Config.DealerIdx)
	autoAdvance(g, d)
	for _, actIdx := range path {
		if g.Round == engine.Complete {
			break
		}
		applyAction(g, actIdx, g.PossibleActions())
		autoAdvance(g, d)
	}
	return g
}

func (tr *Trainer) infoSetKey(g *engine.GameState, seat int) InfoSetKey {
	return InfoSetKey{
		Round:        g.Round,
		Seat:         seat,
		HoleBucket:   HoleBucket(g.Hands[seat]),
		BoardBucket:  BoardBucket(g.Board),
		PotBucket:    PotBucket(g.TotalPot, tr.Config.BigBlind),
		ToCallBucket: ToCallBucket(g.RoundData.Bet-g.RoundData.Contribution[seat], tr.Config.BigBlind),
	}
}

type trainContext struct {
	rng        *rand.Rand
	updateOpts RegretUpdateOptions
}

// traverse is one external-sampling CFR recursion: the target seat's
// node explores every legal action and accumulates regret, every
// other seat's node samples one action from its current strategy,
// per traversal.go's traverse.
func (tr *Trainer) traverse(ctx *trainContext, d deal, path []int, target int, reachTarget, reachOthers float64) (float64, error) {
	g := tr.simulatePath(d, path)
	if g.Round == engine.Complete {
		return float64(g.Stacks[target] - g.StartingStacks[target]), nil
	}

	seat := g.RoundData.ToActIdx
	legal := legalActionIdxs(g.PossibleActions())
	key := tr.infoSetKey(g, seat)
	entry := tr.Regrets.Get(key, len(legal))
	strategy := entry.Strategy()

	if seat == target {
		util := make([]float64, len(legal))
		nodeUtil := 0.0
		for i, actIdx := range legal {
			nextPath := appendPath(path, actIdx)
			u, err := tr.traverse(ctx, d, nextPath, target, reachTarget, reachOthers*strategy[i])
			if err != nil {
				return 0, err
			}
			util[i] = u
			nodeUtil += strategy[i] * u
		}
		regrets := make([]float64, len(legal))
		for i := range legal {
			regrets[i] = (util[i] - nodeUtil) * reachOthers
		}
		entry.Update(regrets, strategy, reachTarget, ctx.updateOpts)
		return nodeUtil, nil
	}

	idx, prob := sampleStrategyIndex(strategy, ctx.rng)
	if prob <= 0 {
		prob = 1.0 / float64(len(legal))
	}
	nextPath := appendPath(path, legal[idx])
	return tr.traverse(ctx, d, nextPath, target, reachTarget*prob, reachOthers)
}

func appendPath(path []int, idx int) []int {
	next := make([]int, len(path)+1)
	copy(next, path)
	next[len(path)] = idx
	return next
}

// Train runs the given number of CFR iterations, one independent deal
// per iteration with every seat in turn taking the role of the
// traversing (regret-updating) target.
func (tr *Trainer) Train(iterations int, rng *rand.Rand) error {
	for it := 1; it <= iterations; it++ {
		d := randomDeal(rng, len(tr.Config.Stacks))
		ctx := &trainContext{
			rng: rng,
			updateOpts: RegretUpdateOptions{
				ClampNegativeRegrets: tr.ClampNegativeRegrets,
				LinearAveraging:      tr.LinearAveraging,
				Iteration:            it,
			},
		}
		for target := range tr.Config.Stacks {
			if _, err := tr.traverse(ctx, d, nil, target, 1, 1); err != nil {
				return err
			}
		}
		if err := tr.walkTree(rng, it%len(tr.Config.Stacks)); err != nil {
			return err
		}
	}
	return nil
}

// walkTree plays one ordinary hand, with every seat acting from the
// regret table's current average strategy, and records it into
// tr.Arena from perspective's point of view via a TreeHistorian. This
// is the "historian walks the tree on every event" wiring spec.md
// §4.6 describes: the tree grows along whatever path real strategies
// actually take, node by node, rather than being built by a separate
// synthetic enumeration.
func (tr *Trainer) walkTree(rng *rand.Rand, perspective int) error {
	historian := NewTreeHistorian(tr.Arena, perspective)
	agents := make([]simulate.Agent, len(tr.Config.Stacks))
	for i := range agents {
		agents[i] = NewAgent(tr, rng)
	}
	driver := simulate.NewDriver(agents, historian)
	_, err := driver.RunHand(rng, tr.Config.Stacks, tr.Config.BigBlind, tr.Config.SmallBlind, tr.Config.Ante, tr.Config.DealerIdx)
	return err
}

func sampleStrategyIndex(strategy []float64, rng *rand.Rand) (int, float64) {
	total := 0.0
	for _, v := range strategy {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		idx := rng.Intn(len(strategy))
		return idx, 1.0 / float64(len(strategy))
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, v := range strategy {
		if v <= 0 {
			continue
		}
		acc += v
		if r <= acc {
			return i, v / total
		}
	}
	return len(strategy) - 1, strategy[len(strategy)-1] / total
}
