// Package cfr implements external-sampling counterfactual regret
// minimization over the engine package's GameState, narrowed to the
// three-action abstraction (Fold, Call, AllIn) spec.md §5 calls for.
// Grounded on sdk/solver/regret.go and sdk/solver/traversal.go,
// adapted from the teacher's int-chip HandState/solverAction path
// replay to engine.GameState/AdvanceRound, and from its open
// bet-sizing abstraction down to the fixed three-action set.
package cfr

import (
	"fmt"
	"sync"

	"github.com/lox/holdem-arena/internal/engine"
)

// InfoSetKey uniquely identifies a decision situation. It must match
// the abstraction used while training or averaging becomes
// meaningless, per sdk/solver/regret.go's own warning.
type InfoSetKey struct {
	Round        engine.Round
	Seat         int
	HoleBucket   int
	BoardBucket  int
	PotBucket    int
	ToCallBucket int
}

func (k InfoSetKey) String() string {
	return fmt.Sprintf("%d/%d/%d/%d/%d/%d", k.Round, k.Seat, k.HoleBucket, k.BoardBucket, k.PotBucket, k.ToCallBucket)
}

// RegretEntry accumulates regrets and strategy sums for one info set,
// kept in slices indexed by the node's legal-action list to avoid map
// churn during traversal.
type RegretEntry struct {
	RegretSum   []float64
	StrategySum []float64
	Normalising float64
	mutex       sync.Mutex
}

// RegretUpdateOptions configures regret accumulation.
type RegretUpdateOptions struct {
	ClampNegativeRegrets bool
	LinearAveraging      bool
	Iteration            int
}

func (e *RegretEntry) ensureSize(n int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if len(e.RegretSum) >= n {
		return
	}
	missing := n - len(e.RegretSum)
	e.RegretSum = append(e.RegretSum, make([]float64, missing)...)
	e.StrategySum = append(e.StrategySum, make([]float64, missing)...)
}

// Strategy returns the current regret-matching distribution.
func (e *RegretEntry) Strategy() []float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	total := 0.0
	strat := make([]float64, len(e.RegretSum))
	for i, r := range e.RegretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// Update accumulates regrets and strategy sums for this node.
func (e *RegretEntry) Update(regret, strategy []float64, reachWeight float64, opts RegretUpdateOptions) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	iterWeight := 1.0
	if opts.LinearAveraging {
		iter := opts.Iteration
		if iter <= 0 {
			iter = 1
		}
		iterWeight = float64(iter)
	}
	weight := reachWeight * iterWeight
	for i := range regret {
		if opts.ClampNegativeRegrets {
			e.RegretSum[i] += regret[i]
			if e.RegretSum[i] < 0 {
				e.RegretSum[i] = 0
			}
		} else {
			e.RegretSum[i] += regret[i]
		}
		e.StrategySum[i] += weight * strategy[i]
	}
	e.Normalising += weight
}

// AverageStrategy returns the normalized average strategy, the
// strategy CFR actually converges to.
func (e *RegretEntry) AverageStrategy() []float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	strat := make([]float64, len(e.StrategySum))
	if e.Normalising <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] = e.StrategySum[i] / e.Normalising
	}
	return strat
}

const regretTableShardCount = 64
const regretTableShardMask = regretTableShardCount - 1

type regretShard struct {
	mu      sync.RWMutex
	entries map[string]*RegretEntry
}

// RegretTable is a sharded, thread-safe map from InfoSetKey to
// RegretEntry, so concurrent CFR workers don't serialize on one lock.
type RegretTable struct {
	shards [regretTableShardCount]regretShard
}

func NewRegretTable() *RegretTable {
	t := &RegretTable{}
	for i := range t.shards {
		t.shards[i].entries = make(map[string]*RegretEntry)
	}
	return t
}

// Get returns the entry for key, creating it (sized to actionCount)
// if absent.
func (t *RegretTable) Get(key InfoSetKey, actionCount int) *RegretEntry {
	k := key.String()
	shard := t.shardFor(k)

	shard.mu.RLock()
	entry, ok := shard.entries[k]
	shard.mu.RUnlock()
	if ok {
		entry.ensureSize(actionCount)
		return entry
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if entry, ok = shard.entries[k]; ok {
		entry.ensureSize(actionCount)
		return entry
	}
	entry = &RegretEntry{}
	entry.ensureSize(actionCount)
	shard.entries[k] = entry
	return entry
}

// Size returns the number of info sets tracked.
func (t *RegretTable) Size() int {
	total := 0
	for i := range t.shards {
		t.shards[i].mu.RLock()
		total += len(t.shards[i].entries)
		t.shards[i].mu.RUnlock()
	}
	return total
}

func (t *RegretTable) shardFor(key string) *regretShard {
	return &t.shards[hashKey(key)&regretTableShardMask]
}

func hashKey(key string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	var hash uint32 = offset32
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= prime32
	}
	return hash
}
