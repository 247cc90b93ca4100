package simulate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/engine"
)

// recorder is a Historian that keeps every observed Action, used the
// same way internal/replay.Recorder consumes a Driver's event fan-out.
type recorder struct {
	events []engine.Action
}

func (r *recorder) Observe(ev engine.Action) error {
	r.events = append(r.events, ev)
	return nil
}

func TestRunHandFoldBotsReachComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rec := &recorder{}
	d := NewDriver([]Agent{FoldBot{}, FoldBot{}}, rec)

	g, err := d.RunHand(rng, []float32{100, 100}, 10, 5, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, engine.Complete, g.Round)
	assert.NotEmpty(t, rec.events)
}

// TestRunHandConservesChips exercises P1 (pot conservation): once the
// hand is complete (winnings already paid into stacks), the final
// stacks must sum to the starting stacks regardless of which bots are
// seated.
func TestRunHandConservesChips(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	agents := []Agent{CallBot{}, CallBot{}, AllInBot{}, NewRandomBot(rng)}
	stacks := []float32{200, 150, 50, 300}

	d := NewDriver(agents)
	g, err := d.RunHand(rng, stacks, 10, 5, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, engine.Complete, g.Round)

	var total float32
	for i := range stacks {
		total += g.Stacks[i]
	}
	var want float32
	for _, s := range stacks {
		want += s
	}
	assert.InDelta(t, want, total, 1e-3)
}

func TestRunHandAllCallBotsReachShowdown(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	agents := []Agent{CallBot{}, CallBot{}, CallBot{}}
	d := NewDriver(agents)

	g, err := d.RunHand(rng, []float32{100, 100, 100}, 10, 5, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, engine.Complete, g.Round)
	assert.Len(t, g.Board, 5)

	var winnings float32
	for _, w := range g.PlayerWinnings {
		winnings += w
	}
	assert.InDelta(t, float32(30), winnings, 1e-3) // three blinds/antes worth of pot, all called
}

func TestRunHandPublishesHistorianErrorAborts(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	boom := errObserve{}
	d := NewDriver([]Agent{FoldBot{}, FoldBot{}}, boom)

	_, err := d.RunHand(rng, []float32{100, 100}, 10, 5, 0, 0)
	require.Error(t, err)
}

type errObserve struct{}

func (errObserve) Observe(ev engine.Action) error { return assert.AnError }
