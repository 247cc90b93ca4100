package cfr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/simulate"
)

func TestTrainerProducesEntries(t *testing.T) {
	tr := NewTrainer(Config{
		Stacks:     []float32{100, 100},
		SmallBlind: 5,
		BigBlind:   10,
		DealerIdx:  0,
	})

	rng := rand.New(rand.NewSource(7))
	require.NoError(t, tr.Train(20, rng))
	assert.Greater(t, tr.Regrets.Size(), 0)
}

func TestAgentDecidesLegalAction(t *testing.T) {
	tr := NewTrainer(Config{
		Stacks:     []float32{100, 100},
		SmallBlind: 5,
		BigBlind:   10,
		DealerIdx:  0,
	})
	rng := rand.New(rand.NewSource(3))
	require.NoError(t, tr.Train(10, rng))

	agent := NewAgent(tr, rng)
	driver := simulate.NewDriver([]simulate.Agent{agent, simulate.CallBot{}})
	final, err := driver.RunHand(rng, []float32{100, 100}, 10, 5, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(200), final.Stacks[0]+final.Stacks[1])
}

func TestRegretEntryStrategySumsToOne(t *testing.T) {
	entry := &RegretEntry{}
	entry.ensureSize(3)
	entry.RegretSum = []float64{1, 2, 0}
	strat := entry.Strategy()
	var total float64
	for _, v := range strat {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
