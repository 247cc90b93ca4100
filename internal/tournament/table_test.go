package tournament

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/simulate"
)

func TestTableRunsToOneSurvivor(t *testing.T) {
	cfg := Config{
		Agents:      []simulate.Agent{simulate.AllInBot{}, simulate.CallBot{}},
		StartStacks: []float32{100, 100},
		BlindSchedule: []BlindLevel{
			{SmallBlind: 5, BigBlind: 10},
		},
		HandsPerLevel: 10,
		MaxHands:      50,
	}
	table := New(cfg)

	rng := rand.New(rand.NewSource(42))
	result, err := table.Run(rng)
	require.NoError(t, err)

	assert.Len(t, result.Placements, 2)
	assert.Equal(t, 1, result.Placements[len(result.Placements)-1].Place)
}

func TestBlindLevelEscalates(t *testing.T) {
	table := &Table{Config: Config{
		BlindSchedule: []BlindLevel{
			{SmallBlind: 5, BigBlind: 10},
			{SmallBlind: 10, BigBlind: 20},
		},
		HandsPerLevel: 3,
	}}
	assert.Equal(t, float32(10), table.blindLevelFor(0).BigBlind)
	assert.Equal(t, float32(10), table.blindLevelFor(2).BigBlind)
	assert.Equal(t, float32(20), table.blindLevelFor(3).BigBlind)
	assert.Equal(t, float32(20), table.blindLevelFor(99).BigBlind)
}
