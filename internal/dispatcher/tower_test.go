package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/simulate"
	"github.com/lox/holdem-arena/internal/tournament"
)

func TestTowerDispatchesUntilMaxTasks(t *testing.T) {
	const maxTasks = 3
	cfg := Config{
		Workers:  2,
		MaxTasks: maxTasks,
		NextTournament: func(id int) *tournament.Config {
			return &tournament.Config{
				Agents:      []simulate.Agent{simulate.AllInBot{}, simulate.CallBot{}},
				StartStacks: []float32{100, 100},
				BlindSchedule: []tournament.BlindLevel{
					{SmallBlind: 5, BigBlind: 10},
				},
				HandsPerLevel: 10,
				MaxHands:      50,
			}
		},
		PollInterval: time.Millisecond,
	}
	tower := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := tower.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, results, maxTasks)
}
