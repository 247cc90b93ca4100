package replay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/simulate"
)

func TestReplayRoundtrip(t *testing.T) {
	rec := &Recorder{}
	agents := []simulate.Agent{simulate.FoldBot{}, simulate.CallBot{}}
	driver := simulate.NewDriver(agents, rec)

	rng := rand.New(rand.NewSource(1))
	final, err := driver.RunHand(rng, []float32{100, 100}, 10, 5, 0, 0)
	require.NoError(t, err)

	rep, err := New(rec.Events)
	require.NoError(t, err)
	require.NoError(t, rep.StepTo(rep.Len()))

	assert.Equal(t, final.Round, rep.State().Round)
	assert.Equal(t, final.Stacks, rep.State().Stacks)
	assert.Equal(t, final.PlayerWinnings, rep.State().PlayerWinnings)

	// Rewinding to the middle and replaying forward again reaches the
	// same terminal state.
	mid := rep.Len() / 2
	require.NoError(t, rep.StepTo(mid))
	require.NoError(t, rep.StepTo(rep.Len()))
	assert.Equal(t, final.Stacks, rep.State().Stacks)
}
