// Package dispatcher coordinates a fixed pool of worker goroutines,
// each running tournament.Table instances to completion, until a
// configured quota of tournaments has been started. The down/up
// message shapes (StartTournament/Shutdown, Ready/Started/Finished)
// are grounded on original_source/rs-poker-tower/src/worker.rs and
// tower.rs's WorkerMessage/TowerMessage protocol, carried over one
// down channel and one up channel; the stopOnce shutdown idiom is
// grounded on the teacher's internal/server.BotPool.
package dispatcher

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-arena/internal/tournament"
)

// DispatchError reports a failure to hand a tournament to a worker,
// per spec.md §7's error taxonomy.
type DispatchError struct {
	TournamentID int
	WorkerID     int
	Reason       string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch tournament %d to worker %d: %s", e.TournamentID, e.WorkerID, e.Reason)
}

// TowerMessage is sent from the Tower down to a worker.
type TowerMessage struct {
	Shutdown     bool
	TournamentID int
	Config       tournament.Config
}

// WorkerMessageKind distinguishes the three up-messages a worker
// sends the Tower.
type WorkerMessageKind int

const (
	WorkerReady WorkerMessageKind = iota
	WorkerStarted
	WorkerFinished
)

// WorkerMessage is sent from a worker up to the Tower.
type WorkerMessage struct {
	Kind         WorkerMessageKind
	WorkerID     int
	TournamentID int
	Result       *tournament.Result
	Err          error
}

// Config configures a Tower run.
type Config struct {
	Workers  int
	MaxTasks int
	// NextTournament produces the Config for the next tournament to
	// dispatch, given a monotonically increasing tournament id. A nil
	// return means no more tournaments are available right now; the
	// worker retries after PollInterval.
	NextTournament func(id int) *tournament.Config
	PollInterval   time.Duration
	Clock          quartz.Clock
	Logger         zerolog.Logger
}

type workerStatus int

const (
	statusIdle workerStatus = iota
	statusWorking
)

// Tower is the coordinator: it assigns tournaments to idle workers as
// they become ready, stops dispatching once MaxTasks tournaments have
// been started, and shuts every worker down once MaxTasks tournaments
// have finished, mirroring tower.rs's Tower.run.
type Tower struct {
	cfg Config

	mu       sync.Mutex
	status   map[int]workerStatus
	started  int
	finished int

	down chan TowerMessage
	up   chan WorkerMessage

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(cfg Config) *Tower {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 50 * time.Millisecond
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	status := make(map[int]workerStatus, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		status[i] = statusIdle
	}
	return &Tower{
		cfg:    cfg,
		status: status,
		down:   make(chan TowerMessage, cfg.Workers),
		up:     make(chan WorkerMessage, cfg.Workers*2),
		stopCh: make(chan struct{}),
	}
}

// Run starts the worker pool and the Tower's dispatch loop, blocking
// until MaxTasks tournaments have finished or ctx is cancelled.
func (t *Tower) Run(ctx context.Context) ([]*tournament.Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]*tournament.Result, 0, t.cfg.MaxTasks)
	var resultsMu sync.Mutex

	for i := 0; i < t.cfg.Workers; i++ {
		workerID := i
		g.Go(func() error {
			return t.runWorker(ctx, workerID)
		})
	}

	g.Go(func() error {
		defer t.shutdown()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case msg := <-t.up:
				t.cfg.Logger.Debug().Int("worker", msg.WorkerID).Int("kind", int(msg.Kind)).Msg("tower: worker message")
				switch msg.Kind {
				case WorkerReady:
					t.handleReady(msg.WorkerID)
				case WorkerStarted:
					t.mu.Lock()
					t.status[msg.WorkerID] = statusWorking
					t.mu.Unlock()
				case WorkerFinished:
					t.mu.Lock()
					t.status[msg.WorkerID] = statusIdle
					t.finished++
					done := t.finished >= t.cfg.MaxTasks
					t.mu.Unlock()
					if msg.Result != nil {
						resultsMu.Lock()
						results = append(results, msg.Result)
						resultsMu.Unlock()
					}
					if done {
						return nil
					}
					t.handleReady(msg.WorkerID)
				}
			}
		}
	})

	err := g.Wait()
	if err == context.Canceled {
		err = nil
	}
	return results, err
}

func (t *Tower) handleReady(workerID int) {
	t.mu.Lock()
	if t.started >= t.cfg.MaxTasks {
		t.mu.Unlock()
		return
	}
	id := t.started
	t.started++
	t.mu.Unlock()

	cfg := t.cfg.NextTournament(id)
	if cfg == nil {
		t.mu.Lock()
		t.started--
		t.mu.Unlock()
		return
	}
	t.cfg.Logger.Info().Int("worker", workerID).Int("tournament", id).Msg("tower: dispatching tournament")
	select {
	case t.down <- TowerMessage{TournamentID: id, Config: *cfg}:
	case <-t.stopCh:
	}
}

func (t *Tower) shutdown() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
		for i := 0; i < t.cfg.Workers; i++ {
			select {
			case t.down <- TowerMessage{Shutdown: true}:
			default:
			}
		}
	})
}

// newWorkerRand gives each tournament its own deterministic-per-run
// RNG, derived from the worker and tournament id so concurrent
// workers never share a *rand.Rand.
func newWorkerRand(workerID, tournamentID int) *rand.Rand {
	seed := int64(workerID)*1_000_003 + int64(tournamentID)
	return rand.New(rand.NewSource(seed))
}

// runWorker is one worker goroutine: it announces readiness, waits
// for a tournament assignment or shutdown, runs the tournament to
// completion via tournament.Table, and reports back.
func (t *Tower) runWorker(ctx context.Context, workerID int) error {
	logger := t.cfg.Logger.With().Int("worker", workerID).Logger()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t.up <- WorkerMessage{Kind: WorkerReady, WorkerID: workerID}:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-t.down:
			if msg.Shutdown {
				logger.Info().Msg("worker: shutting down")
				return nil
			}

			select {
			case t.up <- WorkerMessage{Kind: WorkerStarted, WorkerID: workerID, TournamentID: msg.TournamentID}:
			case <-ctx.Done():
				return ctx.Err()
			}

			logger.Info().Int("tournament", msg.TournamentID).Msg("worker: starting tournament")
			rng := newWorkerRand(workerID, msg.TournamentID)
			table := tournament.New(msg.Config)
			result, err := table.Run(rng)
			if err != nil {
				logger.Error().Err(err).Int("tournament", msg.TournamentID).Msg("worker: tournament failed")
			}

			select {
			case t.up <- WorkerMessage{Kind: WorkerFinished, WorkerID: workerID, TournamentID: msg.TournamentID, Result: result, Err: err}:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-t.cfg.Clock.NewTimer(t.cfg.PollInterval).C:
			// No assignment yet; loop back to announce readiness
			// again rather than blocking forever on an empty queue.
		}
	}
}
