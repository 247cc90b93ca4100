// Command holdem-arena runs hands, tournaments, or CFR training passes
// over the engine package from the command line, grounded on
// cmd/holdem-server/main.go's kong.Parse + charmbracelet/log setup.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"

	"github.com/lox/holdem-arena/internal/cfr"
	"github.com/lox/holdem-arena/internal/dispatcher"
	"github.com/lox/holdem-arena/internal/simulate"
	"github.com/lox/holdem-arena/internal/tournament"
)

var CLI struct {
	Hand struct {
		Seats  int    `default:"6" help:"Number of seats"`
		Stack  int    `default:"1000" help:"Starting stack per seat"`
		SB     int    `default:"5" help:"Small blind"`
		BB     int    `default:"10" help:"Big blind"`
		Seed   int64  `default:"0" help:"RNG seed (0 for random)"`
		Agent  string `default:"call" help:"Agent for every seat: fold, call, allin, random"`
	} `cmd:"" help:"Simulate a single hand and print the result."`

	Tournament struct {
		Seats         int    `default:"6" help:"Number of seats"`
		Stack         int    `default:"1000" help:"Starting stack per seat"`
		SB            int    `default:"5" help:"Small blind at level 1"`
		BB            int    `default:"10" help:"Big blind at level 1"`
		HandsPerLevel int    `default:"20" help:"Hands played before the blinds escalate"`
		MaxHands      int    `default:"500" help:"Safety cap on total hands played"`
		Seed          int64  `default:"0" help:"RNG seed (0 for random)"`
		Agent         string `default:"call" help:"Agent for every seat: fold, call, allin, random"`
	} `cmd:"" help:"Run a single table until one seat survives."`

	Dispatch struct {
		Workers       int   `default:"4" help:"Number of concurrent tournament workers"`
		Tournaments   int   `default:"10" help:"Number of tournaments to run"`
		Seats         int   `default:"6" help:"Number of seats per tournament"`
		Stack         int   `default:"1000" help:"Starting stack per seat"`
		HandsPerLevel int   `default:"20" help:"Hands played before the blinds escalate"`
		MaxHands      int   `default:"500" help:"Safety cap on hands per tournament"`
	} `cmd:"" help:"Dispatch many tournaments across a worker pool."`

	Train struct {
		Seats      int   `default:"2" help:"Number of seats"`
		Stack      int   `default:"1000" help:"Starting stack per seat"`
		SB         int   `default:"5" help:"Small blind"`
		BB         int   `default:"10" help:"Big blind"`
		Iterations int   `default:"1000" help:"CFR iterations to run"`
		Seed       int64 `default:"0" help:"RNG seed (0 for random)"`
	} `cmd:"" help:"Train a CFR regret table over a fixed stack depth."`
}

func main() {
	ctx := kong.Parse(&CLI)
	logger := log.New(os.Stderr)
	logger.SetLevel(log.InfoLevel)

	var err error
	switch ctx.Command() {
	case "hand":
		err = runHand(logger)
	case "tournament":
		err = runTournament(logger)
	case "dispatch":
		err = runDispatch(logger)
	case "train":
		err = runTrain(logger)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		logger.Error("command failed", "error", err)
		ctx.Exit(1)
	}
}

func seedOrTime(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func agentsFor(name string, n int, rng *rand.Rand) []simulate.Agent {
	agents := make([]simulate.Agent, n)
	for i := range agents {
		switch name {
		case "fold":
			agents[i] = simulate.FoldBot{}
		case "allin":
			agents[i] = simulate.AllInBot{}
		case "random":
			agents[i] = simulate.NewRandomBot(rng)
		default:
			agents[i] = simulate.CallBot{}
		}
	}
	return agents
}

func runHand(logger *log.Logger) error {
	cfg := CLI.Hand
	rng := rand.New(rand.NewSource(seedOrTime(cfg.Seed)))
	stacks := make([]float32, cfg.Seats)
	for i := range stacks {
		stacks[i] = float32(cfg.Stack)
	}
	driver := simulate.NewDriver(agentsFor(cfg.Agent, cfg.Seats, rng))
	final, err := driver.RunHand(rng, stacks, float32(cfg.BB), float32(cfg.SB), 0, 0)
	if err != nil {
		return err
	}
	logger.Info("hand complete", "round", final.Round.String(), "stacks", final.Stacks, "winnings", final.PlayerWinnings)
	return nil
}

func runTournament(logger *log.Logger) error {
	cfg := CLI.Tournament
	rng := rand.New(rand.NewSource(seedOrTime(cfg.Seed)))
	stacks := make([]float32, cfg.Seats)
	for i := range stacks {
		stacks[i] = float32(cfg.Stack)
	}
	table := tournament.New(tournament.Config{
		Agents:      agentsFor(cfg.Agent, cfg.Seats, rng),
		StartStacks: stacks,
		BlindSchedule: []tournament.BlindLevel{
			{SmallBlind: float32(cfg.SB), BigBlind: float32(cfg.BB)},
		},
		HandsPerLevel: cfg.HandsPerLevel,
		MaxHands:      cfg.MaxHands,
	})
	result, err := table.Run(rng)
	if err != nil {
		return err
	}
	logger.Info("tournament complete", "hands", result.HandsPlayed, "placements", result.Placements)
	return nil
}

func runDispatch(logger *log.Logger) error {
	cfg := CLI.Dispatch
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	stacks := make([]float32, cfg.Seats)
	for i := range stacks {
		stacks[i] = float32(cfg.Stack)
	}

	tower := dispatcher.New(dispatcher.Config{
		Workers:  cfg.Workers,
		MaxTasks: cfg.Tournaments,
		Logger:   zlog,
		NextTournament: func(id int) *tournament.Config {
			rng := rand.New(rand.NewSource(int64(id)))
			return &tournament.Config{
				Agents:      agentsFor("random", cfg.Seats, rng),
				StartStacks: append([]float32(nil), stacks...),
				BlindSchedule: []tournament.BlindLevel{
					{SmallBlind: 5, BigBlind: 10},
				},
				HandsPerLevel: cfg.HandsPerLevel,
				MaxHands:      cfg.MaxHands,
			}
		},
	})

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down dispatcher")
		cancel()
	}()

	results, err := tower.Run(runCtx)
	if err != nil {
		return err
	}
	logger.Info("dispatch complete", "tournaments", len(results))
	return nil
}

func runTrain(logger *log.Logger) error {
	cfg := CLI.Train
	stacks := make([]float32, cfg.Seats)
	for i := range stacks {
		stacks[i] = float32(cfg.Stack)
	}
	trainer := cfr.NewTrainer(cfr.Config{
		Stacks:     stacks,
		SmallBlind: float32(cfg.SB),
		BigBlind:   float32(cfg.BB),
	})
	rng := rand.New(rand.NewSource(seedOrTime(cfg.Seed)))
	if err := trainer.Train(cfg.Iterations, rng); err != nil {
		return err
	}
	logger.Info("training complete", "infosets", trainer.Regrets.Size(), "treeNodes", trainer.Arena.Size())
	return nil
}
