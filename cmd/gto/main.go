// Command gto solves heads-up postflop spots and prints the resulting
// strategies as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/0xjackson/gto-cli/internal/deck"
	"github.com/0xjackson/gto-cli/internal/equity"
	"github.com/0xjackson/gto-cli/internal/handrange"
	"github.com/0xjackson/gto-cli/internal/spot"
	"github.com/0xjackson/gto-cli/sdk/solver"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	River  SolveCmd  `cmd:"" help:"solve a river spot (5-card board)"`
	Turn   SolveCmd  `cmd:"" help:"solve a turn spot (4-card board)"`
	Flop   SolveCmd  `cmd:"" help:"solve a flop spot (3-card board)"`
	Spot   SpotCmd   `cmd:"" help:"solve a spot defined in an HCL file"`
	Equity EquityCmd `cmd:"" help:"estimate equity via Monte Carlo"`
}

// SolveCmd carries the shared flags of the river/turn/flop commands.
type SolveCmd struct {
	Board      string    `help:"board cards, e.g. 2s3h4d5c8s" required:""`
	Oop        string    `help:"OOP range, e.g. AA,AKs" required:""`
	Ip         string    `help:"IP range, e.g. QQ,JJ" required:""`
	Pot        float64   `help:"starting pot in chips" default:"10"`
	Stack      float64   `help:"effective stack in chips" default:"20"`
	Iterations int       `help:"CFR+ sweep count" default:"2000"`
	BetSizes   []float64 `help:"bet sizes as pot fractions (street default if unset)"`
	RaiseSizes []float64 `help:"raise sizes as pot fractions (street default if unset)"`
	MaxRaises  int       `help:"max raises per street (street default if unset)" default:"-1"`
	Out        string    `help:"write the solution JSON to a file instead of stdout"`
}

type SpotCmd struct {
	File string `arg:"" help:"path to the HCL spot file"`
	Name string `help:"spot name (optional when the file has one spot)"`
	Out  string `help:"write the solution JSON to a file instead of stdout"`
}

type EquityCmd struct {
	Hand        string `arg:"" help:"hero hand, e.g. AsAh"`
	Range       string `help:"villain range, e.g. QQ,AKs" required:""`
	Board       string `help:"partial board, e.g. Ks9d4c"`
	Simulations int    `help:"Monte Carlo samples" default:"100000"`
	Seed        int64  `help:"random seed; 0 uses a time seed"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("gto"),
		kong.Description("heads-up postflop CFR+ solver"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	var err error
	switch ctx.Command() {
	case "river":
		err = cli.River.Run("river")
	case "turn":
		err = cli.Turn.Run("turn")
	case "flop":
		err = cli.Flop.Run("flop")
	case "spot <file>":
		err = cli.Spot.Run()
	case "equity <hand>":
		err = cli.Equity.Run()
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func (cmd *SolveCmd) Run(street string) error {
	var cfg solver.Config
	switch street {
	case "turn":
		cfg = solver.NewTurnConfig(cmd.Board, cmd.Oop, cmd.Ip, cmd.Pot, cmd.Stack, cmd.Iterations)
	case "flop":
		cfg = solver.NewFlopConfig(cmd.Board, cmd.Oop, cmd.Ip, cmd.Pot, cmd.Stack, cmd.Iterations)
	default:
		cfg = solver.NewRiverConfig(cmd.Board, cmd.Oop, cmd.Ip, cmd.Pot, cmd.Stack, cmd.Iterations)
	}
	if len(cmd.BetSizes) > 0 {
		cfg.BetSizes = cmd.BetSizes
	}
	if len(cmd.RaiseSizes) > 0 {
		cfg.RaiseSizes = cmd.RaiseSizes
	}
	if cmd.MaxRaises >= 0 {
		cfg.MaxRaises = cmd.MaxRaises
	}

	return runSolve(street, cfg, cmd.Out)
}

func (cmd *SpotCmd) Run() error {
	f, err := spot.Load(cmd.File)
	if err != nil {
		return err
	}
	s, err := f.Find(cmd.Name)
	if err != nil {
		return err
	}
	return runSolve(s.Street, s.Config(), cmd.Out)
}

func runSolve(street string, cfg solver.Config, out string) error {
	cfg.Logger = &log.Logger

	log.Info().
		Str("street", street).
		Str("board", cfg.Board).
		Str("oop", cfg.OOPRange).
		Str("ip", cfg.IPRange).
		Int("iterations", cfg.Iterations).
		Msg("solving")

	start := time.Now()
	var sol *solver.Solution
	var err error
	switch street {
	case "turn":
		sol, err = solver.SolveTurn(context.Background(), cfg)
	case "flop":
		sol, err = solver.SolveFlop(context.Background(), cfg)
	default:
		sol, err = solver.SolveRiver(context.Background(), cfg)
	}
	if err != nil {
		return err
	}

	log.Info().
		Float64("exploitability", sol.Exploitability).
		Int("strategies", len(sol.Strategies)).
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("solved")

	data, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		return fmt.Errorf("encode solution: %w", err)
	}
	if out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	_, err = fmt.Println(string(data))
	return err
}

func (cmd *EquityCmd) Run() error {
	if len(cmd.Hand) != 4 {
		return fmt.Errorf("hand %q must be two cards, e.g. AsAh", cmd.Hand)
	}
	c0, err := deck.ParseCard(cmd.Hand[:2])
	if err != nil {
		return err
	}
	c1, err := deck.ParseCard(cmd.Hand[2:])
	if err != nil {
		return err
	}
	hero := handrange.Combo{C0: c0, C1: c1}

	var board []deck.Card
	if cmd.Board != "" {
		if board, err = deck.ParseBoard(cmd.Board); err != nil {
			return err
		}
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	res, err := equity.VsRange(context.Background(), hero, cmd.Range, board,
		cmd.Simulations, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	fmt.Println(res)
	return nil
}
