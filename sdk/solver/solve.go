package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/0xjackson/gto-cli/internal/deck"
	"github.com/0xjackson/gto-cli/internal/handrange"
)

// Error kinds surfaced from solver construction. Wrapped errors satisfy
// errors.Is against these.
var (
	ErrInvalidBoard   = errors.New("invalid board")
	ErrEmptyRange     = errors.New("empty range")
	ErrInvalidAmounts = errors.New("invalid amounts")
)

// Config describes one solve. Board and range strings use the canonical
// notation ("Ks9d4c2h", "AA,AKs,72o"). The New*Config constructors set the
// sizing fields to the street defaults; sizing fields are used as given, so
// nil BetSizes or RaiseSizes mean no bets or raises.
type Config struct {
	Board          string
	OOPRange       string
	IPRange        string
	StartingPot    float64
	EffectiveStack float64
	Iterations     int
	BetSizes       []float64
	RaiseSizes     []float64
	MaxRaises      int
	AddAllIn       bool

	// Logger receives sweep progress at debug level; defaults to a no-op
	// logger. Clock drives progress timestamps; defaults to the real clock.
	Logger *zerolog.Logger
	Clock  quartz.Clock
}

// NewRiverConfig returns a river solve config with the default sizing
// scheme: bets 33/67/100% pot, pot-sized raises, three raises max.
func NewRiverConfig(board, oopRange, ipRange string, pot, stack float64, iterations int) Config {
	return Config{
		Board:          board,
		OOPRange:       oopRange,
		IPRange:        ipRange,
		StartingPot:    pot,
		EffectiveStack: stack,
		Iterations:     iterations,
		BetSizes:       []float64{0.33, 0.67, 1.0},
		RaiseSizes:     []float64{1.0},
		MaxRaises:      3,
		AddAllIn:       true,
	}
}

// NewTurnConfig returns a turn solve config with the default sizing
// scheme: bets 50/100% pot, pot-sized raises, two raises max.
func NewTurnConfig(board, oopRange, ipRange string, pot, stack float64, iterations int) Config {
	return Config{
		Board:          board,
		OOPRange:       oopRange,
		IPRange:        ipRange,
		StartingPot:    pot,
		EffectiveStack: stack,
		Iterations:     iterations,
		BetSizes:       []float64{0.5, 1.0},
		RaiseSizes:     []float64{1.0},
		MaxRaises:      2,
		AddAllIn:       true,
	}
}

// NewFlopConfig returns a flop solve config with the default sizing
// scheme: bets 33/75% pot, pot-sized raises, two raises max.
func NewFlopConfig(board, oopRange, ipRange string, pot, stack float64, iterations int) Config {
	return Config{
		Board:          board,
		OOPRange:       oopRange,
		IPRange:        ipRange,
		StartingPot:    pot,
		EffectiveStack: stack,
		Iterations:     iterations,
		BetSizes:       []float64{0.33, 0.75},
		RaiseSizes:     []float64{1.0},
		MaxRaises:      2,
		AddAllIn:       true,
	}
}

// Validate checks the amount constraints shared by all streets.
func (c Config) Validate() error {
	if c.StartingPot <= 0 {
		return fmt.Errorf("%w: starting pot must be > 0, got %v", ErrInvalidAmounts, c.StartingPot)
	}
	if c.EffectiveStack < 0 {
		return fmt.Errorf("%w: effective stack must be >= 0, got %v", ErrInvalidAmounts, c.EffectiveStack)
	}
	return nil
}

func (c Config) logger() zerolog.Logger {
	if c.Logger != nil {
		return *c.Logger
	}
	return zerolog.Nop()
}

func (c Config) clock() quartz.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return quartz.NewReal()
}

func (c Config) treeConfig() TreeConfig {
	return TreeConfig{
		BetSizes:       c.BetSizes,
		RaiseSizes:     c.RaiseSizes,
		MaxRaises:      c.MaxRaises,
		StartingPot:    c.StartingPot,
		EffectiveStack: c.EffectiveStack,
		AddAllIn:       c.AddAllIn,
	}
}

// prepare validates the config against the expected board size and expands
// both ranges with board blockers applied.
func (c Config) prepare(street string, boardSize int) ([]deck.Card, []handrange.Combo, []handrange.Combo, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, nil, err
	}

	board, err := deck.ParseBoard(c.Board)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	if len(board) != boardSize {
		return nil, nil, nil, fmt.Errorf("%w: %s board needs %d cards, got %d", ErrInvalidBoard, street, boardSize, len(board))
	}

	oop, err := handrange.ExpandToCombos(c.OOPRange, board)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: oop range: %v", ErrEmptyRange, err)
	}
	if len(oop) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: oop range has no combos after board blockers", ErrEmptyRange)
	}
	ip, err := handrange.ExpandToCombos(c.IPRange, board)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: ip range: %v", ErrEmptyRange, err)
	}
	if len(ip) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: ip range has no combos after board blockers", ErrEmptyRange)
	}

	return board, oop, ip, nil
}

// SolveRiver computes an approximate equilibrium for a single-street river
// spot on a completed 5-card board.
func SolveRiver(ctx context.Context, cfg Config) (*Solution, error) {
	board, oop, ip, err := cfg.prepare("river", 5)
	if err != nil {
		return nil, err
	}

	table, err := NewShowdownTable(oop, ip, board)
	if err != nil {
		return nil, err
	}

	root, _ := BuildTree(cfg.treeConfig())

	t := &trainer{
		root:          root,
		store:         newInfoSetStore(),
		oopCombos:     oop,
		ipCombos:      ip,
		validIPForOOP: table.ValidIPForOOP,
		validOOPForIP: table.ValidOOPForIP,
		table:         table,
		logger:        cfg.logger(),
		clock:         cfg.clock(),
	}

	return t.solve(ctx, cfg)
}

// SolveTurn computes an approximate equilibrium for a two-street turn spot:
// the turn action tree feeds chance nodes over every river card, each with
// its own river subtree and per-river showdown table.
func SolveTurn(ctx context.Context, cfg Config) (*Solution, error) {
	board, oop, ip, err := cfg.prepare("turn", 4)
	if err != nil {
		return nil, err
	}

	// The embedded river streets use the standard river sizing; the pot and
	// stack of each subtree come from the showdown terminal it replaces.
	root, _ := BuildTwoStreetTree(cfg.treeConfig(), board, DefaultRiverTree(0, 0))

	runout, err := buildRunoutTables(oop, ip, board)
	if err != nil {
		return nil, err
	}

	t := &trainer{
		root:          root,
		store:         newInfoSetStore(),
		oopCombos:     oop,
		ipCombos:      ip,
		validIPForOOP: buildValidity(oop, ip),
		validOOPForIP: buildValidity(ip, oop),
		runout:        runout,
		logger:        cfg.logger(),
		clock:         cfg.clock(),
	}

	return t.solve(ctx, cfg)
}

// SolveFlop computes an approximate equilibrium for a flop spot using the
// same two-street embedding as the turn solver: the flop action tree feeds
// chance nodes over every turn card, and showdowns in the turn subtrees are
// scored on the four-card board for that runout.
func SolveFlop(ctx context.Context, cfg Config) (*Solution, error) {
	board, oop, ip, err := cfg.prepare("flop", 3)
	if err != nil {
		return nil, err
	}

	root, _ := BuildTwoStreetTree(cfg.treeConfig(), board, DefaultTurnTree(0, 0))

	runout, err := buildRunoutTables(oop, ip, board)
	if err != nil {
		return nil, err
	}

	t := &trainer{
		root:          root,
		store:         newInfoSetStore(),
		oopCombos:     oop,
		ipCombos:      ip,
		validIPForOOP: buildValidity(oop, ip),
		validOOPForIP: buildValidity(ip, oop),
		runout:        runout,
		logger:        cfg.logger(),
		clock:         cfg.clock(),
	}

	return t.solve(ctx, cfg)
}

// solve runs the sweeps and assembles the Solution.
func (t *trainer) solve(ctx context.Context, cfg Config) (*Solution, error) {
	if err := t.run(ctx, cfg.Iterations); err != nil {
		return nil, err
	}

	return &Solution{
		Board:          cfg.Board,
		OOPRange:       cfg.OOPRange,
		IPRange:        cfg.IPRange,
		StartingPot:    cfg.StartingPot,
		EffectiveStack: cfg.EffectiveStack,
		Iterations:     cfg.Iterations,
		Exploitability: t.exploitability(),
		OOPCombos:      t.comboStrings(OOP),
		IPCombos:       t.comboStrings(IP),
		Strategies:     t.extractStrategies(),
	}, nil
}

// buildRunoutTables constructs one showdown table per card still in the
// deck, each on the board completed by that card.
func buildRunoutTables(oop, ip []handrange.Combo, board []deck.Card) (map[deck.Card]*ShowdownTable, error) {
	cards := deck.Remaining(board)
	tables := make(map[deck.Card]*ShowdownTable, len(cards))
	completed := make([]deck.Card, 0, len(board)+1)
	for _, c := range cards {
		completed = append(completed[:0], board...)
		completed = append(completed, c)
		table, err := NewShowdownTable(oop, ip, completed)
		if err != nil {
			return nil, err
		}
		tables[c] = table
	}
	return tables, nil
}

// buildValidity computes, per combo of one side, the other side's combo
// indices that share no card with it.
func buildValidity(mine, theirs []handrange.Combo) [][]uint16 {
	out := make([][]uint16, len(mine))
	for i, m := range mine {
		valid := make([]uint16, 0, len(theirs))
		for j, o := range theirs {
			if !m.Conflicts(o) {
				valid = append(valid, uint16(j))
			}
		}
		out[i] = valid
	}
	return out
}
