// Package equity estimates hand-vs-hand and hand-vs-range equity with
// Monte Carlo runouts over the fast evaluator.
package equity

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/0xjackson/gto-cli/internal/deck"
	"github.com/0xjackson/gto-cli/internal/evaluator"
	"github.com/0xjackson/gto-cli/internal/handrange"
)

// Result aggregates the win/tie/lose split of a simulation batch.
type Result struct {
	Win         float64
	Tie         float64
	Lose        float64
	Simulations int
}

// Equity returns win plus half of ties.
func (r Result) Equity() float64 {
	return r.Win + r.Tie/2
}

// String renders the split for terminal output.
func (r Result) String() string {
	return fmt.Sprintf("Win %.1f%% | Tie %.1f%% | Lose %.1f%% (equity: %.1f%%)",
		r.Win*100, r.Tie*100, r.Lose*100, r.Equity()*100)
}

type tally struct {
	wins   uint64
	ties   uint64
	losses uint64
}

// VsHand estimates hero's equity against one specific villain hand on an
// optional partial board. The rng seeds one independent generator per
// worker, so a seeded rng gives reproducible results.
func VsHand(ctx context.Context, hero, villain handrange.Combo, board []deck.Card, simulations int, rng *rand.Rand) (Result, error) {
	if simulations <= 0 {
		return Result{}, fmt.Errorf("simulations must be > 0")
	}
	if len(board) > 5 {
		return Result{}, fmt.Errorf("board has %d cards, max 5", len(board))
	}
	if hero.Conflicts(villain) {
		return Result{}, fmt.Errorf("hands %s and %s share a card", hero, villain)
	}

	dead := append([]deck.Card{hero.C0, hero.C1, villain.C0, villain.C1}, board...)
	remaining := deck.Remaining(dead)

	total, err := runWorkers(ctx, simulations, rng, func(workerRng *rand.Rand, samples int) tally {
		return sampleRunouts(hero, villain, board, remaining, samples, workerRng)
	})
	if err != nil {
		return Result{}, err
	}
	return total.result(), nil
}

// VsRange estimates hero's equity against every combo of a villain range,
// splitting the simulation budget evenly across the surviving combos.
func VsRange(ctx context.Context, hero handrange.Combo, villainRange string, board []deck.Card, simulations int, rng *rand.Rand) (Result, error) {
	if simulations <= 0 {
		return Result{}, fmt.Errorf("simulations must be > 0")
	}

	dead := append([]deck.Card{hero.C0, hero.C1}, board...)
	combos, err := handrange.ExpandToCombos(villainRange, dead)
	if err != nil {
		return Result{}, err
	}
	if len(combos) == 0 {
		return Result{}, fmt.Errorf("range %q has no combos left against %s and the board", villainRange, hero)
	}

	simsPer := simulations / len(combos)
	if simsPer == 0 {
		simsPer = 1
	}

	var total tally
	for _, villain := range combos {
		comboDead := append(append([]deck.Card{}, dead...), villain.C0, villain.C1)
		remaining := deck.Remaining(comboDead)

		t, err := runWorkers(ctx, simsPer, rng, func(workerRng *rand.Rand, samples int) tally {
			return sampleRunouts(hero, villain, board, remaining, samples, workerRng)
		})
		if err != nil {
			return Result{}, err
		}
		total.wins += t.wins
		total.ties += t.ties
		total.losses += t.losses
	}
	return total.result(), nil
}

// runWorkers splits the sample budget across up to NumCPU workers, each
// with its own rng seeded from the caller's.
func runWorkers(ctx context.Context, samples int, rng *rand.Rand, work func(*rand.Rand, int) tally) (tally, error) {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers > samples {
		workers = samples
	}

	per := samples / workers
	remainder := samples % workers

	results := make([]tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		n := per
		if w < remainder {
			n++
		}
		seed := rng.Int63()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[w] = work(rand.New(rand.NewSource(seed)), n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tally{}, err
	}

	var total tally
	for _, r := range results {
		total.wins += r.wins
		total.ties += r.ties
		total.losses += r.losses
	}
	return total, nil
}

// sampleRunouts deals the missing board cards and compares both hands'
// 7-card scores.
func sampleRunouts(hero, villain handrange.Combo, board, remaining []deck.Card, samples int, rng *rand.Rand) tally {
	var t tally
	needed := 5 - len(board)

	pool := append([]deck.Card{}, remaining...)
	heroHand := make([]deck.Card, 0, 7)
	villainHand := make([]deck.Card, 0, 7)

	for i := 0; i < samples; i++ {
		// Partial Fisher-Yates: only the first `needed` positions matter.
		for j := 0; j < needed; j++ {
			k := j + rng.Intn(len(pool)-j)
			pool[j], pool[k] = pool[k], pool[j]
		}

		heroHand = append(heroHand[:0], hero.C0, hero.C1)
		heroHand = append(heroHand, board...)
		heroHand = append(heroHand, pool[:needed]...)

		villainHand = append(villainHand[:0], villain.C0, villain.C1)
		villainHand = append(villainHand, board...)
		villainHand = append(villainHand, pool[:needed]...)

		hs := evaluator.Evaluate(heroHand)
		vs := evaluator.Evaluate(villainHand)
		switch {
		case hs > vs:
			t.wins++
		case hs < vs:
			t.losses++
		default:
			t.ties++
		}
	}
	return t
}

func (t tally) result() Result {
	total := float64(t.wins + t.ties + t.losses)
	if total == 0 {
		return Result{}
	}
	return Result{
		Win:         float64(t.wins) / total,
		Tie:         float64(t.ties) / total,
		Lose:        float64(t.losses) / total,
		Simulations: int(total),
	}
}
