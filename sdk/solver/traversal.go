package solver

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/0xjackson/gto-cli/internal/deck"
	"github.com/0xjackson/gto-cli/internal/handrange"
)

// degenerateReach is the opponent-reach mass below which a terminal is
// treated as unreachable and contributes zero.
const degenerateReach = 1e-10

// trainer owns the mutable state of one solve: the info-set store. The
// tree, combo lists, and showdown tables are immutable after construction.
type trainer struct {
	root  *Node
	store *infoSetStore

	oopCombos []handrange.Combo
	ipCombos  []handrange.Combo

	validIPForOOP [][]uint16
	validOOPForIP [][]uint16

	// table scores single-street showdowns; runout maps each chance card
	// to the table for the board completed by that card (multi-street).
	table  *ShowdownTable
	runout map[deck.Card]*ShowdownTable

	logger zerolog.Logger
	clock  quartz.Clock
}

func (t *trainer) numCombos(p Player) int {
	if p == OOP {
		return len(t.oopCombos)
	}
	return len(t.ipCombos)
}

func (t *trainer) combos(p Player) []handrange.Combo {
	if p == OOP {
		return t.oopCombos
	}
	return t.ipCombos
}

func (t *trainer) validOpponents(p Player, hand int) []uint16 {
	if p == OOP {
		return t.validIPForOOP[hand]
	}
	return t.validOOPForIP[hand]
}

// run performs the requested number of alternating CFR+ sweeps. Even sweeps
// traverse from OOP's perspective, odd from IP's. The context is checked
// between sweeps only; a sweep never aborts mid-flight.
func (t *trainer) run(ctx context.Context, iterations int) error {
	start := t.clock.Now()
	progressEvery := iterations / 10
	if progressEvery == 0 {
		progressEvery = 1
	}

	for iter := 0; iter < iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		traverser := OOP
		if iter%2 == 1 {
			traverser = IP
		}

		// Freeze the opponent's behavior for the whole sweep so every
		// traverser hand sees the same strategies regardless of update
		// order.
		snapshot := t.snapshotStrategies(traverser.Opponent())

		numOpp := t.numCombos(traverser.Opponent())
		reach := make([]float64, numOpp)

		for h := 0; h < t.numCombos(traverser); h++ {
			for j := range reach {
				reach[j] = 0
			}
			for _, j := range t.validOpponents(traverser, h) {
				reach[j] = 1
			}
			t.cfrTraverse(t.root, traverser, h, reach, snapshot, t.table)
		}

		if (iter+1)%progressEvery == 0 {
			t.logger.Debug().
				Int("iteration", iter+1).
				Int("info_sets", len(t.store.entries)).
				Dur("elapsed", t.clock.Since(start).Round(time.Millisecond)).
				Msg("cfr sweep complete")
		}
	}
	return nil
}

// snapshotStrategies captures the current regret-matching strategy of every
// node owned by the given player, keyed by node ID and indexed by combo.
func (t *trainer) snapshotStrategies(p Player) map[uint16][][]float64 {
	snapshot := make(map[uint16][][]float64)
	numCombos := t.numCombos(p)
	var walk func(n *Node)
	walk = func(n *Node) {
		switch n.Kind {
		case NodeAction:
			if n.Player == p {
				strats := make([][]float64, numCombos)
				for h := 0; h < numCombos; h++ {
					key := InfoSetKey{HandBucket: uint16(h), NodeID: n.ID}
					strats[h] = t.store.currentStrategy(key, len(n.Actions))
				}
				snapshot[n.ID] = strats
			}
			for _, c := range n.Children {
				walk(c)
			}
		case NodeChance:
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(t.root)
	return snapshot
}

// cfrTraverse returns the counterfactual value of the node for the
// traverser holding hand h, given the opponent reach vector. table is the
// showdown table for the current (completed) board; it is nil above chance
// nodes, where only fold terminals can occur.
func (t *trainer) cfrTraverse(node *Node, traverser Player, hand int, oppReach []float64, snapshot map[uint16][][]float64, table *ShowdownTable) float64 {
	switch node.Kind {
	case NodeTerminal:
		return t.terminalValue(node, traverser, hand, oppReach, table)

	case NodeChance:
		return t.chanceValue(node, traverser, hand, oppReach, func(child *Node, childReach []float64, childTable *ShowdownTable) float64 {
			return t.cfrTraverse(child, traverser, hand, childReach, snapshot, childTable)
		})

	case NodeAction:
		numActions := len(node.Actions)

		if node.Player == traverser {
			key := InfoSetKey{HandBucket: uint16(hand), NodeID: node.ID}
			strat := t.store.currentStrategy(key, numActions)

			actionUtils := make([]float64, numActions)
			nodeUtil := 0.0
			for a := 0; a < numActions; a++ {
				actionUtils[a] = t.cfrTraverse(node.Children[a], traverser, hand, oppReach, snapshot, table)
				nodeUtil += strat[a] * actionUtils[a]
			}

			// The strategy accumulator is weighted by the {0,1} indicator
			// of positive opponent reach mass; regret updates always apply.
			reachSum := 0.0
			for _, r := range oppReach {
				reachSum += r
			}
			weight := 0.0
			if reachSum > 0 {
				weight = 1.0
			}

			t.store.getOrCreate(key, numActions).Update(actionUtils, nodeUtil, weight)
			return nodeUtil
		}

		// Opponent node: weight each branch into the reach vector using
		// the pre-sweep snapshot and sum the branch values.
		strats := snapshot[node.ID]
		newReach := make([]float64, len(oppReach))
		nodeUtil := 0.0
		for a := 0; a < numActions; a++ {
			for j := range oppReach {
				if oppReach[j] <= 0 {
					newReach[j] = 0
					continue
				}
				if strats != nil {
					newReach[j] = oppReach[j] * strats[j][a]
				} else {
					newReach[j] = oppReach[j] / float64(numActions)
				}
			}
			nodeUtil += t.cfrTraverse(node.Children[a], traverser, hand, newReach, snapshot, table)
		}
		return nodeUtil

	default:
		return 0
	}
}

// chanceValue averages the child values over all cards the traverser can
// actually see dealt. Cards held by the traverser are skipped; opponent
// combos containing the dealt card get their reach zeroed before descending
// into that runout.
func (t *trainer) chanceValue(node *Node, traverser Player, hand int, oppReach []float64, descend func(*Node, []float64, *ShowdownTable) float64) float64 {
	myCombo := t.combos(traverser)[hand]
	oppCombos := t.combos(traverser.Opponent())

	childReach := make([]float64, len(oppReach))
	total := 0.0
	dealt := 0

	for ci, card := range node.Cards {
		if myCombo.Blocks(card) {
			continue
		}
		for j := range oppReach {
			if oppReach[j] > 0 && !oppCombos[j].Blocks(card) {
				childReach[j] = oppReach[j]
			} else {
				childReach[j] = 0
			}
		}
		total += descend(node.Children[ci], childReach, t.runout[card])
		dealt++
	}

	if dealt == 0 {
		return 0
	}
	return total / float64(dealt)
}

// terminalValue computes the traverser's chip EV at a terminal, summed over
// the opponent's reach vector. Payoffs are relative to the start of the
// tree: previous-street money is sunk.
func (t *trainer) terminalValue(node *Node, traverser Player, hand int, oppReach []float64, table *ShowdownTable) float64 {
	reachSum := 0.0
	for _, r := range oppReach {
		reachSum += r
	}
	if reachSum < degenerateReach {
		return 0
	}

	myInvested := node.Invested[traverser.Index()]

	if node.Kind == NodeTerminal && node.Terminal == FoldEnd {
		if node.Folder == traverser {
			return -myInvested * reachSum
		}
		return (node.Pot - myInvested) * reachSum
	}

	// Showdown: compare scores against every live opponent combo.
	winPayoff := node.Pot - myInvested
	losePayoff := -myInvested
	tiePayoff := node.Pot/2 - myInvested

	myScore := table.Score(traverser, hand)
	oppScores := table.IPScores
	if traverser == IP {
		oppScores = table.OOPScores
	}
	valid := table.ValidOpponents(traverser, hand)

	value := 0.0
	for _, j := range valid {
		r := oppReach[j]
		if r < degenerateReach {
			continue
		}
		switch {
		case myScore > oppScores[j]:
			value += r * winPayoff
		case myScore < oppScores[j]:
			value += r * losePayoff
		default:
			value += r * tiePayoff
		}
	}
	return value
}
