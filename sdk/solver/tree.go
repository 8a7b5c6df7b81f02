// Package solver implements the CFR+ postflop solver core: game-tree
// construction, blocker-aware showdown tables, regret-matched info sets,
// the alternating CFR+ traverser, best-response exploitability, and
// strategy extraction.
package solver

import (
	"fmt"
	"math"

	"github.com/0xjackson/gto-cli/internal/deck"
)

// Player tags the two seats. OOP acts first on every street.
type Player uint8

const (
	OOP Player = iota
	IP
)

// Opponent returns the other seat.
func (p Player) Opponent() Player {
	if p == OOP {
		return IP
	}
	return OOP
}

// Index maps the seat to 0 (OOP) or 1 (IP).
func (p Player) Index() int {
	return int(p)
}

func (p Player) String() string {
	if p == OOP {
		return "OOP"
	}
	return "IP"
}

// ActionKind enumerates the moves available at an action node.
type ActionKind uint8

const (
	Check ActionKind = iota
	Bet
	Call
	Raise
	Fold
)

// Action is a move plus its chip amount. Check and Fold carry no amount;
// Raise carries the total put in by the raiser at that edge.
type Action struct {
	Kind   ActionKind
	Amount float64
}

// Label returns the display form used in extracted solutions.
func (a Action) Label() string {
	switch a.Kind {
	case Check:
		return "Check"
	case Bet:
		return fmt.Sprintf("Bet %.1f", a.Amount)
	case Call:
		return fmt.Sprintf("Call %.1f", a.Amount)
	case Raise:
		return fmt.Sprintf("Raise %.1f", a.Amount)
	case Fold:
		return "Fold"
	default:
		return "?"
	}
}

// TerminalKind describes how play ended at a terminal node.
type TerminalKind uint8

const (
	Showdown TerminalKind = iota
	FoldEnd
)

// NodeKind discriminates the three node shapes in the tree.
type NodeKind uint8

const (
	NodeAction NodeKind = iota
	NodeChance
	NodeTerminal
)

// Node is one vertex of the extensive-form game tree.
//
// Action nodes carry a pre-order ID, the acting player, and parallel
// Actions/Children slices. Chance nodes (multi-street trees only) carry the
// dealable Cards and one child subtree per card. Terminal nodes carry the
// terminal kind, the folder for fold endings, and the final pot and
// per-player invested amounts.
type Node struct {
	Kind NodeKind

	// Action node fields.
	ID      uint16
	Player  Player
	Actions []Action

	// Chance node fields.
	Cards []deck.Card

	// Shared state. Children is per-action for action nodes and per-card
	// for chance nodes.
	Pot      float64
	Stacks   [2]float64
	Invested [2]float64
	Children []*Node

	// Terminal node fields.
	Terminal TerminalKind
	Folder   Player
}

// CountActionNodes returns the number of action nodes in the subtree.
func (n *Node) CountActionNodes() int {
	switch n.Kind {
	case NodeAction:
		total := 1
		for _, c := range n.Children {
			total += c.CountActionNodes()
		}
		return total
	case NodeChance:
		total := 0
		for _, c := range n.Children {
			total += c.CountActionNodes()
		}
		return total
	default:
		return 0
	}
}

// CountTerminalNodes returns the number of terminal nodes in the subtree.
func (n *Node) CountTerminalNodes() int {
	if n.Kind == NodeTerminal {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.CountTerminalNodes()
	}
	return total
}

// amountEpsilon is the chip tolerance for "effectively zero" and
// "effectively all-in" comparisons during tree construction.
const amountEpsilon = 0.01

// TreeConfig controls action-tree construction for one street.
type TreeConfig struct {
	// BetSizes are open-bet sizes as fractions of the current pot.
	BetSizes []float64
	// RaiseSizes are raise sizes as fractions of the pot after calling.
	RaiseSizes []float64
	// MaxRaises caps raises per street.
	MaxRaises int
	// StartingPot is the pot at the root, in chips.
	StartingPot float64
	// EffectiveStack is each player's remaining stack behind, in chips.
	EffectiveStack float64
	// AddAllIn adds an explicit all-in wherever the configured sizes leave
	// stack behind. An open shove is added only when BetSizes is non-empty
	// and the shove exceeds 20% of the pre-bet pot; an all-in raise is added
	// whenever stack remains after calling, with no pot-fraction threshold.
	AddAllIn bool
}

// DefaultRiverTree returns the standard river sizing scheme.
func DefaultRiverTree(startingPot, effectiveStack float64) TreeConfig {
	return TreeConfig{
		BetSizes:       []float64{0.33, 0.67, 1.0},
		RaiseSizes:     []float64{1.0},
		MaxRaises:      3,
		StartingPot:    startingPot,
		EffectiveStack: effectiveStack,
		AddAllIn:       true,
	}
}

// DefaultTurnTree returns the standard turn sizing scheme.
func DefaultTurnTree(startingPot, effectiveStack float64) TreeConfig {
	return TreeConfig{
		BetSizes:       []float64{0.5, 1.0},
		RaiseSizes:     []float64{1.0},
		MaxRaises:      2,
		StartingPot:    startingPot,
		EffectiveStack: effectiveStack,
		AddAllIn:       true,
	}
}

// DefaultFlopTree returns the standard flop sizing scheme.
func DefaultFlopTree(startingPot, effectiveStack float64) TreeConfig {
	return TreeConfig{
		BetSizes:       []float64{0.33, 0.75},
		RaiseSizes:     []float64{1.0},
		MaxRaises:      2,
		StartingPot:    startingPot,
		EffectiveStack: effectiveStack,
		AddAllIn:       true,
	}
}

// BuildTree constructs a single-street action tree. Action-node IDs are
// assigned pre-order starting at 0; the returned count is the total number
// of action nodes.
func BuildTree(cfg TreeConfig) (*Node, uint16) {
	b := &treeBuilder{cfg: cfg}
	root := b.buildNode(
		OOP,
		cfg.StartingPot,
		[2]float64{cfg.EffectiveStack, cfg.EffectiveStack},
		[2]float64{},
		0,     // raises this street
		false, // facing a bet
		0,     // amount to call
		false, // OOP already checked
	)
	return root, b.nextID
}

type treeBuilder struct {
	cfg    TreeConfig
	nextID uint16
}

func (b *treeBuilder) buildNode(player Player, pot float64, stacks, invested [2]float64, raises int, facingBet bool, toCall float64, oopChecked bool) *Node {
	pi := player.Index()

	// A player with no stack behind cannot act.
	if stacks[pi] < amountEpsilon {
		return &Node{Kind: NodeTerminal, Terminal: Showdown, Pot: pot, Stacks: stacks, Invested: invested}
	}

	if facingBet {
		return b.buildFacingBet(player, pot, stacks, invested, raises, toCall)
	}
	return b.buildOpenAction(player, pot, stacks, invested, raises, player == IP && oopChecked)
}

func (b *treeBuilder) buildOpenAction(player Player, pot float64, stacks, invested [2]float64, raises int, checkBack bool) *Node {
	pi := player.Index()
	remaining := stacks[pi]

	node := &Node{
		Kind:   NodeAction,
		ID:     b.nextID,
		Player: player,
		Pot:    pot,
		Stacks: stacks,
	}
	b.nextID++

	// Check: IP checking behind closes the street; OOP checking hands the
	// action to IP.
	node.Actions = append(node.Actions, Action{Kind: Check})
	if checkBack {
		node.Children = append(node.Children, &Node{
			Kind: NodeTerminal, Terminal: Showdown, Pot: pot, Stacks: stacks, Invested: invested,
		})
	} else {
		node.Children = append(node.Children, b.buildNode(IP, pot, stacks, invested, raises, false, 0, true))
	}

	addedAllIn := false
	for _, frac := range b.cfg.BetSizes {
		bet := math.Min(pot*frac, remaining)
		if bet < amountEpsilon {
			continue
		}
		if math.Abs(bet-remaining) < amountEpsilon {
			if addedAllIn {
				continue
			}
			addedAllIn = true
		}

		node.Actions = append(node.Actions, Action{Kind: Bet, Amount: bet})

		newStacks := stacks
		newStacks[pi] -= bet
		newInvested := invested
		newInvested[pi] += bet
		node.Children = append(node.Children,
			b.buildNode(player.Opponent(), pot+bet, newStacks, newInvested, raises, true, bet, false))
	}

	// Explicit shove when the configured sizes leave stack behind. Empty
	// bet sizes mean a check-only street, so no shove either.
	if b.cfg.AddAllIn && !addedAllIn && remaining > amountEpsilon && len(b.cfg.BetSizes) > 0 && remaining > pot*0.2 {
		node.Actions = append(node.Actions, Action{Kind: Bet, Amount: remaining})

		newStacks := stacks
		newStacks[pi] -= remaining
		newInvested := invested
		newInvested[pi] += remaining
		node.Children = append(node.Children,
			b.buildNode(player.Opponent(), pot+remaining, newStacks, newInvested, raises, true, remaining, false))
	}

	return node
}

func (b *treeBuilder) buildFacingBet(player Player, pot float64, stacks, invested [2]float64, raises int, toCall float64) *Node {
	pi := player.Index()
	remaining := stacks[pi]

	node := &Node{
		Kind:   NodeAction,
		ID:     b.nextID,
		Player: player,
		Pot:    pot,
		Stacks: stacks,
	}
	b.nextID++

	node.Actions = append(node.Actions, Action{Kind: Fold})
	node.Children = append(node.Children, &Node{
		Kind: NodeTerminal, Terminal: FoldEnd, Folder: player, Pot: pot, Stacks: stacks, Invested: invested,
	})

	callAmount := math.Min(toCall, remaining)
	node.Actions = append(node.Actions, Action{Kind: Call, Amount: callAmount})
	{
		newStacks := stacks
		newStacks[pi] -= callAmount
		newInvested := invested
		newInvested[pi] += callAmount
		node.Children = append(node.Children, &Node{
			Kind: NodeTerminal, Terminal: Showdown, Pot: pot + callAmount, Stacks: newStacks, Invested: newInvested,
		})
	}

	if raises < b.cfg.MaxRaises {
		remainingAfterCall := remaining - callAmount
		if remainingAfterCall > amountEpsilon {
			potAfterCall := pot + callAmount
			addedAllIn := false

			for _, frac := range b.cfg.RaiseSizes {
				raiseAmount := math.Min(potAfterCall*frac, remainingAfterCall)
				if raiseAmount < amountEpsilon {
					continue
				}
				totalPutIn := callAmount + raiseAmount
				if math.Abs(totalPutIn-remaining) < amountEpsilon {
					if addedAllIn {
						continue
					}
					addedAllIn = true
				}

				node.Actions = append(node.Actions, Action{Kind: Raise, Amount: totalPutIn})

				newStacks := stacks
				newStacks[pi] -= totalPutIn
				newInvested := invested
				newInvested[pi] += totalPutIn
				node.Children = append(node.Children,
					b.buildNode(player.Opponent(), pot+totalPutIn, newStacks, newInvested, raises+1, true, raiseAmount, false))
			}

			if b.cfg.AddAllIn && !addedAllIn {
				totalPutIn := remaining
				node.Actions = append(node.Actions, Action{Kind: Raise, Amount: totalPutIn})

				newStacks := stacks
				newStacks[pi] = 0
				newInvested := invested
				newInvested[pi] += totalPutIn
				node.Children = append(node.Children,
					b.buildNode(player.Opponent(), pot+totalPutIn, newStacks, newInvested, raises+1, true, totalPutIn-callAmount, false))
			}
		}
	}

	return node
}

// BuildTwoStreetTree builds an action tree for the given street config and
// then replaces every Showdown terminal with a chance node dealing one of
// the cards left in the deck, each leading to a fresh next-street subtree
// built with nextCfg sizing. Fold terminals stay. IDs inside the subtrees
// continue the sequence started by the first street; chance nodes carry no
// ID.
func BuildTwoStreetTree(cfg TreeConfig, board []deck.Card, nextCfg TreeConfig) (*Node, uint16) {
	root, nextID := BuildTree(cfg)
	b := &treeBuilder{nextID: nextID}
	cards := deck.Remaining(board)
	root = b.attachNextStreet(root, cards, nextCfg)
	return root, b.nextID
}

func (b *treeBuilder) attachNextStreet(node *Node, cards []deck.Card, nextCfg TreeConfig) *Node {
	switch node.Kind {
	case NodeTerminal:
		if node.Terminal != Showdown {
			return node
		}
		// Effective stack for the next street is capped by the shorter
		// side; an all-in call leaves zero and the subtree collapses to a
		// lone showdown per street.
		effStack := math.Min(node.Stacks[0], node.Stacks[1])
		b.cfg = nextCfg
		b.cfg.StartingPot = node.Pot
		b.cfg.EffectiveStack = effStack

		chance := &Node{
			Kind:     NodeChance,
			Pot:      node.Pot,
			Stacks:   node.Stacks,
			Invested: node.Invested,
			Cards:    cards,
			Children: make([]*Node, 0, len(cards)),
		}
		for range cards {
			chance.Children = append(chance.Children, b.buildNode(
				OOP,
				node.Pot,
				[2]float64{effStack, effStack},
				node.Invested,
				0,
				false,
				0,
				false,
			))
		}
		return chance
	case NodeAction:
		for i, c := range node.Children {
			node.Children[i] = b.attachNextStreet(c, cards, nextCfg)
		}
		return node
	default:
		return node
	}
}
