package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xjackson/gto-cli/internal/deck"
)

func collectIDs(n *Node, ids *[]uint16) {
	switch n.Kind {
	case NodeAction:
		*ids = append(*ids, n.ID)
		for _, c := range n.Children {
			collectIDs(c, ids)
		}
	case NodeChance:
		for _, c := range n.Children {
			collectIDs(c, ids)
		}
	}
}

func TestBuildTreeBasicStructure(t *testing.T) {
	root, numNodes := BuildTree(DefaultRiverTree(10, 20))
	require.Greater(t, int(numNodes), 2)
	assert.Equal(t, int(numNodes), root.CountActionNodes())
	assert.Greater(t, root.CountTerminalNodes(), 0)
}

func TestTreeIDsContiguous(t *testing.T) {
	root, numNodes := BuildTree(DefaultRiverTree(10, 20))

	var ids []uint16
	collectIDs(root, &ids)
	require.Len(t, ids, int(numNodes))

	seen := make(map[uint16]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	for i := uint16(0); i < numNodes; i++ {
		assert.True(t, seen[i], "missing id %d", i)
	}
}

func TestTreeIDsPreOrder(t *testing.T) {
	// The builder assigns an ID to each action node before recursing, so a
	// pre-order walk sees 0,1,2,...
	root, _ := BuildTree(DefaultRiverTree(10, 20))
	var ids []uint16
	collectIDs(root, &ids)
	for i, id := range ids {
		assert.Equal(t, uint16(i), id)
	}
}

func TestCheckCheckLeadsToShowdown(t *testing.T) {
	root, _ := BuildTree(TreeConfig{
		BetSizes:       []float64{1.0},
		StartingPot:    10,
		EffectiveStack: 20,
	})

	require.Equal(t, NodeAction, root.Kind)
	assert.Equal(t, OOP, root.Player)
	assert.Equal(t, Check, root.Actions[0].Kind)

	ipNode := root.Children[0]
	require.Equal(t, NodeAction, ipNode.Kind)
	assert.Equal(t, IP, ipNode.Player)
	assert.Equal(t, Check, ipNode.Actions[0].Kind)

	terminal := ipNode.Children[0]
	require.Equal(t, NodeTerminal, terminal.Kind)
	assert.Equal(t, Showdown, terminal.Terminal)
}

func TestBetClampedToStack(t *testing.T) {
	root, _ := BuildTree(TreeConfig{
		BetSizes:       []float64{2.0}, // 200% pot = 20, but stack is 5
		StartingPot:    10,
		EffectiveStack: 5,
	})

	require.Len(t, root.Actions, 2)
	assert.Equal(t, Check, root.Actions[0].Kind)
	assert.Equal(t, Bet, root.Actions[1].Kind)
	assert.InDelta(t, 5.0, root.Actions[1].Amount, amountEpsilon)
}

func TestNoBetsMeansCheckOnly(t *testing.T) {
	root, _ := BuildTree(TreeConfig{
		StartingPot:    10,
		EffectiveStack: 20,
	})
	require.Len(t, root.Actions, 1)
	assert.Equal(t, Check, root.Actions[0].Kind)

	// Depth two: OOP check, IP check, showdown.
	ipNode := root.Children[0]
	require.Len(t, ipNode.Actions, 1)
	assert.Equal(t, NodeTerminal, ipNode.Children[0].Kind)
}

func TestAllInNotAddedBelowPotFraction(t *testing.T) {
	// Stack of 1 chip into a 10-chip pot is below the 20% threshold, so no
	// shove gets added beyond the configured sizes.
	root, _ := BuildTree(TreeConfig{
		BetSizes:       []float64{0.05},
		StartingPot:    10,
		EffectiveStack: 1,
		AddAllIn:       true,
	})
	// The 0.05 size comes to 0.5 chips, the shove at 1.0 chips stays below
	// 20% of pot: only check + one bet.
	require.Len(t, root.Actions, 2)
}

func TestPotAccounting(t *testing.T) {
	var check func(n *Node, rootPot float64)
	check = func(n *Node, rootPot float64) {
		if n.Kind == NodeTerminal {
			assert.InDelta(t, rootPot+n.Invested[0]+n.Invested[1], n.Pot, 1e-9,
				"terminal pot must equal starting pot plus both investments")
			return
		}
		for _, c := range n.Children {
			check(c, rootPot)
		}
	}
	root, _ := BuildTree(DefaultRiverTree(10, 20))
	check(root, 10)
}

func TestEveryActionNodeHasActions(t *testing.T) {
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == NodeAction {
			assert.NotEmpty(t, n.Actions)
			assert.Len(t, n.Children, len(n.Actions))
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	root, _ := BuildTree(DefaultRiverTree(10, 20))
	walk(root)
}

func TestSingleStreetHasNoChanceNodes(t *testing.T) {
	var walk func(n *Node)
	walk = func(n *Node) {
		assert.NotEqual(t, NodeChance, n.Kind)
		for _, c := range n.Children {
			walk(c)
		}
	}
	root, _ := BuildTree(DefaultRiverTree(10, 20))
	walk(root)
}

func turnBoard(t *testing.T) []deck.Card {
	t.Helper()
	board, err := deck.ParseBoard("Ks9d4c2h")
	require.NoError(t, err)
	return board
}

func TestTwoStreetTreeHasChanceNodes(t *testing.T) {
	root, _ := BuildTwoStreetTree(DefaultTurnTree(10, 20), turnBoard(t), DefaultRiverTree(0, 0))

	var countChance func(n *Node) int
	countChance = func(n *Node) int {
		total := 0
		if n.Kind == NodeChance {
			total = 1
		}
		for _, c := range n.Children {
			total += countChance(c)
		}
		return total
	}
	assert.Greater(t, countChance(root), 0)
}

func TestTwoStreetChanceNodesHave48Children(t *testing.T) {
	root, _ := BuildTwoStreetTree(DefaultTurnTree(10, 20), turnBoard(t), DefaultRiverTree(0, 0))

	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == NodeChance {
			assert.Len(t, n.Cards, 48)
			assert.Len(t, n.Children, 48)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
}

func TestTwoStreetTreeIDsUniqueAcrossSubtrees(t *testing.T) {
	root, numNodes := BuildTwoStreetTree(DefaultTurnTree(10, 20), turnBoard(t), DefaultRiverTree(0, 0))

	var ids []uint16
	collectIDs(root, &ids)
	require.Len(t, ids, int(numNodes))

	seen := make(map[uint16]bool, len(ids))
	for _, id := range ids {
		require.False(t, seen[id], "id %d repeats across chance subtrees", id)
		seen[id] = true
	}
	for i := uint16(0); i < numNodes; i++ {
		require.True(t, seen[i], "missing id %d", i)
	}
}

func TestTwoStreetNoTopLevelShowdowns(t *testing.T) {
	// After the transform, the first street ends in fold terminals or
	// chance nodes only; showdowns live inside the river subtrees.
	root, _ := BuildTwoStreetTree(DefaultTurnTree(10, 20), turnBoard(t), DefaultRiverTree(0, 0))

	var walk func(n *Node, pastChance bool)
	walk = func(n *Node, pastChance bool) {
		if n.Kind == NodeTerminal && !pastChance {
			assert.Equal(t, FoldEnd, n.Terminal, "top-level showdown should have become a chance node")
		}
		for _, c := range n.Children {
			walk(c, pastChance || n.Kind == NodeChance)
		}
	}
	walk(root, false)
}

func TestActionLabels(t *testing.T) {
	assert.Equal(t, "Check", Action{Kind: Check}.Label())
	assert.Equal(t, "Fold", Action{Kind: Fold}.Label())
	assert.Equal(t, "Bet 6.7", Action{Kind: Bet, Amount: 6.7}.Label())
	assert.Equal(t, "Call 5.0", Action{Kind: Call, Amount: 5}.Label())
	assert.Equal(t, "Raise 20.0", Action{Kind: Raise, Amount: 20}.Label())
}
