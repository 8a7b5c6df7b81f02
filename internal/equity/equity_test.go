package equity

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xjackson/gto-cli/internal/deck"
	"github.com/0xjackson/gto-cli/internal/handrange"
)

func combo(t *testing.T, s string) handrange.Combo {
	t.Helper()
	c0, err := deck.ParseCard(s[:2])
	require.NoError(t, err)
	c1, err := deck.ParseCard(s[2:])
	require.NoError(t, err)
	return handrange.Combo{C0: c0, C1: c1}
}

func TestVsHandAABeats72o(t *testing.T) {
	res, err := VsHand(context.Background(),
		combo(t, "AsAh"), combo(t, "7d2c"), nil, 20000, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// AA vs 72o is roughly 88/12 preflop.
	assert.Greater(t, res.Equity(), 0.8)
	assert.InDelta(t, 1.0, res.Win+res.Tie+res.Lose, 1e-9)
	assert.Equal(t, 20000, res.Simulations)
}

func TestVsHandDeterministicWithSeed(t *testing.T) {
	run := func() Result {
		res, err := VsHand(context.Background(),
			combo(t, "KsKh"), combo(t, "QdQc"), nil, 5000, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		return res
	}
	assert.Equal(t, run(), run())
}

func TestVsHandOnCompletedBoard(t *testing.T) {
	board, err := deck.ParseBoard("2s3h4d5c8s")
	require.NoError(t, err)

	// AA holds the wheel; the result is deterministic on a full board.
	res, err := VsHand(context.Background(),
		combo(t, "AsAh"), combo(t, "KdKc"), board, 1000, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Win, 1e-9)
}

func TestVsHandRejectsConflicts(t *testing.T) {
	_, err := VsHand(context.Background(),
		combo(t, "AsAh"), combo(t, "AsKd"), nil, 100, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestVsRangeAAVsPairs(t *testing.T) {
	res, err := VsRange(context.Background(),
		combo(t, "AsAh"), "KK,QQ,JJ", nil, 9000, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Greater(t, res.Equity(), 0.75)
}

func TestVsRangeEmptyAfterBlockers(t *testing.T) {
	board, err := deck.ParseBoard("KsKh")
	require.NoError(t, err)
	_, err = VsRange(context.Background(),
		combo(t, "KdKc"), "KK", board, 100, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
