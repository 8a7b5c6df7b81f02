package solver

import (
	"fmt"

	"github.com/0xjackson/gto-cli/internal/deck"
	"github.com/0xjackson/gto-cli/internal/evaluator"
	"github.com/0xjackson/gto-cli/internal/handrange"
)

// ShowdownTable precomputes everything terminal evaluation needs for a
// completed board: each combo's evaluator score and, per combo, the list of
// opponent combo indices that share no card with it. Immutable once built.
type ShowdownTable struct {
	OOPCombos []handrange.Combo
	IPCombos  []handrange.Combo

	// OOPScores[i] and IPScores[j] are evaluator scores against the board.
	OOPScores []evaluator.Score
	IPScores  []evaluator.Score

	// ValidIPForOOP[i] lists IP combo indices not blocked by OOP combo i;
	// ValidOOPForIP is the symmetric table. Indices ascend.
	ValidIPForOOP [][]uint16
	ValidOOPForIP [][]uint16
}

// NewShowdownTable builds the table for a completed board. River solves
// pass 5 board cards (7-card scores); the flop solver passes a 4-card
// board per turn runout (6-card scores).
func NewShowdownTable(oop, ip []handrange.Combo, board []deck.Card) (*ShowdownTable, error) {
	if len(board) != 4 && len(board) != 5 {
		return nil, fmt.Errorf("showdown table needs a 4- or 5-card board, got %d cards", len(board))
	}

	t := &ShowdownTable{
		OOPCombos: oop,
		IPCombos:  ip,
		OOPScores: make([]evaluator.Score, len(oop)),
		IPScores:  make([]evaluator.Score, len(ip)),
	}

	hand := make([]deck.Card, 0, 7)
	for i, c := range oop {
		hand = append(hand[:0], c.C0, c.C1)
		hand = append(hand, board...)
		t.OOPScores[i] = evaluator.Evaluate(hand)
	}
	for j, c := range ip {
		hand = append(hand[:0], c.C0, c.C1)
		hand = append(hand, board...)
		t.IPScores[j] = evaluator.Evaluate(hand)
	}

	t.ValidIPForOOP = make([][]uint16, len(oop))
	for i, oc := range oop {
		valid := make([]uint16, 0, len(ip))
		for j, ic := range ip {
			if !oc.Conflicts(ic) {
				valid = append(valid, uint16(j))
			}
		}
		t.ValidIPForOOP[i] = valid
	}

	t.ValidOOPForIP = make([][]uint16, len(ip))
	for j, ic := range ip {
		valid := make([]uint16, 0, len(oop))
		for i, oc := range oop {
			if !ic.Conflicts(oc) {
				valid = append(valid, uint16(i))
			}
		}
		t.ValidOOPForIP[j] = valid
	}

	return t, nil
}

// NumOOP returns the OOP combo count.
func (t *ShowdownTable) NumOOP() int {
	return len(t.OOPCombos)
}

// NumIP returns the IP combo count.
func (t *ShowdownTable) NumIP() int {
	return len(t.IPCombos)
}

// Score returns the given player's score for a combo index.
func (t *ShowdownTable) Score(p Player, idx int) evaluator.Score {
	if p == OOP {
		return t.OOPScores[idx]
	}
	return t.IPScores[idx]
}

// ValidOpponents returns the opponent combo indices not blocked by the
// given player's combo.
func (t *ShowdownTable) ValidOpponents(p Player, idx int) []uint16 {
	if p == OOP {
		return t.ValidIPForOOP[idx]
	}
	return t.ValidOOPForIP[idx]
}
