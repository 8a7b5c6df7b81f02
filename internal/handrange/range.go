// Package handrange parses textual hand-class ranges ("AA,AKs,AKo") and
// expands them into concrete two-card combinations.
package handrange

import (
	"fmt"
	"strings"

	"github.com/0xjackson/gto-cli/internal/deck"
)

// Combo is an ordered pair of distinct hole cards.
type Combo struct {
	C0 deck.Card
	C1 deck.Card
}

// String returns the combo in standard notation, e.g. "AsKh".
func (c Combo) String() string {
	return c.C0.String() + c.C1.String()
}

// Blocks reports whether the combo shares a card with the given card.
func (c Combo) Blocks(card deck.Card) bool {
	return c.C0 == card || c.C1 == card
}

// Conflicts reports whether two combos share any card.
func (c Combo) Conflicts(other Combo) bool {
	return c.C0 == other.C0 || c.C0 == other.C1 || c.C1 == other.C0 || c.C1 == other.C1
}

// suitOrder fixes the enumeration order of generated combos so that ranges
// expand identically across runs.
var suitOrder = [4]deck.Suit{deck.Spades, deck.Hearts, deck.Diamonds, deck.Clubs}

// Parse expands a comma-separated range string into combos. Hand classes
// follow the canonical notation: pairs ("AA", 6 combos), suited ("AKs", 4),
// offsuit ("AKo", 12), and dash ranges over either ("KK-JJ", "AQs-ATs").
func Parse(rangeStr string) ([]Combo, error) {
	rangeStr = strings.TrimSpace(rangeStr)
	if rangeStr == "" {
		return nil, fmt.Errorf("empty range string")
	}

	var combos []Combo
	seen := make(map[Combo]struct{})

	for _, part := range strings.Split(rangeStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var expanded []Combo
		var err error
		if strings.Contains(part, "-") {
			expanded, err = parseDashRange(part)
		} else {
			expanded, err = parseHandClass(part)
		}
		if err != nil {
			return nil, err
		}
		for _, c := range expanded {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			combos = append(combos, c)
		}
	}

	if len(combos) == 0 {
		return nil, fmt.Errorf("range %q expands to no combos", rangeStr)
	}
	return combos, nil
}

type handClass struct {
	hi     deck.Rank
	lo     deck.Rank
	suited bool
}

func parseHandClass(s string) ([]Combo, error) {
	class, err := parseClassNotation(s)
	if err != nil {
		return nil, err
	}
	return class.combos(), nil
}

func parseClassNotation(s string) (handClass, error) {
	if len(s) < 2 || len(s) > 3 {
		return handClass{}, fmt.Errorf("invalid hand class %q", s)
	}
	hi, err := parseRank(s[0])
	if err != nil {
		return handClass{}, fmt.Errorf("invalid hand class %q: %w", s, err)
	}
	lo, err := parseRank(s[1])
	if err != nil {
		return handClass{}, fmt.Errorf("invalid hand class %q: %w", s, err)
	}
	if hi < lo {
		hi, lo = lo, hi
	}

	class := handClass{hi: hi, lo: lo}
	switch {
	case len(s) == 2:
		if hi != lo {
			return handClass{}, fmt.Errorf("ambiguous hand class %q: use 's' or 'o'", s)
		}
	case s[2] == 's' || s[2] == 'S':
		if hi == lo {
			return handClass{}, fmt.Errorf("invalid hand class %q: pairs cannot be suited", s)
		}
		class.suited = true
	case s[2] == 'o' || s[2] == 'O':
		if hi == lo {
			return handClass{}, fmt.Errorf("invalid hand class %q: pairs need no modifier", s)
		}
	default:
		return handClass{}, fmt.Errorf("invalid hand class %q: expected 's' or 'o'", s)
	}
	return class, nil
}

// parseDashRange expands notation like "KK-JJ" or "AQs-ATs". Both ends must
// share the class shape: pair-to-pair, or same high rank and suitedness.
func parseDashRange(s string) ([]Combo, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range %q: expected a single dash", s)
	}
	start, err := parseClassNotation(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	end, err := parseClassNotation(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}

	var combos []Combo
	if start.hi == start.lo && end.hi == end.lo {
		if end.hi > start.hi {
			start, end = end, start
		}
		for r := int(start.hi); r >= int(end.hi); r-- {
			combos = append(combos, handClass{hi: deck.Rank(r), lo: deck.Rank(r)}.combos()...)
		}
		return combos, nil
	}

	if start.hi != end.hi || start.suited != end.suited {
		return nil, fmt.Errorf("invalid range %q: ends must share high rank and suitedness", s)
	}
	if end.lo > start.lo {
		start, end = end, start
	}
	for r := int(start.lo); r >= int(end.lo); r-- {
		combos = append(combos, handClass{hi: start.hi, lo: deck.Rank(r), suited: start.suited}.combos()...)
	}
	return combos, nil
}

func (h handClass) combos() []Combo {
	var out []Combo
	switch {
	case h.hi == h.lo:
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				out = append(out, Combo{
					C0: deck.NewCard(h.hi, suitOrder[i]),
					C1: deck.NewCard(h.hi, suitOrder[j]),
				})
			}
		}
	case h.suited:
		for _, s := range suitOrder {
			out = append(out, Combo{
				C0: deck.NewCard(h.hi, s),
				C1: deck.NewCard(h.lo, s),
			})
		}
	default:
		for _, s0 := range suitOrder {
			for _, s1 := range suitOrder {
				if s0 == s1 {
					continue
				}
				out = append(out, Combo{
					C0: deck.NewCard(h.hi, s0),
					C1: deck.NewCard(h.lo, s1),
				})
			}
		}
	}
	return out
}

func parseRank(b byte) (deck.Rank, error) {
	switch b {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		return deck.Rank(b - '2'), nil
	case 'T', 't':
		return deck.Ten, nil
	case 'J', 'j':
		return deck.Jack, nil
	case 'Q', 'q':
		return deck.Queen, nil
	case 'K', 'k':
		return deck.King, nil
	case 'A', 'a':
		return deck.Ace, nil
	default:
		return 0, fmt.Errorf("unknown rank %q", string(b))
	}
}

// ExpandToCombos parses a range string and drops every combo that shares a
// card with the board. Order is the parser's natural order; no duplicates.
func ExpandToCombos(rangeStr string, board []deck.Card) ([]Combo, error) {
	combos, err := Parse(rangeStr)
	if err != nil {
		return nil, err
	}

	var boardSet [deck.NumCards]bool
	for _, b := range board {
		boardSet[b] = true
	}

	out := make([]Combo, 0, len(combos))
	for _, c := range combos {
		if boardSet[c.C0] || boardSet[c.C1] {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
