// Package evaluator scores poker hands of five to seven cards.
//
// The algorithm follows the classic histogram approach: count ranks, build a
// 13-bit rank mask per suit, take the flush path when a suit holds five or
// more cards, otherwise classify by rank multiplicity from Ace down. The
// result is a single packed Score that compares directly as an integer, so
// the solver's showdown loop never unpacks categories or kickers.
//
// Every function here is allocation-free on the hot path; the only shared
// state is the straight lookup table, which is immutable after init.
package evaluator

import (
	"fmt"

	"github.com/0xjackson/gto-cli/internal/deck"
)

// Evaluate scores the best five-card hand contained in 5, 6, or 7 distinct
// cards. It panics when called with any other count; callers validate card
// counts before the solve starts.
func Evaluate(cards []deck.Card) Score {
	if len(cards) < 5 || len(cards) > 7 {
		panic(fmt.Sprintf("evaluator: want 5-7 cards, got %d", len(cards)))
	}

	var rankCounts [13]uint8
	var suitMasks [4]uint16
	var suitCounts [4]uint8

	for _, c := range cards {
		rank := c / 4
		suit := c & 0x3
		rankCounts[rank]++
		suitMasks[suit] |= 1 << rank
		suitCounts[suit]++
	}

	// Flush path. A flush always beats any non-flush hand that can coexist
	// in the same seven cards, so this dispatch is exact.
	for suit := 0; suit < 4; suit++ {
		if suitCounts[suit] < 5 {
			continue
		}
		fmask := suitMasks[suit]
		if high := straightTable[fmask]; high > 0 {
			if high == 14 {
				return packScore(RoyalFlush, 14)
			}
			return packScore(StraightFlush, high)
		}
		top := topNFromMask(fmask, 5)
		return packScore(Flush, top[:]...)
	}

	return evaluateNonFlush(&rankCounts)
}

// evaluateNonFlush classifies a hand with no flush from its rank histogram.
func evaluateNonFlush(rc *[13]uint8) Score {
	// Scan Ace down so each multiplicity list is sorted high first.
	// Bounds are the max possible in 7 cards: 1 quad, 2 trips, 3 pairs.
	var quad [1]uint8
	var trip [2]uint8
	var pair [3]uint8
	var sing [7]uint8
	var nq, nt, np, ns int

	for idx := 12; idx >= 0; idx-- {
		rv := uint8(idx) + 2
		switch rc[idx] {
		case 4:
			quad[nq] = rv
			nq++
		case 3:
			trip[nt] = rv
			nt++
		case 2:
			pair[np] = rv
			np++
		case 1:
			sing[ns] = rv
			ns++
		}
	}

	// Four of a kind: kicker is the best leftover card of any multiplicity.
	if nq >= 1 {
		kick := uint8(0)
		switch {
		case nt > 0:
			kick = trip[0]
		case np > 0:
			kick = pair[0]
		case ns > 0:
			kick = sing[0]
		}
		return packScore(FourOfAKind, quad[0], kick)
	}

	// Full house: a second set of trips counts as the pair.
	if nt >= 1 && (np >= 1 || nt >= 2) {
		pr := pair[0]
		if nt >= 2 {
			pr = trip[1]
		}
		return packScore(FullHouse, trip[0], pr)
	}

	var rankMask uint16
	for i := 0; i < 13; i++ {
		if rc[i] > 0 {
			rankMask |= 1 << i
		}
	}
	if high := straightTable[rankMask]; high > 0 {
		return packScore(Straight, high)
	}

	if nt >= 1 {
		return packScore(ThreeOfAKind, trip[0], sing[0], sing[1])
	}

	// Two pair: with three pairs in seven cards the third pair's rank can
	// outkick the best single.
	if np >= 2 {
		kick := sing[0]
		if np >= 3 && pair[2] > kick {
			kick = pair[2]
		}
		return packScore(TwoPair, pair[0], pair[1], kick)
	}

	if np == 1 {
		return packScore(OnePair, pair[0], sing[0], sing[1], sing[2])
	}

	return packScore(HighCard, sing[0], sing[1], sing[2], sing[3], sing[4])
}

// topNFromMask extracts the top n set bits of a 13-bit rank mask as rank
// values, high first.
func topNFromMask(mask uint16, n int) [5]uint8 {
	var out [5]uint8
	count := 0
	for bit := 12; bit >= 0 && count < n; bit-- {
		if mask&(1<<bit) != 0 {
			out[count] = uint8(bit) + 2
			count++
		}
	}
	return out
}
