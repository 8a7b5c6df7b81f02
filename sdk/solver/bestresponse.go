package solver

import "math"

// exploitability measures how far the average strategy is from equilibrium:
// the mean best-response gain of each player against the other's average
// strategy, summed and halved. Zero would be an exact Nash equilibrium.
func (t *trainer) exploitability() float64 {
	return (t.bestResponseGain(OOP) + t.bestResponseGain(IP)) / 2
}

// bestResponseGain returns the mean per-combo gain the given player
// realises by switching to a best response while the opponent keeps playing
// the average strategy. The baseline is the player's value when also
// playing the average strategy.
func (t *trainer) bestResponseGain(p Player) float64 {
	numHands := t.numCombos(p)
	if numHands == 0 {
		return 0
	}
	numOpp := t.numCombos(p.Opponent())

	totalGain := 0.0
	reach := make([]float64, numOpp)

	for h := 0; h < numHands; h++ {
		for j := range reach {
			reach[j] = 0
		}
		for _, j := range t.validOpponents(p, h) {
			reach[j] = 1
		}

		brValue := t.brTraverse(t.root, p, h, reach, t.table)
		avgValue := t.avgTraverse(t.root, p, h, reach, t.table)
		totalGain += brValue - avgValue
	}

	return totalGain / float64(numHands)
}

// brTraverse values a node with the BR player maximising over children and
// the opponent playing the stored average strategy.
func (t *trainer) brTraverse(node *Node, brPlayer Player, hand int, oppReach []float64, table *ShowdownTable) float64 {
	switch node.Kind {
	case NodeTerminal:
		return t.terminalValue(node, brPlayer, hand, oppReach, table)

	case NodeChance:
		return t.chanceValue(node, brPlayer, hand, oppReach, func(child *Node, childReach []float64, childTable *ShowdownTable) float64 {
			return t.brTraverse(child, brPlayer, hand, childReach, childTable)
		})

	case NodeAction:
		numActions := len(node.Actions)

		if node.Player == brPlayer {
			best := math.Inf(-1)
			for a := 0; a < numActions; a++ {
				if v := t.brTraverse(node.Children[a], brPlayer, hand, oppReach, table); v > best {
					best = v
				}
			}
			return best
		}

		newReach := make([]float64, len(oppReach))
		nodeValue := 0.0
		for a := 0; a < numActions; a++ {
			for j := range oppReach {
				if oppReach[j] <= 0 {
					newReach[j] = 0
					continue
				}
				key := InfoSetKey{HandBucket: uint16(j), NodeID: node.ID}
				avg := t.store.averageStrategy(key, numActions)
				newReach[j] = oppReach[j] * avg[a]
			}
			nodeValue += t.brTraverse(node.Children[a], brPlayer, hand, newReach, table)
		}
		return nodeValue

	default:
		return 0
	}
}

// avgTraverse values a node with both players on the average strategy.
func (t *trainer) avgTraverse(node *Node, perspective Player, hand int, oppReach []float64, table *ShowdownTable) float64 {
	switch node.Kind {
	case NodeTerminal:
		return t.terminalValue(node, perspective, hand, oppReach, table)

	case NodeChance:
		return t.chanceValue(node, perspective, hand, oppReach, func(child *Node, childReach []float64, childTable *ShowdownTable) float64 {
			return t.avgTraverse(child, perspective, hand, childReach, childTable)
		})

	case NodeAction:
		numActions := len(node.Actions)

		if node.Player == perspective {
			key := InfoSetKey{HandBucket: uint16(hand), NodeID: node.ID}
			avg := t.store.averageStrategy(key, numActions)
			nodeValue := 0.0
			for a := 0; a < numActions; a++ {
				nodeValue += avg[a] * t.avgTraverse(node.Children[a], perspective, hand, oppReach, table)
			}
			return nodeValue
		}

		newReach := make([]float64, len(oppReach))
		nodeValue := 0.0
		for a := 0; a < numActions; a++ {
			for j := range oppReach {
				if oppReach[j] <= 0 {
					newReach[j] = 0
					continue
				}
				key := InfoSetKey{HandBucket: uint16(j), NodeID: node.ID}
				avg := t.store.averageStrategy(key, numActions)
				newReach[j] = oppReach[j] * avg[a]
			}
			nodeValue += t.avgTraverse(node.Children[a], perspective, hand, newReach, table)
		}
		return nodeValue

	default:
		return 0
	}
}
