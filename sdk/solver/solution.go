package solver

// NodeStrategy holds one action node's extracted average strategy:
// frequencies[comboIdx][actionIdx] over the acting player's combo list.
type NodeStrategy struct {
	NodeID      uint16      `json:"node_id"`
	Player      string      `json:"player"`
	Actions     []string    `json:"actions"`
	Frequencies [][]float64 `json:"frequencies"`
}

// Solution is the full serialisation-friendly result of a solve.
type Solution struct {
	Board          string         `json:"board"`
	OOPRange       string         `json:"oop_range"`
	IPRange        string         `json:"ip_range"`
	StartingPot    float64        `json:"starting_pot"`
	EffectiveStack float64        `json:"effective_stack"`
	Iterations     int            `json:"iterations"`
	Exploitability float64        `json:"exploitability"`
	OOPCombos      []string       `json:"oop_combos"`
	IPCombos       []string       `json:"ip_combos"`
	Strategies     []NodeStrategy `json:"strategies"`
}

// extractStrategies walks the tree in pre-order and emits one NodeStrategy
// per action node, pulling the average strategy per combo from the store.
func (t *trainer) extractStrategies() []NodeStrategy {
	var out []NodeStrategy
	var walk func(n *Node)
	walk = func(n *Node) {
		switch n.Kind {
		case NodeAction:
			numActions := len(n.Actions)
			numCombos := t.numCombos(n.Player)

			labels := make([]string, numActions)
			for i, a := range n.Actions {
				labels[i] = a.Label()
			}

			freqs := make([][]float64, numCombos)
			for h := 0; h < numCombos; h++ {
				key := InfoSetKey{HandBucket: uint16(h), NodeID: n.ID}
				freqs[h] = t.store.averageStrategy(key, numActions)
			}

			out = append(out, NodeStrategy{
				NodeID:      n.ID,
				Player:      n.Player.String(),
				Actions:     labels,
				Frequencies: freqs,
			})
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
	return out
}

func (t *trainer) comboStrings(p Player) []string {
	combos := t.combos(p)
	out := make([]string, len(combos))
	for i, c := range combos {
		out[i] = c.String()
	}
	return out
}
