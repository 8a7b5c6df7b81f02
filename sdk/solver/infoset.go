package solver

// InfoSetKey identifies one information set: the acting player's combo
// index at the root plus the action-node ID. The two players own disjoint
// node ID sets, so the player needs no slot in the key.
type InfoSetKey struct {
	HandBucket uint16
	NodeID     uint16
}

// InfoSetData accumulates one info set's CFR+ state. CumulativeRegret is
// floored at zero on every update — the defining CFR+ modification —
// and CumulativeStrategy collects reach-weighted strategy mass for the
// average-strategy readout.
type InfoSetData struct {
	CumulativeRegret   []float64
	CumulativeStrategy []float64
}

func newInfoSetData(numActions int) *InfoSetData {
	return &InfoSetData{
		CumulativeRegret:   make([]float64, numActions),
		CumulativeStrategy: make([]float64, numActions),
	}
}

// CurrentStrategy returns the regret-matching distribution: positive
// regrets normalised, or uniform when no action has positive regret.
func (d *InfoSetData) CurrentStrategy() []float64 {
	n := len(d.CumulativeRegret)
	strat := make([]float64, n)
	positiveSum := 0.0
	for _, r := range d.CumulativeRegret {
		if r > 0 {
			positiveSum += r
		}
	}
	if positiveSum <= 0 {
		uniform := 1.0 / float64(n)
		for i := range strat {
			strat[i] = uniform
		}
		return strat
	}
	for i, r := range d.CumulativeRegret {
		if r > 0 {
			strat[i] = r / positiveSum
		}
	}
	return strat
}

// AverageStrategy returns the normalised cumulative strategy — the actual
// equilibrium approximation — or uniform when nothing has accumulated.
func (d *InfoSetData) AverageStrategy() []float64 {
	n := len(d.CumulativeStrategy)
	avg := make([]float64, n)
	total := 0.0
	for _, s := range d.CumulativeStrategy {
		total += s
	}
	if total <= 0 {
		uniform := 1.0 / float64(n)
		for i := range avg {
			avg[i] = uniform
		}
		return avg
	}
	for i, s := range d.CumulativeStrategy {
		avg[i] = s / total
	}
	return avg
}

// Update folds one traversal's results into the info set. actionUtils[a] is
// the counterfactual value of action a, nodeUtil the value under the
// current strategy, and weight the opponent-reach weight applied to the
// strategy accumulator.
func (d *InfoSetData) Update(actionUtils []float64, nodeUtil, weight float64) {
	strat := d.CurrentStrategy()
	for a := range d.CumulativeRegret {
		r := d.CumulativeRegret[a] + actionUtils[a] - nodeUtil
		if r < 0 {
			r = 0
		}
		d.CumulativeRegret[a] = r
		d.CumulativeStrategy[a] += weight * strat[a]
	}
}

// infoSetStore holds all info sets for one solve. Entries are created
// lazily on first touch and owned exclusively by the trainer.
type infoSetStore struct {
	entries map[InfoSetKey]*InfoSetData
}

func newInfoSetStore() *infoSetStore {
	return &infoSetStore{entries: make(map[InfoSetKey]*InfoSetData)}
}

func (s *infoSetStore) getOrCreate(key InfoSetKey, numActions int) *InfoSetData {
	if d, ok := s.entries[key]; ok {
		return d
	}
	d := newInfoSetData(numActions)
	s.entries[key] = d
	return d
}

// currentStrategy reads the regret-matching strategy without creating an
// entry; untouched info sets play uniform.
func (s *infoSetStore) currentStrategy(key InfoSetKey, numActions int) []float64 {
	if d, ok := s.entries[key]; ok {
		return d.CurrentStrategy()
	}
	return uniform(numActions)
}

// averageStrategy reads the average strategy without creating an entry.
func (s *infoSetStore) averageStrategy(key InfoSetKey, numActions int) []float64 {
	if d, ok := s.entries[key]; ok {
		return d.AverageStrategy()
	}
	return uniform(numActions)
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	v := 1.0 / float64(n)
	for i := range out {
		out[i] = v
	}
	return out
}
