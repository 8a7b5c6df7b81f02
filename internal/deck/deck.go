package deck

// Remaining returns every card not present in dead, in ascending index
// order. It is O(52) and allocates the result slice only.
func Remaining(dead []Card) []Card {
	var deadSet [NumCards]bool
	for _, d := range dead {
		deadSet[d] = true
	}
	out := make([]Card, 0, NumCards-len(dead))
	for i := 0; i < NumCards; i++ {
		if !deadSet[i] {
			out = append(out, Card(i))
		}
	}
	return out
}

// All returns the full 52-card deck in ascending index order.
func All() []Card {
	return Remaining(nil)
}
