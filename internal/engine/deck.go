package engine

import "math/rand/v2"

// DeckSize is the number of cards in a Sen deck:
// 4 copies of each value 0-8, nine 9s, and 3 copies of each special.
const DeckSize = 54

// NewDeck builds the full Sen deck in creation order, assigning each card a
// unique id starting at 0. The result is unshuffled.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	id := 0
	for value := 0; value <= 8; value++ {
		for copies := 0; copies < 4; copies++ {
			deck = append(deck, Card{ID: id, Value: value})
			id++
		}
	}
	for copies := 0; copies < 9; copies++ {
		deck = append(deck, Card{ID: id, Value: 9})
		id++
	}
	specials := []struct {
		action SpecialAction
		value  int
	}{
		{SpecialTake2, Take2Value},
		{SpecialPeek1, Peek1Value},
		{SpecialSwap2, Swap2Value},
	}
	for _, sp := range specials {
		for copies := 0; copies < 3; copies++ {
			deck = append(deck, Card{ID: id, Value: sp.value, Special: sp.action})
			id++
		}
	}
	return deck
}

// Shuffle returns a uniformly shuffled copy of deck drawn from rng.
// The input slice is never mutated.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	fisherYates(out, func(n int) int { return rng.IntN(n) })
	return out
}

// fisherYates shuffles cards in place. intN must return a uniform value in
// [0, n) for n >= 1.
func fisherYates(cards []Card, intN func(n int) int) {
	for i := len(cards) - 1; i > 0; i-- {
		j := intN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
