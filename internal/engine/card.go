package engine

// SpecialAction identifies the power a special card triggers when it is
// drawn from the deck. A special obtained from the discard pile is inert
// and plays purely as its printed value.
type SpecialAction uint8

const (
	SpecialNone SpecialAction = iota
	SpecialTake2
	SpecialPeek1
	SpecialSwap2
)

// String returns the wire identifier for the special action.
func (s SpecialAction) String() string {
	switch s {
	case SpecialTake2:
		return "take_2"
	case SpecialPeek1:
		return "peek_1"
	case SpecialSwap2:
		return "swap_2"
	default:
		return ""
	}
}

// Printed values of the special cards. They count as these values at scoring
// (unless Rules.SpecialsScoreFace is disabled) and when obtained from the
// discard pile.
const (
	Take2Value = 5
	Peek1Value = 6
	Swap2Value = 7
)

// Card is an immutable card value. ID is unique within a deck and identifies
// the physical card; two cards may share Value but never ID.
type Card struct {
	ID      int           `json:"id"`
	Value   int           `json:"value"`
	Special SpecialAction `json:"special,omitempty"`
}

// IsSpecial reports whether the card carries a special action.
func (c Card) IsSpecial() bool { return c.Special != SpecialNone }
