package bot

import (
	"github.com/pcstyleorg/sen/internal/engine"
	"github.com/pcstyleorg/sen/internal/view"
)

// unknownSlotEstimate is the expected value of an unseen card, rounded from
// the deck mean (279 points over 54 cards).
const unknownSlotEstimate = 5

// Memory is one bot's private record of slot values it has legitimately
// observed. The sanitized view deliberately forgets peek results after one
// action, so the bot keeps its own notebook, written when it peeks or
// places a card and invalidated when observed moves touch remembered slots.
//
// Memory is owned by the session (a map keyed by bot id), never
// module-level, and is reset whenever a new round starts.
type Memory struct {
	Own map[int]int            // own slot index -> value
	Opp map[string]map[int]int // opponent id -> slot index -> value

	round int // last round observed, for reset detection
}

// NewMemory returns an empty memory.
func NewMemory() *Memory {
	return &Memory{Own: make(map[int]int), Opp: make(map[string]map[int]int)}
}

// Reset clears everything for a new round.
func (m *Memory) Reset() {
	m.Own = make(map[int]int)
	m.Opp = make(map[string]map[int]int)
}

// RememberOwn records the value sitting in one of the bot's own slots.
func (m *Memory) RememberOwn(idx, value int) { m.Own[idx] = value }

// ForgetOwn drops knowledge of one of the bot's own slots.
func (m *Memory) ForgetOwn(idx int) { delete(m.Own, idx) }

// RememberOpp records an observed value in an opponent's slot.
func (m *Memory) RememberOpp(playerID string, idx, value int) {
	if m.Opp[playerID] == nil {
		m.Opp[playerID] = make(map[int]int)
	}
	m.Opp[playerID][idx] = value
}

// ForgetOpp drops knowledge of an opponent's slot.
func (m *Memory) ForgetOpp(playerID string, idx int) {
	delete(m.Opp[playerID], idx)
}

// OppValue returns a remembered opponent slot value.
func (m *Memory) OppValue(playerID string, idx int) (int, bool) {
	v, ok := m.Opp[playerID][idx]
	return v, ok
}

// EstimateOwnTotal estimates the bot's hand total from memory alone,
// pricing unknown slots at the deck mean. This estimate, never the
// authoritative state, is what gates the Pobudka decision.
func (m *Memory) EstimateOwnTotal(handSize int) int {
	total := 0
	for i := 0; i < handSize; i++ {
		if v, ok := m.Own[i]; ok {
			total += v
		} else {
			total += unknownSlotEstimate
		}
	}
	return total
}

// WorstKnownOwn returns the index and value of the highest-valued slot the
// bot knows about, or ok=false when nothing is known.
func (m *Memory) WorstKnownOwn() (idx, value int, ok bool) {
	idx = -1
	for i, v := range m.Own {
		if idx == -1 || v > value || (v == value && i < idx) {
			idx, value = i, v
		}
	}
	return idx, value, idx != -1
}

// FirstUnknownOwn returns the lowest own slot index with no remembered
// value, or -1 when every slot is known.
func (m *Memory) FirstUnknownOwn(handSize int) int {
	for i := 0; i < handSize; i++ {
		if _, ok := m.Own[i]; !ok {
			return i
		}
	}
	return -1
}

// Observe folds one sanitized view into memory: a fresh round resets the
// notebook, face-up own slots and addressed reveals are recorded, and
// publicly visible moves by other players invalidate stale entries.
func (m *Memory) Observe(v *view.State, botID string) {
	if v.Round != m.round {
		m.Reset()
		m.round = v.Round
	}

	var self *view.Player
	for i := range v.Players {
		if v.Players[i].ID == botID {
			self = &v.Players[i]
		}
	}
	if self == nil {
		return
	}

	// Own slots currently revealed to us (initial peek window).
	for i, slot := range self.Slots {
		if slot.FaceUp && slot.Card.Known {
			m.RememberOwn(i, slot.Card.Value)
		}
	}

	// One-shot peek_1 result addressed to us.
	if r := v.Revealed; r != nil && r.Card.Known {
		if r.PlayerID == botID {
			m.RememberOwn(r.CardIndex, r.Card.Value)
		} else {
			m.RememberOpp(r.PlayerID, r.CardIndex, r.Card.Value)
		}
	}

	m.applyLastAction(v, botID)
}

// applyLastAction invalidates or transfers entries for slots touched by the
// most recent public move.
func (m *Memory) applyLastAction(v *view.State, botID string) {
	la := v.LastAction
	if la == nil {
		return
	}
	switch la.Type {
	case engine.ActionSwapDrawn, engine.ActionTake2Choose:
		// Another player put an unknown-to-us card in their slot.
		if la.PlayerID != botID && la.Target1 != nil {
			m.forgetSlot(v, *la.Target1, botID)
		}
	case engine.ActionSwap2Select:
		// Completed swap: the two slots' contents traded places.
		if la.Target1 != nil && la.Target2 != nil {
			v1, ok1 := m.slotValue(v, *la.Target1, botID)
			v2, ok2 := m.slotValue(v, *la.Target2, botID)
			m.forgetSlot(v, *la.Target1, botID)
			m.forgetSlot(v, *la.Target2, botID)
			if ok2 {
				m.rememberSlot(v, *la.Target1, botID, v2)
			}
			if ok1 {
				m.rememberSlot(v, *la.Target2, botID, v1)
			}
		}
	}
}

func (m *Memory) slotOwner(v *view.State, ref engine.SlotRef) (string, bool) {
	if ref.PlayerIndex < 0 || ref.PlayerIndex >= len(v.Players) {
		return "", false
	}
	return v.Players[ref.PlayerIndex].ID, true
}

func (m *Memory) slotValue(v *view.State, ref engine.SlotRef, botID string) (int, bool) {
	owner, ok := m.slotOwner(v, ref)
	if !ok {
		return 0, false
	}
	if owner == botID {
		val, ok := m.Own[ref.CardIndex]
		return val, ok
	}
	return m.OppValue(owner, ref.CardIndex)
}

func (m *Memory) forgetSlot(v *view.State, ref engine.SlotRef, botID string) {
	owner, ok := m.slotOwner(v, ref)
	if !ok {
		return
	}
	if owner == botID {
		m.ForgetOwn(ref.CardIndex)
	} else {
		m.ForgetOpp(owner, ref.CardIndex)
	}
}

func (m *Memory) rememberSlot(v *view.State, ref engine.SlotRef, botID string, value int) {
	owner, ok := m.slotOwner(v, ref)
	if !ok {
		return
	}
	if owner == botID {
		m.RememberOwn(ref.CardIndex, value)
	} else {
		m.RememberOpp(owner, ref.CardIndex, value)
	}
}
