// Package bot implements the heuristic policy that plays Sen seats. The
// policy reads only a sanitized view (the same information a human in that
// seat would have) plus its own per-bot memory, and emits actions the
// reducer is guaranteed to accept.
package bot

import (
	"math/rand/v2"

	"github.com/pcstyleorg/sen/internal/engine"
	"github.com/pcstyleorg/sen/internal/gate"
	"github.com/pcstyleorg/sen/internal/view"
)

// Decide produces the bot's next action for the current phase, or ok=false
// when the bot has nothing to do (not its move, reveal delay pending, or a
// terminal phase). An ok=true action always passes the reducer: every
// branch below re-checks legality through the gate predicates.
func Decide(v *view.State, botID string, p Profile, mem *Memory, rng *rand.Rand) (engine.Action, bool) {
	self, selfIdx := findSelf(v, botID)
	if self == nil {
		return engine.Action{}, false
	}
	isTurn := v.CurrentPlayerID == botID

	switch v.Phase {
	case engine.PhasePeeking:
		return decidePeek(v, botID, self, selfIdx)
	case engine.PhasePlaying:
		if !isTurn {
			return engine.Action{}, false
		}
		return decidePlaying(v, botID, self, p, mem, rng)
	case engine.PhaseHolding:
		if !isTurn {
			return engine.Action{}, false
		}
		return decideHolding(v, botID, self, p, mem, rng)
	case engine.PhaseTake2:
		if !isTurn {
			return engine.Action{}, false
		}
		return decideTake2(v, botID, self, p, mem)
	case engine.PhasePeek1:
		if !isTurn {
			return engine.Action{}, false
		}
		return decidePeek1(v, botID, self, selfIdx, mem)
	case engine.PhaseSwapSelect1, engine.PhaseSwapSelect2:
		if !isTurn {
			return engine.Action{}, false
		}
		return decideSwap2(v, botID, self, selfIdx, mem, rng)
	default:
		return engine.Action{}, false
	}
}

func findSelf(v *view.State, botID string) (*view.Player, int) {
	for i := range v.Players {
		if v.Players[i].ID == botID {
			return &v.Players[i], i
		}
	}
	return nil, -1
}

// decidePeek flips the bot's initial-peek quota, front slots first.
func decidePeek(v *view.State, botID string, self *view.Player, selfIdx int) (engine.Action, bool) {
	pk := v.Peeking
	if pk == nil || pk.PlayerIndex != selfIdx {
		return engine.Action{}, false
	}
	for i, slot := range self.Slots {
		if gate.CanPeekSlot(v.Phase, true, pk.PeekedCount, rulesPeekCount(v), slot.FaceUp, slot.Peeked) {
			return engine.Action{Type: engine.ActionPeekCard, PlayerID: botID, CardIndex: i}, true
		}
	}
	// Quota met; the flip-down is the session's timer, not our move.
	return engine.Action{}, false
}

// rulesPeekCount recovers the peek quota from the view. The rules struct is
// not part of the projection, so infer it from the peek state: the quota is
// fixed at two in the standard rules.
func rulesPeekCount(_ *view.State) int { return 2 }

func decidePlaying(v *view.State, botID string, self *view.Player, p Profile, mem *Memory, rng *rand.Rand) (engine.Action, bool) {
	// Call Pobudka once the remembered hand total looks strong enough, with
	// a confidence coin flip so the timing isn't predictable.
	if gate.CanCallPobudka(v.Phase, true) {
		est := mem.EstimateOwnTotal(len(self.Slots))
		if est <= p.PobudkaScoreThreshold && rng.Float64() < p.PobudkaChance {
			return engine.Action{Type: engine.ActionCallPobudka, PlayerID: botID}, true
		}
	}

	// A good discard top is worth taking, sometimes.
	if top := v.DiscardTop; top != nil && top.Known {
		if gate.CanDrawFromDiscard(v.Phase, true, v.DiscardSize > 0) &&
			top.Value <= p.TakeDiscardThreshold && rng.Float64() < p.TakeDiscardChance {
			return engine.Action{Type: engine.ActionDrawFromDiscard, PlayerID: botID}, true
		}
	}

	drawable := v.DrawPileSize > 0 || v.DiscardSize > 1
	if gate.CanDrawFromDeck(v.Phase, true, drawable) {
		return engine.Action{Type: engine.ActionDrawFromDeck, PlayerID: botID}, true
	}
	if gate.CanDrawFromDiscard(v.Phase, true, v.DiscardSize > 0) {
		return engine.Action{Type: engine.ActionDrawFromDiscard, PlayerID: botID}, true
	}
	// Nothing left to draw anywhere: end the round.
	return engine.Action{Type: engine.ActionCallPobudka, PlayerID: botID}, true
}

func decideHolding(v *view.State, botID string, self *view.Player, p Profile, mem *Memory, rng *rand.Rand) (engine.Action, bool) {
	drawn := v.Drawn
	if drawn == nil {
		return engine.Action{}, false
	}

	take2Offerable := v.DrawPileSize > 0 || v.DiscardSize > 1
	if gate.CanUseSpecial(v.Phase, true, v.DrawSource, drawn.Special, take2Offerable) &&
		rng.Float64() < p.SpecialUseChance {
		return engine.Action{Type: engine.ActionUseSpecial, PlayerID: botID}, true
	}
	if !gate.CanResolveDrawn(v.Phase, true) {
		return engine.Action{}, false
	}

	if idx, keep := placementFor(drawn.Value, len(self.Slots), p, mem); keep {
		mem.RememberOwn(idx, drawn.Value)
		return engine.Action{Type: engine.ActionSwapDrawn, PlayerID: botID, CardIndex: idx}, true
	}
	return engine.Action{Type: engine.ActionDiscardDrawn, PlayerID: botID}, true
}

// placementFor picks the slot a card of the given value should go to, or
// keep=false when discarding is better: replace a known-worse card first,
// otherwise gamble a low card into an unknown slot.
func placementFor(value, handSize int, p Profile, mem *Memory) (idx int, keep bool) {
	if wIdx, wVal, ok := mem.WorstKnownOwn(); ok && value < wVal {
		return wIdx, true
	}
	if u := mem.FirstUnknownOwn(handSize); u != -1 && value <= p.KeepDrawnThreshold {
		return u, true
	}
	return 0, false
}

func decideTake2(v *view.State, botID string, self *view.Player, p Profile, mem *Memory) (engine.Action, bool) {
	if !gate.CanChooseTemp(v.Phase, true) || len(v.Temp) == 0 {
		return engine.Action{}, false
	}
	best := v.Temp[0]
	for _, c := range v.Temp[1:] {
		if c.Value < best.Value {
			best = c
		}
	}
	a := engine.Action{Type: engine.ActionTake2Choose, PlayerID: botID, CardID: best.ID, CardIndex: -1}
	if idx, keep := placementFor(best.Value, len(self.Slots), p, mem); keep {
		a.CardIndex = idx
		mem.RememberOwn(idx, best.Value)
	}
	return a, true
}

// decidePeek1 spends the peek on the bot's own blind spots first, then on
// an opponent's unknown slot.
func decidePeek1(v *view.State, botID string, self *view.Player, selfIdx int, mem *Memory) (engine.Action, bool) {
	if !gate.CanTargetSlot(v.Phase, true) {
		return engine.Action{}, false
	}
	if u := mem.FirstUnknownOwn(len(self.Slots)); u != -1 {
		return engine.Action{Type: engine.ActionPeek1Select, PlayerID: botID, TargetPlayerID: botID, CardIndex: u}, true
	}
	for i := range v.Players {
		if i == selfIdx {
			continue
		}
		opp := &v.Players[i]
		for j := range opp.Slots {
			if _, known := mem.OppValue(opp.ID, j); !known {
				return engine.Action{Type: engine.ActionPeek1Select, PlayerID: botID, TargetPlayerID: opp.ID, CardIndex: j}, true
			}
		}
	}
	// Everything is known; re-peek our first slot to satisfy the phase.
	return engine.Action{Type: engine.ActionPeek1Select, PlayerID: botID, TargetPlayerID: botID, CardIndex: 0}, true
}

// decideSwap2 plays the classic trade: give away the bot's worst known card,
// take an opponent card, a remembered low one if available, otherwise a
// blind grab.
func decideSwap2(v *view.State, botID string, self *view.Player, selfIdx int, mem *Memory, rng *rand.Rand) (engine.Action, bool) {
	if !gate.CanTargetSlot(v.Phase, true) {
		return engine.Action{}, false
	}

	if v.Phase == engine.PhaseSwapSelect1 {
		give := 0
		if wIdx, _, ok := mem.WorstKnownOwn(); ok {
			give = wIdx
		} else {
			give = rng.IntN(len(self.Slots))
		}
		return engine.Action{Type: engine.ActionSwap2Select, PlayerID: botID, TargetPlayerID: botID, CardIndex: give}, true
	}

	// Second selection: pick the most attractive opponent slot.
	bestID, bestIdx, bestVal := "", -1, 0
	var blankID string
	blankIdx := -1
	for i := range v.Players {
		if i == selfIdx {
			continue
		}
		opp := &v.Players[i]
		for j := range opp.Slots {
			if val, known := mem.OppValue(opp.ID, j); known {
				if bestIdx == -1 || val < bestVal {
					bestID, bestIdx, bestVal = opp.ID, j, val
				}
			} else if blankIdx == -1 {
				blankID, blankIdx = opp.ID, j
			}
		}
	}
	switch {
	case bestIdx != -1 && bestVal <= unknownSlotEstimate:
		return engine.Action{Type: engine.ActionSwap2Select, PlayerID: botID, TargetPlayerID: bestID, CardIndex: bestIdx}, true
	case blankIdx != -1:
		return engine.Action{Type: engine.ActionSwap2Select, PlayerID: botID, TargetPlayerID: blankID, CardIndex: blankIdx}, true
	case bestIdx != -1:
		return engine.Action{Type: engine.ActionSwap2Select, PlayerID: botID, TargetPlayerID: bestID, CardIndex: bestIdx}, true
	default:
		// No opponents at all; swap within our own hand.
		return engine.Action{Type: engine.ActionSwap2Select, PlayerID: botID, TargetPlayerID: botID, CardIndex: 0}, true
	}
}
