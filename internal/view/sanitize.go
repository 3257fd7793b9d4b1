package view

import (
	"reflect"

	"github.com/pcstyleorg/sen/internal/engine"
)

// Sanitize projects the authoritative state into viewerID's view.
//
// Redaction rules:
//   - another player's slots are always face down and unknown, except during
//     the round_end / game_over reveal window;
//   - the viewer's own slot values are known only while the slot is face up,
//     when a peek_1 reveal is addressed to the viewer, or during the reveal
//     window; peek knowledge does not persist in the view across turns;
//   - the held card, its source, and the take_2 cards exist only in the
//     acting player's view; everyone else sees HasDrawn / TempCount;
//   - both piles are size-only; only the discard top's face is public;
//   - an unknown viewerID yields a spectator view with everything redacted.
//
// prev is the view last handed to the same viewer. When nothing relevant to
// the viewer changed, Sanitize returns prev itself, so callers can skip
// re-broadcasting by pointer comparison.
func Sanitize(s *engine.GameState, prev *State, viewerID string) *State {
	v := build(s, viewerID)
	if prev != nil && reflect.DeepEqual(v, prev) {
		return prev
	}
	return v
}

func build(s *engine.GameState, viewerID string) *State {
	v := &State{
		ViewerID:      viewerID,
		Mode:          s.Mode,
		RoomID:        s.RoomID,
		HostID:        s.HostID,
		Phase:         s.Phase,
		ActionMessage: s.ActionMessage,
		TurnCount:     s.TurnCount,
		Round:         s.Round,
		DrawPileSize:  len(s.DrawPile),
		DiscardSize:   len(s.DiscardPile),
		LastCallerID:  s.LastCallerID,
		RoundWinner:   s.RoundWinner,
		GameWinner:    s.GameWinner,
		LastAction:    s.LastAction,
		Chat:          s.Chat,
	}

	if cur := s.CurrentPlayer(); cur != nil && s.Phase != engine.PhaseLobby {
		v.CurrentPlayerID = cur.ID
	}
	if top, ok := s.DiscardTop(); ok {
		c := knownCard(top)
		v.DiscardTop = &c
	}
	if s.Peeking != nil {
		pk := *s.Peeking
		v.Peeking = &pk
	}
	if s.LastRoundScores != nil {
		m := make(map[string]int, len(s.LastRoundScores))
		for k, val := range s.LastRoundScores {
			m[k] = val
		}
		v.LastRoundScores = m
	}

	reveal := s.Phase == engine.PhaseRoundEnd || s.Phase == engine.PhaseGameOver

	v.Players = make([]Player, len(s.Players))
	for i := range s.Players {
		p := &s.Players[i]
		self := p.ID == viewerID
		vp := Player{
			ID:     p.ID,
			Name:   p.Name,
			Score:  p.Score,
			IsTurn: i == s.Current && s.Phase != engine.PhaseLobby,
			Slots:  make([]Slot, len(p.Hand)),
		}
		for j, slot := range p.Hand {
			vp.Slots[j] = sanitizeSlot(s, slot, i, j, self, reveal, viewerID)
		}
		v.Players[i] = vp
	}

	// The held card and temp cards belong to the acting player's view only.
	if s.Turn != nil {
		v.HasDrawn = true
		v.TempCount = len(s.Turn.Temp)
		if cur := s.CurrentPlayer(); cur != nil && cur.ID == viewerID {
			c := knownCard(s.Turn.Drawn)
			v.Drawn = &c
			v.DrawSource = s.Turn.Source
			if len(s.Turn.Temp) > 0 {
				v.Temp = make([]Card, len(s.Turn.Temp))
				for i, tc := range s.Turn.Temp {
					v.Temp[i] = knownCard(tc)
				}
			}
		}
		// The first swap selection is public: everyone watched it happen.
		if s.Turn.SwapFirst != nil {
			ref := *s.Turn.SwapFirst
			v.SwapFirst = &ref
		}
	}

	if r := s.LastReveal; r != nil && r.ToPlayerID == viewerID {
		card := s.Players[r.PlayerIndex].Hand[r.CardIndex].Card
		v.Revealed = &RevealedSlot{
			PlayerID:  s.Players[r.PlayerIndex].ID,
			CardIndex: r.CardIndex,
			Card:      knownCard(card),
		}
	}

	return v
}

func sanitizeSlot(s *engine.GameState, slot engine.HandSlot, playerIdx, cardIdx int, self, reveal bool, viewerID string) Slot {
	revealedToViewer := s.LastReveal != nil &&
		s.LastReveal.ToPlayerID == viewerID &&
		s.LastReveal.PlayerIndex == playerIdx &&
		s.LastReveal.CardIndex == cardIdx

	out := Slot{Card: Card{ID: slot.Card.ID}}
	if self {
		out.Peeked = slot.Peeked
	}
	switch {
	case reveal:
		out.Card = knownCard(slot.Card)
		out.FaceUp = true
	case self:
		out.FaceUp = slot.FaceUp
		if slot.FaceUp || revealedToViewer {
			out.Card = knownCard(slot.Card)
		}
	case revealedToViewer:
		out.Card = knownCard(slot.Card)
	}
	return out
}

func knownCard(c engine.Card) Card {
	return Card{ID: c.ID, Known: true, Value: c.Value, Special: c.Special}
}
