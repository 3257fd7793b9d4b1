package engine

import "fmt"

// Apply validates one action against s and returns the resulting state.
// Accepted actions return a fresh state; illegal actions return the
// identical pointer, so callers detect rejection by pointer equality.
// Apply never throws, never does I/O, and never partially mutates: each
// handler validates completely before cloning.
func Apply(s *GameState, a Action) *GameState {
	if s == nil {
		return s
	}
	switch a.Type {
	case ActionStartGame:
		return applyStartGame(s, a)
	case ActionPeekCard:
		return applyPeekCard(s, a)
	case ActionFinishPeek:
		return applyFinishPeek(s, a)
	case ActionDrawFromDeck:
		return applyDrawFromDeck(s, a)
	case ActionDrawFromDiscard:
		return applyDrawFromDiscard(s, a)
	case ActionSwapDrawn:
		return applySwapDrawn(s, a)
	case ActionDiscardDrawn:
		return applyDiscardDrawn(s, a)
	case ActionUseSpecial:
		return applyUseSpecial(s, a)
	case ActionCallPobudka:
		return applyCallPobudka(s, a)
	case ActionTake2Choose:
		return applyTake2Choose(s, a)
	case ActionPeek1Select:
		return applyPeek1Select(s, a)
	case ActionSwap2Select:
		return applySwap2Select(s, a)
	case ActionNextRound:
		return applyNextRound(s, a)
	case ActionPostChat:
		return applyPostChat(s, a)
	default:
		return s
	}
}

// isActor reports whether the action comes from the player whose turn it is.
func (s *GameState) isActor(playerID string) bool {
	cur := s.CurrentPlayer()
	return cur != nil && cur.ID == playerID
}

func applyStartGame(s *GameState, a Action) *GameState {
	if s.Phase != PhaseLobby || a.PlayerID != s.HostID || len(s.Players) < 2 {
		return s
	}
	n := s.clone()
	n.startRound()
	n.LastAction = &MoveSummary{Type: ActionStartGame, PlayerID: a.PlayerID}
	return n
}

func applyPeekCard(s *GameState, a Action) *GameState {
	if s.Phase != PhasePeeking || s.Peeking == nil {
		return s
	}
	pi := s.Peeking.PlayerIndex
	if pi < 0 || pi >= len(s.Players) || s.Players[pi].ID != a.PlayerID {
		return s
	}
	if s.Peeking.PeekedCount >= s.Rules.PeekCount {
		return s
	}
	if a.CardIndex < 0 || a.CardIndex >= len(s.Players[pi].Hand) {
		return s
	}
	slot := s.Players[pi].Hand[a.CardIndex]
	if slot.Peeked || slot.FaceUp {
		return s
	}
	n := s.clone()
	n.Players[pi].Hand[a.CardIndex].FaceUp = true
	n.Players[pi].Hand[a.CardIndex].Peeked = true
	n.Peeking.PeekedCount++
	n.ActionMessage = fmt.Sprintf("%s peeks at a card", n.Players[pi].Name)
	n.LastAction = &MoveSummary{
		Type:     ActionPeekCard,
		PlayerID: a.PlayerID,
		Target1:  &SlotRef{PlayerIndex: pi, CardIndex: a.CardIndex},
	}
	return n
}

// applyFinishPeek flips the current peeker's revealed cards back down and
// advances the rotation. The session layer injects this after the
// client-visible reveal delay.
func applyFinishPeek(s *GameState, a Action) *GameState {
	if s.Phase != PhasePeeking || s.Peeking == nil {
		return s
	}
	pi := s.Peeking.PlayerIndex
	if pi < 0 || pi >= len(s.Players) || s.Players[pi].ID != a.PlayerID {
		return s
	}
	if s.Peeking.PeekedCount < s.Rules.PeekCount {
		return s
	}
	n := s.clone()
	for i := range n.Players[pi].Hand {
		n.Players[pi].Hand[i].FaceUp = false
	}
	n.LastAction = &MoveSummary{Type: ActionFinishPeek, PlayerID: a.PlayerID}
	if pi+1 < len(n.Players) {
		n.Peeking = &PeekingState{PlayerIndex: pi + 1}
		n.ActionMessage = fmt.Sprintf("%s is peeking", n.Players[pi+1].Name)
	} else {
		n.Peeking = nil
		n.Phase = PhasePlaying
		n.ActionMessage = fmt.Sprintf("%s's turn", n.Players[n.Current].Name)
	}
	return n
}

func applyDrawFromDeck(s *GameState, a Action) *GameState {
	if s.Phase != PhasePlaying || !s.isActor(a.PlayerID) {
		return s
	}
	// A draw is possible if the pile has a card or a reshuffle can produce one.
	if len(s.DrawPile) == 0 && len(s.DiscardPile) <= 1 {
		return s
	}
	n := s.clone()
	if len(n.DrawPile) == 0 {
		n.reshuffleDiscardIntoDraw()
	}
	top := n.DrawPile[len(n.DrawPile)-1]
	n.DrawPile = n.DrawPile[:len(n.DrawPile)-1]
	n.Turn = &TurnState{Drawn: top, Source: DrawDeck}
	n.Phase = PhaseHolding
	n.ActionMessage = fmt.Sprintf("%s draws from the deck", n.Players[n.Current].Name)
	n.LastAction = &MoveSummary{Type: ActionDrawFromDeck, PlayerID: a.PlayerID}
	return n
}

func applyDrawFromDiscard(s *GameState, a Action) *GameState {
	if s.Phase != PhasePlaying || !s.isActor(a.PlayerID) || len(s.DiscardPile) == 0 {
		return s
	}
	n := s.clone()
	top := n.DiscardPile[len(n.DiscardPile)-1]
	n.DiscardPile = n.DiscardPile[:len(n.DiscardPile)-1]
	// Source records the origin: a discard-sourced card is inert for the turn.
	n.Turn = &TurnState{Drawn: top, Source: DrawDiscard}
	n.Phase = PhaseHolding
	n.ActionMessage = fmt.Sprintf("%s takes the discard", n.Players[n.Current].Name)
	n.LastAction = &MoveSummary{Type: ActionDrawFromDiscard, PlayerID: a.PlayerID}
	return n
}

func applySwapDrawn(s *GameState, a Action) *GameState {
	if s.Phase != PhaseHolding || !s.isActor(a.PlayerID) || s.Turn == nil {
		return s
	}
	hand := s.Players[s.Current].Hand
	if a.CardIndex < 0 || a.CardIndex >= len(hand) {
		return s
	}
	n := s.clone()
	old := n.Players[n.Current].Hand[a.CardIndex].Card
	// The player saw the card they placed, so the slot is peeked for them.
	n.Players[n.Current].Hand[a.CardIndex] = HandSlot{Card: n.Turn.Drawn, Peeked: true}
	n.DiscardPile = append(n.DiscardPile, old)
	n.ActionMessage = fmt.Sprintf("%s swaps the drawn card into their hand", n.Players[n.Current].Name)
	n.LastAction = &MoveSummary{
		Type:     ActionSwapDrawn,
		PlayerID: a.PlayerID,
		Target1:  &SlotRef{PlayerIndex: n.Current, CardIndex: a.CardIndex},
	}
	n.finishTurn()
	return n
}

func applyDiscardDrawn(s *GameState, a Action) *GameState {
	if s.Phase != PhaseHolding || !s.isActor(a.PlayerID) || s.Turn == nil {
		return s
	}
	n := s.clone()
	n.DiscardPile = append(n.DiscardPile, n.Turn.Drawn)
	n.ActionMessage = fmt.Sprintf("%s discards the drawn card", n.Players[n.Current].Name)
	n.LastAction = &MoveSummary{Type: ActionDiscardDrawn, PlayerID: a.PlayerID}
	n.finishTurn()
	return n
}

func applyUseSpecial(s *GameState, a Action) *GameState {
	if s.Phase != PhaseHolding || !s.isActor(a.PlayerID) || s.Turn == nil {
		return s
	}
	if s.Turn.Source != DrawDeck || !s.Turn.Drawn.IsSpecial() {
		return s
	}
	if s.Turn.Drawn.Special == SpecialTake2 {
		// Needs at least one card to offer; the pile plus everything
		// reshufflable under the discard top must not be empty.
		if len(s.DrawPile) == 0 && len(s.DiscardPile) <= 1 {
			return s
		}
	}
	n := s.clone()
	name := n.Players[n.Current].Name
	switch n.Turn.Drawn.Special {
	case SpecialTake2:
		take := 2
		if len(n.DrawPile) < take {
			n.reshuffleDiscardIntoDraw()
		}
		if len(n.DrawPile) < take {
			take = len(n.DrawPile)
		}
		n.Turn.Temp = append([]Card(nil), n.DrawPile[len(n.DrawPile)-take:]...)
		n.DrawPile = n.DrawPile[:len(n.DrawPile)-take]
		n.Phase = PhaseTake2
		n.ActionMessage = fmt.Sprintf("%s draws two cards to choose from", name)
	case SpecialPeek1:
		n.Phase = PhasePeek1
		n.ActionMessage = fmt.Sprintf("%s is choosing a card to peek", name)
	case SpecialSwap2:
		n.Phase = PhaseSwapSelect1
		n.ActionMessage = fmt.Sprintf("%s is choosing two cards to swap", name)
	}
	n.LastAction = &MoveSummary{Type: ActionUseSpecial, PlayerID: a.PlayerID}
	return n
}

func applyCallPobudka(s *GameState, a Action) *GameState {
	// Only at the start of the caller's own turn: the playing phase means
	// no card has been drawn yet.
	if s.Phase != PhasePlaying || !s.isActor(a.PlayerID) {
		return s
	}
	n := s.clone()
	n.endRound(a.PlayerID)
	n.LastAction = &MoveSummary{Type: ActionCallPobudka, PlayerID: a.PlayerID}
	return n
}

func applyTake2Choose(s *GameState, a Action) *GameState {
	if s.Phase != PhaseTake2 || !s.isActor(a.PlayerID) || s.Turn == nil {
		return s
	}
	chosen := -1
	for i, c := range s.Turn.Temp {
		if c.ID == a.CardID {
			chosen = i
		}
	}
	if chosen == -1 {
		return s
	}
	hand := s.Players[s.Current].Hand
	if a.CardIndex != -1 && (a.CardIndex < 0 || a.CardIndex >= len(hand)) {
		return s
	}
	n := s.clone()
	name := n.Players[n.Current].Name
	// The triggering special goes to the discard first, then the rejected
	// temp card(s), so the publicly interesting card ends up on top.
	n.DiscardPile = append(n.DiscardPile, n.Turn.Drawn)
	for i, c := range n.Turn.Temp {
		if i != chosen {
			n.DiscardPile = append(n.DiscardPile, c)
		}
	}
	pick := n.Turn.Temp[chosen]
	summary := &MoveSummary{Type: ActionTake2Choose, PlayerID: a.PlayerID}
	if a.CardIndex >= 0 {
		displaced := n.Players[n.Current].Hand[a.CardIndex].Card
		n.Players[n.Current].Hand[a.CardIndex] = HandSlot{Card: pick, Peeked: true}
		n.DiscardPile = append(n.DiscardPile, displaced)
		summary.Target1 = &SlotRef{PlayerIndex: n.Current, CardIndex: a.CardIndex}
		n.ActionMessage = fmt.Sprintf("%s keeps one of the two cards", name)
	} else {
		n.DiscardPile = append(n.DiscardPile, pick)
		n.ActionMessage = fmt.Sprintf("%s discards both drawn cards", name)
	}
	n.Turn.Temp = nil
	n.LastAction = summary
	n.finishTurn()
	return n
}

func applyPeek1Select(s *GameState, a Action) *GameState {
	if s.Phase != PhasePeek1 || !s.isActor(a.PlayerID) || s.Turn == nil {
		return s
	}
	ti := s.PlayerIndex(a.TargetPlayerID)
	if ti == -1 || a.CardIndex < 0 || a.CardIndex >= len(s.Players[ti].Hand) {
		return s
	}
	n := s.clone()
	n.DiscardPile = append(n.DiscardPile, n.Turn.Drawn)
	n.Players[ti].Hand[a.CardIndex].Peeked = true
	// The peeked value reaches the actor through the sanitizer, once.
	n.LastReveal = &Reveal{ToPlayerID: a.PlayerID, PlayerIndex: ti, CardIndex: a.CardIndex}
	n.ActionMessage = fmt.Sprintf("%s peeks at %s's card", n.Players[n.Current].Name, n.Players[ti].Name)
	n.LastAction = &MoveSummary{
		Type:     ActionPeek1Select,
		PlayerID: a.PlayerID,
		Target1:  &SlotRef{PlayerIndex: ti, CardIndex: a.CardIndex},
	}
	n.finishTurn()
	return n
}

func applySwap2Select(s *GameState, a Action) *GameState {
	if !s.isActor(a.PlayerID) || s.Turn == nil {
		return s
	}
	ti := s.PlayerIndex(a.TargetPlayerID)
	if ti == -1 || a.CardIndex < 0 || a.CardIndex >= len(s.Players[ti].Hand) {
		return s
	}
	switch s.Phase {
	case PhaseSwapSelect1:
		n := s.clone()
		n.Turn.SwapFirst = &SlotRef{PlayerIndex: ti, CardIndex: a.CardIndex}
		n.Phase = PhaseSwapSelect2
		n.ActionMessage = fmt.Sprintf("%s selected the first card to swap", n.Players[n.Current].Name)
		n.LastAction = &MoveSummary{
			Type:     ActionSwap2Select,
			PlayerID: a.PlayerID,
			Target1:  n.Turn.SwapFirst,
		}
		return n
	case PhaseSwapSelect2:
		if s.Turn.SwapFirst == nil {
			return s
		}
		n := s.clone()
		first := *n.Turn.SwapFirst
		second := SlotRef{PlayerIndex: ti, CardIndex: a.CardIndex}
		a1 := &n.Players[first.PlayerIndex].Hand[first.CardIndex]
		a2 := &n.Players[second.PlayerIndex].Hand[second.CardIndex]
		a1.Card, a2.Card = a2.Card, a1.Card
		// A blind swap invalidates whatever the owners knew about the slots.
		a1.Peeked = false
		a2.Peeked = false
		n.DiscardPile = append(n.DiscardPile, n.Turn.Drawn)
		n.Turn.SwapFirst = nil
		n.ActionMessage = fmt.Sprintf("%s swapped two cards", n.Players[n.Current].Name)
		n.LastAction = &MoveSummary{
			Type:     ActionSwap2Select,
			PlayerID: a.PlayerID,
			Target1:  &first,
			Target2:  &second,
		}
		n.finishTurn()
		return n
	default:
		return s
	}
}

func applyNextRound(s *GameState, a Action) *GameState {
	if s.Phase != PhaseRoundEnd || a.PlayerID != s.HostID {
		return s
	}
	n := s.clone()
	n.LastAction = &MoveSummary{Type: ActionNextRound, PlayerID: a.PlayerID}
	if n.targetScoreReached() {
		n.Phase = PhaseGameOver
		n.GameWinner = n.lowestTotalName()
		n.ActionMessage = fmt.Sprintf("%s wins the game", n.GameWinner)
		return n
	}
	n.startRound()
	return n
}

func applyPostChat(s *GameState, a Action) *GameState {
	if s.Phase == PhaseGameOver {
		return s
	}
	if a.Text == "" || len(a.Text) > 500 {
		return s
	}
	pi := s.PlayerIndex(a.PlayerID)
	if pi == -1 {
		return s
	}
	n := s.clone()
	n.Chat = append(n.Chat, ChatMessage{
		Seq:        len(n.Chat) + 1,
		SenderID:   a.PlayerID,
		SenderName: n.Players[pi].Name,
		Text:       a.Text,
	})
	n.LastAction = &MoveSummary{Type: ActionPostChat, PlayerID: a.PlayerID}
	return n
}
