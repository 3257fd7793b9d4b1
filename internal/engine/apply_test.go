package engine

import (
	"reflect"
	"testing"
)

func plain(id, value int) Card { return Card{ID: id, Value: value} }

func special(id int, sp SpecialAction) Card {
	switch sp {
	case SpecialTake2:
		return Card{ID: id, Value: Take2Value, Special: sp}
	case SpecialPeek1:
		return Card{ID: id, Value: Peek1Value, Special: sp}
	default:
		return Card{ID: id, Value: Swap2Value, Special: sp}
	}
}

func hand(cards ...Card) []HandSlot {
	out := make([]HandSlot, len(cards))
	for i, c := range cards {
		out[i] = HandSlot{Card: c}
	}
	return out
}

// lobbyGame returns a two-player lobby hosted by "a".
func lobbyGame() *GameState {
	s := NewGame(ModeHotseat, "room", "a", 12345, DefaultRules())
	s.AddPlayer("a", "Ala")
	s.AddPlayer("b", "Bartek")
	return s
}

// midRound returns a hand-built playing-phase state with fully known cards:
// player a holds 1,2,3,4 (sum 10), player b holds 5,6,7,8 (sum 26). It is
// a's turn. The remaining deck cards sit in the draw pile with one card on
// the discard.
func midRound() *GameState {
	s := NewGame(ModeHotseat, "room", "a", 12345, DefaultRules())
	s.Players = []Player{
		{ID: "a", Name: "Ala", Hand: hand(plain(0, 1), plain(1, 2), plain(2, 3), plain(3, 4))},
		{ID: "b", Name: "Bartek", Hand: hand(plain(4, 5), plain(5, 6), plain(6, 7), plain(7, 8))},
	}
	s.DrawPile = []Card{plain(8, 9), plain(9, 0), plain(10, 2)} // top = id 10
	s.DiscardPile = []Card{plain(11, 6)}
	s.Phase = PhasePlaying
	s.Round = 1
	s.Current = 0
	return s
}

// TestStartGameDeals verifies the host deal: four cards per hand, one
// discard seeded, peeking phase for the first seat, all 54 cards accounted
// for.
func TestStartGameDeals(t *testing.T) {
	s := lobbyGame()
	n := Apply(s, Action{Type: ActionStartGame, PlayerID: "a"})
	if n == s {
		t.Fatal("legal StartGame was rejected")
	}
	if n.Phase != PhasePeeking {
		t.Fatalf("phase = %s, want %s", n.Phase, PhasePeeking)
	}
	if n.Round != 1 {
		t.Fatalf("round = %d, want 1", n.Round)
	}
	for i := range n.Players {
		if len(n.Players[i].Hand) != 4 {
			t.Fatalf("player %d hand size = %d, want 4", i, len(n.Players[i].Hand))
		}
	}
	if len(n.DiscardPile) != 1 {
		t.Fatalf("discard size = %d, want 1", len(n.DiscardPile))
	}
	if got := n.CountCards(); got != DeckSize {
		t.Fatalf("CountCards() = %d, want %d", got, DeckSize)
	}
	if n.Peeking == nil || n.Peeking.PlayerIndex != 0 || n.Peeking.PeekedCount != 0 {
		t.Fatalf("peeking state = %+v, want first seat with zero peeks", n.Peeking)
	}
}

// TestStartGameRejections verifies that a bad host, a short lobby, and a
// started game are all rejected by identity.
func TestStartGameRejections(t *testing.T) {
	s := lobbyGame()
	if Apply(s, Action{Type: ActionStartGame, PlayerID: "b"}) != s {
		t.Error("non-host StartGame was accepted")
	}

	solo := NewGame(ModeHotseat, "room", "a", 1, DefaultRules())
	solo.AddPlayer("a", "Ala")
	if Apply(solo, Action{Type: ActionStartGame, PlayerID: "a"}) != solo {
		t.Error("single-player StartGame was accepted")
	}

	started := Apply(s, Action{Type: ActionStartGame, PlayerID: "a"})
	if Apply(started, Action{Type: ActionStartGame, PlayerID: "a"}) != started {
		t.Error("StartGame on a running game was accepted")
	}
}

// TestPeekRotation walks both players through their initial peeks and
// verifies the hand flips, the quota, and the rotation into the playing
// phase.
func TestPeekRotation(t *testing.T) {
	s := Apply(lobbyGame(), Action{Type: ActionStartGame, PlayerID: "a"})

	// Peeker is seat 0; seat 1 may not peek yet.
	if Apply(s, Action{Type: ActionPeekCard, PlayerID: "b", CardIndex: 0}) != s {
		t.Fatal("out-of-rotation peek was accepted")
	}

	s = Apply(s, Action{Type: ActionPeekCard, PlayerID: "a", CardIndex: 0})
	if !s.Players[0].Hand[0].FaceUp || !s.Players[0].Hand[0].Peeked {
		t.Fatal("peeked slot is not face up")
	}
	// Same slot twice is rejected.
	if Apply(s, Action{Type: ActionPeekCard, PlayerID: "a", CardIndex: 0}) != s {
		t.Fatal("double peek of one slot was accepted")
	}
	// Finishing before the quota is rejected.
	if Apply(s, Action{Type: ActionFinishPeek, PlayerID: "a"}) != s {
		t.Fatal("early FinishPeek was accepted")
	}

	s = Apply(s, Action{Type: ActionPeekCard, PlayerID: "a", CardIndex: 1})
	// Quota met: a third peek is rejected.
	if Apply(s, Action{Type: ActionPeekCard, PlayerID: "a", CardIndex: 2}) != s {
		t.Fatal("peek beyond quota was accepted")
	}

	s = Apply(s, Action{Type: ActionFinishPeek, PlayerID: "a"})
	for i, slot := range s.Players[0].Hand {
		if slot.FaceUp {
			t.Fatalf("slot %d still face up after FinishPeek", i)
		}
	}
	if s.Peeking == nil || s.Peeking.PlayerIndex != 1 {
		t.Fatalf("peeking did not advance to seat 1: %+v", s.Peeking)
	}

	s = Apply(s, Action{Type: ActionPeekCard, PlayerID: "b", CardIndex: 2})
	s = Apply(s, Action{Type: ActionPeekCard, PlayerID: "b", CardIndex: 3})
	s = Apply(s, Action{Type: ActionFinishPeek, PlayerID: "b"})
	if s.Phase != PhasePlaying {
		t.Fatalf("phase after last FinishPeek = %s, want %s", s.Phase, PhasePlaying)
	}
	if s.Peeking != nil {
		t.Fatal("peeking state not cleared")
	}
}

// TestDrawSwapDiscard verifies the basic turn: draw from the deck, swap into
// a slot, old card lands on the discard, turn passes.
func TestDrawSwapDiscard(t *testing.T) {
	s := midRound()
	n := Apply(s, Action{Type: ActionDrawFromDeck, PlayerID: "a"})
	if n == s {
		t.Fatal("legal draw was rejected")
	}
	if n.Phase != PhaseHolding || n.Turn == nil {
		t.Fatalf("phase = %s, turn = %+v after draw", n.Phase, n.Turn)
	}
	if n.Turn.Drawn.ID != 10 || n.Turn.Source != DrawDeck {
		t.Fatalf("drew %+v from %s, want card 10 from deck", n.Turn.Drawn, n.Turn.Source)
	}
	if got := n.CountCards(); got != s.CountCards() {
		t.Fatalf("card count changed on draw: %d -> %d", s.CountCards(), got)
	}

	n2 := Apply(n, Action{Type: ActionSwapDrawn, PlayerID: "a", CardIndex: 1})
	if n2 == n {
		t.Fatal("legal swap was rejected")
	}
	got := n2.Players[0].Hand[1]
	if got.Card.ID != 10 || !got.Peeked {
		t.Fatalf("slot after swap = %+v, want card 10 peeked", got)
	}
	if top, _ := n2.DiscardTop(); top.ID != 1 {
		t.Fatalf("discard top = %d, want the displaced card 1", top.ID)
	}
	if n2.Current != 1 || n2.Phase != PhasePlaying || n2.Turn != nil {
		t.Fatalf("turn did not pass cleanly: current=%d phase=%s", n2.Current, n2.Phase)
	}
}

// TestDiscardDrawn verifies discarding the held card ends the turn with the
// card on top of the discard.
func TestDiscardDrawn(t *testing.T) {
	s := Apply(midRound(), Action{Type: ActionDrawFromDeck, PlayerID: "a"})
	n := Apply(s, Action{Type: ActionDiscardDrawn, PlayerID: "a"})
	if n == s {
		t.Fatal("legal discard was rejected")
	}
	if top, _ := n.DiscardTop(); top.ID != 10 {
		t.Fatalf("discard top = %d, want the drawn card 10", top.ID)
	}
	if n.Current != 1 {
		t.Fatal("turn did not pass")
	}
}

// TestDiscardSourcedSpecialIsInert verifies a special taken from the discard
// pile cannot trigger its action.
func TestDiscardSourcedSpecialIsInert(t *testing.T) {
	s := midRound()
	s.DiscardPile = []Card{special(11, SpecialPeek1)}
	n := Apply(s, Action{Type: ActionDrawFromDiscard, PlayerID: "a"})
	if n == s {
		t.Fatal("legal discard take was rejected")
	}
	if n.Turn.Source != DrawDiscard {
		t.Fatalf("source = %s, want %s", n.Turn.Source, DrawDiscard)
	}
	if Apply(n, Action{Type: ActionUseSpecial, PlayerID: "a"}) != n {
		t.Fatal("discard-sourced special was allowed to trigger")
	}
	// Swapping it in as a plain card still works.
	if Apply(n, Action{Type: ActionSwapDrawn, PlayerID: "a", CardIndex: 0}) == n {
		t.Fatal("resolving the inert card was rejected")
	}
}

// TestDrawReshufflesExhaustedDeck verifies drawing from an empty deck
// recycles everything under the discard top.
func TestDrawReshufflesExhaustedDeck(t *testing.T) {
	s := midRound()
	s.DrawPile = nil
	s.DiscardPile = []Card{plain(8, 9), plain(9, 0), plain(10, 2), plain(11, 6)}
	n := Apply(s, Action{Type: ActionDrawFromDeck, PlayerID: "a"})
	if n == s {
		t.Fatal("draw with reshufflable discard was rejected")
	}
	if len(n.DiscardPile) != 1 || n.DiscardPile[0].ID != 11 {
		t.Fatalf("discard after reshuffle = %+v, want only old top 11", n.DiscardPile)
	}
	if len(n.DrawPile) != 2 {
		t.Fatalf("draw pile after reshuffle+draw = %d, want 2", len(n.DrawPile))
	}
	if got := n.CountCards(); got != s.CountCards() {
		t.Fatalf("card count changed: %d -> %d", s.CountCards(), got)
	}
}

// TestDrawFullyStarved verifies that with an empty deck and a lone discard
// card, drawing from the deck is impossible.
func TestDrawFullyStarved(t *testing.T) {
	s := midRound()
	s.DrawPile = nil
	s.DiscardPile = []Card{plain(11, 6)}
	if Apply(s, Action{Type: ActionDrawFromDeck, PlayerID: "a"}) != s {
		t.Fatal("draw from a starved deck was accepted")
	}
	// The single discard card can still be taken.
	if Apply(s, Action{Type: ActionDrawFromDiscard, PlayerID: "a"}) == s {
		t.Fatal("taking the last discard was rejected")
	}
}

// TestCallPobudkaOnlyAtTurnStart verifies the call is rejected once a card
// has been drawn and when it is not the caller's turn.
func TestCallPobudkaOnlyAtTurnStart(t *testing.T) {
	s := midRound()
	if Apply(s, Action{Type: ActionCallPobudka, PlayerID: "b"}) != s {
		t.Fatal("off-turn Pobudka was accepted")
	}
	held := Apply(s, Action{Type: ActionDrawFromDeck, PlayerID: "a"})
	if Apply(held, Action{Type: ActionCallPobudka, PlayerID: "a"}) != held {
		t.Fatal("Pobudka after drawing was accepted")
	}
}

// TestCallPobudkaScoring verifies the caller escapes the penalty with a
// strictly lowest hand and pays it on a tie.
func TestCallPobudkaScoring(t *testing.T) {
	// a: sum 10, b: sum 26. a calls and is strictly lowest.
	s := midRound()
	n := Apply(s, Action{Type: ActionCallPobudka, PlayerID: "a"})
	if n == s {
		t.Fatal("legal Pobudka was rejected")
	}
	if n.Phase != PhaseRoundEnd {
		t.Fatalf("phase = %s, want %s", n.Phase, PhaseRoundEnd)
	}
	if n.LastRoundScores["a"] != 10 || n.LastRoundScores["b"] != 26 {
		t.Fatalf("round scores = %v, want a:10 b:26", n.LastRoundScores)
	}
	if n.Players[0].Score != 10 || n.Players[1].Score != 26 {
		t.Fatalf("totals = %d/%d, want 10/26", n.Players[0].Score, n.Players[1].Score)
	}
	if n.RoundWinner != "Ala" {
		t.Fatalf("round winner = %q, want Ala", n.RoundWinner)
	}
	for i := range n.Players {
		for j, slot := range n.Players[i].Hand {
			if !slot.FaceUp {
				t.Fatalf("player %d slot %d not revealed at round end", i, j)
			}
		}
	}

	// Tied sums: the caller pays the penalty.
	tied := midRound()
	tied.Players[1].Hand = hand(plain(4, 1), plain(5, 2), plain(6, 3), plain(7, 4))
	n = Apply(tied, Action{Type: ActionCallPobudka, PlayerID: "a"})
	if n.LastRoundScores["a"] != 10+tied.Rules.PobudkaPenalty {
		t.Fatalf("tied caller score = %d, want %d", n.LastRoundScores["a"], 10+tied.Rules.PobudkaPenalty)
	}
	if n.LastRoundScores["b"] != 10 {
		t.Fatalf("non-caller score = %d, want 10", n.LastRoundScores["b"])
	}
}

// TestUseSpecialTake2 verifies the take_2 flow end to end: two cards
// offered, one kept into a slot, the rest discarded in order.
func TestUseSpecialTake2(t *testing.T) {
	s := midRound()
	s.Turn = &TurnState{Drawn: special(12, SpecialTake2), Source: DrawDeck}
	s.Phase = PhaseHolding

	n := Apply(s, Action{Type: ActionUseSpecial, PlayerID: "a"})
	if n == s {
		t.Fatal("legal take_2 was rejected")
	}
	if n.Phase != PhaseTake2 {
		t.Fatalf("phase = %s, want %s", n.Phase, PhaseTake2)
	}
	if len(n.Turn.Temp) != 2 {
		t.Fatalf("temp = %d cards, want 2", len(n.Turn.Temp))
	}
	// Top two of the draw pile, ids 10 and 9.
	if n.Turn.Temp[0].ID != 9 || n.Turn.Temp[1].ID != 10 {
		t.Fatalf("temp ids = %d,%d, want 9,10", n.Turn.Temp[0].ID, n.Turn.Temp[1].ID)
	}
	if got := n.CountCards(); got != s.CountCards() {
		t.Fatalf("card count changed: %d -> %d", s.CountCards(), got)
	}

	// A card id not on offer is rejected.
	if Apply(n, Action{Type: ActionTake2Choose, PlayerID: "a", CardID: 4, CardIndex: -1}) != n {
		t.Fatal("choosing a card not on offer was accepted")
	}

	keep := Apply(n, Action{Type: ActionTake2Choose, PlayerID: "a", CardID: 10, CardIndex: 0})
	if keep == n {
		t.Fatal("legal take_2 choice was rejected")
	}
	if got := keep.Players[0].Hand[0]; got.Card.ID != 10 || !got.Peeked {
		t.Fatalf("slot after choice = %+v, want card 10 peeked", got)
	}
	// Discard gained: special 12, rejected 9, displaced 0 (displaced on top).
	if top, _ := keep.DiscardTop(); top.ID != 0 {
		t.Fatalf("discard top = %d, want displaced card 0", top.ID)
	}
	if keep.Current != 1 || keep.Turn != nil {
		t.Fatal("turn did not pass after take_2 choice")
	}
	if got := keep.CountCards(); got != s.CountCards() {
		t.Fatalf("card count changed: %d -> %d", s.CountCards(), got)
	}
}

// TestTake2ChooseDiscard verifies declining both offered cards.
func TestTake2ChooseDiscard(t *testing.T) {
	s := midRound()
	s.Turn = &TurnState{Drawn: special(12, SpecialTake2), Source: DrawDeck}
	s.Phase = PhaseHolding
	n := Apply(s, Action{Type: ActionUseSpecial, PlayerID: "a"})

	done := Apply(n, Action{Type: ActionTake2Choose, PlayerID: "a", CardID: 10, CardIndex: -1})
	if done == n {
		t.Fatal("discarding both was rejected")
	}
	// Chosen card goes last, so it ends up on top.
	if top, _ := done.DiscardTop(); top.ID != 10 {
		t.Fatalf("discard top = %d, want chosen card 10", top.ID)
	}
	if len(done.Players[0].Hand) != 4 || done.Players[0].Hand[0].Card.ID != 0 {
		t.Fatal("hand changed despite declining both cards")
	}
	if got := done.CountCards(); got != s.CountCards() {
		t.Fatalf("card count changed: %d -> %d", s.CountCards(), got)
	}
}

// TestUseSpecialTake2Starved verifies take_2 is rejected when no cards can
// be offered.
func TestUseSpecialTake2Starved(t *testing.T) {
	s := midRound()
	s.DrawPile = nil
	s.DiscardPile = []Card{plain(11, 6)}
	s.Turn = &TurnState{Drawn: special(12, SpecialTake2), Source: DrawDeck}
	s.Phase = PhaseHolding
	if Apply(s, Action{Type: ActionUseSpecial, PlayerID: "a"}) != s {
		t.Fatal("starved take_2 was accepted")
	}
}

// TestUseSpecialPeek1 verifies the addressed one-shot reveal: the target
// slot is marked peeked, the reveal reaches only the actor, and the next
// accepted action clears it.
func TestUseSpecialPeek1(t *testing.T) {
	s := midRound()
	s.Turn = &TurnState{Drawn: special(12, SpecialPeek1), Source: DrawDeck}
	s.Phase = PhaseHolding

	n := Apply(s, Action{Type: ActionUseSpecial, PlayerID: "a"})
	if n.Phase != PhasePeek1 {
		t.Fatalf("phase = %s, want %s", n.Phase, PhasePeek1)
	}

	picked := Apply(n, Action{Type: ActionPeek1Select, PlayerID: "a", TargetPlayerID: "b", CardIndex: 2})
	if picked == n {
		t.Fatal("legal peek_1 target was rejected")
	}
	if !picked.Players[1].Hand[2].Peeked {
		t.Fatal("target slot not marked peeked")
	}
	r := picked.LastReveal
	if r == nil || r.ToPlayerID != "a" || r.PlayerIndex != 1 || r.CardIndex != 2 {
		t.Fatalf("reveal = %+v, want addressed to a for seat 1 slot 2", r)
	}
	if top, _ := picked.DiscardTop(); top.ID != 12 {
		t.Fatalf("discard top = %d, want the spent special 12", top.ID)
	}
	if picked.Current != 1 {
		t.Fatal("turn did not pass after peek_1")
	}

	// Any following action drops the reveal.
	after := Apply(picked, Action{Type: ActionDrawFromDeck, PlayerID: "b"})
	if after.LastReveal != nil {
		t.Fatal("reveal survived a subsequent action")
	}
}

// TestUseSpecialSwap2 verifies the two-step blind swap: selections are
// recorded, cards exchange places, and both slots lose their peeked status.
func TestUseSpecialSwap2(t *testing.T) {
	s := midRound()
	s.Players[0].Hand[3].Peeked = true
	s.Players[1].Hand[0].Peeked = true
	s.Turn = &TurnState{Drawn: special(12, SpecialSwap2), Source: DrawDeck}
	s.Phase = PhaseHolding

	n := Apply(s, Action{Type: ActionUseSpecial, PlayerID: "a"})
	if n.Phase != PhaseSwapSelect1 {
		t.Fatalf("phase = %s, want %s", n.Phase, PhaseSwapSelect1)
	}

	first := Apply(n, Action{Type: ActionSwap2Select, PlayerID: "a", TargetPlayerID: "a", CardIndex: 3})
	if first == n {
		t.Fatal("legal first selection was rejected")
	}
	if first.Phase != PhaseSwapSelect2 || first.Turn.SwapFirst == nil {
		t.Fatalf("first selection not recorded: phase=%s", first.Phase)
	}

	// A bad second selection leaves the recorded first selection untouched.
	if Apply(first, Action{Type: ActionSwap2Select, PlayerID: "a", TargetPlayerID: "b", CardIndex: 9}) != first {
		t.Fatal("out-of-range second selection was accepted")
	}

	done := Apply(first, Action{Type: ActionSwap2Select, PlayerID: "a", TargetPlayerID: "b", CardIndex: 0})
	if done == first {
		t.Fatal("legal second selection was rejected")
	}
	if done.Players[0].Hand[3].Card.ID != 4 || done.Players[1].Hand[0].Card.ID != 3 {
		t.Fatalf("cards did not exchange: a[3]=%d b[0]=%d",
			done.Players[0].Hand[3].Card.ID, done.Players[1].Hand[0].Card.ID)
	}
	if done.Players[0].Hand[3].Peeked || done.Players[1].Hand[0].Peeked {
		t.Fatal("swap did not invalidate peeked status")
	}
	if done.Current != 1 || done.Turn != nil {
		t.Fatal("turn did not pass after swap_2")
	}
	if got := done.CountCards(); got != s.CountCards() {
		t.Fatalf("card count changed: %d -> %d", s.CountCards(), got)
	}
}

// TestNextRound verifies the score screen advances into a fresh deal, and
// into game over once the target score is crossed.
func TestNextRound(t *testing.T) {
	s := Apply(midRound(), Action{Type: ActionCallPobudka, PlayerID: "a"})

	if Apply(s, Action{Type: ActionNextRound, PlayerID: "b"}) != s {
		t.Fatal("non-host NextRound was accepted")
	}

	n := Apply(s, Action{Type: ActionNextRound, PlayerID: "a"})
	if n == s {
		t.Fatal("legal NextRound was rejected")
	}
	if n.Phase != PhasePeeking || n.Round != 2 {
		t.Fatalf("phase=%s round=%d, want fresh peeking round 2", n.Phase, n.Round)
	}
	if got := n.CountCards(); got != DeckSize {
		t.Fatalf("CountCards() = %d after redeal, want %d", got, DeckSize)
	}
	// Second round opens with the second seat.
	if n.Current != 1 {
		t.Fatalf("opening player = %d, want 1", n.Current)
	}

	// Crossing the target ends the game with the lowest total winning.
	over := s.clone()
	over.Players[1].Score = over.Rules.TargetScore
	done := Apply(over, Action{Type: ActionNextRound, PlayerID: "a"})
	if done.Phase != PhaseGameOver {
		t.Fatalf("phase = %s, want %s", done.Phase, PhaseGameOver)
	}
	if done.GameWinner != "Ala" {
		t.Fatalf("winner = %q, want Ala", done.GameWinner)
	}
}

// TestPostChat verifies seat-gated chat with sequence numbers and the
// length cap.
func TestPostChat(t *testing.T) {
	s := midRound()
	n := Apply(s, Action{Type: ActionPostChat, PlayerID: "b", Text: "dobranoc"})
	if n == s {
		t.Fatal("legal chat was rejected")
	}
	if len(n.Chat) != 1 || n.Chat[0].Seq != 1 || n.Chat[0].SenderName != "Bartek" {
		t.Fatalf("chat = %+v", n.Chat)
	}

	if Apply(n, Action{Type: ActionPostChat, PlayerID: "ghost", Text: "hi"}) != n {
		t.Fatal("chat from an unseated id was accepted")
	}
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	if Apply(n, Action{Type: ActionPostChat, PlayerID: "a", Text: string(long)}) != n {
		t.Fatal("oversized chat was accepted")
	}

	over := n.clone()
	over.Phase = PhaseGameOver
	if Apply(over, Action{Type: ActionPostChat, PlayerID: "a", Text: "gg"}) != over {
		t.Fatal("chat after game over was accepted")
	}
}

// TestIllegalActionsReturnSameReference sweeps every action type against a
// state where none of them is legal for the given player.
func TestIllegalActionsReturnSameReference(t *testing.T) {
	s := midRound() // a's turn, playing phase
	illegal := []Action{
		{Type: ActionStartGame, PlayerID: "a"},
		{Type: ActionPeekCard, PlayerID: "a", CardIndex: 0},
		{Type: ActionFinishPeek, PlayerID: "a"},
		{Type: ActionDrawFromDeck, PlayerID: "b"},
		{Type: ActionDrawFromDiscard, PlayerID: "b"},
		{Type: ActionSwapDrawn, PlayerID: "a", CardIndex: 0},
		{Type: ActionDiscardDrawn, PlayerID: "a"},
		{Type: ActionUseSpecial, PlayerID: "a"},
		{Type: ActionCallPobudka, PlayerID: "b"},
		{Type: ActionTake2Choose, PlayerID: "a", CardID: 0},
		{Type: ActionPeek1Select, PlayerID: "a", TargetPlayerID: "b", CardIndex: 0},
		{Type: ActionSwap2Select, PlayerID: "a", TargetPlayerID: "b", CardIndex: 0},
		{Type: ActionNextRound, PlayerID: "a"},
		{Type: "NOT_AN_ACTION", PlayerID: "a"},
	}
	for _, a := range illegal {
		if Apply(s, a) != s {
			t.Errorf("illegal %s by %s returned a new state", a.Type, a.PlayerID)
		}
	}
}

// TestApplyDeterministic verifies that identical seeds and action sequences
// produce identical states.
func TestApplyDeterministic(t *testing.T) {
	run := func() *GameState {
		s := lobbyGame()
		actions := []Action{
			{Type: ActionStartGame, PlayerID: "a"},
			{Type: ActionPeekCard, PlayerID: "a", CardIndex: 0},
			{Type: ActionPeekCard, PlayerID: "a", CardIndex: 1},
			{Type: ActionFinishPeek, PlayerID: "a"},
			{Type: ActionPeekCard, PlayerID: "b", CardIndex: 0},
			{Type: ActionPeekCard, PlayerID: "b", CardIndex: 1},
			{Type: ActionFinishPeek, PlayerID: "b"},
			{Type: ActionDrawFromDeck, PlayerID: "a"},
			{Type: ActionSwapDrawn, PlayerID: "a", CardIndex: 2},
		}
		for _, a := range actions {
			next := Apply(s, a)
			if next == s {
				t.Fatalf("scripted action %s rejected", a.Type)
			}
			s = next
		}
		return s
	}
	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Fatal("identical runs diverged")
	}
}
