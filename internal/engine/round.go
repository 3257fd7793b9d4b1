package engine

import "fmt"

// startRound deals a fresh round in place on an already-cloned state:
// new shuffled deck, full hands, one card flipped to seed the discard pile.
// Scores carry over; everything round-scoped resets.
func (s *GameState) startRound() {
	s.Round++

	deck := NewDeck()
	fisherYates(deck, s.randN)

	for i := range s.Players {
		hand := make([]HandSlot, s.Rules.HandSize)
		for j := range hand {
			hand[j] = HandSlot{Card: deck[len(deck)-1]}
			deck = deck[:len(deck)-1]
		}
		s.Players[i].Hand = hand
	}

	// Seed the discard pile so DRAW_FROM_DISCARD is available from turn one.
	s.DiscardPile = []Card{deck[len(deck)-1]}
	s.DrawPile = deck[:len(deck)-1]

	// Rotate the opening player each round.
	s.Current = (s.Round - 1) % len(s.Players)
	s.TurnCount = 0
	s.Turn = nil
	s.Peeking = &PeekingState{PlayerIndex: 0}
	s.Phase = PhasePeeking
	s.LastCallerID = ""
	s.RoundWinner = ""
	s.ActionMessage = fmt.Sprintf("Round %d: %s is peeking", s.Round, s.Players[0].Name)
}

// finishTurn closes the draw-to-resolution window and passes the turn.
func (s *GameState) finishTurn() {
	s.Turn = nil
	s.Phase = PhasePlaying
	s.Current = (s.Current + 1) % len(s.Players)
	s.TurnCount++
	s.ActionMessage = fmt.Sprintf("%s's turn", s.Players[s.Current].Name)
}

// reshuffleDiscardIntoDraw moves every discard card except the top back
// into the draw pile and shuffles. No-op when there is nothing to recycle.
func (s *GameState) reshuffleDiscardIntoDraw() {
	if len(s.DiscardPile) <= 1 {
		return
	}
	top := s.DiscardPile[len(s.DiscardPile)-1]
	recycled := append([]Card(nil), s.DiscardPile[:len(s.DiscardPile)-1]...)
	fisherYates(recycled, s.randN)
	s.DrawPile = append(s.DrawPile, recycled...)
	s.DiscardPile = []Card{top}
}

// handScore sums a hand's face values. Unresolved specials count their
// printed value unless the rules score them as zero.
func (s *GameState) handScore(p *Player) int {
	total := 0
	for _, slot := range p.Hand {
		if slot.Card.IsSpecial() && !s.Rules.SpecialsScoreFace {
			continue
		}
		total += slot.Card.Value
	}
	return total
}

// endRound resolves a Pobudka call in place on an already-cloned state:
// all hands flip up, round scores are computed and accumulated, and the
// caller pays the penalty unless their sum is strictly lowest.
func (s *GameState) endRound(callerID string) {
	for i := range s.Players {
		for j := range s.Players[i].Hand {
			s.Players[i].Hand[j].FaceUp = true
		}
	}

	sums := make(map[string]int, len(s.Players))
	callerSum := 0
	for i := range s.Players {
		sum := s.handScore(&s.Players[i])
		sums[s.Players[i].ID] = sum
		if s.Players[i].ID == callerID {
			callerSum = sum
		}
	}

	strictlyLowest := true
	for id, sum := range sums {
		if id != callerID && sum <= callerSum {
			strictlyLowest = false
		}
	}
	if !strictlyLowest {
		sums[callerID] += s.Rules.PobudkaPenalty
	}

	roundWinner := ""
	best := 0
	for i := range s.Players {
		p := &s.Players[i]
		score := sums[p.ID]
		p.Score += score
		if roundWinner == "" || score < best {
			roundWinner = p.Name
			best = score
		}
	}

	callerName := callerID
	if i := s.PlayerIndex(callerID); i != -1 {
		callerName = s.Players[i].Name
	}

	s.Turn = nil
	s.Phase = PhaseRoundEnd
	s.LastCallerID = callerID
	s.LastRoundScores = sums
	s.RoundWinner = roundWinner
	s.ActionMessage = fmt.Sprintf("%s calls Pobudka! %s wins the round", callerName, roundWinner)
}

// targetScoreReached reports whether any cumulative score has crossed the
// configured game-over threshold.
func (s *GameState) targetScoreReached() bool {
	for i := range s.Players {
		if s.Players[i].Score >= s.Rules.TargetScore {
			return true
		}
	}
	return false
}

// lowestTotalName returns the name of the player with the lowest cumulative
// score; ties go to the earlier seat.
func (s *GameState) lowestTotalName() string {
	winner := ""
	best := 0
	for i := range s.Players {
		if winner == "" || s.Players[i].Score < best {
			winner = s.Players[i].Name
			best = s.Players[i].Score
		}
	}
	return winner
}
