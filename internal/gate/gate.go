// Package gate holds the pure interaction predicates consumed by
// presentation layers and by the bot policy as legality checks. Every
// predicate is a function of the game phase plus viewer-role scalars, so it
// can be evaluated against the authoritative state on the server or against
// a sanitized view on a client. Each predicate mirrors the reducer's own
// validation: gate-true with a reducer rejection is a contract violation.
package gate

import "github.com/pcstyleorg/sen/internal/engine"

// CanAct reports whether the viewer has any legal move at all right now.
func CanAct(phase engine.GamePhase, isTurn, isPeeker bool) bool {
	switch phase {
	case engine.PhasePeeking:
		return isPeeker
	case engine.PhasePlaying, engine.PhaseHolding, engine.PhaseTake2,
		engine.PhasePeek1, engine.PhaseSwapSelect1, engine.PhaseSwapSelect2:
		return isTurn
	default:
		return false
	}
}

// CanPeekSlot reports whether the viewer may flip a specific one of their
// own slots during the initial peek: face down, not yet peeked, quota left.
func CanPeekSlot(phase engine.GamePhase, isPeeker bool, peekedCount, peekLimit int, slotFaceUp, slotPeeked bool) bool {
	return phase == engine.PhasePeeking && isPeeker &&
		peekedCount < peekLimit && !slotFaceUp && !slotPeeked
}

// CanFinishPeek reports whether the current peeker's reveal window may close.
func CanFinishPeek(phase engine.GamePhase, isPeeker bool, peekedCount, peekLimit int) bool {
	return phase == engine.PhasePeeking && isPeeker && peekedCount >= peekLimit
}

// CanDrawFromDeck reports whether drawing from the deck is available.
// drawable covers both a non-empty pile and a reshufflable discard.
func CanDrawFromDeck(phase engine.GamePhase, isTurn, drawable bool) bool {
	return phase == engine.PhasePlaying && isTurn && drawable
}

// CanDrawFromDiscard reports whether taking the discard top is available.
func CanDrawFromDiscard(phase engine.GamePhase, isTurn, discardNonEmpty bool) bool {
	return phase == engine.PhasePlaying && isTurn && discardNonEmpty
}

// CanCallPobudka reports whether the round-ending call is available: only in
// the playing phase, at the start of the caller's own turn.
func CanCallPobudka(phase engine.GamePhase, isTurn bool) bool {
	return phase == engine.PhasePlaying && isTurn
}

// CanResolveDrawn reports whether the viewer may swap or discard the held
// card.
func CanResolveDrawn(phase engine.GamePhase, isTurn bool) bool {
	return phase == engine.PhaseHolding && isTurn
}

// CanUseSpecial reports whether the held card's power may be triggered:
// only deck-sourced specials keep their behavior, and take_2 additionally
// needs at least one card left to offer (draw pile non-empty, or more than
// the discard top available to reshuffle).
func CanUseSpecial(phase engine.GamePhase, isTurn bool, source engine.DrawSource, special engine.SpecialAction, take2Offerable bool) bool {
	if phase != engine.PhaseHolding || !isTurn ||
		source != engine.DrawDeck || special == engine.SpecialNone {
		return false
	}
	return special != engine.SpecialTake2 || take2Offerable
}

// CanChooseTemp reports whether the viewer may pick one of the take_2 cards.
func CanChooseTemp(phase engine.GamePhase, isTurn bool) bool {
	return phase == engine.PhaseTake2 && isTurn
}

// CanTargetSlot reports whether an arbitrary hand slot is a legal target of
// the current special action. peek_1 and both swap_2 selections accept any
// existing slot of any player.
func CanTargetSlot(phase engine.GamePhase, isTurn bool) bool {
	if !isTurn {
		return false
	}
	switch phase {
	case engine.PhasePeek1, engine.PhaseSwapSelect1, engine.PhaseSwapSelect2:
		return true
	default:
		return false
	}
}

// ShouldPulseSlot reports whether a slot should be highlighted as an
// actionable target for the viewer: their own slots while resolving a drawn
// card or peeking, and any slot while targeting a special.
func ShouldPulseSlot(phase engine.GamePhase, isTurn, isPeeker, ownSlot bool) bool {
	switch phase {
	case engine.PhasePeeking:
		return isPeeker && ownSlot
	case engine.PhaseHolding, engine.PhaseTake2:
		return isTurn && ownSlot
	case engine.PhasePeek1, engine.PhaseSwapSelect1, engine.PhaseSwapSelect2:
		return isTurn
	default:
		return false
	}
}

// CanStartGame reports whether the host may deal the first round.
func CanStartGame(phase engine.GamePhase, isHost bool, playerCount int) bool {
	return phase == engine.PhaseLobby && isHost && playerCount >= 2
}

// CanStartNextRound reports whether the host may advance past the score
// screen.
func CanStartNextRound(phase engine.GamePhase, isHost bool) bool {
	return phase == engine.PhaseRoundEnd && isHost
}
