// Package view derives per-viewer projections of the authoritative game
// state. The sanitizer is the only bridge between the one authoritative
// copy and the N read-only views a client may hold: hidden information
// (opponents' hands, the deck order, another player's held card) never
// crosses it.
package view

import "github.com/pcstyleorg/sen/internal/engine"

// Card is a card as one viewer sees it. Known gates whether Value and
// Special are populated; ID is always present so clients can animate card
// movement without learning faces.
type Card struct {
	ID      int                  `json:"id"`
	Known   bool                 `json:"known"`
	Value   int                  `json:"value,omitempty"`
	Special engine.SpecialAction `json:"special,omitempty"`
}

// Slot is one hand slot as one viewer sees it. Peeked is only reported on
// the viewer's own slots; an opponent's peek history is their business.
type Slot struct {
	Card   Card `json:"card"`
	FaceUp bool `json:"faceUp"`
	Peeked bool `json:"peeked,omitempty"`
}

// Player is one seat as one viewer sees it.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	IsTurn bool   `json:"isTurn"`
	Slots  []Slot `json:"slots"`
}

// RevealedSlot is the one-shot result of a peek_1, addressed to the viewer.
type RevealedSlot struct {
	PlayerID  string `json:"playerId"`
	CardIndex int    `json:"cardIndex"`
	Card      Card   `json:"card"`
}

// State is the full projection handed to one viewer.
type State struct {
	ViewerID        string               `json:"viewerId"`
	Mode            engine.GameMode      `json:"mode"`
	RoomID          string               `json:"roomId"`
	HostID          string               `json:"hostId"`
	Phase           engine.GamePhase     `json:"gamePhase"`
	ActionMessage   string               `json:"actionMessage"`
	TurnCount       int                  `json:"turnCount"`
	Round           int                  `json:"round"`
	CurrentPlayerID string               `json:"currentPlayerId,omitempty"`
	Players         []Player             `json:"players"`
	DrawPileSize    int                  `json:"drawPileSize"`
	DiscardSize     int                  `json:"discardSize"`
	DiscardTop      *Card                `json:"discardTop,omitempty"`
	HasDrawn        bool                 `json:"hasDrawn"`
	Drawn           *Card                `json:"drawn,omitempty"`
	DrawSource      engine.DrawSource    `json:"drawSource,omitempty"`
	TempCount       int                  `json:"tempCount"`
	Temp            []Card               `json:"temp,omitempty"`
	SwapFirst       *engine.SlotRef      `json:"swapFirst,omitempty"`
	Peeking         *engine.PeekingState `json:"peeking,omitempty"`
	Revealed        *RevealedSlot        `json:"revealed,omitempty"`
	LastAction      *engine.MoveSummary  `json:"lastAction,omitempty"`
	LastCallerID    string               `json:"lastCallerId,omitempty"`
	LastRoundScores map[string]int       `json:"lastRoundScores,omitempty"`
	RoundWinner     string               `json:"roundWinnerName,omitempty"`
	GameWinner      string               `json:"gameWinnerName,omitempty"`
	Chat            []engine.ChatMessage `json:"chatMessages,omitempty"`
}
