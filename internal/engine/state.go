package engine

// GameMode distinguishes how seats are controlled. The engine itself treats
// all modes identically; the session layer decides who feeds actions in.
type GameMode string

const (
	ModeHotseat GameMode = "hotseat"
	ModeVsBot   GameMode = "vs_bot"
	ModeOnline  GameMode = "online"
)

// GamePhase is the state of the round state machine.
type GamePhase string

const (
	PhaseLobby       GamePhase = "lobby"
	PhasePeeking     GamePhase = "peeking"
	PhasePlaying     GamePhase = "playing"
	PhaseHolding     GamePhase = "holding_card"
	PhaseTake2       GamePhase = "action_take_2"
	PhasePeek1       GamePhase = "action_peek_1"
	PhaseSwapSelect1 GamePhase = "action_swap_2_select_1"
	PhaseSwapSelect2 GamePhase = "action_swap_2_select_2"
	PhaseRoundEnd    GamePhase = "round_end"
	PhaseGameOver    GamePhase = "game_over"
)

// DrawSource records where the held card came from. A discard-sourced card
// is inert: its special action can never be triggered this turn.
type DrawSource string

const (
	DrawDeck    DrawSource = "deck"
	DrawDiscard DrawSource = "discard"
)

// HandSlot is a fixed-position slot in a player's hand. FaceUp is a
// transient public reveal (initial peek, round end); Peeked records whether
// the slot's contents have been looked at, which gates further interaction.
type HandSlot struct {
	Card   Card `json:"card"`
	FaceUp bool `json:"faceUp"`
	Peeked bool `json:"peeked"`
}

// Player is one seat at the table. Hand order is positionally meaningful and
// is only ever reordered by explicit swap actions. Score accumulates across
// rounds until the game ends.
type Player struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Hand  []HandSlot `json:"hand"`
	Score int        `json:"score"`
}

// ChatMessage is one table-chat entry. Seq orders messages within the game;
// wall-clock decoration is left to the transport layer.
type ChatMessage struct {
	Seq        int    `json:"seq"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
}

// SlotRef addresses one hand slot by player position and card index.
type SlotRef struct {
	PlayerIndex int `json:"playerIndex"`
	CardIndex   int `json:"cardIndex"`
}

// TurnState carries the payload of the draw-to-resolution window. It is
// non-nil exactly while the phase is holding_card or one of the action_*
// phases; Temp is populated only in action_take_2 and SwapFirst only in
// action_swap_2_select_2.
type TurnState struct {
	Drawn     Card       `json:"drawn"`
	Source    DrawSource `json:"source"`
	Temp      []Card     `json:"temp,omitempty"`
	SwapFirst *SlotRef   `json:"swapFirst,omitempty"`
}

// PeekingState tracks the initial-peek rotation. Non-nil exactly while the
// phase is peeking.
type PeekingState struct {
	PlayerIndex int `json:"playerIndex"`
	PeekedCount int `json:"peekedCount"`
}

// Reveal is a one-shot private reveal addressed to a single player: the
// result of a peek_1. It survives exactly until the next accepted action,
// so the sanitizer can show the value to the peeking player once without
// the state retaining peek history.
type Reveal struct {
	ToPlayerID  string `json:"toPlayerId"`
	PlayerIndex int    `json:"playerIndex"`
	CardIndex   int    `json:"cardIndex"`
}

// MoveSummary is the public record of the most recent accepted action:
// who did what, and which slots were touched. Card identities are never
// included; viewers learn those through their own sanitized views.
type MoveSummary struct {
	Type     ActionType `json:"type"`
	PlayerID string     `json:"playerId"`
	Target1  *SlotRef   `json:"target1,omitempty"`
	Target2  *SlotRef   `json:"target2,omitempty"`
}

// Rules holds the configurable round parameters.
type Rules struct {
	HandSize          int  `json:"handSize"`
	PeekCount         int  `json:"peekCount"`
	PobudkaPenalty    int  `json:"pobudkaPenalty"`
	TargetScore       int  `json:"targetScore"`
	SpecialsScoreFace bool `json:"specialsScoreFace"`
}

// DefaultRules returns the standard Sen rules.
func DefaultRules() Rules {
	return Rules{
		HandSize:          4,
		PeekCount:         2,
		PobudkaPenalty:    5,
		TargetScore:       100,
		SpecialsScoreFace: true,
	}
}

// GameState is the single authoritative representation of a game. It is
// treated as an immutable value: Apply returns a fresh state on acceptance
// and the identical pointer on rejection, and nothing else may mutate it.
type GameState struct {
	Mode    GameMode `json:"mode"`
	RoomID  string   `json:"roomId"`
	HostID  string   `json:"hostId"`
	Players []Player `json:"players"` // order = turn order, fixed per round

	DrawPile    []Card `json:"drawPile"`    // top = end
	DiscardPile []Card `json:"discardPile"` // top = end

	Current       int       `json:"currentPlayerIndex"`
	Phase         GamePhase `json:"gamePhase"`
	ActionMessage string    `json:"actionMessage"`
	TurnCount     int       `json:"turnCount"`
	Round         int       `json:"round"`

	Turn    *TurnState    `json:"turn,omitempty"`
	Peeking *PeekingState `json:"peeking,omitempty"`

	LastReveal *Reveal      `json:"lastReveal,omitempty"`
	LastAction *MoveSummary `json:"lastAction,omitempty"`

	LastCallerID    string         `json:"lastCallerId,omitempty"`
	LastRoundScores map[string]int `json:"lastRoundScores,omitempty"`
	RoundWinner     string         `json:"roundWinnerName,omitempty"`
	GameWinner      string         `json:"gameWinnerName,omitempty"`

	Chat []ChatMessage `json:"chatMessages,omitempty"`

	Rules Rules `json:"rules"`

	// RNG is an xorshift64 state driving deals and reshuffles, so Apply is
	// deterministic given the state value.
	RNG uint64 `json:"rng"`
}

// NewGame creates a fresh lobby-phase game. Players join before StartGame.
func NewGame(mode GameMode, roomID, hostID string, seed uint64, rules Rules) *GameState {
	if seed == 0 {
		seed = 1 // xorshift can't start at 0
	}
	return &GameState{
		Mode:   mode,
		RoomID: roomID,
		HostID: hostID,
		Phase:  PhaseLobby,
		Rules:  rules,
		RNG:    seed,
	}
}

// AddPlayer seats a player. Legal only in the lobby; the session layer calls
// this before the game starts, so it mutates in place rather than going
// through Apply.
func (s *GameState) AddPlayer(id, name string) bool {
	if s.Phase != PhaseLobby {
		return false
	}
	for _, p := range s.Players {
		if p.ID == id {
			return false
		}
	}
	s.Players = append(s.Players, Player{ID: id, Name: name})
	return true
}

// PlayerIndex returns the seat index for a player id, or -1.
func (s *GameState) PlayerIndex(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// CurrentPlayer returns the player whose turn it is, or nil before the
// first deal.
func (s *GameState) CurrentPlayer() *Player {
	if s.Current < 0 || s.Current >= len(s.Players) {
		return nil
	}
	return &s.Players[s.Current]
}

// DiscardTop returns the top discard card and whether one exists.
func (s *GameState) DiscardTop() (Card, bool) {
	if len(s.DiscardPile) == 0 {
		return Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}

// CountCards returns the total number of cards across every location. After
// any accepted transition mid-round this equals DeckSize.
func (s *GameState) CountCards() int {
	n := len(s.DrawPile) + len(s.DiscardPile)
	for i := range s.Players {
		n += len(s.Players[i].Hand)
	}
	if s.Turn != nil {
		n++ // the held card
		n += len(s.Turn.Temp)
	}
	return n
}

// nextRand steps the xorshift64 state.
func (s *GameState) nextRand() uint64 {
	x := s.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	s.RNG = x
	return x
}

// randN returns a value in [0, n).
func (s *GameState) randN(n int) int {
	return int(s.nextRand() % uint64(n))
}

// clone deep-copies the state. The copy drops LastReveal and LastAction:
// both describe exactly one transition and are re-set by the action that
// produced the clone if it has anything to report.
func (s *GameState) clone() *GameState {
	n := *s
	n.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		np := p
		np.Hand = make([]HandSlot, len(p.Hand))
		copy(np.Hand, p.Hand)
		n.Players[i] = np
	}
	n.DrawPile = append([]Card(nil), s.DrawPile...)
	n.DiscardPile = append([]Card(nil), s.DiscardPile...)
	n.Chat = append([]ChatMessage(nil), s.Chat...)
	if s.Turn != nil {
		t := *s.Turn
		t.Temp = append([]Card(nil), s.Turn.Temp...)
		if s.Turn.SwapFirst != nil {
			ref := *s.Turn.SwapFirst
			t.SwapFirst = &ref
		}
		n.Turn = &t
	}
	if s.Peeking != nil {
		pk := *s.Peeking
		n.Peeking = &pk
	}
	if s.LastRoundScores != nil {
		m := make(map[string]int, len(s.LastRoundScores))
		for k, v := range s.LastRoundScores {
			m[k] = v
		}
		n.LastRoundScores = m
	}
	n.LastReveal = nil
	n.LastAction = nil
	return &n
}
