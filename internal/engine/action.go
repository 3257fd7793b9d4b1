package engine

// ActionType tags an inbound Action.
type ActionType string

const (
	ActionStartGame       ActionType = "START_GAME"
	ActionPeekCard        ActionType = "PEEK_CARD"
	ActionFinishPeek      ActionType = "FINISH_PEEK"
	ActionDrawFromDeck    ActionType = "DRAW_FROM_DECK"
	ActionDrawFromDiscard ActionType = "DRAW_FROM_DISCARD"
	ActionSwapDrawn       ActionType = "SWAP_DRAWN"
	ActionDiscardDrawn    ActionType = "DISCARD_DRAWN"
	ActionUseSpecial      ActionType = "USE_SPECIAL"
	ActionCallPobudka     ActionType = "CALL_POBUDKA"
	ActionTake2Choose     ActionType = "ACTION_TAKE_2_CHOOSE"
	ActionPeek1Select     ActionType = "ACTION_PEEK_1_SELECT"
	ActionSwap2Select     ActionType = "ACTION_SWAP_2_SELECT"
	ActionNextRound       ActionType = "NEXT_ROUND"
	ActionPostChat        ActionType = "POST_CHAT"
)

// Action is the tagged input value fed to Apply. Every input path - local
// click, remote message, bot decision, session timer - funnels through this
// one type. Unused fields are ignored by the action that doesn't need them.
//
// CardIndex conventions: hand slot index for slot-addressed actions; -1 in
// ACTION_TAKE_2_CHOOSE means "discard the chosen card instead of keeping it".
type Action struct {
	Type           ActionType `json:"type"`
	PlayerID       string     `json:"playerId"`
	TargetPlayerID string     `json:"targetPlayerId,omitempty"`
	CardIndex      int        `json:"cardIndex"`
	CardID         int        `json:"cardId"`
	Text           string     `json:"text,omitempty"`
}
