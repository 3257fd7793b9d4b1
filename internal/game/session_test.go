package game

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcstyleorg/sen/internal/bot"
	"github.com/pcstyleorg/sen/internal/engine"
	"github.com/pcstyleorg/sen/internal/view"
)

// mockBroadcaster captures per-player view deliveries for assertions.
type mockBroadcaster struct {
	mu    sync.Mutex
	views map[string][]*view.State
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{views: make(map[string][]*view.State)}
}

func (mb *mockBroadcaster) deliver(playerID string, v *view.State) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.views[playerID] = append(mb.views[playerID], v)
}

func (mb *mockBroadcaster) last(playerID string) *view.State {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	vs := mb.views[playerID]
	if len(vs) == 0 {
		return nil
	}
	return vs[len(vs)-1]
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// testSession returns a synchronous session (zero delays) with the given
// rules target.
func testSession(targetScore int) *Session {
	rules := engine.DefaultRules()
	rules.TargetScore = targetScore
	st := engine.NewGame(engine.ModeVsBot, "room", "h1", 424242, rules)
	return NewSession(st, quietLogger(), 99)
}

func TestSessionRunsBotMatchToCompletion(t *testing.T) {
	rules := engine.DefaultRules()
	rules.TargetScore = 30
	st := engine.NewGame(engine.ModeVsBot, "room", "b1", 7, rules)
	s := NewSession(st, quietLogger(), 7)
	require.True(t, s.AddBot("b1", "one", bot.Normal))
	require.True(t, s.AddBot("b2", "two", bot.Hard))
	require.True(t, s.AddBot("b3", "three", bot.Easy))

	s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "b1"})

	final := s.State()
	require.Equal(t, engine.PhaseGameOver, final.Phase)
	assert.NotEmpty(t, final.GameWinner)
	assert.GreaterOrEqual(t, final.Round, 1)
}

func TestSessionRejectsAndNotifies(t *testing.T) {
	s := testSession(100)
	require.True(t, s.AddPlayer("h1", "host"))
	require.True(t, s.AddBot("b1", "bot", bot.Normal))

	var rejected []engine.Action
	s.OnRejected = func(_ string, a engine.Action) { rejected = append(rejected, a) }

	before := s.State()
	s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "b1"}) // not the host
	require.Len(t, rejected, 1)
	assert.Equal(t, engine.ActionStartGame, rejected[0].Type)
	assert.Same(t, before, s.State(), "rejected action must not change state")
}

func TestSessionBroadcastsSanitizedViews(t *testing.T) {
	s := testSession(100)
	mb := newMockBroadcaster()
	s.BroadcastToPlayerFn = mb.deliver
	require.True(t, s.AddPlayer("h1", "host"))
	require.True(t, s.AddPlayer("h2", "guest"))

	s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "h1"})

	v1 := mb.last("h1")
	v2 := mb.last("h2")
	require.NotNil(t, v1)
	require.NotNil(t, v2)
	assert.Equal(t, engine.PhasePeeking, v1.Phase)

	// Neither player may see the other's card faces.
	for _, slot := range v1.Players[1].Slots {
		assert.False(t, slot.Card.Known, "host sees guest cards")
	}
	for _, slot := range v2.Players[0].Slots {
		assert.False(t, slot.Card.Known, "guest sees host cards")
	}
}

func TestSessionDrivesPeekFlipDown(t *testing.T) {
	s := testSession(100)
	require.True(t, s.AddPlayer("h1", "host"))
	require.True(t, s.AddPlayer("h2", "guest"))
	s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "h1"})

	s.HandleAction(engine.Action{Type: engine.ActionPeekCard, PlayerID: "h1", CardIndex: 0})
	s.HandleAction(engine.Action{Type: engine.ActionPeekCard, PlayerID: "h1", CardIndex: 1})

	// Zero reveal delay: the session injects FinishPeek synchronously and
	// rotation moves to the second seat.
	st := s.State()
	require.NotNil(t, st.Peeking)
	assert.Equal(t, 1, st.Peeking.PlayerIndex)
	for _, slot := range st.Players[0].Hand {
		assert.False(t, slot.FaceUp)
	}
}

func TestSessionRunsBotsBetweenHumanTurns(t *testing.T) {
	s := testSession(100)
	require.True(t, s.AddPlayer("h1", "host"))
	require.True(t, s.AddBot("b1", "bot", bot.Normal))
	s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "h1"})

	// Human finishes peeking; the bot then peeks and flips synchronously,
	// landing the game in the playing phase.
	s.HandleAction(engine.Action{Type: engine.ActionPeekCard, PlayerID: "h1", CardIndex: 0})
	s.HandleAction(engine.Action{Type: engine.ActionPeekCard, PlayerID: "h1", CardIndex: 1})

	st := s.State()
	require.Equal(t, engine.PhasePlaying, st.Phase)
	require.Nil(t, st.Peeking)
}

func TestSessionViewReferentialStability(t *testing.T) {
	s := testSession(100)
	require.True(t, s.AddPlayer("h1", "host"))
	require.True(t, s.AddPlayer("h2", "guest"))
	s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "h1"})

	first := s.ViewFor("h2")
	second := s.ViewFor("h2")
	assert.Same(t, first, second, "unchanged view must be pointer-stable")
}

func TestSessionLobbyGuards(t *testing.T) {
	s := testSession(100)
	require.True(t, s.AddPlayer("h1", "host"))
	require.False(t, s.AddPlayer("h1", "dup"), "duplicate seat id accepted")
	require.True(t, s.AddBot("b1", "bot", bot.Easy))

	s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "h1"})
	assert.False(t, s.AddPlayer("h2", "late"), "joined after the deal")
	assert.False(t, s.AddBot("b2", "late bot", bot.Easy))
}
