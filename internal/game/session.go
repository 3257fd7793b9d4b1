// Package game hosts one running match: it owns the authoritative state,
// funnels every input through the engine's Apply, fans sanitized views out
// to viewers, and drives the automated parts of play: the peek flip-down
// delay and the bot seats.
package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pcstyleorg/sen/internal/bot"
	"github.com/pcstyleorg/sen/internal/engine"
	"github.com/pcstyleorg/sen/internal/history"
	"github.com/pcstyleorg/sen/internal/store"
	"github.com/pcstyleorg/sen/internal/view"
)

// maxAutoActions caps one synchronous drive loop. A full round between bots
// is a few hundred actions; hitting the cap means a policy bug, not a long
// game.
const maxAutoActions = 10000

// Session is one match. GameState is an immutable value replaced wholesale
// on each accepted transition; the mutex serializes Apply calls, so at most
// one is ever in flight against a given snapshot.
type Session struct {
	mu    sync.Mutex
	log   *logrus.Entry
	state *engine.GameState

	views    map[string]*view.State
	bots     map[string]bot.Difficulty
	botMem   map[string]*bot.Memory
	profiles map[bot.Difficulty]bot.Profile
	rng      *rand.Rand

	actionIndex int
	timer       *time.Timer
	closed      bool

	// PeekRevealDelay is how long initial peeks stay face up before the
	// session injects FINISH_PEEK; BotDelay is a bot's think time. A zero
	// delay runs the follow-up synchronously, which is what tests and the
	// simulator want.
	PeekRevealDelay time.Duration
	BotDelay        time.Duration

	// BroadcastToPlayerFn delivers a fresh view to one viewer. Nil is fine
	// for headless sessions.
	BroadcastToPlayerFn func(playerID string, v *view.State)
	// OnRejected is invoked when an external action bounces off the reducer.
	OnRejected func(playerID string, a engine.Action)

	store *store.Store
	hist  *history.Publisher
}

// NewSession wraps a lobby-phase state.
func NewSession(st *engine.GameState, logg *logrus.Logger, seed uint64) *Session {
	if logg == nil {
		logg = logrus.New()
	}
	return &Session{
		log:      logg.WithField("room", st.RoomID),
		state:    st,
		views:    make(map[string]*view.State),
		bots:     make(map[string]bot.Difficulty),
		botMem:   make(map[string]*bot.Memory),
		profiles: make(map[bot.Difficulty]bot.Profile),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// SetProfiles overrides the built-in bot difficulty table.
func (s *Session) SetProfiles(p map[bot.Difficulty]bot.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = p
}

// SetStore attaches round-result/chat persistence.
func (s *Session) SetStore(st *store.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = st
}

// SetHistory attaches the action-history publisher.
func (s *Session) SetHistory(h *history.Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist = h
}

// AddPlayer seats a human. Lobby only.
func (s *Session) AddPlayer(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AddPlayer(id, name)
}

// AddBot seats a bot at the given difficulty. Lobby only. The bot's memory
// is owned here, keyed by seat id, so concurrent matches never share state.
func (s *Session) AddBot(id, name string, d bot.Difficulty) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.AddPlayer(id, name) {
		return false
	}
	s.bots[id] = d
	s.botMem[id] = bot.NewMemory()
	return true
}

// State returns the current authoritative snapshot. Callers must treat it
// as read-only.
func (s *Session) State() *engine.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ViewFor returns playerID's current sanitized view.
func (s *Session) ViewFor(playerID string) *view.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.Sanitize(s.state, s.views[playerID], playerID)
}

// HandleAction feeds one external input through the reducer and drives any
// follow-up automation.
func (s *Session) HandleAction(a engine.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if !s.applyLocked(a) {
		return
	}
	s.driveLocked()
}

// Step applies exactly one pending automatic action (peek flip-down or bot
// move) and reports whether there was one. Test and simulator entry point.
func (s *Session) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, _, ok := s.nextAutoLocked()
	if !ok {
		return false
	}
	return s.applyLocked(a)
}

// Close stops timers; the session accepts nothing afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// applyLocked runs one action through Apply, detecting rejection by pointer
// identity, then broadcasts and persists the side products.
func (s *Session) applyLocked(a engine.Action) bool {
	next := engine.Apply(s.state, a)
	if next == s.state {
		s.log.WithFields(logrus.Fields{
			"action": a.Type,
			"player": a.PlayerID,
			"phase":  s.state.Phase,
		}).Debug("action rejected")
		if s.OnRejected != nil {
			s.OnRejected(a.PlayerID, a)
		}
		return false
	}
	s.state = next
	s.actionIndex++

	if s.hist != nil {
		s.hist.PublishAsync(history.ActionRecord{
			RoomID:      s.state.RoomID,
			ActionIndex: s.actionIndex,
			PlayerID:    a.PlayerID,
			ActionType:  string(a.Type),
			Payload:     a,
			Timestamp:   time.Now().UnixMilli(),
		})
	}

	s.broadcastLocked()
	s.observeBotsLocked()
	s.persistLocked(a)
	return true
}

// broadcastLocked refreshes every seat's view, sending only views that
// actually changed; Sanitize returns the previous pointer when nothing
// relevant to that viewer moved.
func (s *Session) broadcastLocked() {
	for i := range s.state.Players {
		id := s.state.Players[i].ID
		v := view.Sanitize(s.state, s.views[id], id)
		if v == s.views[id] {
			continue
		}
		s.views[id] = v
		if s.BroadcastToPlayerFn != nil && !s.isBot(id) {
			s.BroadcastToPlayerFn(id, v)
		}
	}
}

func (s *Session) observeBotsLocked() {
	for id, mem := range s.botMem {
		if v := s.views[id]; v != nil {
			mem.Observe(v, id)
		}
	}
}

func (s *Session) persistLocked(a engine.Action) {
	if s.store == nil {
		return
	}
	switch {
	case a.Type == engine.ActionCallPobudka && s.state.Phase == engine.PhaseRoundEnd:
		st := s.state
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := s.store.SaveRoundResult(ctx, st.RoomID, st.Round, st.LastCallerID, st.RoundWinner, st.LastRoundScores)
			if err != nil {
				s.log.WithError(err).Warn("failed to persist round result")
			}
		}()
	case a.Type == engine.ActionPostChat && len(s.state.Chat) > 0:
		msg := s.state.Chat[len(s.state.Chat)-1]
		roomID := s.state.RoomID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := s.store.SaveChatMessage(ctx, roomID, msg.Seq, msg.SenderID, msg.SenderName, msg.Text)
			if err != nil {
				s.log.WithError(err).Warn("failed to persist chat message")
			}
		}()
	}
}

func (s *Session) isBot(id string) bool {
	_, ok := s.bots[id]
	return ok
}

// nextAutoLocked determines the pending automatic action, if any, and the
// delay it should run after.
func (s *Session) nextAutoLocked() (engine.Action, time.Duration, bool) {
	st := s.state
	switch st.Phase {
	case engine.PhasePeeking:
		if st.Peeking == nil {
			return engine.Action{}, 0, false
		}
		peeker := st.Players[st.Peeking.PlayerIndex]
		if st.Peeking.PeekedCount >= st.Rules.PeekCount {
			// Flip-down belongs to the session regardless of who is peeking.
			return engine.Action{Type: engine.ActionFinishPeek, PlayerID: peeker.ID}, s.PeekRevealDelay, true
		}
		if s.isBot(peeker.ID) {
			return s.botDecisionLocked(peeker.ID)
		}
	case engine.PhasePlaying, engine.PhaseHolding, engine.PhaseTake2,
		engine.PhasePeek1, engine.PhaseSwapSelect1, engine.PhaseSwapSelect2:
		cur := st.CurrentPlayer()
		if cur != nil && s.isBot(cur.ID) {
			return s.botDecisionLocked(cur.ID)
		}
	case engine.PhaseRoundEnd:
		if s.isBot(st.HostID) {
			return engine.Action{Type: engine.ActionNextRound, PlayerID: st.HostID}, s.BotDelay, true
		}
	}
	return engine.Action{}, 0, false
}

func (s *Session) botDecisionLocked(id string) (engine.Action, time.Duration, bool) {
	profile, ok := s.profiles[s.bots[id]]
	if !ok {
		profile = bot.ProfileFor(s.bots[id])
	}
	v := view.Sanitize(s.state, s.views[id], id)
	s.views[id] = v
	a, ok := bot.Decide(v, id, profile, s.botMem[id], s.rng)
	if !ok {
		return engine.Action{}, 0, false
	}
	return a, s.BotDelay, true
}

// driveLocked runs pending automation: synchronously while delays are zero,
// otherwise via a timer that re-enters through timerFire.
func (s *Session) driveLocked() {
	for i := 0; i < maxAutoActions; i++ {
		a, d, ok := s.nextAutoLocked()
		if !ok {
			return
		}
		if d > 0 {
			if s.timer != nil {
				s.timer.Stop()
			}
			s.timer = time.AfterFunc(d, s.timerFire)
			return
		}
		if !s.applyLocked(a) {
			// An automatic action the reducer refuses is a policy defect.
			s.log.WithFields(logrus.Fields{
				"action": a.Type,
				"player": a.PlayerID,
				"phase":  s.state.Phase,
			}).Error("automatic action rejected")
			return
		}
	}
	s.log.Error("automation loop exceeded cap")
}

func (s *Session) timerFire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	a, _, ok := s.nextAutoLocked()
	if !ok {
		return
	}
	if s.applyLocked(a) {
		s.driveLocked()
	}
}
