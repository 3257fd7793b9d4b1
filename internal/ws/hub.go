// Package ws is the websocket front door: it accepts connections, routes
// lobby commands and in-game actions to sessions, and pushes each player
// their own sanitized view.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pcstyleorg/sen/internal/bot"
	"github.com/pcstyleorg/sen/internal/engine"
	"github.com/pcstyleorg/sen/internal/game"
	"github.com/pcstyleorg/sen/internal/history"
	"github.com/pcstyleorg/sen/internal/store"
	"github.com/pcstyleorg/sen/internal/view"
)

const writeTimeout = 5 * time.Second

// Envelope is the wire frame in both directions.
type Envelope struct {
	Type    string         `json:"type"`
	RoomID  string         `json:"roomId,omitempty"`
	Name    string         `json:"name,omitempty"`
	Mode    string         `json:"mode,omitempty"`
	BotName string         `json:"botName,omitempty"`
	BotTier string         `json:"botTier,omitempty"`
	Action  *engine.Action `json:"action,omitempty"`
	State   *view.State    `json:"state,omitempty"`
	Error   string         `json:"error,omitempty"`
	Player  string         `json:"playerId,omitempty"`
}

type client struct {
	id     string
	roomID string
	conn   *websocket.Conn
	send   chan []byte
}

type room struct {
	id      string
	session *game.Session
	mu      sync.Mutex
	seats   map[string]*client // playerID -> connection
}

// Hub owns all live rooms and connections.
type Hub struct {
	log      *logrus.Logger
	mu       sync.RWMutex
	rooms    map[string]*room
	store    *store.Store
	hist     *history.Publisher
	profiles map[bot.Difficulty]bot.Profile

	// Delays forwarded to each new session.
	PeekRevealDelay time.Duration
	BotDelay        time.Duration
}

func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.New()
	}
	return &Hub{
		log:   log,
		rooms: make(map[string]*room),
	}
}

// SetStore attaches persistence for every future session.
func (h *Hub) SetStore(s *store.Store) { h.store = s }

// SetHistory attaches the action-history publisher for every future session.
func (h *Hub) SetHistory(p *history.Publisher) { h.hist = p }

// SetProfiles overrides bot difficulty tuning for every future session.
func (h *Hub) SetProfiles(p map[bot.Difficulty]bot.Profile) { h.profiles = p }

// ServeWS upgrades the request and runs the connection until it drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.WithError(err).Warn("websocket accept failed")
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.log.WithField("client", c.id).Info("client connected")

	ctx := r.Context()
	go c.writeLoop(ctx)
	h.sendTo(c, Envelope{Type: "welcome", Player: c.id})

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.sendTo(c, Envelope{Type: "error", Error: "malformed message"})
			continue
		}
		h.dispatch(c, env)
	}

	h.dropClient(c)
	h.log.WithField("client", c.id).Info("client disconnected")
}

func (c *client) writeLoop(ctx context.Context) {
	ping := time.NewTicker(15 * time.Second)
	defer func() {
		ping.Stop()
		_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
	}()
	for {
		select {
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(c *client, env Envelope) {
	switch env.Type {
	case "create_room":
		h.createRoom(c, env)
	case "join_room":
		h.joinRoom(c, env)
	case "add_bot":
		h.addBot(c, env)
	case "action":
		h.routeAction(c, env)
	default:
		h.sendTo(c, Envelope{Type: "error", Error: "unknown message type"})
	}
}

func (h *Hub) createRoom(c *client, env Envelope) {
	mode := engine.GameMode(env.Mode)
	switch mode {
	case engine.ModeHotseat, engine.ModeVsBot, engine.ModeOnline:
	default:
		mode = engine.ModeOnline
	}
	roomID := uuid.NewString()
	seed := uint64(time.Now().UnixNano())
	st := engine.NewGame(mode, roomID, c.id, seed, engine.DefaultRules())
	s := game.NewSession(st, h.log, uint64(time.Now().UnixNano()))
	s.PeekRevealDelay = h.PeekRevealDelay
	s.BotDelay = h.BotDelay
	if h.store != nil {
		s.SetStore(h.store)
	}
	if h.hist != nil {
		s.SetHistory(h.hist)
	}
	if h.profiles != nil {
		s.SetProfiles(h.profiles)
	}

	rm := &room{id: roomID, session: s, seats: make(map[string]*client)}
	s.BroadcastToPlayerFn = rm.deliver
	s.OnRejected = rm.reject

	name := env.Name
	if name == "" {
		name = "player"
	}
	s.AddPlayer(c.id, name)
	rm.mu.Lock()
	rm.seats[c.id] = c
	rm.mu.Unlock()

	h.mu.Lock()
	h.rooms[roomID] = rm
	h.mu.Unlock()
	c.roomID = roomID

	h.log.WithFields(logrus.Fields{"room": roomID, "mode": mode}).Info("room created")
	h.sendTo(c, Envelope{Type: "room_created", RoomID: roomID, Player: c.id})
	h.sendTo(c, Envelope{Type: "state", RoomID: roomID, State: s.ViewFor(c.id)})
}

func (h *Hub) joinRoom(c *client, env Envelope) {
	rm := h.room(env.RoomID)
	if rm == nil {
		h.sendTo(c, Envelope{Type: "error", Error: "no such room"})
		return
	}
	name := env.Name
	if name == "" {
		name = "player"
	}
	if !rm.session.AddPlayer(c.id, name) {
		h.sendTo(c, Envelope{Type: "error", Error: "room is not joinable"})
		return
	}
	rm.mu.Lock()
	rm.seats[c.id] = c
	rm.mu.Unlock()
	c.roomID = rm.id

	h.sendTo(c, Envelope{Type: "room_joined", RoomID: rm.id, Player: c.id})
	rm.refreshAll()
}

func (h *Hub) addBot(c *client, env Envelope) {
	rm := h.room(c.roomID)
	if rm == nil {
		h.sendTo(c, Envelope{Type: "error", Error: "not in a room"})
		return
	}
	tier := bot.Difficulty(env.BotTier)
	name := env.BotName
	if name == "" {
		name = "bot"
	}
	if !rm.session.AddBot(uuid.NewString(), name, tier) {
		h.sendTo(c, Envelope{Type: "error", Error: "cannot add bot now"})
		return
	}
	rm.refreshAll()
}

func (h *Hub) routeAction(c *client, env Envelope) {
	rm := h.room(c.roomID)
	if rm == nil || env.Action == nil {
		h.sendTo(c, Envelope{Type: "error", Error: "no action to route"})
		return
	}
	a := *env.Action
	// The connection identity is authoritative, not the payload.
	a.PlayerID = c.id
	rm.session.HandleAction(a)
}

func (h *Hub) room(id string) *room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[id]
}

func (h *Hub) sendTo(c *client, env Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

func (h *Hub) dropClient(c *client) {
	rm := h.room(c.roomID)
	if rm != nil {
		rm.mu.Lock()
		delete(rm.seats, c.id)
		empty := len(rm.seats) == 0
		rm.mu.Unlock()
		if empty {
			rm.session.Close()
			h.mu.Lock()
			delete(h.rooms, rm.id)
			h.mu.Unlock()
			h.log.WithField("room", rm.id).Info("room closed")
		}
	}
	// c.send is never closed: a session timer broadcast may have fetched
	// the seat just before the drop and still send to it. writeLoop exits
	// through the request context instead.
}

// deliver is the session's per-player broadcast callback.
func (r *room) deliver(playerID string, v *view.State) {
	r.mu.Lock()
	c := r.seats[playerID]
	r.mu.Unlock()
	if c == nil {
		return
	}
	b, err := json.Marshal(Envelope{Type: "state", RoomID: r.id, State: v})
	if err != nil {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

func (r *room) reject(playerID string, a engine.Action) {
	r.mu.Lock()
	c := r.seats[playerID]
	r.mu.Unlock()
	if c == nil {
		return
	}
	b, _ := json.Marshal(Envelope{Type: "rejected", RoomID: r.id, Action: &a})
	select {
	case c.send <- b:
	default:
	}
}

// refreshAll pushes every seated player a fresh view, lobby changes included.
func (r *room) refreshAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.seats))
	for id := range r.seats {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		r.deliver(id, r.session.ViewFor(id))
	}
}
