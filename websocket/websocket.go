package websocket

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/cameroncuttingedge/fruit_bingo/events"
	"github.com/cameroncuttingedge/fruit_bingo/game"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// SessionSource resolves session IDs to live sessions.
type SessionSource interface {
	Get(sessionID string) (*game.Session, error)
}

// subscriber serializes writes; a websocket connection allows one writer at a time.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// Hub fans session snapshots out to every websocket watching that session.
type Hub struct {
	sessions    SessionSource
	connections map[string][]*subscriber
	lock        sync.Mutex
	upgrader    websocket.Upgrader
}

// NewHub builds a hub. A nil checkOrigin accepts every origin.
func NewHub(sessions SessionSource, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		sessions:    sessions,
		connections: make(map[string][]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// AllowOrigins accepts handshakes without an Origin header, from the serving host
// itself, or from one of allowed. A "*" entry accepts everything.
func AllowOrigins(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
		log.Warn().Str("origin", origin).Msg("Rejected websocket origin")
		return false
	}
}

func (h *Hub) SessionWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("WebSocket upgrade error")
		return
	}
	defer conn.Close()

	sub := h.register(sessionID, conn)
	defer h.deregister(sessionID, sub)

	if err := sub.writeJSON(session.State()); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("Error sending session state")
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("sessionID", sessionID).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}

func (h *Hub) Broadcast(state events.SessionState) {
	h.lock.Lock()
	subs := append([]*subscriber(nil), h.connections[state.ID]...)
	h.lock.Unlock()

	if len(subs) == 0 {
		log.Debug().Str("sessionID", state.ID).Msg("No connections to broadcast")
		return
	}

	log.Debug().Str("sessionID", state.ID).Int("connectionsCount", len(subs)).Msg("Broadcasting session state update")
	for i, sub := range subs {
		if err := sub.writeJSON(state); err != nil {
			log.Error().Err(err).Str("sessionID", state.ID).Msgf("Failed to broadcast session state to connection %d", i)
		}
	}
}

// ConnectionCount reports how many sockets are watching sessionID.
func (h *Hub) ConnectionCount(sessionID string) int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.connections[sessionID])
}

func (h *Hub) register(sessionID string, conn *websocket.Conn) *subscriber {
	h.lock.Lock()
	defer h.lock.Unlock()
	sub := &subscriber{conn: conn}
	h.connections[sessionID] = append(h.connections[sessionID], sub)
	log.Info().Str("sessionID", sessionID).Int("connectionsCount", len(h.connections[sessionID])).Msg("WebSocket connection registered")
	return sub
}

func (h *Hub) deregister(sessionID string, sub *subscriber) {
	h.lock.Lock()
	defer h.lock.Unlock()
	subs := h.connections[sessionID]
	for i, s := range subs {
		if s == sub {
			h.connections[sessionID] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
	}
	log.Info().Str("sessionID", sessionID).Int("remainingConnections", len(h.connections[sessionID])).Msg("WebSocket connection deregistered")
}

// StartEventListening drains bus in the background until it is closed.
func (h *Hub) StartEventListening(bus events.Bus) {
	log.Info().Msg("Event listener starting...")
	go func() {
		for event := range bus {
			data, err := json.Marshal(event.Data)
			if err != nil {
				log.Error().Err(err).Msg("Failed to marshal session event data to JSON")
				continue
			}

			log.Debug().
				Str("sessionID", event.Data.ID).
				RawJSON("sessionEvent", data).
				Msg("Received session event, broadcasting update")
			h.Broadcast(event.Data)
		}
		log.Info().Msg("Event listener goroutine exited.")
	}()
}
