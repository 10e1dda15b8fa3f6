package api

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/cameroncuttingedge/fruit_bingo/events"
	"github.com/cameroncuttingedge/fruit_bingo/game"
	"github.com/cameroncuttingedge/fruit_bingo/images"
	"github.com/cameroncuttingedge/fruit_bingo/store"
	"github.com/cameroncuttingedge/fruit_bingo/utils"
	"github.com/cameroncuttingedge/fruit_bingo/websocket"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

//go:embed frontend
var frontendFS embed.FS

// GridFetcher produces the grid for a new session. *images.Client implements it.
type GridFetcher interface {
	FetchGrid(ctx context.Context, sampler game.Sampler) (game.Grid, error)
}

type Options struct {
	AllowedOrigins []string
	ServeCatalog   bool
}

type Server struct {
	router   *mux.Router
	handler  http.Handler
	sessions *store.Store
	grids    GridFetcher
	sampler  game.Sampler
	bus      events.Bus
	hub      *websocket.Hub
}

type Toggle struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type createSessionResponse struct {
	SessionID string              `json:"sessionID"`
	State     events.SessionState `json:"state"`
}

func New(sessions *store.Store, grids GridFetcher, sampler game.Sampler, bus events.Bus, hub *websocket.Hub, opts Options) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		sessions: sessions,
		grids:    grids,
		sampler:  sampler,
		bus:      bus,
		hub:      hub,
	}
	s.routes(opts)

	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	var h http.Handler = s.router
	h = handlers.CORS(
		handlers.AllowedOrigins(opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.CombinedLoggingHandler(log.Logger.With().Str("component", "http").Logger(), h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}), handlers.PrintRecoveryStack(true))(h)
	s.handler = h
	return s
}

func (s *Server) routes(opts Options) {
	r := s.router

	r.HandleFunc("/session", s.createSessionHandler).Methods("POST")
	r.HandleFunc("/session/{sessionID}/state", s.getSessionStateHandler).Methods("GET")
	r.HandleFunc("/session/{sessionID}/toggle", s.toggleCellHandler).Methods("POST")
	r.HandleFunc("/ws/session/{sessionID}", s.hub.SessionWebSocketHandler)
	r.HandleFunc("/healthz", healthHandler).Methods("GET")

	if opts.ServeCatalog {
		images.MountCatalog(r)
	}

	frontendDir, _ := fs.Sub(frontendFS, "frontend")
	r.PathPrefix("/").Handler(http.FileServer(http.FS(frontendDir))).Methods("GET")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("Attempting to create new session")

	grid, err := s.grids.FetchGrid(r.Context(), s.sampler)
	if r.Context().Err() != nil {
		log.Warn().Err(r.Context().Err()).Msg("Client went away during grid fetch, discarding result")
		return
	}
	switch {
	case errors.Is(err, game.ErrEmptyDescriptorList):
		jsonError(w, "The image service returned no images", http.StatusUnprocessableEntity)
		return
	case err != nil:
		jsonError(w, "Could not load images, please retry", http.StatusBadGateway)
		return
	}

	sessionID := utils.GenerateUUIDString()
	session := game.NewSession(sessionID, grid, s.bus)
	s.sessions.Save(session)
	session.PublishState()

	log.Info().
		Str("sessionID", sessionID).
		Interface("labels", utils.GridLabels(grid)).
		Msg("Session created")

	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: sessionID, State: session.State()})
}

func (s *Server) getSessionStateHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.State())
}

func (s *Server) toggleCellHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	coord, err := validateAndExtractToggle(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := session.ToggleCell(coord); err != nil {
		log.Warn().Err(err).Str("sessionID", session.ID).Stringer("coord", coord).Msg("Rejected toggle")
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, session.State())
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sessionID, ok := mux.Vars(r)["sessionID"]
	if !ok || sessionID == "" {
		jsonError(w, "Session ID is required", http.StatusBadRequest)
		return nil, false
	}
	session, err := s.sessions.Get(sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		jsonError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		jsonError(w, "Failed to load session", http.StatusInternalServerError)
		return nil, false
	}
	return session, true
}

func validateAndExtractToggle(r *http.Request) (game.Coord, error) {
	var toggle Toggle
	if err := json.NewDecoder(r.Body).Decode(&toggle); err != nil {
		return game.Coord{}, fmt.Errorf("error decoding JSON: %v", err)
	}
	if toggle.Row == nil || toggle.Col == nil {
		return game.Coord{}, errors.New("row and col are required")
	}
	return game.Coord{Row: *toggle.Row, Col: *toggle.Col}, nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Msg(fmt.Sprint(v...))
}
