package game

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cameroncuttingedge/fruit_bingo/events"
	"github.com/rs/zerolog/log"
)

// TargetMotif is the label every cell of a winning line has to carry.
const TargetMotif = "apple"

// WinMessage is shown while the session is won with exactly three cells selected.
const WinMessage = "Congratulations! You won!"

// ErrInvalidCoordinate is returned by ToggleCell for cells off the 4x4 board.
var ErrInvalidCoordinate = errors.New("coordinate is outside the grid")

// Session is one player's board. Grid never changes after creation; the selection
// and win flag are guarded by mu and only reachable through methods.
type Session struct {
	ID        string
	Grid      Grid
	CreatedAt time.Time

	selected []Coord
	won      bool
	bus      events.Bus
	mu       sync.Mutex
}

// NewSession wraps an already sampled grid. Nothing is selected and the session is not won.
func NewSession(sessionID string, grid Grid, bus events.Bus) *Session {
	return &Session{
		ID:        sessionID,
		Grid:      grid,
		selected:  []Coord{},
		CreatedAt: time.Now(),
		bus:       bus,
	}
}

// ToggleCell selects c when it is not selected and deselects it otherwise, then
// recomputes the win flag. Out of range coordinates leave the session untouched.
// The snapshot is published before the lock is released so subscribers see
// toggles in the order they were applied.
func (s *Session) ToggleCell(c Coord) error {
	if !c.InBounds() {
		return ErrInvalidCoordinate
	}

	s.mu.Lock()
	if i := s.indexOf(c); i >= 0 {
		s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
	} else {
		s.selected = append(s.selected, c)
	}
	wasWon := s.won
	s.won = EvaluateWin(&s.Grid, s.selected)
	state := s.stateLocked()
	s.bus.Publish(state)
	s.mu.Unlock()

	log.Debug().
		Str("sessionID", s.ID).
		Int("row", c.Row).
		Int("col", c.Col).
		Int("selected", len(state.Selected)).
		Msg("Cell toggled")
	if state.Won && !wasWon {
		log.Info().Str("sessionID", s.ID).Msg("Session won")
	}
	return nil
}

// EvaluateWin reports whether selection is exactly three cells sharing a row or a
// column, all labelled with TargetMotif. Diagonals never count.
func EvaluateWin(grid *Grid, selection []Coord) bool {
	if len(selection) != 3 {
		return false
	}

	rows := make(map[int]struct{}, 3)
	cols := make(map[int]struct{}, 3)
	for _, c := range selection {
		rows[c.Row] = struct{}{}
		cols[c.Col] = struct{}{}
	}
	if len(rows) != 1 && len(cols) != 1 {
		return false
	}

	for _, c := range selection {
		if !c.InBounds() || strings.ToLower(grid.At(c).Alt) != TargetMotif {
			return false
		}
	}
	return true
}

// IsSelected reports whether c is part of the current selection.
func (s *Session) IsSelected(c Coord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(c) >= 0
}

// ShowMessage mirrors the page rule: the message needs the win flag and exactly three selections.
func (s *Session) ShowMessage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.won && len(s.selected) == 3
}

// Won reports the win flag as of the last toggle.
func (s *Session) Won() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.won
}

// Selection returns a copy of the selected cells in click order.
func (s *Session) Selection() []Coord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Coord, len(s.selected))
	copy(out, s.selected)
	return out
}

// State returns a snapshot safe to hand to other goroutines.
func (s *Session) State() events.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// PublishState pushes the current snapshot to the bus without changing anything.
func (s *Session) PublishState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Info().Str("sessionID", s.ID).Msg("Publishing session state")
	s.bus.Publish(s.stateLocked())
}

func (s *Session) indexOf(c Coord) int {
	for i, sel := range s.selected {
		if sel == c {
			return i
		}
	}
	return -1
}

func (s *Session) stateLocked() events.SessionState {
	state := events.SessionState{
		ID:       s.ID,
		Grid:     make([][]events.Cell, GridSize),
		Selected: make([]events.Selection, 0, len(s.selected)),
		Won:      s.won,
	}
	for i, row := range s.Grid {
		state.Grid[i] = make([]events.Cell, GridSize)
		for j, d := range row {
			state.Grid[i][j] = events.Cell{Image: d.Image, Alt: d.Alt}
		}
	}
	for _, c := range s.selected {
		state.Selected = append(state.Selected, events.Selection{Row: c.Row, Col: c.Col})
		state.Grid[c.Row][c.Col].Selected = true
	}
	if s.won && len(s.selected) == 3 {
		state.ShowMessage = true
		state.Message = WinMessage
	}
	return state
}
