package events

import "github.com/rs/zerolog/log"

type Cell struct {
	Image    string `json:"image"`
	Alt      string `json:"alt"`
	Selected bool   `json:"selected"`
}

type Selection struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type SessionState struct {
	ID          string      `json:"id"`
	Grid        [][]Cell    `json:"grid"`
	Selected    []Selection `json:"selected"`
	Won         bool        `json:"won"`
	ShowMessage bool        `json:"showMessage"`
	Message     string      `json:"message,omitempty"`
}

type SessionEvent struct {
	Data SessionState
}

// Bus carries session snapshots from the sessions to the websocket hub.
type Bus chan SessionEvent

func NewBus(size int) Bus {
	return make(Bus, size)
}

// Publish queues a snapshot. A full bus drops the event instead of stalling the caller.
func (b Bus) Publish(state SessionState) {
	if b == nil {
		return
	}
	select {
	case b <- SessionEvent{Data: state}:
	default:
		log.Warn().Str("sessionID", state.ID).Msg("Event bus full, dropping session state")
	}
}
