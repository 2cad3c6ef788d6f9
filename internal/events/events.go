package events

import (
	"context"
	"encoding/json"
	"fmt"

	"ctchen222/tictactoe/internal/game"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types emitted to the presentation layer.
const (
	TypeCellFilled      = "cell_filled"
	TypeMatchWon        = "match_won"
	TypeMatchTied       = "match_tied"
	TypeMoveRejected    = "move_rejected"
	TypeNoMoveAvailable = "no_move_available"
	TypeMatchReset      = "match_reset"
	TypeSessionStarted  = "session_started"
	TypeSessionEnded    = "session_ended"
)

// Event represents a message published to subscribers.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher delivers events to some audience.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// New marshals payload into an event of the given type.
func New(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: data}, nil
}

// CellFilledPayload is the payload for the "cell_filled" event.
type CellFilledPayload struct {
	SessionID string          `json:"session_id"`
	Row       int             `json:"row"`
	Col       int             `json:"col"`
	Mark      game.PlayerMark `json:"mark"`
	Username  string          `json:"username"`
}

// MatchWonPayload is the payload for the "match_won" event.
type MatchWonPayload struct {
	SessionID string `json:"session_id"`
	Winner    string `json:"winner"`
}

// MatchTiedPayload is the payload for the "match_tied" event.
type MatchTiedPayload struct {
	SessionID string `json:"session_id"`
}

// MoveRejectedPayload is the payload for the "move_rejected" event.
type MoveRejectedPayload struct {
	SessionID string `json:"session_id"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Reason    string `json:"reason"`
}

// NoMoveAvailablePayload is the payload for the "no_move_available" event.
type NoMoveAvailablePayload struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}

// MatchResetPayload is the payload for the "match_reset" event.
type MatchResetPayload struct {
	SessionID string `json:"session_id"`
	Next      string `json:"next"`
}

// SessionStartedPayload is the payload for the "session_started" event.
type SessionStartedPayload struct {
	SessionID string   `json:"session_id"`
	Usernames []string `json:"usernames"`
}

// SessionEndedPayload is the payload for the "session_ended" event.
type SessionEndedPayload struct {
	SessionID string `json:"session_id"`
}
