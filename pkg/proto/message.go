package proto

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/player"
)

// SeatRequest describes one player of a new session.
type SeatRequest struct {
	Username string `json:"username" binding:"omitempty,min=1,max=32"`
	Kind     string `json:"kind" binding:"required,oneof=human easy medium"`
	Mark     string `json:"mark" binding:"required,oneof=X O"`
}

// StartSessionRequest starts a session. Player one's username defaults to the
// authenticated user.
type StartSessionRequest struct {
	PlayerOne SeatRequest `json:"player_one" binding:"required"`
	PlayerTwo SeatRequest `json:"player_two" binding:"required"`
}

// MoveRequest is a human move.
type MoveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// PlayerView is a participant as shown to the client.
type PlayerView struct {
	Username string          `json:"username"`
	Mark     game.PlayerMark `json:"mark"`
	Kind     player.Kind     `json:"kind"`
	Record   player.Record   `json:"record"`
}

// MoveView is one applied move.
type MoveView struct {
	Row  int             `json:"row"`
	Col  int             `json:"col"`
	Mark game.PlayerMark `json:"mark"`
}

// SessionView is the state of the active session sent to clients.
type SessionView struct {
	SessionID  string                   `json:"session_id"`
	Status     string                   `json:"status"`
	Board      [][]game.PlayerMark      `json:"board"`
	History    []MoveView               `json:"history"`
	Next       string                   `json:"next,omitempty"`
	Winner     string                   `json:"winner,omitempty"`
	Players    []PlayerView             `json:"players"`
	Scoreboard map[string]player.Record `json:"scoreboard"`
}

// SessionSummary is returned when a session ends.
type SessionSummary struct {
	SessionID  string                   `json:"session_id"`
	Scoreboard map[string]player.Record `json:"scoreboard"`
	Saved      bool                     `json:"saved"`
}
