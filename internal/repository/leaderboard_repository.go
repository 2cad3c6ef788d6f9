package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"

	"ctchen222/tictactoe/internal/player"
)

var tracer = otel.Tracer("repository.leaderboard")

// ErrMalformedRecord is returned when a stored record cannot be decoded.
var ErrMalformedRecord = errors.New("malformed leaderboard record")

//go:generate mockgen -source=leaderboard_repository.go -destination=mocks/mock_leaderboard_repository.go -package=mocks

// LeaderboardRepository defines the interface for persisted player totals.
type LeaderboardRepository interface {
	// Load returns every stored record keyed by username.
	Load(ctx context.Context) (map[string]player.Record, error)
	// Save writes the given totals, replacing stored values for those usernames.
	Save(ctx context.Context, records map[string]player.Record) error
}
