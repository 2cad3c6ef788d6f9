package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/repository"
)

var tracer = otel.Tracer("leaderboard")

// ErrPersistenceWrite wraps failures to store merged results.
var ErrPersistenceWrite = errors.New("failed to persist leaderboard")

// DefaultTopN is the number of standings shown by default.
const DefaultTopN = 5

// Standing is one row of the leaderboard.
type Standing struct {
	Rank     int           `json:"rank"`
	Username string        `json:"username"`
	Record   player.Record `json:"record"`
}

// Service loads, merges and saves persisted player totals.
type Service struct {
	repo repository.LeaderboardRepository
}

// NewService creates a leaderboard service over repo.
func NewService(repo repository.LeaderboardRepository) *Service {
	return &Service{repo: repo}
}

// Load returns the persisted totals. A read failure is logged and treated as an
// empty leaderboard.
func (s *Service) Load(ctx context.Context) map[string]player.Record {
	ctx, span := tracer.Start(ctx, "leaderboard.Load")
	defer span.End()

	records, err := s.repo.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "could not read leaderboard, starting from empty", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "leaderboard read failed")
		return map[string]player.Record{}
	}
	if records == nil {
		records = map[string]player.Record{}
	}
	return records
}

// RecordSession adds a session's results to the persisted totals and saves the
// affected players. It returns the merged leaderboard even when saving fails.
func (s *Service) RecordSession(ctx context.Context, results map[string]player.Record) (map[string]player.Record, error) {
	ctx, span := tracer.Start(ctx, "leaderboard.RecordSession", trace.WithAttributes(
		attribute.Int("session.players", len(results)),
	))
	defer span.End()

	merged, err := Merge(s.Load(ctx), results)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid session results")
		return nil, err
	}

	changed := make(map[string]player.Record, len(results))
	for username := range results {
		changed[username] = merged[username]
	}
	if err := s.repo.Save(ctx, changed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "leaderboard write failed")
		return merged, fmt.Errorf("%w: %w", ErrPersistenceWrite, err)
	}
	return merged, nil
}

// Top returns the n best standings by wins. Equal win counts are ordered by
// username.
func (s *Service) Top(ctx context.Context, n int) []Standing {
	return Rank(s.Load(ctx), n)
}

// Merge returns persisted plus session, adding counts for known usernames and
// inserting new ones. Neither input is modified.
func Merge(persisted, session map[string]player.Record) (map[string]player.Record, error) {
	merged := make(map[string]player.Record, len(persisted)+len(session))
	for username, rec := range persisted {
		merged[username] = rec
	}
	for username, delta := range session {
		rec := merged[username]
		if err := rec.Merge(delta); err != nil {
			return nil, fmt.Errorf("player %q: %w", username, err)
		}
		merged[username] = rec
	}
	return merged, nil
}

// Rank orders records by wins descending and keeps at most n of them. A
// non-positive n keeps everything.
func Rank(records map[string]player.Record, n int) []Standing {
	standings := make([]Standing, 0, len(records))
	for username, rec := range records {
		standings = append(standings, Standing{Username: username, Record: rec})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Record.Wins != standings[j].Record.Wins {
			return standings[i].Record.Wins > standings[j].Record.Wins
		}
		return standings[i].Username < standings[j].Username
	})
	if n > 0 && len(standings) > n {
		standings = standings[:n]
	}
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
