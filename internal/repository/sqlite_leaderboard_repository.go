package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ctchen222/tictactoe/internal/player"
)

type standingRow struct {
	Username string `db:"username"`
	player.Record
}

type sqliteLeaderboardRepository struct {
	db *sqlx.DB
}

// NewSQLiteLeaderboardRepository creates a new SQLite-based LeaderboardRepository.
func NewSQLiteLeaderboardRepository(db *sqlx.DB) LeaderboardRepository {
	return &sqliteLeaderboardRepository{db: db}
}

func (r *sqliteLeaderboardRepository) Load(ctx context.Context) (map[string]player.Record, error) {
	ctx, span := tracer.Start(ctx, "LeaderboardRepository.SQLite.Load")
	defer span.End()

	var rows []standingRow
	query := `SELECT username, wins, losses, ties FROM leaderboard`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load leaderboard")
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	records := make(map[string]player.Record, len(rows))
	for _, row := range rows {
		if row.Wins < 0 || row.Losses < 0 || row.Ties < 0 {
			return nil, fmt.Errorf("player %q: %w", row.Username, ErrMalformedRecord)
		}
		records[row.Username] = row.Record
	}
	span.SetAttributes(attribute.Int("leaderboard.players", len(records)))
	return records, nil
}

func (r *sqliteLeaderboardRepository) Save(ctx context.Context, records map[string]player.Record) error {
	ctx, span := tracer.Start(ctx, "LeaderboardRepository.SQLite.Save")
	defer span.End()
	span.SetAttributes(attribute.Int("leaderboard.players", len(records)))

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to begin leaderboard transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `
		INSERT INTO leaderboard (username, wins, losses, ties)
		VALUES (:username, :wins, :losses, :ties)
		ON CONFLICT(username) DO UPDATE SET
			wins = excluded.wins,
			losses = excluded.losses,
			ties = excluded.ties`
	for username, rec := range records {
		if _, err := tx.NamedExecContext(ctx, query, standingRow{Username: username, Record: rec}); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to save leaderboard")
			return fmt.Errorf("failed to save record for %q: %w", username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to commit leaderboard: %w", err)
	}
	return nil
}
