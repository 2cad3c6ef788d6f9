package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ctchen222/tictactoe/internal/player"
)

const (
	leaderboardPlayersKey = "leaderboard:players"

	fieldWins   = "wins"
	fieldLosses = "losses"
	fieldTies   = "ties"
)

func leaderboardPlayerKey(username string) string {
	return fmt.Sprintf("leaderboard:player:%s", username)
}

type redisLeaderboardRepository struct {
	rdb *redis.Client
}

// NewRedisLeaderboardRepository creates a new Redis-based LeaderboardRepository.
func NewRedisLeaderboardRepository(rdb *redis.Client) LeaderboardRepository {
	return &redisLeaderboardRepository{rdb: rdb}
}

// Load reads the set of known players and then each player's hash.
func (r *redisLeaderboardRepository) Load(ctx context.Context) (map[string]player.Record, error) {
	ctx, span := tracer.Start(ctx, "LeaderboardRepository.Redis.Load")
	defer span.End()

	usernames, err := r.rdb.SMembers(ctx, leaderboardPlayersKey).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list leaderboard players")
		return nil, fmt.Errorf("failed to list leaderboard players: %w", err)
	}

	pipe := r.rdb.Pipeline()
	cmds := make(map[string]*redis.StringStringMapCmd, len(usernames))
	for _, username := range usernames {
		cmds[username] = pipe.HGetAll(ctx, leaderboardPlayerKey(username))
	}
	if len(cmds) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read leaderboard records")
			return nil, fmt.Errorf("failed to read leaderboard records: %w", err)
		}
	}

	records := make(map[string]player.Record, len(usernames))
	for username, cmd := range cmds {
		rec, err := decodeRecord(cmd.Val())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "malformed leaderboard record")
			return nil, fmt.Errorf("player %q: %w", username, err)
		}
		records[username] = rec
	}
	span.SetAttributes(attribute.Int("leaderboard.players", len(records)))
	return records, nil
}

// Save writes all records in a single transaction.
func (r *redisLeaderboardRepository) Save(ctx context.Context, records map[string]player.Record) error {
	ctx, span := tracer.Start(ctx, "LeaderboardRepository.Redis.Save")
	defer span.End()
	span.SetAttributes(attribute.Int("leaderboard.players", len(records)))

	if len(records) == 0 {
		return nil
	}

	pipe := r.rdb.TxPipeline()
	for username, rec := range records {
		pipe.SAdd(ctx, leaderboardPlayersKey, username)
		pipe.HSet(ctx, leaderboardPlayerKey(username),
			fieldWins, rec.Wins,
			fieldLosses, rec.Losses,
			fieldTies, rec.Ties,
		)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save leaderboard")
		return fmt.Errorf("failed to save leaderboard in redis: %w", err)
	}
	return nil
}

func decodeRecord(fields map[string]string) (player.Record, error) {
	var rec player.Record
	for field, dst := range map[string]*int{
		fieldWins:   &rec.Wins,
		fieldLosses: &rec.Losses,
		fieldTies:   &rec.Ties,
	} {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return player.Record{}, fmt.Errorf("%w: %s=%q", ErrMalformedRecord, field, raw)
		}
		*dst = n
	}
	return rec, nil
}
