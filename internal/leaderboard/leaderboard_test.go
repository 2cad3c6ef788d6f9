package leaderboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/repository/mocks"
)

func TestMerge(t *testing.T) {
	persisted := map[string]player.Record{
		"alice": {Wins: 5, Losses: 2, Ties: 1},
		"bob":   {Wins: 1},
	}
	session := map[string]player.Record{
		"alice": {Wins: 1, Ties: 2},
		"carol": {Losses: 1},
	}

	merged, err := Merge(persisted, session)
	require.NoError(t, err)

	assert.Equal(t, map[string]player.Record{
		"alice": {Wins: 6, Losses: 2, Ties: 3},
		"bob":   {Wins: 1},
		"carol": {Losses: 1},
	}, merged)
	assert.Equal(t, player.Record{Wins: 5, Losses: 2, Ties: 1}, persisted["alice"], "inputs are not modified")
	assert.NotContains(t, persisted, "carol")
}

func TestMerge_RejectsNegativeDeltas(t *testing.T) {
	_, err := Merge(nil, map[string]player.Record{"alice": {Wins: -1}})
	assert.ErrorIs(t, err, player.ErrNegativeDelta)
}

func TestRank(t *testing.T) {
	records := map[string]player.Record{
		"alice": {Wins: 3},
		"bob":   {Wins: 7},
		"carol": {Wins: 3},
		"dave":  {Wins: 1},
		"erin":  {Wins: 0},
		"frank": {Wins: 9},
	}

	top := Rank(records, DefaultTopN)
	require.Len(t, top, 5)

	var names []string
	for i, s := range top {
		assert.Equal(t, i+1, s.Rank)
		names = append(names, s.Username)
	}
	assert.Equal(t, []string{"frank", "bob", "alice", "carol", "dave"}, names)
	assert.Len(t, Rank(records, 0), 6)
	assert.Empty(t, Rank(nil, 5))
}

func TestService_LoadFallsBackToEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLeaderboardRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("file missing"))

	records := NewService(repo).Load(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestService_RecordSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLeaderboardRepository(ctrl)

	repo.EXPECT().Load(gomock.Any()).Return(map[string]player.Record{
		"alice": {Wins: 2},
		"zed":   {Losses: 4},
	}, nil)
	repo.EXPECT().Save(gomock.Any(), map[string]player.Record{
		"alice": {Wins: 3},
		"bob":   {Losses: 1},
	}).Return(nil)

	merged, err := NewService(repo).RecordSession(context.Background(), map[string]player.Record{
		"alice": {Wins: 1},
		"bob":   {Losses: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]player.Record{
		"alice": {Wins: 3},
		"bob":   {Losses: 1},
		"zed":   {Losses: 4},
	}, merged)
}

func TestService_RecordSession_ReadFailureStillSaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLeaderboardRepository(ctrl)

	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("corrupt"))
	repo.EXPECT().Save(gomock.Any(), map[string]player.Record{"alice": {Ties: 1}}).Return(nil)

	merged, err := NewService(repo).RecordSession(context.Background(), map[string]player.Record{"alice": {Ties: 1}})
	require.NoError(t, err)
	assert.Equal(t, map[string]player.Record{"alice": {Ties: 1}}, merged)
}

func TestService_RecordSession_WriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLeaderboardRepository(ctrl)

	repo.EXPECT().Load(gomock.Any()).Return(map[string]player.Record{}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	merged, err := NewService(repo).RecordSession(context.Background(), map[string]player.Record{"alice": {Wins: 1}})
	assert.ErrorIs(t, err, ErrPersistenceWrite)
	assert.Equal(t, map[string]player.Record{"alice": {Wins: 1}}, merged)
}

func TestService_Top(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLeaderboardRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(map[string]player.Record{
		"alice": {Wins: 1},
		"bob":   {Wins: 2},
	}, nil)

	top := NewService(repo).Top(context.Background(), 1)
	require.Len(t, top, 1)
	assert.Equal(t, "bob", top[0].Username)
}
