package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctchen222/tictactoe/internal/game"
)

// scriptedSource replays fixed indices, wrapping them into range.
type scriptedSource struct {
	picks []int
	calls int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.picks[s.calls%len(s.picks)] % n
	s.calls++
	return v
}

func TestNew(t *testing.T) {
	easy, err := New(Easy, NewSource(1))
	require.NoError(t, err)
	assert.IsType(t, &EasyStrategy{}, easy)

	medium, err := New(Medium, nil)
	require.NoError(t, err)
	assert.IsType(t, &MediumStrategy{}, medium)

	_, err = New("hard", NewSource(1))
	assert.Error(t, err)
}

func TestStrategies_UseInjectedSource(t *testing.T) {
	src := &scriptedSource{picks: []int{4}}
	s, err := New(Easy, src)
	require.NoError(t, err)

	move, ok := s.NextMove(game.NewBoard(), game.PlayerO)
	require.True(t, ok)
	assert.Equal(t, game.NewMove(1, 1, game.PlayerO), move)
	assert.Equal(t, 1, src.calls)

	// Medium takes the center without consulting the source.
	src = &scriptedSource{picks: []int{2}}
	s, err = New(Medium, src)
	require.NoError(t, err)
	move, ok = s.NextMove(game.NewBoard(), game.PlayerO)
	require.True(t, ok)
	assert.Equal(t, game.NewMove(1, 1, game.PlayerO), move)
	assert.Zero(t, src.calls)

	// With the center taken it draws exactly once among the corners.
	board := game.NewBoard()
	require.NoError(t, board.ApplyMove(game.NewMove(1, 1, game.PlayerX)))
	move, ok = s.NextMove(board, game.PlayerO)
	require.True(t, ok)
	assert.Equal(t, game.NewMove(2, 0, game.PlayerO), move)
	assert.Equal(t, 1, src.calls)
}

func TestNewSource_Deterministic(t *testing.T) {
	a, b := NewSource(99), NewSource(99)
	for range 50 {
		assert.Equal(t, a.IntN(9), b.IntN(9))
	}
}
