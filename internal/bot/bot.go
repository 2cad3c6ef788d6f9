package bot

import (
	"fmt"
	"math/rand/v2"
	"time"

	"ctchen222/tictactoe/internal/game"
)

// Difficulty selects a computer strategy.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
)

// Source is the random source strategies draw from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed source. A zero seed is replaced by the clock.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Strategy decides a computer player's next move. ok is false when the board
// has no empty cell left.
type Strategy interface {
	NextMove(board *game.Board, mark game.PlayerMark) (move game.Move, ok bool)
}

// New returns the strategy for the given difficulty.
func New(difficulty Difficulty, src Source) (Strategy, error) {
	if src == nil {
		src = NewSource(0)
	}
	switch difficulty {
	case Easy:
		return &EasyStrategy{src: src}, nil
	case Medium:
		return &MediumStrategy{src: src}, nil
	default:
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
}
