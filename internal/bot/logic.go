package bot

import (
	"ctchen222/tictactoe/internal/game"
)

// EasyStrategy picks uniformly among the empty cells.
type EasyStrategy struct {
	src Source
}

func (s *EasyStrategy) NextMove(board *game.Board, mark game.PlayerMark) (game.Move, bool) {
	return pickRandom(s.src, board.ValidMoves(mark))
}

// MediumStrategy will win if it can, block if it must, then prefers the center,
// a random corner, and finally any random cell.
type MediumStrategy struct {
	src Source
}

func (s *MediumStrategy) NextMove(board *game.Board, mark game.PlayerMark) (game.Move, bool) {
	// 1. Win: complete a line holding two of our marks
	if move, ok := findCompletingMove(board, mark, mark); ok {
		return move, true
	}

	// 2. Block: occupy the gap in a line holding two opponent marks
	if move, ok := findCompletingMove(board, mark.Opponent(), mark); ok {
		return move, true
	}

	// 3. Center
	center := game.NewMove(1, 1, mark)
	if board.IsValidMove(center) {
		return center, true
	}

	// 4. Corners
	if move, ok := pickRandom(s.src, board.ValidCornerMoves(mark)); ok {
		return move, true
	}

	// 5. Anything left
	return pickRandom(s.src, board.ValidMoves(mark))
}

// findCompletingMove scans lines in board order for one with exactly two cells
// holding target and one empty cell, and returns a move by mark at the gap.
func findCompletingMove(board *game.Board, target, mark game.PlayerMark) (game.Move, bool) {
	if !target.IsPlayer() {
		return game.Move{}, false
	}
	for _, line := range board.Lines() {
		if line.Count(target) != 2 {
			continue
		}
		if pos, ok := line.EmptyPosition(); ok {
			return game.NewMove(pos[0], pos[1], mark), true
		}
	}
	return game.Move{}, false
}

func pickRandom(src Source, moves []game.Move) (game.Move, bool) {
	if len(moves) == 0 {
		return game.Move{}, false
	}
	return moves[src.IntN(len(moves))], true
}
