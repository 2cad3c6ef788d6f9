package game

import "fmt"

// Move is a mark placed at a position. Bounds are checked by Board, not here,
// so a Move on its own may point outside the board.
type Move struct {
	row  int
	col  int
	mark PlayerMark
}

func NewMove(row, col int, mark PlayerMark) Move {
	return Move{row: row, col: col, mark: mark}
}

func (m Move) Row() int         { return m.row }
func (m Move) Col() int         { return m.col }
func (m Move) Mark() PlayerMark { return m.mark }

// Position returns the move's coordinates as a (row, col) pair.
func (m Move) Position() [2]int {
	return [2]int{m.row, m.col}
}

func (m Move) String() string {
	return fmt.Sprintf("%s@(%d,%d)", m.mark, m.row, m.col)
}
