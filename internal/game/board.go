package game

import "fmt"

// Line is one of the eight triples of positions that win when uniformly marked.
type Line struct {
	Positions [Size][2]int
	Cells     [Size]PlayerMark
}

// EmptyPosition returns the position of the line's single empty cell. ok is false
// unless exactly one cell is empty.
func (l Line) EmptyPosition() (pos [2]int, ok bool) {
	found := 0
	for i, c := range l.Cells {
		if c == None {
			pos = l.Positions[i]
			found++
		}
	}
	return pos, found == 1
}

// Count returns how many cells of the line hold mark.
func (l Line) Count(mark PlayerMark) int {
	n := 0
	for _, c := range l.Cells {
		if c == mark {
			n++
		}
	}
	return n
}

var corners = [4][2]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}}

// Board is the 3x3 grid together with the ordered history of applied moves.
// Cells only change through ApplyMove and Reset, so the number of marked cells
// always equals the length of the history.
type Board struct {
	cells   [Size][Size]PlayerMark
	history []Move
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{history: make([]Move, 0, MaxPlies)}
}

// Reset clears every cell and the move history.
func (b *Board) Reset() {
	b.cells = [Size][Size]PlayerMark{}
	b.history = b.history[:0]
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{cells: b.cells, history: make([]Move, len(b.history), MaxPlies)}
	copy(c.history, b.history)
	return c
}

// Cell returns the mark at (row, col), or None when out of bounds.
func (b *Board) Cell(row, col int) PlayerMark {
	if !InBounds(row, col) {
		return None
	}
	return b.cells[row][col]
}

// IsValidMove reports whether the move is in bounds and targets an empty cell.
func (b *Board) IsValidMove(m Move) bool {
	return InBounds(m.row, m.col) && b.cells[m.row][m.col] == None
}

// ApplyMove records the move and marks its cell. Callers are expected to check
// IsValidMove first; an invalid move leaves the board untouched.
func (b *Board) ApplyMove(m Move) error {
	if !b.IsValidMove(m) || !m.mark.IsPlayer() {
		return fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}
	b.history = append(b.history, m)
	b.cells[m.row][m.col] = m.mark
	return nil
}

// History returns the applied moves in the order they were played.
func (b *Board) History() []Move {
	h := make([]Move, len(b.history))
	copy(h, b.history)
	return h
}

// LastMove returns the most recent move, if any.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	return b.history[len(b.history)-1], true
}

// Plies returns the number of moves played.
func (b *Board) Plies() int {
	return len(b.history)
}

// IsFull reports whether all nine cells have been played.
func (b *Board) IsFull() bool {
	return len(b.history) >= MaxPlies
}

// CheckWin reports whether any line is completely filled with mark.
func (b *Board) CheckWin(mark PlayerMark) bool {
	if !mark.IsPlayer() {
		return false
	}
	for _, l := range b.Lines() {
		if l.Count(mark) == Size {
			return true
		}
	}
	return false
}

// CheckTie reports a full board on which neither mark has won.
func (b *Board) CheckTie(a, c PlayerMark) bool {
	return b.IsFull() && !b.CheckWin(a) && !b.CheckWin(c)
}

// Winner returns the mark owning a completed line, or None.
func (b *Board) Winner() PlayerMark {
	for _, m := range [2]PlayerMark{PlayerX, PlayerO} {
		if b.CheckWin(m) {
			return m
		}
	}
	return None
}

// ValidMoves returns one move per empty cell carrying mark, in row-major order.
func (b *Board) ValidMoves(mark PlayerMark) []Move {
	moves := make([]Move, 0, MaxPlies-len(b.history))
	for r := range Size {
		for c := range Size {
			if b.cells[r][c] == None {
				moves = append(moves, NewMove(r, c, mark))
			}
		}
	}
	return moves
}

// ValidCornerMoves returns the empty corners as moves carrying mark, in the
// order (0,0), (0,2), (2,0), (2,2).
func (b *Board) ValidCornerMoves(mark PlayerMark) []Move {
	moves := make([]Move, 0, len(corners))
	for _, p := range corners {
		if b.cells[p[0]][p[1]] == None {
			moves = append(moves, NewMove(p[0], p[1], mark))
		}
	}
	return moves
}

// Row returns row i left to right.
func (b *Board) Row(i int) [Size]PlayerMark {
	return b.cells[i]
}

// Col returns column j top to bottom.
func (b *Board) Col(j int) [Size]PlayerMark {
	return [Size]PlayerMark{b.cells[0][j], b.cells[1][j], b.cells[2][j]}
}

// DiagonalTopLeftToBottomRight returns (0,0), (1,1), (2,2).
func (b *Board) DiagonalTopLeftToBottomRight() [Size]PlayerMark {
	return [Size]PlayerMark{b.cells[0][0], b.cells[1][1], b.cells[2][2]}
}

// DiagonalTopRightToBottomLeft returns (0,2), (1,1), (2,0).
func (b *Board) DiagonalTopRightToBottomLeft() [Size]PlayerMark {
	return [Size]PlayerMark{b.cells[0][2], b.cells[1][1], b.cells[2][0]}
}

// Lines returns all eight lines in the fixed scan order: columns 0..2, rows 0..2,
// the main diagonal, then the anti-diagonal.
func (b *Board) Lines() []Line {
	lines := make([]Line, 0, 2*Size+2)
	for j := range Size {
		lines = append(lines, Line{
			Positions: [Size][2]int{{0, j}, {1, j}, {2, j}},
			Cells:     b.Col(j),
		})
	}
	for i := range Size {
		lines = append(lines, Line{
			Positions: [Size][2]int{{i, 0}, {i, 1}, {i, 2}},
			Cells:     b.Row(i),
		})
	}
	lines = append(lines,
		Line{
			Positions: [Size][2]int{{0, 0}, {1, 1}, {2, 2}},
			Cells:     b.DiagonalTopLeftToBottomRight(),
		},
		Line{
			Positions: [Size][2]int{{0, 2}, {1, 1}, {2, 0}},
			Cells:     b.DiagonalTopRightToBottomLeft(),
		},
	)
	return lines
}

// BoardAsStrings converts the board to a slice of slices for serialization.
func (b *Board) BoardAsStrings() [][]PlayerMark {
	board := make([][]PlayerMark, Size)
	for i := range Size {
		board[i] = make([]PlayerMark, Size)
		copy(board[i], b.cells[i][:])
	}
	return board
}
