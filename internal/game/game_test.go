package game

import (
	"errors"
	"testing"
)

// boardFrom builds a board from three row strings using 'X', 'O' and ' '.
func boardFrom(t *testing.T, rows [3]string) *Board {
	t.Helper()
	b := NewBoard()
	for r, row := range rows {
		for c, ch := range row {
			if ch == ' ' {
				continue
			}
			if err := b.ApplyMove(NewMove(r, c, PlayerMark(string(ch)))); err != nil {
				t.Fatalf("boardFrom: %v", err)
			}
		}
	}
	return b
}

func TestCheckWin(t *testing.T) {
	tests := []struct {
		name  string
		board [3]string
		mark  PlayerMark
		want  bool
	}{
		{name: "No winner - empty board", board: [3]string{"   ", "   ", "   "}, mark: PlayerX, want: false},
		{name: "No winner - partial board", board: [3]string{"X  ", " O ", "   "}, mark: PlayerX, want: false},
		{name: "X wins - first row", board: [3]string{"XXX", " O ", "  O"}, mark: PlayerX, want: true},
		{name: "O wins - second column", board: [3]string{"XO ", "XO ", " O "}, mark: PlayerO, want: true},
		{name: "X wins - main diagonal", board: [3]string{"X  ", " X ", "  X"}, mark: PlayerX, want: true},
		{name: "O wins - anti-diagonal", board: [3]string{"  O", " O ", "O  "}, mark: PlayerO, want: true},
		{name: "Other mark does not win", board: [3]string{"XXX", "OO ", "   "}, mark: PlayerO, want: false},
		{name: "Empty never wins", board: [3]string{"   ", "   ", "   "}, mark: None, want: false},
		{name: "Full board, no winner", board: [3]string{"XOX", "XOO", "OXX"}, mark: PlayerX, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, tt.board)
			if got := b.CheckWin(tt.mark); got != tt.want {
				t.Errorf("CheckWin(%q) got = %v, want %v", tt.mark, got, tt.want)
			}
		})
	}
}

func TestCheckTie(t *testing.T) {
	tests := []struct {
		name  string
		board [3]string
		want  bool
	}{
		{name: "Empty board is not a tie", board: [3]string{"   ", "   ", "   "}, want: false},
		{name: "Partial board is not a tie", board: [3]string{"XOX", "XOO", "OX "}, want: false},
		{name: "Full board without a line is a tie", board: [3]string{"XOX", "XOO", "OXX"}, want: true},
		{name: "Full board with a winner is not a tie", board: [3]string{"XXX", "OOX", "OXO"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, tt.board)
			if got := b.CheckTie(PlayerX, PlayerO); got != tt.want {
				t.Errorf("CheckTie() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidMove(t *testing.T) {
	b := boardFrom(t, [3]string{"X  ", "   ", "   "})

	tests := []struct {
		name     string
		row, col int
		want     bool
	}{
		{name: "empty in-bounds cell", row: 1, col: 1, want: true},
		{name: "occupied cell", row: 0, col: 0, want: false},
		{name: "negative row", row: -1, col: 0, want: false},
		{name: "negative col", row: 0, col: -1, want: false},
		{name: "row too large", row: 3, col: 0, want: false},
		{name: "col too large", row: 0, col: 3, want: false},
		{name: "far out of range", row: 100, col: -100, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.IsValidMove(NewMove(tt.row, tt.col, PlayerO)); got != tt.want {
				t.Errorf("IsValidMove(%d, %d) got = %v, want %v", tt.row, tt.col, got, tt.want)
			}
		})
	}
}

func TestApplyMove(t *testing.T) {
	b := NewBoard()
	if err := b.ApplyMove(NewMove(1, 2, PlayerX)); err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}
	if got := b.Cell(1, 2); got != PlayerX {
		t.Errorf("Cell(1, 2) got = %q, want %q", got, PlayerX)
	}
	if b.Plies() != 1 {
		t.Errorf("Plies() got = %d, want 1", b.Plies())
	}

	if err := b.ApplyMove(NewMove(1, 2, PlayerO)); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("ApplyMove on occupied cell got err = %v, want ErrInvalidMove", err)
	}
	if err := b.ApplyMove(NewMove(3, 0, PlayerO)); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("ApplyMove out of bounds got err = %v, want ErrInvalidMove", err)
	}
	if err := b.ApplyMove(NewMove(0, 0, None)); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("ApplyMove with empty mark got err = %v, want ErrInvalidMove", err)
	}
	if got := b.Cell(1, 2); got != PlayerX {
		t.Errorf("rejected move reassigned cell: got %q", got)
	}
	if b.Plies() != 1 {
		t.Errorf("rejected moves changed history: Plies() = %d", b.Plies())
	}

	last, ok := b.LastMove()
	if !ok || last != NewMove(1, 2, PlayerX) {
		t.Errorf("LastMove() got = %v, %v", last, ok)
	}
}

func TestValidMoves_EmptyBoard(t *testing.T) {
	b := NewBoard()
	moves := b.ValidMoves(PlayerX)
	if len(moves) != 9 {
		t.Fatalf("ValidMoves() on empty board got %d moves, want 9", len(moves))
	}
	i := 0
	for r := range 3 {
		for c := range 3 {
			want := NewMove(r, c, PlayerX)
			if moves[i] != want {
				t.Errorf("ValidMoves()[%d] got = %v, want %v", i, moves[i], want)
			}
			i++
		}
	}
}

func TestValidMoves_FullBoard(t *testing.T) {
	b := boardFrom(t, [3]string{"XOX", "XOO", "OXX"})
	if moves := b.ValidMoves(PlayerO); len(moves) != 0 {
		t.Errorf("ValidMoves() on full board got %v, want none", moves)
	}
	if moves := b.ValidCornerMoves(PlayerO); len(moves) != 0 {
		t.Errorf("ValidCornerMoves() on full board got %v, want none", moves)
	}
}

func TestValidCornerMoves(t *testing.T) {
	b := boardFrom(t, [3]string{"X O", " X ", "   "})
	got := b.ValidCornerMoves(PlayerO)
	want := []Move{NewMove(2, 0, PlayerO), NewMove(2, 2, PlayerO)}
	if len(got) != len(want) {
		t.Fatalf("ValidCornerMoves() got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ValidCornerMoves()[%d] got = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLineAccessors(t *testing.T) {
	b := boardFrom(t, [3]string{"XO ", "OXX", " OO"})

	if got, want := b.Row(1), [3]PlayerMark{PlayerO, PlayerX, PlayerX}; got != want {
		t.Errorf("Row(1) got = %v, want %v", got, want)
	}
	if got, want := b.Col(0), [3]PlayerMark{PlayerX, PlayerO, None}; got != want {
		t.Errorf("Col(0) got = %v, want %v", got, want)
	}
	if got, want := b.DiagonalTopLeftToBottomRight(), [3]PlayerMark{PlayerX, PlayerX, PlayerO}; got != want {
		t.Errorf("DiagonalTopLeftToBottomRight() got = %v, want %v", got, want)
	}
	if got, want := b.DiagonalTopRightToBottomLeft(), [3]PlayerMark{None, PlayerX, None}; got != want {
		t.Errorf("DiagonalTopRightToBottomLeft() got = %v, want %v", got, want)
	}

	lines := b.Lines()
	if len(lines) != 8 {
		t.Fatalf("Lines() got %d lines, want 8", len(lines))
	}
	for i, l := range lines {
		for k, p := range l.Positions {
			if got := b.Cell(p[0], p[1]); got != l.Cells[k] {
				t.Errorf("line %d cell %d at %v got = %q, want %q", i, k, p, l.Cells[k], got)
			}
		}
	}
	if lines[0].Positions[0] != [2]int{0, 0} || lines[3].Positions[0] != [2]int{0, 0} || lines[3].Positions[2] != [2]int{0, 2} {
		t.Errorf("Lines() not in column, row, diagonal order: %v", lines)
	}
}

func TestReset(t *testing.T) {
	b := boardFrom(t, [3]string{"XOX", "XOO", "OXX"})
	b.Reset()

	fresh := NewBoard()
	if len(b.History()) != 0 || b.Plies() != 0 {
		t.Fatalf("Reset() left history behind: %v", b.History())
	}
	for r := range 3 {
		for c := range 3 {
			if b.Cell(r, c) != fresh.Cell(r, c) {
				t.Errorf("Reset() cell (%d, %d) = %q, want empty", r, c, b.Cell(r, c))
			}
		}
	}
	if b.IsFull() || b.CheckTie(PlayerX, PlayerO) || len(b.ValidMoves(PlayerX)) != 9 {
		t.Errorf("Reset() board does not behave like a new board")
	}
}

func TestNineMovesWithoutWinnerIsTie(t *testing.T) {
	b := NewBoard()
	order := []Move{
		NewMove(0, 0, PlayerX), NewMove(0, 1, PlayerO), NewMove(0, 2, PlayerX),
		NewMove(1, 1, PlayerO), NewMove(1, 0, PlayerX), NewMove(1, 2, PlayerO),
		NewMove(2, 1, PlayerX), NewMove(2, 0, PlayerO), NewMove(2, 2, PlayerX),
	}
	for i, m := range order {
		if !b.IsValidMove(m) {
			t.Fatalf("move %d (%v) unexpectedly invalid", i, m)
		}
		if err := b.ApplyMove(m); err != nil {
			t.Fatalf("ApplyMove(%v): %v", m, err)
		}
	}
	if !b.IsFull() {
		t.Error("IsFull() got = false after nine moves")
	}
	if !b.CheckTie(PlayerX, PlayerO) {
		t.Error("CheckTie() got = false after nine moves with no winner")
	}
}

// winsByDefinition checks the eight lines directly from cell coordinates.
func winsByDefinition(b *Board, m PlayerMark) bool {
	lines := [8][3][2]int{
		{{0, 0}, {0, 1}, {0, 2}}, {{1, 0}, {1, 1}, {1, 2}}, {{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}}, {{0, 1}, {1, 1}, {2, 1}}, {{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}}, {{0, 2}, {1, 1}, {2, 0}},
	}
	for _, l := range lines {
		if b.Cell(l[0][0], l[0][1]) == m && b.Cell(l[1][0], l[1][1]) == m && b.Cell(l[2][0], l[2][1]) == m {
			return true
		}
	}
	return false
}

// TestReachableBoards walks every board reachable by alternating play and checks
// the win, tie and history invariants on each of them.
func TestReachableBoards(t *testing.T) {
	visited := 0
	var walk func(b *Board, turn PlayerMark)
	walk = func(b *Board, turn PlayerMark) {
		visited++
		marked := 0
		for r := range 3 {
			for c := range 3 {
				if b.Cell(r, c) != None {
					marked++
				}
			}
		}
		if marked != len(b.History()) {
			t.Fatalf("marked cells %d != history length %d", marked, len(b.History()))
		}
		xWin, oWin := b.CheckWin(PlayerX), b.CheckWin(PlayerO)
		if xWin != winsByDefinition(b, PlayerX) || oWin != winsByDefinition(b, PlayerO) {
			t.Fatalf("CheckWin disagrees with line definition on %v", b.BoardAsStrings())
		}
		tie := b.CheckTie(PlayerX, PlayerO)
		if tie != (b.IsFull() && !xWin && !oWin) {
			t.Fatalf("CheckTie inconsistent on %v", b.BoardAsStrings())
		}
		if tie && (xWin || oWin) {
			t.Fatalf("tie and win at once on %v", b.BoardAsStrings())
		}
		if xWin || oWin {
			return
		}
		for _, m := range b.ValidMoves(turn) {
			next := b.Clone()
			if err := next.ApplyMove(m); err != nil {
				t.Fatalf("ApplyMove(%v): %v", m, err)
			}
			walk(next, turn.Opponent())
		}
	}
	walk(NewBoard(), PlayerX)
	if visited < 5478 {
		t.Errorf("visited %d positions, expected the full game tree", visited)
	}
}

func TestPlayerMark_Opponent(t *testing.T) {
	if PlayerX.Opponent() != PlayerO || PlayerO.Opponent() != PlayerX || None.Opponent() != None {
		t.Error("Opponent() returned an unexpected mark")
	}
}
