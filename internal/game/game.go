package game

import "errors"

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2

	// Size is the number of rows and columns on the board.
	Size = BorderMax - BorderMin + 1
	// MaxPlies is the number of moves that fill the board.
	MaxPlies = Size * Size
)

var (
	// ErrInvalidMove is returned for out-of-range coordinates or an occupied cell.
	ErrInvalidMove = errors.New("invalid move")
	// ErrNoMoveAvailable is returned when a move is requested on a full board.
	ErrNoMoveAvailable = errors.New("no move available")
)

// IsPlayer reports whether m is X or O.
func (m PlayerMark) IsPlayer() bool {
	return m == PlayerX || m == PlayerO
}

// Opponent returns the other mark of the {X, O} pair. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	}
	return None
}

func (m PlayerMark) String() string {
	if m == None {
		return " "
	}
	return string(m)
}

// ParseMark converts "X" or "O" into a PlayerMark.
func ParseMark(s string) (PlayerMark, bool) {
	m := PlayerMark(s)
	return m, m.IsPlayer()
}

// InBounds reports whether (row, col) addresses a cell on the board.
func InBounds(row, col int) bool {
	return row >= BorderMin && row <= BorderMax && col >= BorderMin && col <= BorderMax
}
