package player

import (
	"errors"
	"fmt"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"
)

// Kind tags the player variant.
type Kind string

const (
	Human          Kind = "human"
	EasyComputer   Kind = "easy"
	MediumComputer Kind = "medium"
)

// ErrUnknownKind is returned for a kind outside {human, easy, medium}.
var ErrUnknownKind = errors.New("unknown player kind")

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Human, EasyComputer, MediumComputer:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IsComputer reports whether the kind is driven by a strategy.
func (k Kind) IsComputer() bool {
	return k == EasyComputer || k == MediumComputer
}

// Player represents a participant in a match. Computer players keep no state
// between moves; every decision is computed from the board passed in.
type Player struct {
	Username string
	Mark     game.PlayerMark
	Kind     Kind
	Record   Record

	strategy bot.Strategy
}

// NewHuman creates a human player.
func NewHuman(username string, mark game.PlayerMark) *Player {
	return &Player{Username: username, Mark: mark, Kind: Human}
}

// NewComputer creates a computer player whose strategy draws from src.
func NewComputer(username string, mark game.PlayerMark, kind Kind, src bot.Source) (*Player, error) {
	var difficulty bot.Difficulty
	switch kind {
	case EasyComputer:
		difficulty = bot.Easy
	case MediumComputer:
		difficulty = bot.Medium
	default:
		return nil, fmt.Errorf("%w: %q is not a computer kind", ErrUnknownKind, kind)
	}
	strategy, err := bot.New(difficulty, src)
	if err != nil {
		return nil, err
	}
	return &Player{Username: username, Mark: mark, Kind: kind, strategy: strategy}, nil
}

// New creates a player of any kind.
func New(username string, mark game.PlayerMark, kind Kind, src bot.Source) (*Player, error) {
	if kind == Human {
		return NewHuman(username, mark), nil
	}
	return NewComputer(username, mark, kind, src)
}

// IsComputer reports whether the player picks its own moves.
func (p *Player) IsComputer() bool {
	return p.strategy != nil
}

// NextMove asks a computer player for its move on board. ok is false for human
// players and when no empty cell remains.
func (p *Player) NextMove(board *game.Board) (move game.Move, ok bool) {
	if p.strategy == nil {
		return game.Move{}, false
	}
	return p.strategy.NextMove(board, p.Mark)
}

func (p *Player) String() string {
	return fmt.Sprintf("%s(%s, %s)", p.Username, p.Mark, p.Kind)
}
