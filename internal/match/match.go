package match

import (
	"errors"
	"fmt"

	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/player"
)

// Status is the phase of a single match.
type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Won        Status = "won"
	Tied       Status = "tied"
)

var (
	ErrInvalidLineup   = errors.New("invalid lineup")
	ErrNotStarted      = errors.New("match not started")
	ErrMatchOver       = errors.New("match already finished")
	ErrNotHumanTurn    = errors.New("current player is not human")
	ErrNotComputerTurn = errors.New("current player is not a computer")
)

// Result describes the effect of one applied move.
type Result struct {
	Move   game.Move
	Player *player.Player
	Status Status
	// Winner is set when Status is Won.
	Winner *player.Player
	// Next is the player to move when Status is InProgress.
	Next *player.Player
}

// GameState runs one match at a time between two players on a board it owns.
// It is not safe for concurrent use.
type GameState struct {
	playerOne *player.Player
	playerTwo *player.Player
	current   *player.Player
	winner    *player.Player
	board     *game.Board
	status    Status
}

// New validates the lineup and returns a match that has not started yet.
func New(one, two *player.Player) (*GameState, error) {
	if one == nil || two == nil {
		return nil, fmt.Errorf("%w: two players are required", ErrInvalidLineup)
	}
	if one.Username == "" || two.Username == "" {
		return nil, fmt.Errorf("%w: usernames must not be empty", ErrInvalidLineup)
	}
	if one.Username == two.Username {
		return nil, fmt.Errorf("%w: duplicate username %q", ErrInvalidLineup, one.Username)
	}
	if !one.Mark.IsPlayer() || one.Mark.Opponent() != two.Mark {
		return nil, fmt.Errorf("%w: players need opposite marks, got %q and %q", ErrInvalidLineup, one.Mark, two.Mark)
	}
	return &GameState{
		playerOne: one,
		playerTwo: two,
		board:     game.NewBoard(),
		status:    NotStarted,
	}, nil
}

// Start begins the match with player one to move.
func (g *GameState) Start() {
	if g.status != NotStarted {
		return
	}
	g.current = g.playerOne
	g.status = InProgress
}

// Reset clears the board for a rematch; player one moves first again.
// Player records are kept.
func (g *GameState) Reset() {
	g.board.Reset()
	g.winner = nil
	g.current = g.playerOne
	g.status = InProgress
}

func (g *GameState) PlayerOne() *player.Player { return g.playerOne }
func (g *GameState) PlayerTwo() *player.Player { return g.playerTwo }
func (g *GameState) Status() Status            { return g.status }

// Current returns the player to move, or nil before Start.
func (g *GameState) Current() *player.Player { return g.current }

// Winner returns the winning player once the match is won.
func (g *GameState) Winner() *player.Player { return g.winner }

// Opponent returns the player who is not currently to move.
func (g *GameState) Opponent() *player.Player {
	if g.current == g.playerOne {
		return g.playerTwo
	}
	return g.playerOne
}

// Board returns a copy of the board.
func (g *GameState) Board() *game.Board {
	return g.board.Clone()
}

// Player returns the match participant with the given username.
func (g *GameState) Player(username string) (*player.Player, bool) {
	switch username {
	case g.playerOne.Username:
		return g.playerOne, true
	case g.playerTwo.Username:
		return g.playerTwo, true
	}
	return nil, false
}

// AttemptMove plays the current human player's mark at (row, col).
func (g *GameState) AttemptMove(row, col int) (Result, error) {
	if err := g.ensureInProgress(); err != nil {
		return Result{}, err
	}
	if g.current.IsComputer() {
		return Result{}, ErrNotHumanTurn
	}
	move := game.NewMove(row, col, g.current.Mark)
	if !g.board.IsValidMove(move) {
		return Result{}, fmt.Errorf("%w: (%d, %d)", game.ErrInvalidMove, row, col)
	}
	return g.apply(move)
}

// RequestComputerMove lets the current computer player choose and play a move.
func (g *GameState) RequestComputerMove() (Result, error) {
	if err := g.ensureInProgress(); err != nil {
		return Result{}, err
	}
	if !g.current.IsComputer() {
		return Result{}, ErrNotComputerTurn
	}
	move, ok := g.current.NextMove(g.board)
	if !ok {
		return Result{}, game.ErrNoMoveAvailable
	}
	if !g.board.IsValidMove(move) {
		return Result{}, fmt.Errorf("%w: computer chose %s", game.ErrInvalidMove, move)
	}
	return g.apply(move)
}

// Scoreboard returns a snapshot of both players' records keyed by username.
// The returned records are copies.
func (g *GameState) Scoreboard() map[string]player.Record {
	return map[string]player.Record{
		g.playerOne.Username: g.playerOne.Record,
		g.playerTwo.Username: g.playerTwo.Record,
	}
}

func (g *GameState) ensureInProgress() error {
	switch g.status {
	case NotStarted:
		return ErrNotStarted
	case Won, Tied:
		return ErrMatchOver
	}
	return nil
}

func (g *GameState) apply(move game.Move) (Result, error) {
	if err := g.board.ApplyMove(move); err != nil {
		return Result{}, err
	}
	mover, opponent := g.current, g.Opponent()
	res := Result{Move: move, Player: mover}

	switch {
	case g.board.CheckWin(mover.Mark):
		g.status = Won
		g.winner = mover
		mover.Record.AddWin()
		opponent.Record.AddLoss()
		res.Winner = mover
	case g.board.CheckTie(mover.Mark, opponent.Mark):
		g.status = Tied
		mover.Record.AddTie()
		opponent.Record.AddTie()
	default:
		g.current = opponent
		res.Next = opponent
	}
	res.Status = g.status
	return res, nil
}
