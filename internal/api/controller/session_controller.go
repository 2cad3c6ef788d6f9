package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/match"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/pkg/proto"
)

// UsernameKey is the gin context key holding the authenticated username.
const UsernameKey = "username"

var sessionErrors = []response.Error{
	{Target: match.ErrInvalidLineup, Code: http.StatusBadRequest},
	{Target: game.ErrInvalidMove, Code: http.StatusBadRequest},
	{Target: session.ErrNoActiveSession, Code: http.StatusNotFound},
	{Target: session.ErrSessionActive, Code: http.StatusConflict},
	{Target: session.ErrMatchInProgress, Code: http.StatusConflict},
	{Target: match.ErrMatchOver, Code: http.StatusConflict},
	{Target: match.ErrNotHumanTurn, Code: http.StatusConflict},
	{Target: match.ErrNotComputerTurn, Code: http.StatusConflict},
	{Target: game.ErrNoMoveAvailable, Code: http.StatusConflict},
}

// SessionManager runs the active game session.
type SessionManager interface {
	Start(ctx context.Context, lineup session.Lineup) (proto.SessionView, error)
	View(ctx context.Context) (proto.SessionView, error)
	Move(ctx context.Context, row, col int) (proto.SessionView, error)
	ComputerMove(ctx context.Context) (proto.SessionView, error)
	Rematch(ctx context.Context) (proto.SessionView, error)
	End(ctx context.Context) (proto.SessionSummary, error)
}

// SessionController exposes the active session over HTTP.
type SessionController struct {
	sessions SessionManager
}

func NewSessionController(sessions SessionManager) *SessionController {
	return &SessionController{sessions: sessions}
}

// Start opens a session. Player one plays as the authenticated user unless
// another username is given; computer seats get a default name.
func (sc *SessionController) Start(c *gin.Context) {
	var req proto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	one := seat(req.PlayerOne, "")
	if one.Username == "" && one.Kind == player.Human {
		one.Username = c.GetString(UsernameKey)
	}
	two := seat(req.PlayerTwo, one.Username)

	view, err := sc.sessions.Start(c.Request.Context(), session.Lineup{PlayerOne: one, PlayerTwo: two})
	if err != nil {
		response.FailWith(c, err, sessionErrors)
		return
	}
	response.SuccessResponse(c, view)
}

// View returns the active session.
func (sc *SessionController) View(c *gin.Context) {
	view, err := sc.sessions.View(c.Request.Context())
	if err != nil {
		response.FailWith(c, err, sessionErrors)
		return
	}
	response.SuccessResponse(c, view)
}

// Move plays a human move.
func (sc *SessionController) Move(c *gin.Context) {
	var req proto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := sc.sessions.Move(c.Request.Context(), *req.Row, *req.Col)
	if err != nil {
		response.FailWith(c, err, sessionErrors)
		return
	}
	response.SuccessResponse(c, view)
}

// ComputerMove advances a computer player's turn.
func (sc *SessionController) ComputerMove(c *gin.Context) {
	view, err := sc.sessions.ComputerMove(c.Request.Context())
	if err != nil {
		response.FailWith(c, err, sessionErrors)
		return
	}
	response.SuccessResponse(c, view)
}

// Rematch starts the next match of the session.
func (sc *SessionController) Rematch(c *gin.Context) {
	view, err := sc.sessions.Rematch(c.Request.Context())
	if err != nil {
		response.FailWith(c, err, sessionErrors)
		return
	}
	response.SuccessResponse(c, view)
}

// End closes the session and records its results.
func (sc *SessionController) End(c *gin.Context) {
	summary, err := sc.sessions.End(c.Request.Context())
	if err != nil {
		response.FailWith(c, err, sessionErrors)
		return
	}
	response.SuccessResponse(c, summary)
}

// seat converts a request seat. A computer without a name is called after its
// difficulty, suffixed when that would clash with taken.
func seat(req proto.SeatRequest, taken string) session.Seat {
	s := session.Seat{
		Username: req.Username,
		Kind:     player.Kind(req.Kind),
		Mark:     game.PlayerMark(req.Mark),
	}
	if s.Username == "" && s.Kind.IsComputer() {
		s.Username = fmt.Sprintf("computer-%s", s.Kind)
		if s.Username == taken {
			s.Username += "-2"
		}
	}
	return s
}
