package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/leaderboard"
)

const maxLeaderboardLimit = 100

// Leaderboard reads ranked standings.
type Leaderboard interface {
	Top(ctx context.Context, n int) []leaderboard.Standing
}

type LeaderboardController struct {
	leaderboard Leaderboard
}

func NewLeaderboardController(lb Leaderboard) *LeaderboardController {
	return &LeaderboardController{leaderboard: lb}
}

// Top lists the best players by wins. The limit query parameter defaults to
// five.
func (lc *LeaderboardController) Top(c *gin.Context) {
	limit := leaderboard.DefaultTopN
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLeaderboardLimit {
			response.ErrorResponse(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	response.SuccessResponseList(c, lc.leaderboard.Top(c.Request.Context(), limit))
}
