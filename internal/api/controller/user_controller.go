package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/api/service"
)

var userErrors = []response.Error{
	{Target: service.ErrUsernameTaken, Code: http.StatusConflict},
	{Target: service.ErrInvalidCredentials, Code: http.StatusUnauthorized},
}

// UserController handles user-related HTTP requests.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Register handles the user registration endpoint.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := uc.userService.Register(c.Request.Context(), &req); err != nil {
		response.FailWith(c, err, userErrors)
		return
	}

	response.SuccessResponse(c, gin.H{"message": "User created successfully"})
}

// Login handles the user login endpoint.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.FailWith(c, err, userErrors)
		return
	}

	response.SuccessResponse(c, res)
}

// GuestLogin issues a token for a generated guest username.
func (uc *UserController) GuestLogin(c *gin.Context) {
	res, err := uc.userService.GuestLogin(c.Request.Context())
	if err != nil {
		response.FailWith(c, err, userErrors)
		return
	}

	response.SuccessResponse(c, res)
}
