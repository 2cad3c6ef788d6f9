package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/repository"
	"ctchen222/tictactoe/internal/config"
)

const guestPrefix = "guest-"

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GuestLogin(ctx context.Context) (*models.LoginResponse, error)
	ParseToken(token string) (*models.Claims, error)
}

type userService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
}

// NewUserService creates a new UserService that signs tokens with cfg.
func NewUserService(userRepo repository.UserRepository, cfg config.Auth) UserService {
	return &userService{userRepo: userRepo, secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL}
}

// Register handles user registration.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) error {
	if strings.HasPrefix(req.Username, guestPrefix) {
		return fmt.Errorf("%w: the %q prefix is reserved", ErrUsernameTaken, guestPrefix)
	}

	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if existingUser != nil {
		return ErrUsernameTaken
	}

	user := &models.User{
		Username: req.Username,
	}
	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		return err
	}
	slog.InfoContext(ctx, "user registered", "user.name", user.Username)
	return nil
}

// Login handles user login and returns a JWT on success.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(user.Username, false, fmt.Sprint(user.ID))
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, Username: user.Username}, nil
}

// GuestLogin issues a token for a generated guest username.
func (s *userService) GuestLogin(ctx context.Context) (*models.LoginResponse, error) {
	id := uuid.NewString()
	username := guestPrefix + id[:8]

	token, err := s.issue(username, true, id)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "guest logged in", "user.name", username)
	return &models.LoginResponse{Token: token, Username: username, Guest: true}, nil
}

// ParseToken validates a token issued by this service.
func (s *userService) ParseToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidToken)
	}
	return claims, nil
}

func (s *userService) issue(username string, guest bool, subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, models.Claims{
		Username: username,
		Guest:    guest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
