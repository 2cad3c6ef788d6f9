package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/config"
)

type memoryUsers struct {
	users map[string]*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.ID = int64(len(m.users) + 1)
	user.PasswordHash = string(hash)
	m.users[user.Username] = user
	return nil
}

func (m *memoryUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.users[username], nil
}

func newService(ttl time.Duration) UserService {
	return NewUserService(&memoryUsers{users: map[string]*models.User{}}, config.Auth{
		JWTSecret: "test-secret",
		TokenTTL:  ttl,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newService(time.Hour)

	require.NoError(t, s.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "secret1"}))
	assert.ErrorIs(t, s.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "secret2"}), ErrUsernameTaken)
	assert.ErrorIs(t, s.Register(ctx, &models.RegisterRequest{Username: "guest-abc", Password: "secret2"}), ErrUsernameTaken)

	_, err := s.Login(ctx, &models.LoginRequest{Username: "alice", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := s.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
	assert.False(t, res.Guest)

	claims, err := s.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "1", claims.Subject)
}

func TestGuestLogin(t *testing.T) {
	s := newService(time.Hour)

	res, err := s.GuestLogin(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `^guest-[0-9a-f]{8}$`, res.Username)

	claims, err := s.ParseToken(res.Token)
	require.NoError(t, err)
	assert.True(t, claims.Guest)
	assert.Equal(t, res.Username, claims.Username)
}

func TestParseToken_Rejects(t *testing.T) {
	s := newService(time.Hour)

	expired, err := newService(-time.Minute).GuestLogin(context.Background())
	require.NoError(t, err)
	_, err = s.ParseToken(expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.Claims{
		Username:         "mallory",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = s.ParseToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.Claims{Username: "mallory"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.ParseToken(noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
