package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/config"
	"wayfarer/internal/models"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, userID, name string, avatarURL *string) error {
	args := m.Called(ctx, userID, name, avatarURL)
	return args.Error(0)
}

func (m *mockUserRepo) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) UpsertSocialUser(ctx context.Context, email, name, provider string, avatarURL *string) (*models.User, error) {
	args := m.Called(ctx, email, name, provider, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	args := m.Called(ctx, userID, token, expiry)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Insert(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepo) Rotate(ctx context.Context, oldToken string, replacement *models.RefreshToken) (bool, error) {
	args := m.Called(ctx, oldToken, replacement)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepo) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockTokenRepo) Exists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPasswordReset(to, token string) error {
	args := m.Called(to, token)
	return args.Error(0)
}

func newAuthTestService() (*authService, *mockUserRepo, *mockTokenRepo, *mockMailer) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	m := new(mockMailer)

	cfg := &config.Config{
		JWTSecretKey:         "test-secret-key",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 168 * time.Hour,
		ResetTokenDuration:   time.Hour,
	}

	svc := NewAuthService(users, tokens, m, cfg, zerolog.Nop()).(*authService)
	return svc, users, tokens, m
}

func TestAuthService_Login(t *testing.T) {
	svc, users, tokens, _ := newAuthTestService()

	user := &models.User{UserID: "user-1", Email: "traveler@example.com"}
	users.On("VerifyPassword", mock.Anything, "traveler@example.com", "password123").
		Return(user, nil)
	tokens.On("Insert", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).
		Return(nil)

	got, pair, err := svc.Login(context.Background(), "traveler@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	// both tokens must verify under the configured secret and carry the user
	userID, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	userID, err = svc.parseToken(pair.RefreshToken, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthService_Login_BadPassword(t *testing.T) {
	svc, users, tokens, _ := newAuthTestService()

	users.On("VerifyPassword", mock.Anything, "traveler@example.com", "wrongpass").
		Return(nil, models.ErrUnauthorized)

	_, _, err := svc.Login(context.Background(), "traveler@example.com", "wrongpass")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	tokens.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, tokens, _ := newAuthTestService()

	oldToken, _, err := svc.generateRefreshToken("user-1")
	require.NoError(t, err)

	tokens.On("Rotate", mock.Anything, oldToken, mock.AnythingOfType("*models.RefreshToken")).
		Return(true, nil).Once()

	pair, err := svc.Refresh(context.Background(), oldToken)

	require.NoError(t, err)
	assert.NotEqual(t, oldToken, pair.RefreshToken)

	userID, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// the replacement handed to the repository is the token the client got
	rotateArgs := tokens.Calls[0].Arguments
	replacement := rotateArgs.Get(2).(*models.RefreshToken)
	assert.Equal(t, pair.RefreshToken, replacement.Token)
	assert.Equal(t, "user-1", replacement.UserID)

	tokens.AssertExpectations(t)
}

// A refresh token that verifies but has no backing row was already rotated
// out. That is treated as theft: every session of the user is revoked.
func TestAuthService_Refresh_ReuseRevokesAllSessions(t *testing.T) {
	svc, _, tokens, _ := newAuthTestService()

	reused, _, err := svc.generateRefreshToken("user-1")
	require.NoError(t, err)

	tokens.On("Rotate", mock.Anything, reused, mock.AnythingOfType("*models.RefreshToken")).
		Return(false, nil).Once()
	tokens.On("DeleteAllForUser", mock.Anything, "user-1").
		Return(nil).Once()

	_, err = svc.Refresh(context.Background(), reused)

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	tokens.AssertExpectations(t)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _, tokens, _ := newAuthTestService()

	accessToken, err := svc.generateAccessToken("user-1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), accessToken)

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	tokens.AssertNotCalled(t, "Rotate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_RejectsForgedToken(t *testing.T) {
	svc, _, tokens, _ := newAuthTestService()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"type": "refresh",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	forgedString, err := forged.SignedString([]byte("attacker-secret"))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), forgedString)

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	tokens.AssertNotCalled(t, "Rotate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc, _, _, _ := newAuthTestService()

	refreshToken, _, err := svc.generateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refreshToken)

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, tokens, _ := newAuthTestService()

	tokens.On("Delete", mock.Anything, "some-token").Return(nil)

	assert.NoError(t, svc.Logout(context.Background(), "some-token"))
	tokens.AssertExpectations(t)
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, users, _, m := newAuthTestService()

	users.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, models.ErrNotFound)

	err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")

	// the caller must not learn whether the account exists
	assert.NoError(t, err)
	users.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything)
}

func TestAuthService_RequestPasswordReset_MailFailureStaysSilent(t *testing.T) {
	svc, users, _, m := newAuthTestService()

	user := &models.User{UserID: "user-1", Email: "traveler@example.com"}
	users.On("GetUserByEmail", mock.Anything, "traveler@example.com").Return(user, nil)
	users.On("SetResetToken", mock.Anything, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil)
	m.On("SendPasswordReset", "traveler@example.com", mock.AnythingOfType("string")).
		Return(assert.AnError)

	err := svc.RequestPasswordReset(context.Background(), "traveler@example.com")

	assert.NoError(t, err)
	users.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestAuthService_ResetPassword_RevokesAllSessions(t *testing.T) {
	svc, users, tokens, _ := newAuthTestService()

	user := &models.User{UserID: "user-1", Email: "traveler@example.com"}
	users.On("GetUserByResetToken", mock.Anything, "reset-token-1").Return(user, nil)
	users.On("UpdatePassword", mock.Anything, "user-1", "newpassword").Return(nil)
	tokens.On("DeleteAllForUser", mock.Anything, "user-1").Return(nil).Once()

	err := svc.ResetPassword(context.Background(), "reset-token-1", "newpassword")

	assert.NoError(t, err)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthService_ResetPassword_StaleToken(t *testing.T) {
	svc, users, tokens, _ := newAuthTestService()

	users.On("GetUserByResetToken", mock.Anything, "stale-token").
		Return(nil, models.ErrInvalidToken)

	err := svc.ResetPassword(context.Background(), "stale-token", "newpassword")

	assert.ErrorIs(t, err, models.ErrInvalidToken)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	tokens.AssertNotCalled(t, "DeleteAllForUser", mock.Anything, mock.Anything)
}

func TestAuthService_Register(t *testing.T) {
	svc, users, tokens, _ := newAuthTestService()

	users.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User"), "password123").
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).UserID = "user-1"
		}).
		Return(nil)
	tokens.On("Insert", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).
		Return(nil)

	user, pair, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "traveler@example.com",
		Password: "password123",
		Name:     "Ada",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, users, tokens, _ := newAuthTestService()

	users.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User"), "password123").
		Return(models.ErrConflict)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
		Name:     "Ada",
	})

	assert.ErrorIs(t, err, models.ErrConflict)
	tokens.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
