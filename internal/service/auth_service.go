package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"wayfarer/internal/config"
	"wayfarer/internal/mailer"
	"wayfarer/internal/models"
	"wayfarer/internal/repository"
	"wayfarer/pkg/log"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	SocialLogin(ctx context.Context, provider, providerToken string) (*models.User, *TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ValidateAccessToken(tokenString string) (string, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	mailer    mailer.Mailer
	cfg       *config.Config
	logger    log.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, m mailer.Mailer, cfg *config.Config, logger log.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    m,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, *TokenPair, error) {
	user := &models.User{
		Email: req.Email,
		Name:  req.Name,
	}

	err := s.userRepo.CreateUser(ctx, user, req.Password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates the presented refresh token: the old row is removed and a
// replacement stored in one transaction, making every refresh token single
// use. A token that verifies cryptographically but has no row was already
// rotated out or revoked; that is treated as theft and every session of the
// user is revoked.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	newRefresh, row, err := s.generateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	rotated, err := s.tokenRepo.Rotate(ctx, refreshToken, row)
	if err != nil {
		return nil, err
	}

	if !rotated {
		s.logger.Warn().Str("userId", userID).Msg("refresh token reuse detected, revoking all sessions")
		if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
			s.logger.Error().Err(err).Str("userId", userID).Msg("failed to revoke sessions")
		}
		return nil, models.ErrUnauthorized
	}

	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

// Logout is idempotent and always reports success so callers cannot probe
// which tokens are live.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Delete(ctx, refreshToken)
}

func (s *authService) SocialLogin(ctx context.Context, provider, providerToken string) (*models.User, *TokenPair, error) {
	// the provider token is verified server-side against the provider's
	// userinfo endpoint; client-asserted identity is never trusted
	email, name, avatarURL, err := fetchProviderUser(ctx, provider, providerToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.UpsertSocialUser(ctx, email, name, provider, avatarURL)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// RequestPasswordReset always reports success regardless of whether the email
// exists, to avoid user enumeration.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	token := uuid.New().String()
	expiry := time.Now().Add(s.cfg.ResetTokenDuration)

	if err := s.userRepo.SetResetToken(ctx, user.UserID, token, expiry); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
		// the caller still sees success; a mail failure must not reveal
		// whether the account exists
		s.logger.Error().Err(err).Msg("failed to dispatch reset mail")
	}

	return nil
}

func (s *authService) ValidateResetToken(ctx context.Context, token string) error {
	_, err := s.userRepo.GetUserByResetToken(ctx, token)
	return err
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetUserByResetToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.UserID, newPassword); err != nil {
		return err
	}

	// force re-login on all devices after a password change
	if err := s.tokenRepo.DeleteAllForUser(ctx, user.UserID); err != nil {
		s.logger.Error().Err(err).Str("userId", user.UserID).Msg("failed to revoke sessions after reset")
	}

	return nil
}

func (s *authService) ValidateAccessToken(tokenString string) (string, error) {
	userID, err := s.parseToken(tokenString, "access")
	if err != nil {
		return "", models.ErrUnauthorized
	}
	return userID, nil
}

func (s *authService) issueTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, row, err := s.generateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Insert(ctx, row); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authService) generateAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.AccessTokenDuration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return tokenString, nil
}

// generateRefreshToken mints a signed refresh token with a random jti so two
// tokens for the same user in the same second are still distinct, plus the
// row under which it is persisted.
func (s *authService) generateRefreshToken(userID string) (string, *models.RefreshToken, error) {
	now := time.Now()
	expiry := now.Add(s.cfg.RefreshTokenDuration)

	claims := jwt.MapClaims{
		"sub":  userID,
		"type": "refresh",
		"jti":  uuid.New().String(),
		"iat":  now.Unix(),
		"exp":  expiry.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign refresh token: %w", err)
	}

	row := &models.RefreshToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: expiry,
	}

	return tokenString, row, nil
}

func (s *authService) parseToken(tokenString, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", models.ErrUnauthorized
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		return "", models.ErrUnauthorized
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return "", models.ErrUnauthorized
	}

	return userID, nil
}

type providerUserInfo struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Login     string `json:"login"`
	Picture   string `json:"picture"`
	AvatarURL string `json:"avatar_url"`
}

var providerUserInfoURLs = map[string]string{
	"google": "https://www.googleapis.com/oauth2/v2/userinfo",
	"github": "https://api.github.com/user",
}

func fetchProviderUser(ctx context.Context, provider, providerToken string) (string, string, *string, error) {
	url, ok := providerUserInfoURLs[provider]
	if !ok {
		return "", "", nil, fmt.Errorf("provider %q: %w", provider, models.ErrValidation)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: providerToken})
	client := oauth2.NewClient(ctx, ts)

	resp, err := client.Get(url)
	if err != nil {
		return "", "", nil, fmt.Errorf("fetch provider user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", nil, models.ErrUnauthorized
	}

	var info providerUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", nil, fmt.Errorf("decode provider user info: %w", err)
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}

	avatar := info.Picture
	if avatar == "" {
		avatar = info.AvatarURL
	}

	if info.Email == "" {
		return "", "", nil, models.ErrUnauthorized
	}

	var avatarURL *string
	if avatar != "" {
		avatarURL = &avatar
	}

	return info.Email, name, avatarURL, nil
}
