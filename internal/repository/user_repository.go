package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"wayfarer/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.UserID = uuid.New().String()
	hash := string(hashedPassword)
	user.PasswordHash = &hash

	query := `
		INSERT INTO users (user_id, email, password_hash, name, avatar_url, provider)
		VALUES (:user_id, :email, :password_hash, :name, :avatar_url, :provider)
	`

	_, err = r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", user.Email, models.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID, name string, avatarURL *string) error {
	query := `
		UPDATE users
		SET name = $1, avatar_url = COALESCE($2, avatar_url)
		WHERE user_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, name, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	return nil
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}

	// social-only accounts have no password hash
	if user.PasswordHash == nil {
		return nil, models.ErrUnauthorized
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password))
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	return user, nil
}

func (r *userRepository) UpsertSocialUser(ctx context.Context, email, name, provider string, avatarURL *string) (*models.User, error) {
	var user models.User

	query := `
		INSERT INTO users (user_id, email, name, provider, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email)
		DO UPDATE SET name = EXCLUDED.name,
		              provider = EXCLUDED.provider,
		              avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url)
		RETURNING *
	`

	err := r.db.GetContext(ctx, &user, query, uuid.New().String(), email, name, provider, avatarURL)
	if err != nil {
		return nil, fmt.Errorf("upsert social user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	query := `
		UPDATE users
		SET reset_token = $1, reset_token_expiry = $2
		WHERE user_id = $3
	`

	_, err := r.db.ExecContext(ctx, query, token, expiry, userID)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User

	query := `
		SELECT * FROM users
		WHERE reset_token = $1
		AND reset_token_expiry > CURRENT_TIMESTAMP
	`

	err := r.db.GetContext(ctx, &user, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrInvalidToken
		}
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}

	return &user, nil
}

// UpdatePassword replaces the password hash and clears the reset token in the
// same statement so a consumed token cannot be replayed.
func (r *userRepository) UpdatePassword(ctx context.Context, userID, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	query := `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL
		WHERE user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, string(hashedPassword), userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
