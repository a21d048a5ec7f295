package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"wayfarer/internal/models"
)

type refreshTokenRepository struct {
	db *sqlx.DB
}

func NewRefreshTokenRepository(db *sqlx.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Insert(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES (:token, :user_id, :expires_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// Rotate deletes the presented token and inserts its replacement inside one
// transaction. The delete and insert are single statements, so two concurrent
// rotations of the same token cannot both succeed: exactly one sees the row.
func (r *refreshTokenRepository) Rotate(ctx context.Context, oldToken string, replacement *models.RefreshToken) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin rotation: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM refresh_tokens
		 WHERE token = $1 AND user_id = $2 AND expires_at > CURRENT_TIMESTAMP`,
		oldToken, replacement.UserID)
	if err != nil {
		return false, fmt.Errorf("delete rotated token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return false, nil
	}

	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at)
		 VALUES (:token, :user_id, :expires_at)`,
		replacement)
	if err != nil {
		return false, fmt.Errorf("insert replacement token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit rotation: %w", err)
	}

	return true, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	// idempotent: deleting an absent token is not an error
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	return nil
}

func (r *refreshTokenRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user refresh tokens: %w", err)
	}

	return nil
}

func (r *refreshTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	var exists bool

	query := `
		SELECT EXISTS (
			SELECT 1 FROM refresh_tokens
			WHERE token = $1 AND expires_at > CURRENT_TIMESTAMP
		)
	`

	err := r.db.GetContext(ctx, &exists, query, token)
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}

	return exists, nil
}
