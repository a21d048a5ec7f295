package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"wayfarer/internal/models"
)

type wishlistRepository struct {
	db *sqlx.DB
}

func NewWishlistRepository(db *sqlx.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Add is idempotent via the (user_id, post_id) primary key.
func (r *wishlistRepository) Add(ctx context.Context, userID, postID string) error {
	query := `
		INSERT INTO wishlist (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}

	return nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}

	return nil
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	posts := []*models.Post{}

	query := `
		SELECT p.*, COUNT(l.user_id) AS likes
		FROM wishlist w
		JOIN posts p ON p.post_id = w.post_id
		LEFT JOIN likes l ON l.post_id = p.post_id
		WHERE w.user_id = $1
		GROUP BY p.post_id, w.created_at
		ORDER BY w.created_at DESC
	`

	err := r.db.SelectContext(ctx, &posts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	return posts, nil
}
