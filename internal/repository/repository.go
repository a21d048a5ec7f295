package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"wayfarer/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, name string, avatarURL *string) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpsertSocialUser(ctx context.Context, email, name, provider string, avatarURL *string) (*models.User, error)
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, password string) error
}

type RefreshTokenRepository interface {
	Insert(ctx context.Context, token *models.RefreshToken) error
	// Rotate atomically removes the presented token and stores its
	// replacement. Returns false when the presented token was not found.
	Rotate(ctx context.Context, oldToken string, replacement *models.RefreshToken) (bool, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID string) error
	Exists(ctx context.Context, token string) (bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID string) error
	SetImageURL(ctx context.Context, postID, imageURL string) error
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	Delete(ctx context.Context, commentID string) error
}

type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, tripID string) (*models.Trip, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) error
	Delete(ctx context.Context, tripID string) error
}

type WishlistRepository interface {
	Add(ctx context.Context, userID, postID string) error
	Remove(ctx context.Context, userID, postID string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
}

type Repository struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Post         PostRepository
	Comment      CommentRepository
	Trip         TripRepository
	Wishlist     WishlistRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:         NewUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Post:         NewPostRepository(db),
		Comment:      NewCommentRepository(db),
		Trip:         NewTripRepository(db),
		Wishlist:     NewWishlistRepository(db),
	}
}
