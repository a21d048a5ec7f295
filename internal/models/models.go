package models

import (
	"time"
)

type User struct {
	UserID           string     `json:"userId" db:"user_id"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     *string    `json:"-" db:"password_hash"`
	Name             string     `json:"name" db:"name"`
	AvatarURL        *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	Provider         *string    `json:"provider,omitempty" db:"provider"`
	ResetToken       *string    `json:"-" db:"reset_token"`
	ResetTokenExpiry *time.Time `json:"-" db:"reset_token_expiry"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
}

// RefreshToken is one outstanding session for a user. Row presence is the
// revocation mechanism: a token missing from this table is invalid no matter
// what its signature says.
type RefreshToken struct {
	Token     string    `json:"token" db:"token"`
	UserID    string    `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Post struct {
	PostID    string    `json:"postId" db:"post_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Location  string    `json:"location" db:"location"`
	ImageURL  *string   `json:"imageUrl,omitempty" db:"image_url"`
	Likes     int       `json:"likes" db:"likes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Comment struct {
	CommentID string    `json:"commentId" db:"comment_id"`
	PostID    string    `json:"postId" db:"post_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Trip struct {
	TripID      string     `json:"tripId" db:"trip_id"`
	OwnerID     string     `json:"ownerId" db:"owner_id"`
	Title       string     `json:"title" db:"title"`
	Destination string     `json:"destination" db:"destination"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	Notes       string     `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

type WishlistItem struct {
	UserID    string    `json:"userId" db:"user_id"`
	PostID    string    `json:"postId" db:"post_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
