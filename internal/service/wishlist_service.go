package service

import (
	"context"

	"wayfarer/internal/models"
	"wayfarer/internal/repository"
)

type WishlistService interface {
	Add(ctx context.Context, userID, postID string) error
	Remove(ctx context.Context, userID, postID string) error
	List(ctx context.Context, userID string) ([]*models.Post, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	postRepo     repository.PostRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, postRepo repository.PostRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		postRepo:     postRepo,
	}
}

func (s *wishlistService) Add(ctx context.Context, userID, postID string) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	return s.wishlistRepo.Add(ctx, userID, postID)
}

func (s *wishlistService) Remove(ctx context.Context, userID, postID string) error {
	return s.wishlistRepo.Remove(ctx, userID, postID)
}

func (s *wishlistService) List(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.wishlistRepo.ListByUser(ctx, userID)
}
