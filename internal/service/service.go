package service

import (
	"wayfarer/internal/config"
	"wayfarer/internal/mailer"
	"wayfarer/internal/repository"
	"wayfarer/internal/storage"
	"wayfarer/pkg/log"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Post     PostService
	Trip     TripService
	Wishlist WishlistService
	Upload   UploadService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage, m mailer.Mailer, logger log.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(rep.User, rep.RefreshToken, m, cfg, logger),
		User:     NewUserService(rep.User),
		Post:     NewPostService(rep.Post, rep.Comment),
		Trip:     NewTripService(rep.Trip),
		Wishlist: NewWishlistService(rep.Wishlist, rep.Post),
		Upload:   NewUploadService(store, cfg, logger),
	}
}
