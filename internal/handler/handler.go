package handlers

import (
	"github.com/go-playground/validator/v10"

	"wayfarer/internal/config"
	"wayfarer/internal/service"
	"wayfarer/internal/storage"
	"wayfarer/pkg/log"
)

type Handlers struct {
	AuthService     service.AuthService
	UserService     service.UserService
	PostService     service.PostService
	TripService     service.TripService
	WishlistService service.WishlistService
	UploadService   service.UploadService
	Storage         storage.Storage
	Cfg             *config.Config
	Validate        *validator.Validate
	Logger          log.Logger
}

func NewHandlers(services *service.Service, store storage.Storage, cfg *config.Config, logger log.Logger) *Handlers {
	return &Handlers{
		AuthService:     services.Auth,
		UserService:     services.User,
		PostService:     services.Post,
		TripService:     services.Trip,
		WishlistService: services.Wishlist,
		UploadService:   services.Upload,
		Storage:         store,
		Cfg:             cfg,
		Validate:        validator.New(),
		Logger:          logger,
	}
}
