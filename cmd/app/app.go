package app

import (
	"fmt"

	"wayfarer/internal/config"
	"wayfarer/internal/database"
	"wayfarer/internal/mailer"
	"wayfarer/internal/repository"
	"wayfarer/internal/service"
	"wayfarer/internal/storage"
	"wayfarer/pkg/log"
)

// App wires the application dependencies: database, storage backend, mailer,
// repositories and services.
func App(cfg *config.Config, logger log.Logger) (*database.DB, storage.Storage, *service.Service, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}

	m := newMailer(cfg, logger)

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, store, m, logger)

	return db, store, services, nil
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBackend == "minio" {
		return storage.NewMinIOStorage(cfg)
	}
	return storage.NewLocalStorage(cfg.UploadDir)
}

func newMailer(cfg *config.Config, logger log.Logger) mailer.Mailer {
	if cfg.SMTP.Host != "" {
		return mailer.NewSMTPMailer(cfg.SMTP)
	}
	return mailer.NewLogMailer(logger)
}
