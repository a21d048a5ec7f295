package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"wayfarer/internal/config"
	"wayfarer/internal/imageproc"
	"wayfarer/internal/storage"
	"wayfarer/pkg/log"
)

type UploadService interface {
	// Ingest normalizes the uploaded file sitting at tmpPath into a JPEG in
	// public storage and returns its relative URL. The temporary file is
	// removed whether ingestion succeeds or fails.
	Ingest(ctx context.Context, tmpPath, originalName, declaredType string, size int64) (string, error)
}

type uploadService struct {
	store    storage.Storage
	pipeline *imageproc.Pipeline
	logger   log.Logger
}

func NewUploadService(store storage.Storage, cfg *config.Config, logger log.Logger) UploadService {
	return &uploadService{
		store:    store,
		pipeline: imageproc.NewPipeline(cfg.MaxUploadSize, cfg.JPEGQuality, logger),
		logger:   logger,
	}
}

func (s *uploadService) Ingest(ctx context.Context, tmpPath, originalName, declaredType string, size int64) (string, error) {
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			// never mask the ingestion result with a cleanup failure
			s.logger.Warn().Err(err).Str("path", tmpPath).Msg("failed to remove temp upload")
		}
	}()

	if err := s.pipeline.Validate(originalName, declaredType, size); err != nil {
		return "", err
	}

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("read temp upload: %w", err)
	}

	jpegData, result, err := s.pipeline.Normalize(raw, originalName)
	if err != nil {
		return "", err
	}

	s.logger.Info().
		Str("filename", originalName).
		Str("conversion", result.String()).
		Int("bytes", len(jpegData)).
		Msg("image normalized")

	// timestamp plus a random suffix; the timestamp alone collides under
	// concurrent uploads in the same clock tick
	name := fmt.Sprintf("%d_%s.jpg", time.Now().UnixNano(), uuid.New().String()[:8])

	if err := s.store.Save(ctx, name, jpegData, "image/jpeg"); err != nil {
		return "", err
	}

	return "/file-access/" + name, nil
}
