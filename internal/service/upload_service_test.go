package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/config"
	"wayfarer/internal/models"
)

// memStorage records saved objects so tests can inspect the pipeline output.
type memStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (s *memStorage) Save(_ context.Context, name string, data []byte, contentType string) error {
	s.objects[name] = data
	s.types[name] = contentType
	return nil
}

func (s *memStorage) Get(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := s.objects[name]
	if !ok {
		return nil, models.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(_ context.Context, name string) error {
	delete(s.objects, name)
	return nil
}

func writeTempPNG(t *testing.T) (string, int64) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(60 * x), G: uint8(60 * y), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "upload.tmp")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	return path, int64(buf.Len())
}

func newUploadTestService(store *memStorage) UploadService {
	cfg := &config.Config{
		MaxUploadSize: 5 * 1024 * 1024,
		JPEGQuality:   85,
	}
	return NewUploadService(store, cfg, zerolog.Nop())
}

func TestUploadService_Ingest(t *testing.T) {
	store := newMemStorage()
	svc := newUploadTestService(store)

	tmpPath, size := writeTempPNG(t)

	url, err := svc.Ingest(context.Background(), tmpPath, "vacation.png", "image/png", size)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/file-access/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	// the stored object is the normalized JPEG, not the original PNG
	name := strings.TrimPrefix(url, "/file-access/")
	require.Contains(t, store.objects, name)
	assert.Equal(t, "image/jpeg", store.types[name])

	_, format, err := image.Decode(bytes.NewReader(store.objects[name]))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	// the temp file is gone once ingestion finishes
	_, statErr := os.Stat(tmpPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUploadService_Ingest_RejectsOversized(t *testing.T) {
	store := newMemStorage()
	svc := newUploadTestService(store)

	tmpPath, _ := writeTempPNG(t)

	_, err := svc.Ingest(context.Background(), tmpPath, "vacation.png", "image/png", 100*1024*1024)

	assert.ErrorIs(t, err, models.ErrFileTooLarge)
	assert.Empty(t, store.objects)

	// cleanup happens on the failure path too
	_, statErr := os.Stat(tmpPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUploadService_Ingest_RejectsNonImage(t *testing.T) {
	store := newMemStorage()
	svc := newUploadTestService(store)

	path := filepath.Join(t.TempDir(), "upload.tmp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o600))

	_, err := svc.Ingest(context.Background(), path, "script.png", "image/png", 10)

	assert.ErrorIs(t, err, models.ErrInvalidFileType)
	assert.Empty(t, store.objects)
}

// Two ingests in the same instant must not overwrite each other.
func TestUploadService_Ingest_UniqueNames(t *testing.T) {
	store := newMemStorage()
	svc := newUploadTestService(store)

	first, size1 := writeTempPNG(t)
	second, size2 := writeTempPNG(t)

	url1, err := svc.Ingest(context.Background(), first, "a.png", "image/png", size1)
	require.NoError(t, err)
	url2, err := svc.Ingest(context.Background(), second, "b.png", "image/png", size2)
	require.NoError(t, err)

	assert.NotEqual(t, url1, url2)
	assert.Len(t, store.objects, 2)
}
