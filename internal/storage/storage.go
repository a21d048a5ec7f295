package storage

import (
	"context"
	"io"
)

// Storage persists normalized uploads and serves them back by name. Callers
// hold only the returned name; the public URL is derived by the handler layer.
type Storage interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}
