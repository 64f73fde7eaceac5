package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

// FileStorage keeps generated files such as exported reports.
type FileStorage interface {
	// Upload writes file at path and returns the cleaned path.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// List returns the names of the files directly under dir, sorted.
	List(ctx context.Context, dir string) ([]string, error)

	// GetURL returns the public URL of path.
	GetURL(ctx context.Context, path string) (string, error)
}
