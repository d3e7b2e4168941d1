// Package storage provides temporary file handling for fetched source images
// and an optional S3 archive for keeping a copy of them.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrArchiveNotConfigured is returned when archive operations are attempted
// without S3 configuration.
var ErrArchiveNotConfigured = errors.New("storage: archive is not configured")

// Storage defines the interface for temporary file storage and the optional
// source-image archive.
type Storage interface {
	// SaveTemp saves data to a temporary file and returns the file path.
	// The pattern follows os.CreateTemp semantics, so a suffix after the
	// last "*" becomes the file extension.
	SaveTemp(ctx context.Context, pattern string, data io.Reader) (path string, err error)

	// CleanupTemp removes the specified temporary files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error

	// ArchiveImage uploads data to the archive and returns its URL.
	// Returns ErrArchiveNotConfigured if no archive is configured.
	ArchiveImage(ctx context.Context, key string, data io.Reader) (url string, err error)
}
