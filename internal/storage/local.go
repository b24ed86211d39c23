package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

var _ Storage = (*LocalStorage)(nil)

// LocalStorage writes files below a root directory served at publicBase.
type LocalStorage struct {
	root       string
	publicBase string
	logger     *slog.Logger
}

// NewLocalStorage creates a local driver
func NewLocalStorage(root, publicBase string, logger *slog.Logger) (*LocalStorage, error) {
	if root == "" || publicBase == "" {
		return nil, fmt.Errorf("%w: upload dir and public base are required", ErrInvalidConfig)
	}
	return &LocalStorage{root: root, publicBase: publicBase, logger: logger}, nil
}

// Put writes data to root/key, creating directories (0755) as needed.
func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directories: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file to disk: %w", err)
	}

	s.logger.Debug("stored file", "path", full, "size", len(data), "content_type", contentType)
	return joinURL(s.publicBase, key), nil
}
