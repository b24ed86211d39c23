// Package storage writes uploaded images to their public location.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Storage puts objects under a key and reports their public URL.
// Keys use forward slashes ("2025/01/1736000000-abcdef0123.png").
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

var (
	ErrInvalidKey    = errors.New("invalid storage key")
	ErrInvalidConfig = errors.New("invalid storage configuration")
)

// cleanKey rejects traversal and strips the leading slash
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return key, nil
}

// joinURL puts exactly one slash between base and key
func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
