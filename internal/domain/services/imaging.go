package services

import (
	"context"

	"dmeditor/internal/domain/models"
)

// ImageOptimizer downsizes and re-encodes images for email use
type ImageOptimizer interface {
	// Optimize decodes data, scales it to the column width and picks the
	// output format. Undecodable input comes back unchanged with Fallback set.
	Optimize(ctx context.Context, data []byte, mimeType string) (*models.ImageAsset, error)
}
