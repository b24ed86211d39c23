package services

import (
	"context"

	"dmeditor/internal/domain/models"
)

// UploadService stores images under a YYYY/MM/ tree and returns public URLs
type UploadService interface {
	// Upload validates and stores a base64 data URL payload
	Upload(ctx context.Context, req *models.UploadRequest) (*models.UploadResult, error)

	// StoreAsset stores an already optimized image
	StoreAsset(ctx context.Context, asset *models.ImageAsset) (*models.UploadResult, error)
}
