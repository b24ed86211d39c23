// Package upload stores editor images under a YYYY/MM/ tree.
package upload

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gabriel-vasile/mimetype"

	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/services"
	"dmeditor/internal/storage"
)

// data:image/png;base64, data:image/jpeg;base64, data:image/jpg;base64, data:image/gif;base64,
var dataURLPattern = regexp.MustCompile(`^data:(image/(png|jpeg|jpg|gif));base64,`)

var allowedTypes = []string{models.MIMEPNG, models.MIMEJPEG, models.MIMEGIF}

var _ services.UploadService = (*Service)(nil)

// Service implements services.UploadService
type Service struct {
	store  storage.Storage
	logger *slog.Logger
	now    func() time.Time
	random io.Reader
}

// Option configures the Service
type Option func(*Service)

// WithClock overrides time.Now, which drives the file name and folder
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandom overrides the source of the random file name suffix
func WithRandom(r io.Reader) Option {
	return func(s *Service) { s.random = r }
}

// NewService creates an upload service writing to store
func NewService(store storage.Storage, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload decodes a base64 data URL and stores the image.
// Error messages are shown to the user as-is.
func (s *Service) Upload(ctx context.Context, req *models.UploadRequest) (*models.UploadResult, error) {
	if req == nil {
		return nil, &domain.ValidationError{Message: "Invalid payload"}
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Data, validation.Required),
		validation.Field(&req.Filename, validation.Length(0, 255)),
	)
	if err != nil {
		return nil, &domain.ValidationError{Message: "Invalid payload"}
	}

	m := dataURLPattern.FindStringSubmatch(req.Data)
	if m == nil {
		return nil, &domain.UnsupportedMediaError{Message: "Invalid or unsupported image format"}
	}

	ext := m[2]
	if ext == "jpg" {
		ext = "jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(req.Data[len(m[0]):])
	if err != nil || len(data) == 0 {
		return nil, &domain.ValidationError{Message: "Failed to decode base64 image data"}
	}

	if detected := mimetype.Detect(data); !mimetype.EqualsAny(detected.String(), allowedTypes...) {
		s.logger.Warn("upload content does not match an image type",
			"declared", m[1],
			"detected", detected.String(),
		)
		return nil, &domain.UnsupportedMediaError{Message: "Invalid or unsupported image format"}
	}

	originalName := "image"
	if req.Filename != "" {
		originalName = path.Base(req.Filename)
	}

	return s.put(ctx, data, ext, originalName)
}

// StoreAsset stores an optimizer result. Only PNG, JPEG and GIF outputs are
// accepted, the same set the data URL upload allows.
func (s *Service) StoreAsset(ctx context.Context, asset *models.ImageAsset) (*models.UploadResult, error) {
	if asset == nil || len(asset.Data) == 0 {
		return nil, &domain.ValidationError{Message: "Invalid payload"}
	}

	var ext string
	switch asset.OutputType {
	case models.MIMEPNG:
		ext = "png"
	case models.MIMEJPEG:
		ext = "jpeg"
	case models.MIMEGIF:
		ext = "gif"
	default:
		return nil, &domain.UnsupportedMediaError{Message: "Invalid or unsupported image format"}
	}

	return s.put(ctx, asset.Data, ext, "")
}

func (s *Service) put(ctx context.Context, data []byte, ext, originalName string) (*models.UploadResult, error) {
	now := s.now().UTC()

	name, err := s.fileName(now, ext)
	if err != nil {
		return nil, err
	}
	folder := now.Format("2006/01/")

	url, err := s.store.Put(ctx, folder+name, data, "image/"+ext)
	if err != nil {
		s.logger.Error("failed to store upload", "key", folder+name, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	s.logger.Info("image uploaded",
		"original_name", originalName,
		"filename", name,
		"folder", folder,
		"size", len(data),
	)

	return &models.UploadResult{
		Success:  true,
		URL:      url,
		Filename: name,
		Folder:   folder,
	}, nil
}

// fileName returns {unix}-{10 hex}.{ext}
func (s *Service) fileName(now time.Time, ext string) (string, error) {
	suffix := make([]byte, 5)
	if _, err := io.ReadFull(s.random, suffix); err != nil {
		return "", fmt.Errorf("read random suffix: %w", err)
	}
	return fmt.Sprintf("%d-%s.%s", now.Unix(), hex.EncodeToString(suffix), ext), nil
}
