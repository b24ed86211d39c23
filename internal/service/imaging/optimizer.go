// Package imaging recompresses images for the 600px email column.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"dmeditor/internal/config"
	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/services"
)

// AlphaSampleStride is the pixel step used when looking for transparency.
// Sampling keeps the check cheap on large PNGs; a sparse transparent area
// can be missed.
const AlphaSampleStride = 20

var _ services.ImageOptimizer = (*Optimizer)(nil)

// Optimizer implements services.ImageOptimizer.
//
// Thread-safe: it holds only configuration.
type Optimizer struct {
	maxWidth int
	quality  float64
	logger   *slog.Logger
}

// NewOptimizer creates an optimizer. Zero values fall back to the defaults
// in config/limits.go.
func NewOptimizer(maxWidth int, quality float64, logger *slog.Logger) *Optimizer {
	if maxWidth <= 0 {
		maxWidth = config.DefaultMaxImageWidth
	}
	if quality <= 0 || quality > 1 {
		quality = config.DefaultJPEGQuality
	}
	return &Optimizer{maxWidth: maxWidth, quality: quality, logger: logger}
}

// Optimize scales the image to at most maxWidth and re-encodes it.
//
// Output is JPEG unless the input is a PNG with transparency (kept PNG) or
// an animated GIF (kept GIF, every frame scaled). Input that cannot be
// decoded is returned as-is with Fallback set; that is not an error.
func (o *Optimizer) Optimize(ctx context.Context, data []byte, mimeType string) (*models.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &domain.ValidationError{Message: "image data is empty"}
	}

	mimeType = NormalizeMIME(mimeType)
	if mimeType == "" {
		mimeType = NormalizeMIME(mimetype.Detect(data).String())
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		o.logger.Debug("image decode failed, passing through",
			"mime_type", mimeType,
			"size", len(data),
			"error", err,
		)
		return passthrough(data, mimeType), nil
	}

	if format == "gif" {
		src = gifScreen(data, src)
	}

	bounds := src.Bounds()
	width, height := TargetSize(bounds.Dx(), bounds.Dy(), o.maxWidth)

	surface := imaging.Clone(src)
	if width != bounds.Dx() || height != bounds.Dy() {
		surface = imaging.Resize(src, width, height, imaging.Lanczos)
	}

	outputType := models.MIMEJPEG
	switch mimeType {
	case models.MIMEPNG:
		if HasTransparency(surface) {
			outputType = models.MIMEPNG
		}
	case models.MIMEGIF:
		if IsAnimatedGIF(data) {
			outputType = models.MIMEGIF
		}
	}

	var buf bytes.Buffer
	switch outputType {
	case models.MIMEPNG:
		err = imaging.Encode(&buf, surface, imaging.PNG)
	case models.MIMEGIF:
		err = o.encodeAnimated(ctx, &buf, data, width, height)
	default:
		err = imaging.Encode(&buf, flatten(surface), imaging.JPEG,
			imaging.JPEGQuality(int(math.Round(o.quality*100))))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", outputType, err)
	}

	out := buf.Bytes()
	o.logger.Debug("image optimized",
		"input_type", mimeType,
		"decoded_as", format,
		"output_type", outputType,
		"width", width,
		"height", height,
		"in_bytes", len(data),
		"out_bytes", len(out),
	)

	return &models.ImageAsset{
		InputType:  mimeType,
		OutputType: outputType,
		Data:       out,
		DataURL:    DataURL(outputType, out),
		Width:      width,
		Height:     height,
		Size:       len(out),
	}, nil
}

// encodeAnimated scales every frame of an animated GIF. Frames are composited
// onto a full canvas first so sub-rectangle frames and disposal survive the
// resize, then mapped back onto each frame's own palette.
func (o *Optimizer) encodeAnimated(ctx context.Context, buf *bytes.Buffer, data []byte, width, height int) error {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return err
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, g.Config.Width, g.Config.Height))
	out := &gif.GIF{
		Delay:     g.Delay,
		LoopCount: g.LoopCount,
		Config:    image.Config{Width: width, Height: height},
	}

	for i, frame := range g.Image {
		if err := ctx.Err(); err != nil {
			return err
		}

		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = imaging.Clone(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		scaled := imaging.Resize(canvas, width, height, imaging.NearestNeighbor)
		dst := image.NewPaletted(image.Rect(0, 0, width, height), frame.Palette)
		draw.Draw(dst, dst.Bounds(), scaled, image.Point{}, draw.Src)

		out.Image = append(out.Image, dst)
		// every output frame is a full composite
		out.Disposal = append(out.Disposal, gif.DisposalBackground)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	return gif.EncodeAll(buf, out)
}

// gifScreen places the first frame on the GIF's logical screen. A frame only
// covers its own descriptor rectangle, which can be smaller than the image.
func gifScreen(data []byte, first image.Image) image.Image {
	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return first
	}
	screen := image.Rect(0, 0, cfg.Width, cfg.Height)
	if first.Bounds() == screen {
		return first
	}

	canvas := image.NewNRGBA(screen)
	draw.Draw(canvas, first.Bounds(), first, first.Bounds().Min, draw.Over)
	return canvas
}

// TargetSize scales width down to max keeping the aspect ratio.
// Images already narrow enough keep their size.
func TargetSize(width, height, max int) (int, int) {
	if max <= 0 || width <= max {
		return width, height
	}
	h := int(math.Round(float64(max) / float64(width) * float64(height)))
	if h < 1 {
		h = 1
	}
	return max, h
}

// HasTransparency reports whether any sampled pixel has alpha below 255.
func HasTransparency(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 * AlphaSampleStride {
		if img.Pix[i] < 255 {
			return true
		}
	}
	return false
}

// IsAnimatedGIF counts graphic control extensions directly followed by an
// image descriptor. More than one means more than one frame.
func IsAnimatedGIF(data []byte) bool {
	frames := 0
	for i := 0; i < len(data)-9; i++ {
		if data[i] == 0x21 && data[i+1] == 0xF9 && data[i+8] == 0x2C {
			frames++
			if frames > 1 {
				return true
			}
		}
	}
	return false
}

// NormalizeMIME lower-cases, drops parameters and maps image/jpg to image/jpeg.
func NormalizeMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "image/jpg" {
		return models.MIMEJPEG
	}
	return mimeType
}

// DataURL base64-encodes data as a data: URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func passthrough(data []byte, mimeType string) *models.ImageAsset {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &models.ImageAsset{
		InputType:  mimeType,
		OutputType: mimeType,
		Data:       data,
		DataURL:    DataURL(mimeType, data),
		Size:       len(data),
		Fallback:   true,
	}
}

// flatten composites img over white, since JPEG has no alpha channel.
func flatten(img *image.NRGBA) *image.NRGBA {
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
