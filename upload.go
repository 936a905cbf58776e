package inkwell

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxUploadSize = 5 << 20 // 5MB
	maxImageWidth = 1600
	jpegQuality   = 85
)

// allowedUploadTypes maps accepted content types to the stored extension.
var allowedUploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// handleUpload accepts an image file, validates type and size, downscales
// oversized images, and stores it under a randomized name so uploads never
// collide or leak the original filename.
func (a *App) handleUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return apiError(c, http.StatusBadRequest, "no image provided")
	}
	if file.Size > maxUploadSize {
		return apiError(c, http.StatusBadRequest, "file too large (max 5MB)")
	}
	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		return apiError(c, http.StatusBadRequest, "unsupported file type")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := processUpload(src, contentType)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid image file")
	}

	if err := os.MkdirAll(a.cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(a.cfg.UploadDir, name), data, 0o644); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"url":      "/uploads/" + name,
		"filename": name,
		"size":     len(data),
	})
}

// processUpload validates that the payload decodes as an image and downscales
// anything wider than maxImageWidth. WebP is validated and stored verbatim
// since there is no encoder for it; JPEG and PNG are re-encoded when resized.
func processUpload(src io.Reader, contentType string) ([]byte, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxImageWidth || contentType == "image/webp" {
		return raw, nil
	}

	newH := bounds.Dy() * maxImageWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch contentType {
	case "image/png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
