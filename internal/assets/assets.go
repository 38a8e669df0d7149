// Package assets stores uploaded poster and banner images for catalog
// entries. Images are converted to WebP on the way in and handed back as
// relative paths for the media row to reference.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/ryansh/mediarater/internal/apperr"
	"github.com/ryansh/mediarater/internal/config"
	"github.com/ryansh/mediarater/internal/logger"
)

// Kind selects the directory an image is stored under
type Kind string

const (
	KindPoster Kind = "posters"
	KindBanner Kind = "banners"
)

// Manager handles image uploads for the catalog
type Manager struct {
	log         hclog.Logger
	assetsDir   string
	maxFileSize int64
	quality     int
	enableWebP  bool
	initialized bool
}

// NewManager creates an asset manager from configuration
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		log:         logger.Named("assets"),
		assetsDir:   cfg.AssetsDir(),
		maxFileSize: cfg.Assets.MaxFileSize,
		quality:     cfg.Assets.Quality,
		enableWebP:  cfg.Assets.EnableWebP,
	}
}

// Initialize creates the asset directory structure
func (m *Manager) Initialize() error {
	for _, kind := range []Kind{KindPoster, KindBanner} {
		dir := filepath.Join(m.assetsDir, string(kind))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create asset directory %s: %w", dir, err)
		}
	}

	m.initialized = true
	m.log.Info("asset manager initialized", "dir", m.assetsDir)
	return nil
}

// Dir returns the root directory served under /assets
func (m *Manager) Dir() string {
	return m.assetsDir
}

// Save stores an uploaded image and returns its path relative to Dir. The
// upload is rejected when it is too large or not a decodable image.
func (m *Manager) Save(kind Kind, header *multipart.FileHeader) (string, error) {
	if !m.initialized {
		return "", apperr.Internal("asset manager not initialized")
	}
	if header.Size > m.maxFileSize {
		return "", apperr.Validationf("image exceeds maximum size of %d bytes", m.maxFileSize)
	}

	file, err := header.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.ErrorTypeInternal, "failed to open upload", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrorTypeInternal, "failed to read upload", err)
	}

	data, ext, err := m.encode(data)
	if err != nil {
		return "", err
	}

	relPath := filepath.Join(string(kind), uuid.New().String()+ext)
	fullPath := filepath.Join(m.assetsDir, relPath)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", apperr.Wrap(apperr.ErrorTypeInternal, "failed to write asset file", err)
	}

	m.log.Info("stored asset", "kind", kind, "path", relPath, "bytes", len(data))
	return filepath.ToSlash(relPath), nil
}

// Remove deletes a previously stored asset, best effort. Paths outside the
// asset directory are refused.
func (m *Manager) Remove(relPath string) {
	if relPath == "" {
		return
	}
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		m.log.Warn("refusing to remove asset outside asset dir", "path", relPath)
		return
	}
	if err := os.Remove(filepath.Join(m.assetsDir, cleaned)); err != nil && !os.IsNotExist(err) {
		m.log.Warn("failed to remove asset", "path", relPath, "error", err)
	}
}

// encode converts the image to WebP, or keeps the original bytes when WebP
// conversion is disabled
func (m *Manager) encode(data []byte) ([]byte, string, error) {
	contentType := http.DetectContentType(data)

	img, err := decodeImage(data, contentType)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.ErrorTypeValidation, "unsupported image upload", err)
	}

	if !m.enableWebP {
		return data, extensionFor(contentType), nil
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(m.quality)}); err != nil {
		return nil, "", apperr.Wrap(apperr.ErrorTypeInternal, "failed to encode image", err)
	}
	return buf.Bytes(), ".webp", nil
}

func decodeImage(data []byte, contentType string) (image.Image, error) {
	reader := bytes.NewReader(data)
	switch contentType {
	case "image/jpeg":
		return jpeg.Decode(reader)
	case "image/png":
		return png.Decode(reader)
	case "image/gif":
		return gif.Decode(reader)
	case "image/webp":
		return webp.Decode(reader)
	default:
		return nil, fmt.Errorf("unsupported image format: %s", contentType)
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
