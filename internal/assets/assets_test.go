package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryansh/mediarater/internal/apperr"
	"github.com/ryansh/mediarater/internal/config"
)

func testManager(t *testing.T, enableWebP bool) *Manager {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.DataDir = t.TempDir()
	cfg.Assets.MaxFileSize = 1 << 20
	cfg.Assets.Quality = 85
	cfg.Assets.EnableWebP = enableWebP

	mgr := NewManager(cfg)
	require.NoError(t, mgr.Initialize())
	return mgr
}

func pngUpload(t *testing.T, field, filename string, payload []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/add_media", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile(field)
	require.NoError(t, err)
	return header
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveConvertsToWebP(t *testing.T) {
	mgr := testManager(t, true)

	header := pngUpload(t, "poster", "cover.png", encodePNG(t))
	relPath, err := mgr.Save(KindPoster, header)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(relPath, "posters/"))
	assert.True(t, strings.HasSuffix(relPath, ".webp"))

	_, err = os.Stat(filepath.Join(mgr.Dir(), filepath.FromSlash(relPath)))
	assert.NoError(t, err)
}

func TestSaveKeepsOriginalWhenWebPDisabled(t *testing.T) {
	mgr := testManager(t, false)

	header := pngUpload(t, "banner", "banner.png", encodePNG(t))
	relPath, err := mgr.Save(KindBanner, header)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(relPath, "banners/"))
	assert.True(t, strings.HasSuffix(relPath, ".png"))
}

func TestSaveRejectsNonImage(t *testing.T) {
	mgr := testManager(t, true)

	header := pngUpload(t, "poster", "notes.txt", []byte("not an image at all"))
	_, err := mgr.Save(KindPoster, header)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	mgr := testManager(t, true)
	mgr.maxFileSize = 10

	header := pngUpload(t, "poster", "cover.png", encodePNG(t))
	_, err := mgr.Save(KindPoster, header)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestRemoveRefusesPathTraversal(t *testing.T) {
	mgr := testManager(t, true)

	outside := filepath.Join(filepath.Dir(mgr.Dir()), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0644))

	mgr.Remove("../victim.txt")

	_, err := os.Stat(outside)
	assert.NoError(t, err, "file outside asset dir must survive")
}

func TestRemoveDeletesStoredAsset(t *testing.T) {
	mgr := testManager(t, false)

	header := pngUpload(t, "poster", "cover.png", encodePNG(t))
	relPath, err := mgr.Save(KindPoster, header)
	require.NoError(t, err)

	mgr.Remove(relPath)

	_, err = os.Stat(filepath.Join(mgr.Dir(), filepath.FromSlash(relPath)))
	assert.True(t, os.IsNotExist(err))
}
