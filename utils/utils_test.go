package utils

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
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "ow***@shop.pk", MaskEmail("owner@shop.pk"))
	assert.Equal(t, "a***@shop.pk", MaskEmail("ab@shop.pk"))
	assert.Equal(t, "nope", MaskEmail("nope"))
}

func TestSanitizeInputKeepsMarkup(t *testing.T) {
	assert.Equal(t, "Ali & Sons <Traders>", SanitizeInput("  Ali & Sons\x07 <Traders>\n"))
}

func TestNumericCoercion(t *testing.T) {
	assert.Equal(t, 12.5, FloatOr("12.5", 0))
	assert.Equal(t, 0.0, FloatOr("abc", 0))
	assert.Equal(t, 0.0, FloatOr("NaN", 0))
	assert.Equal(t, 7, IntOr(" 7 ", 10))
	assert.Equal(t, 3, IntOr("3.0", 10))
	assert.Equal(t, 10, IntOr("", 10))
}

func TestBarcodePNG(t *testing.T) {
	for _, format := range []string{"code128", "qr"} {
		data, err := BarcodePNG("SKU-0001", format)
		require.NoError(t, err, format)
		_, err = png.Decode(bytes.NewReader(data))
		assert.NoError(t, err, format)
	}

	_, err := BarcodePNG("", "qr")
	assert.ErrorIs(t, err, ErrEmptyBarcode)
}

// multipartImage builds a real multipart upload holding a png of the given width
func multipartImage(t *testing.T, filename string, width int) *multipart.FileHeader {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, 10))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(MaxImageSize))
	return req.MultipartForm.File["image"][0]
}

func TestInlineImageStore(t *testing.T) {
	store, err := NewImageStore("inline", "", 50)
	require.NoError(t, err)

	ref, err := store.Save(multipartImage(t, "logo.png", 200), "logos")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "data:image/png;base64,"))
	assert.NoError(t, store.Remove(ref))
}

func TestDiskImageStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore("disk", dir, 50)
	require.NoError(t, err)

	ref, err := store.Save(multipartImage(t, "item.png", 200), "products")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/products/"))

	stored := filepath.Join(dir, "products", filepath.Base(ref))
	f, err := os.Open(stored)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)

	require.NoError(t, store.Remove(ref))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestImageStoreRejectsBadUploads(t *testing.T) {
	store, err := NewImageStore("inline", "", 0)
	require.NoError(t, err)

	_, err = store.Save(multipartImage(t, "notes.txt", 10), "")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = NewImageStore("s3", "", 0)
	assert.Error(t, err)
}
