package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "products"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products", "a.png"), []byte("png"), 0644))

	e := echo.New()
	RegisterFileRoutes(e, dir)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"existing file", "/uploads/products/a.png", http.StatusOK},
		{"missing file", "/uploads/products/b.png", http.StatusNotFound},
		{"directory", "/uploads/products", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
