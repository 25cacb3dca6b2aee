package serve

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestIsUploadRequest(t *testing.T) {
	t.Run("multipart file upload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/files", strings.NewReader("abcdef"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=abc123")
		require.True(t, isUploadRequest(req))
	})

	t.Run("multipart settings patch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/v1/dashboard/settings", strings.NewReader("abcdef"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=abc123")
		require.True(t, isUploadRequest(req))
	})

	t.Run("json create is not an upload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/roles", strings.NewReader(`{"name":"USER"}`))
		req.Header.Set("Content-Type", "application/json")
		require.False(t, isUploadRequest(req))
	})

	t.Run("multipart get is not an upload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
		req.Header.Set("Content-Type", "multipart/form-data; boundary=abc123")
		require.False(t, isUploadRequest(req))
	})
}

func TestMaxBodySizeMiddleware_SkipsForMultipartUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(maxBodySizeMiddleware(4))
	router.POST("/v1/files", readBodyLengthHandler)

	req := httptest.NewRequest(http.MethodPost, "/v1/files", strings.NewReader("0123456789"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=abc123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "10", rec.Body.String())
}

func TestMaxBodySizeMiddleware_EnforcesForJSONEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(maxBodySizeMiddleware(4))
	router.POST("/v1/roles", readBodyLengthHandler)

	req := httptest.NewRequest(http.MethodPost, "/v1/roles", strings.NewReader("0123456789"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func readBodyLengthHandler(c *gin.Context) {
	n, err := io.Copy(io.Discard, c.Request.Body)
	if err != nil {
		c.Status(http.StatusRequestEntityTooLarge)
		return
	}
	c.String(http.StatusOK, "%d", n)
}
