package serve

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/atomiccms/atomic-service/internal/config"
)

func TestOriginAllowed(t *testing.T) {
	require.True(t, originAllowed(nil, "https://anywhere.example"))
	require.True(t, originAllowed([]string{"*"}, "https://anywhere.example"))
	require.True(t, originAllowed([]string{"https://a.example"}, "https://A.example"))
	require.False(t, originAllowed([]string{"https://a.example"}, "https://b.example"))
}

func corsRouter(origins string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware(&config.Config{CORSOrigins: origins}))
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCorsMiddleware_AllowsConfiguredOrigin(t *testing.T) {
	router := corsRouter("https://example.com")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Authorization, Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCorsMiddleware_IgnoresUnknownOrigin(t *testing.T) {
	router := corsRouter("https://example.com")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsMiddleware_AnswersPreflight(t *testing.T) {
	router := corsRouter("")

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://spa.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://spa.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
