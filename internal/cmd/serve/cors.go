package serve

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atomiccms/atomic-service/internal/config"
)

// corsMiddleware answers browser preflights for the JSON and upload
// endpoints. An empty origin list allows any origin; configured origins
// match exactly. Credentials are allowed because clients send bearer
// tokens in the Authorization header.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := cfg.CORSOriginList()
	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if origin != "" && originAllowed(allowed, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Max-Age", "600")
		}
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
