// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/config"
)

// CORS returns a middleware that handles Cross-Origin Resource Sharing
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.Security.CORSAllowedMethods,
		AllowHeaders:     cfg.Security.CORSAllowedHeaders,
		ExposeHeaders:    []string{RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}

	var exact, wildcard []string
	for _, origin := range cfg.Security.CORSAllowedOrigins {
		switch {
		case origin == "*":
			corsConfig.AllowOriginFunc = func(string) bool { return true }
		case strings.HasPrefix(origin, "*."):
			wildcard = append(wildcard, strings.TrimPrefix(origin, "*"))
		default:
			exact = append(exact, origin)
		}
	}
	if corsConfig.AllowOriginFunc == nil {
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return isOriginAllowed(origin, exact, wildcard)
		}
	}

	return cors.New(corsConfig)
}

// isOriginAllowed matches exact origins and "*.example.com" style suffixes
func isOriginAllowed(origin string, exact, suffixes []string) bool {
	for _, allowed := range exact {
		if allowed == origin {
			return true
		}
	}
	for _, suffix := range suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}
