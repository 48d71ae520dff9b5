package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS middleware handles Cross-Origin Resource Sharing.
// Allowed origins are read from the CORS_ORIGINS environment variable
// (comma-separated). Falls back to http://localhost:3000 for development.
func CORS() gin.HandlerFunc {
	originsStr := os.Getenv("CORS_ORIGINS")
	if originsStr == "" {
		originsStr = "http://localhost:3000"
	}

	cfg := cors.Config{
		AllowCredentials: true,
		AllowMethods:     []string{"POST", "OPTIONS", "GET", "PUT", "DELETE", "PATCH"},
		AllowHeaders: []string{
			"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token",
			"Authorization", "Idempotency-Key", "X-Request-ID", "accept", "origin",
			"Cache-Control", "X-Requested-With",
		},
		MaxAge: 24 * time.Hour,
	}

	for _, o := range strings.Split(originsStr, ",") {
		origin := strings.TrimSpace(o)
		if origin == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			continue
		}
		cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
	}
	if cfg.AllowAllOrigins {
		cfg.AllowOrigins = nil
	}

	return cors.New(cfg)
}
