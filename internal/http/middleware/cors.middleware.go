package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atjgmj/data-intelligence-platform/internal/config"
)

// CORSMiddleware configures CORS headers based on the environment
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.IsProduction() {
			// In production, only allow configured origins
			origin := c.Request.Header.Get("Origin")
			if contains(cfg.AllowedOrigins, origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			}
		} else {
			// Allow all origins in non-production environments
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// TrustedHostMiddleware rejects requests whose Host header is not in the
// configured allow-list. A list containing "*" accepts any host.
func TrustedHostMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if contains(cfg.AllowedHosts, "*") {
			c.Next()
			return
		}

		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if !contains(cfg.AllowedHosts, host) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid host header"})
			return
		}

		c.Next()
	}
}

// contains checks if a slice contains a specific string
func contains(slice []string, item string) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
