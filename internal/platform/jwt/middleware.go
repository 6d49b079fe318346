// Package jwtmw issues and verifies login tokens and guards protected routes.
package jwtmw

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kanban_backend/internal/api"
)

// ContextUsername is the gin context key holding the authenticated username.
const ContextUsername = "username"

const bearerPrefix = "Bearer "

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
//
//   - no Authorization header: 401
//   - token fails verification: 403
//   - verifier has no secret: 500
func AuthRequired(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.MessageResponse{Message: "Unauthorized"})
			return
		}

		// 2. Everything after the scheme prefix is the token
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))

		// 3. Verify signature and expiration
		claims, err := verifier.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, ErrSecretNotConfigured) {
				slog.Error("jwt secret is not configured", "path", c.FullPath())
				c.AbortWithStatusJSON(http.StatusInternalServerError, api.MessageResponse{Message: "server misconfigured"})
				return
			}
			slog.Warn("token rejected", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, api.MessageResponse{Message: "Forbidden"})
			return
		}

		// 4. Attach identity and pass control to the next handler
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// UsernameFrom returns the username stored by AuthRequired.
func UsernameFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUsername)
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}
