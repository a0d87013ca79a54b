// Package auth gates every API route behind a shared secret.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderAPIKey is the primary credential header.
	HeaderAPIKey = "X-API-Key"
	// BearerPrefix allows the secret to be sent as a bearer token instead.
	BearerPrefix = "Bearer "
)

// RequireKey returns a middleware that rejects requests whose credential does
// not match the configured secret. The comparison is constant time and the
// handler body never runs on failure.
func RequireKey(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(credential(c)), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// credential extracts the caller-supplied secret from the X-API-Key header,
// falling back to a bearer token.
func credential(c *gin.Context) string {
	if key := c.GetHeader(HeaderAPIKey); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), BearerPrefix); ok {
		return token
	}
	return ""
}
