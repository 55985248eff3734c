package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/shared/auth"
	"clarity-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	isAdminKey   = "isAdmin"
	tokenClient  = "tokenClientId"
)

// Auth validates bearer JWTs and stores identity in context. Requests
// without an Authorization header continue anonymously; client-facing
// endpoints key on the email they are given.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Unauthorized(c)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Unauthorized(c)
			return
		}

		claims, err := auth.Verify(token)
		if errors.Is(err, auth.ErrExpiredToken) {
			respond.Error(c, http.StatusUnauthorized, "token_expired", "session expired", nil)
			return
		}
		if err != nil {
			respond.Unauthorized(c)
			return
		}

		c.Set(userIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(userEmailKey, strings.ToLower(claims.Email))
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		if claims.ClientID != "" {
			c.Set(tokenClient, claims.ClientID)
			c.Set(ClientIDKey, claims.ClientID)
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return stringFromContext(c, userNameKey)
}

// TokenClientIDFromContext returns the client id carried by the caller's
// token. Handlers may later overwrite ClientIDKey for logging; this value
// is not touched.
func TokenClientIDFromContext(c *gin.Context) string {
	return stringFromContext(c, tokenClient)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
