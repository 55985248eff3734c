package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/shared/server/respond"
)

// AdminSet is the lower-cased set of admin emails.
type AdminSet map[string]struct{}

// NewAdminSet builds an AdminSet from raw addresses.
func NewAdminSet(emails []string) AdminSet {
	set := make(AdminSet, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

// Contains reports whether email belongs to an admin.
func (s AdminSet) Contains(email string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// MarkAdmin flags admin callers in context without rejecting anyone. It
// must run after Auth.
func MarkAdmin(admins AdminSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		if email := UserEmailFromContext(c); email != "" && admins.Contains(email) {
			c.Set(isAdminKey, true)
		}
		c.Next()
	}
}

// RequireAdmin rejects callers whose token email is not an admin. It must
// run after Auth.
func RequireAdmin(admins AdminSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := UserEmailFromContext(c)
		if email == "" {
			respond.Unauthorized(c)
			return
		}
		if !admins.Contains(email) {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin access required", nil)
			return
		}
		c.Set(isAdminKey, true)
		c.Next()
	}
}

// IsAdmin reports whether MarkAdmin or RequireAdmin accepted the caller.
func IsAdmin(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(isAdminKey)
}
