package server

import (
	"github.com/gin-gonic/gin"

	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/server/respond"
)

// identity is who the portal or dashboard is talking to. Role is "admin"
// for allowlisted operators and "client" for everyone else.
type identity struct {
	UserID   string `json:"userId"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	ClientID string `json:"clientId,omitempty"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"isAdmin"`
}

func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", me)
}

func me(c *gin.Context) {
	id := identity{
		UserID:   middleware.UserIDFromContext(c),
		Email:    middleware.UserEmailFromContext(c),
		Name:     middleware.UserNameFromContext(c),
		ClientID: middleware.TokenClientIDFromContext(c),
		Role:     "client",
		IsAdmin:  middleware.IsAdmin(c),
	}
	if id.UserID == "" {
		respond.Unauthorized(c)
		return
	}
	if id.IsAdmin {
		id.Role = "admin"
	}
	respond.OK(c, id)
}
