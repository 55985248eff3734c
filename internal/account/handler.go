package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/account/status", h.status)
}

// status reads the email from the query, falling back to the bearer token.
func (h *Handler) status(c *gin.Context) {
	if h.Svc == nil {
		respond.Internal(c, "service unavailable")
		return
	}
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		email = middleware.UserEmailFromContext(c)
	}
	if email == "" {
		respond.Validation(c, "email is required", respond.FieldError{Field: "email", Issue: "required"})
		return
	}

	st, err := h.Svc.Status(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, clients.ErrInvalidEmail) {
			respond.Validation(c, "a valid email is required", respond.FieldError{Field: "email", Issue: "invalid"})
			return
		}
		respond.Internal(c, "failed to fetch account status")
		return
	}
	respond.JSON(c, http.StatusOK, st)
}
