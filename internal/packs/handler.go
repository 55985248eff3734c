package packs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/diagnostic/deepdive"
	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/server/respond"
)

// Handler serves the client pack views and the admin pack workflow.
type Handler struct {
	Svc     *Service
	Clients *clients.Service
}

func NewHandler(svc *Service, clientsSvc *clients.Service) *Handler {
	return &Handler{Svc: svc, Clients: clientsSvc}
}

// RegisterRoutes attaches the client-facing pack routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/packs/status", h.status)
	rg.GET("/packs/shipped", h.shipped)
}

// RegisterAdminRoutes attaches pack management routes. The group must be
// behind RequireAdmin.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients/:id/pack", h.get)
	rg.POST("/clients/:id/pack/generate", h.generate)
	rg.PUT("/clients/:id/pack", h.save)
	rg.POST("/clients/:id/pack/ship", h.ship)
}

type packResponse struct {
	Pack
	Outdated bool `json:"outdated"`
}

func withOutdated(p Pack) packResponse {
	return packResponse{Pack: p, Outdated: p.Outdated()}
}

func (h *Handler) clientFromQuery(c *gin.Context) (clients.Client, bool) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respond.Validation(c, "email is required")
		return clients.Client{}, false
	}
	client, err := h.Clients.GetByEmail(c.Request.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidEmail):
			respond.Validation(c, "a valid email is required")
		case errors.Is(err, clients.ErrNotFound):
			respond.NotFound(c, "client not found")
		default:
			respond.Internal(c, "failed to fetch client")
		}
		return clients.Client{}, false
	}
	c.Set(middleware.ClientIDKey, client.ID)
	return client, true
}

func (h *Handler) status(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respond.Validation(c, "email is required")
		return
	}
	client, err := h.Clients.GetByEmail(c.Request.Context(), email)
	if errors.Is(err, clients.ErrNotFound) {
		respond.OK(c, gin.H{"status": ClientNone})
		return
	}
	if err != nil {
		if errors.Is(err, clients.ErrInvalidEmail) {
			respond.Validation(c, "a valid email is required")
			return
		}
		respond.Internal(c, "failed to fetch pack status")
		return
	}
	status, err := h.Svc.ClientStatus(c.Request.Context(), client.ID)
	if err != nil {
		respond.Internal(c, "failed to fetch pack status")
		return
	}
	respond.OK(c, gin.H{"status": status})
}

func (h *Handler) shipped(c *gin.Context) {
	client, ok := h.clientFromQuery(c)
	if !ok {
		return
	}
	p, err := h.Svc.Shipped(c.Request.Context(), client.ID)
	if err != nil {
		writePackError(c, err, "failed to fetch pack")
		return
	}
	respond.OK(c, gin.H{"questions": p.Questions, "packMeta": p.Meta})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writePackError(c, err, "failed to fetch pack")
		return
	}
	respond.OK(c, withOutdated(p))
}

func (h *Handler) generate(c *gin.Context) {
	var prefs deepdive.Prefs
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&prefs); err != nil {
			respond.Validation(c, "invalid request body")
			return
		}
	}
	clientID := c.Param("id")
	c.Set(middleware.ClientIDKey, clientID)
	p, err := h.Svc.Generate(c.Request.Context(), clientID, prefs)
	if err != nil {
		writePackError(c, err, "failed to generate pack")
		return
	}
	respond.Created(c, withOutdated(p))
}

type saveRequest struct {
	Questions []deepdive.Question `json:"questions"`
	Meta      *deepdive.PackMeta  `json:"packMeta"`
	Status    Status              `json:"status"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	p, err := h.Svc.Save(c.Request.Context(), c.Param("id"), req.Questions, req.Meta, req.Status)
	if err != nil {
		writePackError(c, err, "failed to save pack")
		return
	}
	respond.OK(c, withOutdated(p))
}

func (h *Handler) ship(c *gin.Context) {
	clientID := c.Param("id")
	c.Set(middleware.ClientIDKey, clientID)
	p, err := h.Svc.Ship(c.Request.Context(), clientID)
	if err != nil {
		writePackError(c, err, "failed to ship pack")
		return
	}
	c.Set(middleware.StatusTransitionKey, "draft->"+string(p.Status))
	respond.OK(c, withOutdated(p))
}

func writePackError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.NotFound(c, "pack not found")
	case errors.Is(err, ErrNoIntake):
		respond.Error(c, http.StatusConflict, "no_intake", "client has no initial intake", nil)
	case errors.Is(err, ErrInvalidStatus):
		respond.Validation(c, "status must be draft, shipped or custom")
	case errors.Is(err, ErrEmptyPack):
		respond.Validation(c, "pack has no questions")
	default:
		respond.Internal(c, msg)
	}
}
