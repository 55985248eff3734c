package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostics"
	"clarity-backend/internal/intakes"
	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/server/respond"
)

// Handler serves the admin dashboard API. Every route expects the group to
// run RequireAdmin first.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients", h.overview)
	rg.GET("/clients/:id", h.clientDetail)
	rg.GET("/clients/:id/notes", h.listNotes)
	rg.POST("/clients/:id/notes", h.addNote)
	rg.DELETE("/notes/:noteId", h.deleteNote)
	rg.POST("/clients/:id/release", h.releaseReport)
	rg.POST("/clients/:id/deliver", h.markDelivered)
	rg.GET("/clients/:id/overrides", h.listOverrides)
	rg.PUT("/clients/:id/overrides/:key", h.saveOverride)
	rg.DELETE("/clients/:id/overrides/:key", h.deleteOverride)
	rg.GET("/report-sections", h.sections)
}

func (h *Handler) overview(c *gin.Context) {
	rows, err := h.Svc.Overview(c.Request.Context())
	if err != nil {
		respond.Internal(c, "failed to load clients")
		return
	}
	respond.OK(c, gin.H{"clients": rows})
}

func (h *Handler) clientDetail(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.Param("id")
	c.Set(middleware.ClientIDKey, clientID)

	client, err := h.Svc.Clients.GetByID(ctx, clientID)
	if err != nil {
		writeError(c, err, "failed to load client")
		return
	}
	row, err := h.Svc.overviewRow(ctx, client)
	if err != nil {
		writeError(c, err, "failed to load client")
		return
	}
	list, err := h.Svc.Intakes.List(ctx, client.ID)
	if err != nil {
		writeError(c, err, "failed to load intakes")
		return
	}
	notes, err := h.Svc.ListNotes(ctx, client.ID)
	if err != nil {
		writeError(c, err, "failed to load notes")
		return
	}
	overrides, err := h.Svc.ListOverrides(ctx, client.ID)
	if err != nil {
		writeError(c, err, "failed to load overrides")
		return
	}

	resp := gin.H{
		"overview":  row,
		"intakes":   intakeSummaries(list),
		"notes":     nonNil(notes),
		"overrides": nonNil(overrides),
	}
	if h.Svc.Diagnostics != nil {
		view, err := h.Svc.Diagnostics.LatestReport(ctx, client.Email, true)
		switch {
		case err == nil:
			resp["report"] = view
		case !errors.Is(err, diagnostics.ErrNotFound):
			writeError(c, err, "failed to load report")
			return
		}
	}
	respond.OK(c, resp)
}

func intakeSummaries(list []intakes.Intake) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, in := range list {
		row := gin.H{
			"id":           in.ID,
			"mode":         in.Mode,
			"track":        in.Track,
			"reportStatus": in.ReportStatus,
			"createdAt":    in.CreatedAt,
			"answers":      in.Answers,
		}
		if in.Mode == intake.ModeDeep && in.ReportError != "" {
			row["reportError"] = in.ReportError
		}
		out = append(out, row)
	}
	return out
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

type noteRequest struct {
	Tag  string `json:"tag"`
	Note string `json:"note"`
}

func (h *Handler) listNotes(c *gin.Context) {
	notes, err := h.Svc.ListNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load notes")
		return
	}
	respond.OK(c, gin.H{"notes": nonNil(notes)})
}

func (h *Handler) addNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	clientID := c.Param("id")
	c.Set(middleware.ClientIDKey, clientID)
	n, err := h.Svc.AddNote(c.Request.Context(), clientID, middleware.UserEmailFromContext(c), req.Tag, req.Note)
	if err != nil {
		writeError(c, err, "failed to add note")
		return
	}
	respond.Created(c, n)
}

func (h *Handler) deleteNote(c *gin.Context) {
	if err := h.Svc.DeleteNote(c.Request.Context(), c.Param("noteId")); err != nil {
		writeError(c, err, "failed to delete note")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) releaseReport(c *gin.Context) {
	clientID := c.Param("id")
	c.Set(middleware.ClientIDKey, clientID)
	n, err := h.Svc.ReleaseReport(c.Request.Context(), clientID, middleware.UserEmailFromContext(c))
	if err != nil {
		writeError(c, err, "failed to release report")
		return
	}
	c.Set(middleware.StatusTransitionKey, "unreleased->released")
	respond.Created(c, n)
}

func (h *Handler) markDelivered(c *gin.Context) {
	clientID := c.Param("id")
	c.Set(middleware.ClientIDKey, clientID)
	n, err := h.Svc.MarkDelivered(c.Request.Context(), clientID, middleware.UserEmailFromContext(c))
	if err != nil {
		writeError(c, err, "failed to mark delivered")
		return
	}
	c.Set(middleware.StatusTransitionKey, "->delivered")
	respond.Created(c, n)
}

func (h *Handler) listOverrides(c *gin.Context) {
	list, err := h.Svc.ListOverrides(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load overrides")
		return
	}
	respond.OK(c, gin.H{"overrides": nonNil(list)})
}

type overrideRequest struct {
	Content string `json:"content"`
}

func (h *Handler) saveOverride(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	o, err := h.Svc.SaveOverride(c.Request.Context(), c.Param("id"), c.Param("key"), req.Content, middleware.UserEmailFromContext(c))
	if err != nil {
		writeError(c, err, "failed to save override")
		return
	}
	respond.OK(c, o)
}

func (h *Handler) deleteOverride(c *gin.Context) {
	if err := h.Svc.DeleteOverride(c.Request.Context(), c.Param("id"), c.Param("key")); err != nil {
		writeError(c, err, "failed to delete override")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) sections(c *gin.Context) {
	respond.OK(c, gin.H{"sections": Sections})
}

func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrUnknownSection):
		respond.Validation(c, "unknown report section", respond.FieldError{Field: "key", Issue: "unknown"})
	case errors.Is(err, ErrEmptyNote):
		respond.Validation(c, "note is required")
	case errors.Is(err, clients.ErrNotFound):
		respond.NotFound(c, "client not found")
	case errors.Is(err, ErrNoteNotFound), errors.Is(err, ErrOverrideNotFound):
		respond.NotFound(c, "not found")
	default:
		respond.Internal(c, msg)
	}
}
