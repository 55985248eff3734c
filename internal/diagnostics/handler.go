package diagnostics

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/intakes"
	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the diagnostics service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches intake, preview and report routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/intakes", h.submitIntake)
	rg.GET("/intakes/latest", h.latestIntake)
	rg.POST("/preview", h.preview)
	rg.GET("/reports/latest", h.latestReport)
}

type submitRequest struct {
	Email   string          `json:"email"`
	Mode    intake.Mode     `json:"mode"`
	Answers intake.Response `json:"answers"`
}

func (h *Handler) submitIntake(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	if req.Mode == "" {
		req.Mode = intake.ModeInitial
	}

	sub, err := h.Svc.Submit(c.Request.Context(), SubmitInput{
		Email:     req.Email,
		Mode:      req.Mode,
		Answers:   req.Answers,
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidEmail):
			respond.Validation(c, "a valid email is required", respond.FieldError{Field: "email", Issue: "invalid"})
		case errors.Is(err, intakes.ErrInvalidMode):
			respond.Validation(c, "mode must be initial or deep", respond.FieldError{Field: "mode", Issue: "invalid"})
		case errors.Is(err, intakes.ErrNoAnswers):
			respond.Validation(c, "answers are required", respond.FieldError{Field: "answers", Issue: "required"})
		default:
			respond.Internal(c, "failed to save intake")
		}
		return
	}

	c.Set(middleware.IntakeIDKey, sub.Intake.ID)
	c.Set(middleware.ClientIDKey, sub.Client.ID)

	if sub.Preview != nil {
		respond.Created(c, gin.H{
			"intakeId": sub.Intake.ID,
			"clientId": sub.Client.ID,
			"track":    sub.Intake.Track,
			"preview":  sub.Preview,
		})
		return
	}

	c.Set(middleware.StatusTransitionKey, "none->"+string(sub.Intake.ReportStatus))
	respond.Accepted(c, gin.H{
		"intakeId":     sub.Intake.ID,
		"clientId":     sub.Client.ID,
		"track":        sub.Intake.Track,
		"reportStatus": sub.Intake.ReportStatus,
	})
}

func (h *Handler) latestIntake(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respond.Validation(c, "email is required")
		return
	}
	mode := intake.Mode(c.Query("mode"))
	if mode != "" && !mode.Valid() {
		respond.Validation(c, "mode must be initial or deep")
		return
	}

	in, err := h.Svc.LatestIntake(c.Request.Context(), email, mode)
	if err != nil {
		writeLookupError(c, err, "failed to fetch intake")
		return
	}
	c.Set(middleware.IntakeIDKey, in.ID)
	respond.OK(c, gin.H{
		"intakeId":     in.ID,
		"mode":         in.Mode,
		"track":        in.Track,
		"answers":      in.Answers,
		"reportStatus": in.ReportStatus,
		"createdAt":    in.CreatedAt,
	})
}

type previewRequest struct {
	Answers intake.Response `json:"answers"`
}

func (h *Handler) preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	if len(req.Answers.Keys()) == 0 {
		respond.Validation(c, "answers are required")
		return
	}
	res, _ := h.Svc.Preview(req.Answers)
	respond.OK(c, res)
}

func (h *Handler) latestReport(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respond.Validation(c, "email is required")
		return
	}

	view, err := h.Svc.LatestReport(c.Request.Context(), email, middleware.IsAdmin(c))
	if err != nil {
		if errors.Is(err, ErrReportNotReady) {
			respond.Error(c, http.StatusNotFound, "not_released", "report has not been released", nil)
			return
		}
		writeLookupError(c, err, "failed to fetch report")
		return
	}
	c.Set(middleware.ClientIDKey, view.Result.ClientID)
	respond.OK(c, view)
}

func writeLookupError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, clients.ErrInvalidEmail):
		respond.Validation(c, "a valid email is required")
	case errors.Is(err, clients.ErrNotFound), errors.Is(err, intakes.ErrNotFound), errors.Is(err, ErrNotFound):
		respond.NotFound(c, "not found")
	default:
		respond.Internal(c, msg)
	}
}
