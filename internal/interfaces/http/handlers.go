package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/intake"
	"github.com/reservat/storefront/internal/metrics"
	"github.com/reservat/storefront/internal/models"
	"github.com/reservat/storefront/internal/profile"
	"github.com/reservat/storefront/internal/proposal"
	"github.com/reservat/storefront/internal/storefront"
	"github.com/reservat/storefront/internal/viewflow"
)

// ChatService answers storefront visitor questions.
type ChatService interface {
	Send(ctx context.Context, conversationID, message string) (string, error)
	Forget(conversationID string)
}

// Handlers contains HTTP request handlers
type Handlers struct {
	services Services
	logger   *zap.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(services Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// Response is the standard API response format
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse is the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, intake.ErrSessionNotFound),
		errors.Is(err, storefront.ErrServiceNotFound),
		errors.Is(err, storefront.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, intake.ErrNotEditable),
		errors.Is(err, intake.ErrNotSimulating),
		errors.Is(err, intake.ErrProposalNotReady),
		errors.Is(err, viewflow.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, storefront.ErrUnauthorized),
		errors.Is(err, storefront.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, storefront.ErrEmptyCart):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), Response{Success: false, Error: err.Error()})
}

func (h *Handlers) session(c *gin.Context) (*intake.Session, bool) {
	session, err := h.services.Sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return session, true
}

// CreateSession handles POST /api/v1/intake
func (h *Handlers) CreateSession(c *gin.Context) {
	session := h.services.Sessions.Create()
	if h.services.Metrics != nil {
		h.services.Metrics.SessionsCreated.Inc()
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: session.Overview()})
}

// GetSession handles GET /api/v1/intake/:id
func (h *Handlers) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: session.Overview()})
}

// FieldOptions handles GET /api/v1/intake/options
func (h *Handlers) FieldOptions(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: profile.OptionsByPath()})
}

// SetFieldRequest updates a single profile field. Text fields carry a JSON
// string, tri-state fields carry true, false or null.
type SetFieldRequest struct {
	Section string          `json:"section" binding:"required"`
	Field   string          `json:"field" binding:"required"`
	Value   json.RawMessage `json:"value"`
}

// SetField handles PUT /api/v1/intake/:id/fields
func (h *Handlers) SetField(c *gin.Context) {
	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
		return
	}

	ref, kind, err := profile.Resolve(req.Section, req.Field)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}

	switch kind {
	case profile.KindText:
		var value string
		if err := json.Unmarshal(req.Value, &value); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "text field expects a string value"})
			return
		}
		err = session.SetText(ref, value)
	case profile.KindTriState:
		var raw interface{}
		if len(req.Value) > 0 {
			if err := json.Unmarshal(req.Value, &raw); err != nil {
				c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid tri-state value"})
				return
			}
		}
		var value models.TriState
		value, err = models.TriStateFromJSON(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
		err = session.SetTriState(ref, value)
	default:
		c.JSON(http.StatusBadRequest, Response{Success: false,
			Error: fmt.Sprintf("field %s is multi-select, use the options endpoint", ref)})
		return
	}

	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: session.Overview()})
}

// ToggleOptionRequest toggles one choice of a multi-select field.
type ToggleOptionRequest struct {
	Section string `json:"section" binding:"required"`
	Field   string `json:"field" binding:"required"`
	Value   string `json:"value" binding:"required"`
}

// ToggleOption handles PUT /api/v1/intake/:id/options
func (h *Handlers) ToggleOption(c *gin.Context) {
	var req ToggleOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
		return
	}

	ref, kind, err := profile.Resolve(req.Section, req.Field)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if kind != profile.KindSet {
		c.JSON(http.StatusBadRequest, Response{Success: false,
			Error: fmt.Sprintf("field %s is not multi-select", ref)})
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.ToggleOption(ref, req.Value); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: session.Overview()})
}

// Submit handles POST /api/v1/intake/:id/submit
func (h *Handlers) Submit(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	fieldErrors, err := session.Submit(c.Request.Context())
	if errors.Is(err, viewflow.ErrGuardFailed) {
		if h.services.Metrics != nil {
			h.services.Metrics.SubmissionsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		}
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Data:    gin.H{"errors": fieldErrors},
			Error:   "profile is incomplete",
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	if h.services.Metrics != nil {
		h.services.Metrics.SubmissionsTotal.WithLabelValues(metrics.ResultAccepted).Inc()
	}
	c.JSON(http.StatusAccepted, Response{Success: true, Data: session.Overview()})
}

// Progress handles GET /api/v1/intake/:id/progress
func (h *Handlers) Progress(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	snapshot, err := session.Progress()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: snapshot})
}

// GetProposal handles GET /api/v1/intake/:id/proposal
func (h *Handlers) GetProposal(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	doc, err := session.Proposal()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// DownloadProposalPDF handles GET /api/v1/intake/:id/proposal/pdf
func (h *Handlers) DownloadProposalPDF(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	doc, err := session.Proposal()
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := h.services.PDF.Generate(doc)
	if err != nil {
		h.logger.Error("Failed to generate proposal PDF",
			zap.String("session_id", session.ID()), zap.Error(err))
		h.fail(c, err)
		return
	}

	if h.services.Metrics != nil {
		h.services.Metrics.DownloadsTotal.WithLabelValues("pdf").Inc()
	}
	filename := proposal.PDFFilename(doc.Header.Recipient)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// DownloadProposalExcel handles GET /api/v1/intake/:id/proposal/xlsx
func (h *Handlers) DownloadProposalExcel(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	doc, err := session.Proposal()
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := h.services.Excel.Generate(doc)
	if err != nil {
		h.logger.Error("Failed to generate proposal workbook",
			zap.String("session_id", session.ID()), zap.Error(err))
		h.fail(c, err)
		return
	}

	if h.services.Metrics != nil {
		h.services.Metrics.DownloadsTotal.WithLabelValues("xlsx").Inc()
	}
	filename := proposal.ExcelFilename(doc.Header.Recipient)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ResetSession handles POST /api/v1/intake/:id/reset
func (h *Handlers) ResetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Reset(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: session.Overview()})
}
