package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
)

// DueService is the dues ledger as used over HTTP.
type DueService interface {
	Create(ctx context.Context, riderID string, form models.DueForm) (models.Due, error)
	MarkPaid(ctx context.Context, id string) (models.Due, error)
	Summary(ctx context.Context) (models.DuesSummary, error)
}

// DueHandler serves the dues ledger.
type DueHandler struct {
	svc    DueService
	logger *zap.Logger
}

// NewDueHandler constructs the dues HTTP adapter.
func NewDueHandler(svc DueService, logger *zap.Logger) *DueHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DueHandler{svc: svc, logger: logger}
}

// Create records a due on behalf of the calling rider.
func (h *DueHandler) Create(c *gin.Context) {
	var form models.DueForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	due, err := h.svc.Create(c.Request.Context(), userID(c), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, due)
}

// Summary lists every due with the pending total.
func (h *DueHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Pay marks a due paid.
func (h *DueHandler) Pay(c *gin.Context) {
	due, err := h.svc.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, due)
}
