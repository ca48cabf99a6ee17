package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
)

const (
	queryDateLayout = "2006-01-02"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ShiftService is the shift lifecycle as used over HTTP.
type ShiftService interface {
	Preview(ctx context.Context, riderID string, form models.ShiftForm) (models.ShiftPreview, error)
	Submit(ctx context.Context, riderID string, form models.ShiftForm) (models.ShiftEntry, error)
	List(ctx context.Context, filter models.ShiftFilter) ([]models.ShiftEntry, error)
	LastClosingBalance(ctx context.Context, riderID string) (int, error)
	Close(ctx context.Context, id string) (models.ShiftEntry, error)
	CollectCash(ctx context.Context, id string) (models.ShiftEntry, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// Exporter renders shift entries as a workbook.
type Exporter interface {
	ExportXLSX(ctx context.Context, filter models.ShiftFilter) ([]byte, error)
}

// ShiftHandler serves rider submissions and the admin review endpoints.
type ShiftHandler struct {
	svc      ShiftService
	exporter Exporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewShiftHandler constructs the shift HTTP adapter.
func NewShiftHandler(svc ShiftService, exporter Exporter, logger *zap.Logger) *ShiftHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftHandler{svc: svc, exporter: exporter, logger: logger, now: time.Now}
}

// Preview computes the totals of a form without saving it.
func (h *ShiftHandler) Preview(c *gin.Context) {
	var form models.ShiftForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	preview, err := h.svc.Preview(c.Request.Context(), userID(c), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Submit records the caller's shift report.
func (h *ShiftHandler) Submit(c *gin.Context) {
	var form models.ShiftForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	entry, err := h.svc.Submit(c.Request.Context(), userID(c), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Mine lists the caller's own entries.
func (h *ShiftHandler) Mine(c *gin.Context) {
	filter, err := parseShiftFilter(c)
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}
	filter.RiderID = userID(c)

	entries, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// LastBalance returns the balance the caller's next shift opens with.
func (h *ShiftHandler) LastBalance(c *gin.Context) {
	amount, err := h.svc.LastClosingBalance(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"open_balance": amount})
}

// List returns entries for the admin review table.
func (h *ShiftHandler) List(c *gin.Context) {
	filter, err := parseShiftFilter(c)
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}

	entries, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Close moves an entry to closed.
func (h *ShiftHandler) Close(c *gin.Context) {
	entry, err := h.svc.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// CollectCash marks the entry's outstanding expense cash as collected.
func (h *ShiftHandler) CollectCash(c *gin.Context) {
	entry, err := h.svc.CollectCash(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Stats returns the dashboard rollups.
func (h *ShiftHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Export streams the filtered entries as an .xlsx attachment.
func (h *ShiftHandler) Export(c *gin.Context) {
	filter, err := parseShiftFilter(c)
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}

	data, err := h.exporter.ExportXLSX(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	name := fmt.Sprintf("shifts-%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func parseShiftFilter(c *gin.Context) (models.ShiftFilter, error) {
	filter := models.ShiftFilter{
		RiderID: c.Query("rider_id"),
		Status:  models.ShiftStatus(c.Query("status")),
	}
	switch filter.Status {
	case "", models.ShiftOpen, models.ShiftClosed:
	default:
		return filter, fmt.Errorf("unknown status %q", filter.Status)
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid from: %w", err)
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid to: %w", err)
		}
		// inclusive day in the query, exclusive bound in the filter
		filter.To = to.AddDate(0, 0, 1)
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("invalid limit %q", raw)
		}
		filter.Limit = limit
	}
	return filter, nil
}
