package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
)

// FeeService reads and updates the fee schedule.
type FeeService interface {
	Current(ctx context.Context) models.FeeSchedule
	Update(ctx context.Context, fee60, fee100, fee150 int) (models.FeeSchedule, error)
}

// AdminHandler serves rider management and fee configuration.
type AdminHandler struct {
	accounts AccountService
	fees     FeeService
	logger   *zap.Logger
}

// NewAdminHandler constructs the admin HTTP adapter.
func NewAdminHandler(accounts AccountService, fees FeeService, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{accounts: accounts, fees: fees, logger: logger}
}

// ListRiders returns every rider account.
func (h *AdminHandler) ListRiders(c *gin.Context) {
	users, err := h.accounts.ListRiders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"riders": users})
}

// CreateRider provisions a rider account.
func (h *AdminHandler) CreateRider(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	user, err := h.accounts.SignUp(c.Request.Context(), req, models.RoleRider)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Fees returns the schedule in effect.
func (h *AdminHandler) Fees(c *gin.Context) {
	c.JSON(http.StatusOK, h.fees.Current(c.Request.Context()))
}

// UpdateFees replaces the schedule.
func (h *AdminHandler) UpdateFees(c *gin.Context) {
	var req models.FeeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	schedule, err := h.fees.Update(c.Request.Context(), *req.Fee60, *req.Fee100, *req.Fee150)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}
