package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	service "github.com/mamadbah2/ridershift/internal/service/whatsapp"
)

// WebhookHandler exposes the WhatsApp admin channel callbacks.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

// Verify answers the hub.challenge handshake Meta sends when the callback URL
// is registered.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.svc.VerifyWebhookToken(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("webhook handshake rejected", zap.Error(err), zap.String("client_ip", c.ClientIP()))
		c.String(http.StatusForbidden, "forbidden")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive acknowledges every well-formed callback with 200 so Meta does not
// redeliver. Callbacks carrying only delivery receipts are not dispatched.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	messages, receipts := countInbound(payload)
	if messages == 0 {
		h.logger.Debug("webhook without messages", zap.Int("receipts", receipts))
		c.Status(http.StatusOK)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("admin command failed", zap.Error(err), zap.Int("messages", messages))
	} else {
		h.logger.Info("admin commands answered", zap.Int("messages", messages))
	}
	c.Status(http.StatusOK)
}

func countInbound(payload models.WebhookPayload) (messages, receipts int) {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			messages += len(change.Value.Messages)
			receipts += len(change.Value.Statuses)
		}
	}
	return messages, receipts
}
