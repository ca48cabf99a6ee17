package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/config"
	"github.com/mamadbah2/ridershift/internal/domain/models"
	client "github.com/mamadbah2/ridershift/pkg/clients/whatsapp"
)

const (
	replyTimeout  = 10 * time.Second
	maxOpenListed = 10
	helpText      = "Commands: /stats, /open [count], /dues"
)

// MessagingService describes the operations the webhook handler can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
}

// ShiftQueries is the read side of the shift lifecycle.
type ShiftQueries interface {
	Stats(ctx context.Context) (models.Stats, error)
	List(ctx context.Context, filter models.ShiftFilter) ([]models.ShiftEntry, error)
}

// DueQueries yields the dues ledger aggregates.
type DueQueries interface {
	Summary(ctx context.Context) (models.DuesSummary, error)
}

// MetaWhatsAppService answers admin commands sent over WhatsApp. Messages
// from anyone but the configured admin are ignored.
type MetaWhatsAppService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	shifts ShiftQueries
	dues   DueQueries
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, c client.Client, shifts ShiftQueries, dues DueQueries, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{cfg: cfg, client: c, shifts: shifts, dues: dues, logger: logger}
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}
	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}
	if s.cfg.VerifyToken == "" || verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads. It returns the first
// failure after attempting every message.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if normalizePhone(msg.From) != normalizePhone(s.cfg.AdminRecipient) {
		s.logger.Warn("ignoring message from unknown sender", zap.String("from", msg.From))
		return nil
	}

	text := extractMessageText(msg)
	if text == "" {
		return nil
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed admin command", zap.String("command", string(cmd.Type)))

	body, err := s.reply(ctx, cmd)
	if err != nil {
		body = "⚠️ " + err.Error()
	}

	sendCtx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	_, sendErr := s.client.SendTextMessage(sendCtx, client.SendTextMessageRequest{To: msg.From, Body: body})
	if sendErr != nil {
		return fmt.Errorf("reply to %s: %w", cmd.Type, sendErr)
	}
	return err
}

func (s *MetaWhatsAppService) reply(ctx context.Context, cmd models.Command) (string, error) {
	switch cmd.Type {
	case models.CommandStats:
		st, err := s.shifts.Stats(ctx)
		if err != nil {
			return "", fmt.Errorf("load stats: %w", err)
		}
		return fmt.Sprintf("Shifts: %d (%d open, %d closed)\nOrders: %d\nOnline: Rs %d\nCommission: Rs %d\nExpenses: Rs %d\nOutstanding cash: Rs %d",
			st.Entries, st.OpenShifts, st.ClosedShifts, st.TotalOrders, st.TotalOnline,
			st.TotalCommission, st.TotalExpenses, st.OutstandingCash), nil

	case models.CommandOpen:
		entries, err := s.shifts.List(ctx, models.ShiftFilter{Status: models.ShiftOpen, Limit: openLimit(cmd.Args)})
		if err != nil {
			return "", fmt.Errorf("load open shifts: %w", err)
		}
		if len(entries) == 0 {
			return "No open shifts.", nil
		}
		var b strings.Builder
		b.WriteString("Open shifts:")
		for _, e := range entries {
			fmt.Fprintf(&b, "\n- %s %s %s closing Rs %d", e.ID, e.EntryDate.Format("2006-01-02"), e.Shift, e.ClosingBalance)
		}
		return b.String(), nil

	case models.CommandDues:
		summary, err := s.dues.Summary(ctx)
		if err != nil {
			return "", fmt.Errorf("load dues: %w", err)
		}
		return fmt.Sprintf("Pending dues: Rs %d across %d customer(s).", summary.PendingTotal, summary.PendingCount), nil

	default:
		return helpText, nil
	}
}

// openLimit reads the optional count of "/open N", capped at maxOpenListed.
func openLimit(args []string) int {
	if len(args) == 0 {
		return maxOpenListed
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 || n > maxOpenListed {
		return maxOpenListed
	}
	return n
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}
	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}
	return ""
}

func normalizePhone(number string) string {
	return strings.TrimPrefix(strings.TrimSpace(number), "+")
}
