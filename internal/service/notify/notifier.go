package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	client "github.com/mamadbah2/ridershift/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Notifier is the fire-and-forget notification surface. Callers never learn
// whether delivery succeeded.
//
//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks -source=notifier.go Notifier
type Notifier interface {
	NotifySuccess(ctx context.Context, message string)
	NotifyError(ctx context.Context, message string)
}

// LogNotifier writes notifications to the log only.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a notifier that only logs.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// NotifySuccess implements Notifier.
func (n *LogNotifier) NotifySuccess(_ context.Context, message string) {
	n.logger.Info("notification", zap.String("kind", string(models.NotifySuccess)), zap.String("message", message))
}

// NotifyError implements Notifier.
func (n *LogNotifier) NotifyError(_ context.Context, message string) {
	n.logger.Warn("notification", zap.String("kind", string(models.NotifyError)), zap.String("message", message))
}

// WhatsAppNotifier forwards notifications to an administrator over WhatsApp.
// Each message is sent on its own goroutine; Close waits for in-flight sends.
type WhatsAppNotifier struct {
	client    client.Client
	recipient string
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewWhatsAppNotifier wires a notifier that sends to recipient.
func NewWhatsAppNotifier(c client.Client, recipient string, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{client: c, recipient: recipient, logger: logger}
}

// NotifySuccess implements Notifier.
func (n *WhatsAppNotifier) NotifySuccess(ctx context.Context, message string) {
	n.send(ctx, models.Notification{Level: models.NotifySuccess, Message: message})
}

// NotifyError implements Notifier.
func (n *WhatsAppNotifier) NotifyError(ctx context.Context, message string) {
	n.send(ctx, models.Notification{Level: models.NotifyError, Message: message})
}

// Close blocks until every pending message has been attempted.
func (n *WhatsAppNotifier) Close() {
	n.wg.Wait()
}

func (n *WhatsAppNotifier) send(ctx context.Context, note models.Notification) {
	body := note.Message
	if note.Level == models.NotifyError {
		body = "⚠️ " + body
	}

	// The request that triggered the notification may finish first.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()

		_, err := n.client.SendTextMessage(sendCtx, client.SendTextMessageRequest{
			To:   n.recipient,
			Body: body,
		})
		if err != nil {
			n.logger.Error("failed to deliver notification", zap.Error(err), zap.String("kind", string(note.Level)))
			return
		}
		n.logger.Debug("notification delivered", zap.String("kind", string(note.Level)))
	}()
}
