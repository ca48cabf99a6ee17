package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/ridershift/internal/domain/models"
)

type fakeMessaging struct {
	handled int
	err     error
}

func (f *fakeMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if token != "ok" {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

func (f *fakeMessaging) HandleWebhook(context.Context, models.WebhookPayload) error {
	f.handled++
	return f.err
}

func newWebhookEngine(svc *fakeMessaging) *gin.Engine {
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	return r
}

func TestWebhookHandler_Verify(t *testing.T) {
	r := newWebhookEngine(&fakeMessaging{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=ok&hub.challenge=123", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=bad", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookHandler_Receive(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantHandled int
	}{
		{
			name:        "command failure still acknowledged",
			body:        `{"entry":[{"changes":[{"value":{"messages":[{"from":"923001234567","id":"m1","type":"text","text":{"body":"/stats"}}]}}]}]}`,
			wantStatus:  http.StatusOK,
			wantHandled: 1,
		},
		{
			name:       "delivery receipts only",
			body:       `{"entry":[{"changes":[{"value":{"statuses":[{"id":"m1","status":"read"}]}}]}]}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeMessaging{err: errors.New("reply failed")}
			r := newWebhookEngine(svc)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantHandled, svc.handled)
		})
	}
}

func TestCountInbound(t *testing.T) {
	payload := models.WebhookPayload{Entry: []models.WebhookEntry{
		{Changes: []models.WebhookChange{{Value: models.WebhookValue{
			Messages: []models.InboundMessage{{ID: "a"}, {ID: "b"}},
			Statuses: []models.MessageStatus{{ID: "c"}},
		}}}},
		{Changes: []models.WebhookChange{{Value: models.WebhookValue{Messages: []models.InboundMessage{{ID: "d"}}}}}},
	}}

	messages, receipts := countInbound(payload)
	assert.Equal(t, 3, messages)
	assert.Equal(t, 1, receipts)
}
