package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codemasterspro/cmpro-bot/internal/service"
	"github.com/go-telegram/bot/models"
)

type mockDispatcher struct {
	updates []*models.Update
}

func (m *mockDispatcher) HandleUpdate(ctx context.Context, update *models.Update) {
	m.updates = append(m.updates, update)
}

type mockProcessor struct {
	stats service.ReminderStats
	err   error
}

func (m *mockProcessor) ProcessDue(ctx context.Context) (service.ReminderStats, error) {
	return m.stats, m.err
}

const testSecret = "webhook-secret-0123456789abcdef"

func newTestRouter(dispatcher *mockDispatcher, processor *mockProcessor) http.Handler {
	logger := zap.NewNop()
	webhook := NewWebhookHandler(testSecret, dispatcher, "@cmpro_bot", "https://bot.example.com/api/webhook", logger)
	cron := NewCronHandler(processor, logger)
	health := NewHealthHandler("test", "Asia/Almaty", "ru")
	return NewRouter(webhook, cron, health, logger)
}

func postUpdate(router http.Handler, secret string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(secretTokenHeader, secret)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookRejectsMissingSecret(t *testing.T) {
	dispatcher := &mockDispatcher{}
	router := newTestRouter(dispatcher, &mockProcessor{})

	rec := postUpdate(router, "", []byte(`{"update_id":1}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, dispatcher.updates)
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	dispatcher := &mockDispatcher{}
	router := newTestRouter(dispatcher, &mockProcessor{})

	rec := postUpdate(router, "wrong-secret", []byte(`{"update_id":1}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, dispatcher.updates)
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	dispatcher := &mockDispatcher{}
	router := newTestRouter(dispatcher, &mockProcessor{})

	for _, body := range [][]byte{nil, []byte("not json"), []byte("{")} {
		rec := postUpdate(router, testSecret, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	assert.Empty(t, dispatcher.updates)
}

func TestWebhookDispatchesUpdate(t *testing.T) {
	dispatcher := &mockDispatcher{}
	router := newTestRouter(dispatcher, &mockProcessor{})

	rec := postUpdate(router, testSecret, []byte(`{"update_id":42}`))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])

	require.Len(t, dispatcher.updates, 1)
	assert.Equal(t, int64(42), dispatcher.updates[0].ID)
}

func TestWebhookInfo(t *testing.T) {
	router := newTestRouter(&mockDispatcher{}, &mockProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/api/webhook", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "active", resp["status"])
	assert.Equal(t, "@cmpro_bot", resp["bot_username"])
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&mockDispatcher{}, &mockProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "cmpro-bot", resp["service"])
	assert.Equal(t, "Asia/Almaty", resp["timezone"])
	assert.Equal(t, "ru", resp["default_lang"])
}

func TestCronReminders(t *testing.T) {
	processor := &mockProcessor{stats: service.ReminderStats{Total: 3, Processed: 2, Errors: 1}}
	router := newTestRouter(&mockDispatcher{}, processor)

	req := httptest.NewRequest(http.MethodPost, "/api/cron", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Tasks  struct {
			PaymentReminders service.ReminderStats `json:"payment_reminders"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, service.ReminderStats{Total: 3, Processed: 2, Errors: 1}, resp.Tasks.PaymentReminders)
}

func TestCronRemindersFailure(t *testing.T) {
	processor := &mockProcessor{err: errors.New("db down")}
	router := newTestRouter(&mockDispatcher{}, processor)

	req := httptest.NewRequest(http.MethodGet, "/api/cron", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
