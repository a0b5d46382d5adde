package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"boascontas/internal/bot"
)

type fakeDispatcher struct {
	outcome bot.Outcome
	calls   []bot.InboundMessage
}

func (f *fakeDispatcher) Handle(_ context.Context, msg bot.InboundMessage) bot.Outcome {
	f.calls = append(f.calls, msg)
	return f.outcome
}

const sampleUpdate = `{
	"update_id": 9001,
	"message": {
		"message_id": 7,
		"from": {"id": 123, "username": "maria", "first_name": "Maria"},
		"chat": {"id": 456},
		"text": "gasto 50 mercado"
	}
}`

func postWebhook(srv *Server, body, secret string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(webhookSecretHeader, secret)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestWebhookDispatch(t *testing.T) {
	d := &fakeDispatcher{outcome: bot.OutcomeRecorded}
	srv := NewServer(":0", "", d)

	rr := postWebhook(srv, sampleUpdate, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok":true`) {
		t.Fatalf("body = %s", rr.Body.String())
	}
	if len(d.calls) != 1 {
		t.Fatalf("dispatcher calls = %d", len(d.calls))
	}
	got := d.calls[0]
	if got.TelegramUserID != 123 || got.Handle != "maria" || got.ChatID != 456 || got.Text != "gasto 50 mercado" {
		t.Fatalf("unexpected inbound message: %+v", got)
	}
}

func TestWebhookSecret(t *testing.T) {
	d := &fakeDispatcher{outcome: bot.OutcomeRecorded}
	srv := NewServer(":0", "s3cret", d)

	rr := postWebhook(srv, sampleUpdate, "wrong")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret status = %d", rr.Code)
	}
	rr = postWebhook(srv, sampleUpdate, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret status = %d", rr.Code)
	}
	if len(d.calls) != 0 {
		t.Fatalf("dispatcher ran despite bad secret")
	}

	rr = postWebhook(srv, sampleUpdate, "s3cret")
	if rr.Code != http.StatusOK {
		t.Fatalf("correct secret status = %d", rr.Code)
	}
	if len(d.calls) != 1 {
		t.Fatalf("dispatcher calls = %d", len(d.calls))
	}
}

func TestWebhookIgnoresUpdatesWithoutMessage(t *testing.T) {
	d := &fakeDispatcher{}
	srv := NewServer(":0", "", d)

	rr := postWebhook(srv, `{"update_id": 5}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(d.calls) != 0 {
		t.Fatalf("dispatcher called for message-less update")
	}
}

func TestWebhookBadTransport(t *testing.T) {
	d := &fakeDispatcher{}
	srv := NewServer(":0", "", d)

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/telegram/webhook", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Undecodable body
	rr = postWebhook(srv, "{not json", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if len(d.calls) != 0 {
		t.Fatalf("dispatcher called on transport failure")
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := NewServer(":0", "", &fakeDispatcher{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
	}
}

func TestWebhookRateLimit(t *testing.T) {
	d := &fakeDispatcher{outcome: bot.OutcomeIgnored}
	srv := NewServer(":0", "", d)

	var last int
	for i := 0; i < 61; i++ {
		rr := postWebhook(srv, `{"update_id": 1}`, "")
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last)
	}
}
