package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/billyrestey/golfstrategy/internal/middleware"
	"github.com/billyrestey/golfstrategy/internal/payments"
)

type fakeCheckout struct {
	session *payments.Session
	err     error
}

func (f *fakeCheckout) CreateSession(ctx context.Context, userID, planID string) (*payments.Session, error) {
	return f.session, f.err
}

func TestCheckoutCreateProviderFailure(t *testing.T) {
	app := newTestApp(&fakeSQL{})
	app.Checkout = &fakeCheckout{err: errors.New("provider down")}

	req := httptest.NewRequest("POST", "/api/checkout", strings.NewReader(`{"plan_id":"pro_monthly"}`))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	rr := httptest.NewRecorder()
	app.CheckoutCreate(rr, req)

	if rr.Code != 502 {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "checkout_creation_failed") {
		t.Fatalf("expected checkout_creation_failed, got %s", rr.Body.String())
	}
}

func TestCheckoutCreateSuccess(t *testing.T) {
	fake := &fakeSQL{}
	fake.rows = append(fake.rows, NewSimpleRow(func(dest ...any) error {
		*(dest[0].(*string)) = "session-row-1"
		return nil
	}))
	app := newTestApp(fake)
	app.Checkout = &fakeCheckout{session: &payments.Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"}}

	req := httptest.NewRequest("POST", "/api/checkout", strings.NewReader(`{"plan_id":"credits_5"}`))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	rr := httptest.NewRecorder()
	app.CheckoutCreate(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "https://pay.example.com/cs_1") {
		t.Fatalf("expected checkout url in body, got %s", rr.Body.String())
	}
}

func TestCheckoutWebhookUnknownSessionIsNoop(t *testing.T) {
	// Replays and unknown sessions answer 204 so the provider stops retrying.
	app := newTestApp(&fakeSQL{})

	req := httptest.NewRequest("POST", "/api/checkout/webhook", strings.NewReader(`{"session_id":"cs_gone","plan_id":"pro_monthly","status":"completed"}`))
	rr := httptest.NewRecorder()
	app.CheckoutWebhook(rr, req)

	if rr.Code != 204 {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestCheckoutWebhookAppliesGrant(t *testing.T) {
	fake := &fakeSQL{}
	fake.rows = append(fake.rows, NewSimpleRow(func(dest ...any) error {
		*(dest[0].(*string)) = "user-1"
		*(dest[1].(*string)) = "pro"
		*(dest[2].(*int)) = 0
		return nil
	}))
	app := newTestApp(fake)

	req := httptest.NewRequest("POST", "/api/checkout/webhook", strings.NewReader(`{"session_id":"cs_1","plan_id":"pro_monthly","status":"completed"}`))
	rr := httptest.NewRecorder()
	app.CheckoutWebhook(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"tier":"pro"`) {
		t.Fatalf("expected pro tier in body, got %s", rr.Body.String())
	}
}

func TestCheckoutWebhookRejectsBadSecret(t *testing.T) {
	app := newTestApp(&fakeSQL{})
	app.WebhookSecret = "hook-secret"

	req := httptest.NewRequest("POST", "/api/checkout/webhook", strings.NewReader(`{"session_id":"cs_1","plan_id":"pro_monthly","status":"completed"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rr := httptest.NewRecorder()
	app.CheckoutWebhook(rr, req)

	if rr.Code != 401 {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
