package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkout/sessions" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.PlanID != "pro_monthly" || req.UserID != "user-1" {
			t.Fatalf("unexpected request %#v", req)
		}
		_ = json.NewEncoder(w).Encode(Session{ID: "cs_123", URL: "https://pay.example.com/cs_123"})
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, APIKey: "sk_test", SuccessURL: "https://app/?payment=success"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	session, err := c.CreateSession(context.Background(), "user-1", "pro_monthly")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.ID != "cs_123" || session.URL == "" {
		t.Fatalf("unexpected session %#v", session)
	}
}

func TestCreateSessionUnknownPlan(t *testing.T) {
	c, _ := NewClient(Options{BaseURL: "https://pay.example.com", APIKey: "sk"})
	if _, err := c.CreateSession(context.Background(), "user-1", "gold_plated"); !errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("expected ErrCheckoutFailed, got %v", err)
	}
}

func TestCreateSessionProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := NewClient(Options{BaseURL: srv.URL, APIKey: "sk"})
	if _, err := c.CreateSession(context.Background(), "user-1", "credits_5"); !errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("expected ErrCheckoutFailed, got %v", err)
	}
}
