package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/billyrestey/golfstrategy/internal/infra"
	"github.com/billyrestey/golfstrategy/internal/payments"
	"github.com/billyrestey/golfstrategy/internal/sqlinline"
)

type checkoutRequest struct {
	PlanID string `json:"plan_id"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type webhookRequest struct {
	SessionID string `json:"session_id"`
	PlanID    string `json:"plan_id"`
	Status    string `json:"status"`
}

func (a *App) CheckoutCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Checkout == nil {
		a.error(w, http.StatusServiceUnavailable, "checkout_unavailable", "checkout is not configured")
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	session, err := a.Checkout.CreateSession(r.Context(), userID, req.PlanID)
	if err != nil {
		a.Logger.Error().Err(err).Str("plan", req.PlanID).Msg("checkout session failed")
		a.error(w, http.StatusBadGateway, "checkout_creation_failed", "could not start checkout")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertCheckoutSession, userID, req.PlanID, session.ID)
	var id string
	if err := row.Scan(&id); err != nil {
		a.Logger.Error().Err(err).Msg("record checkout session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record checkout")
		return
	}
	a.json(w, http.StatusOK, checkoutResponse{CheckoutURL: session.URL})
}

// CheckoutWebhook applies the grant for a completed checkout. Replayed
// webhooks are harmless: a session already completed updates nothing.
func (a *App) CheckoutWebhook(w http.ResponseWriter, r *http.Request) {
	if a.WebhookSecret != "" {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] != a.WebhookSecret {
			a.error(w, http.StatusUnauthorized, "unauthorized", "bad webhook credentials")
			return
		}
	}
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Status != "completed" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	plan, ok := payments.Plans[req.PlanID]
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown plan")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QCompleteCheckoutSession, req.SessionID, plan.Tier, plan.Credits)
	var userID, tier string
	var credits int
	if err := row.Scan(&userID, &tier, &credits); err != nil {
		if infra.IsNoRows(err) {
			// Unknown or already-completed session.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		a.Logger.Error().Err(err).Msg("complete checkout failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to apply grant")
		return
	}
	a.logUsage(r.Context(), userID, "CHECKOUT_COMPLETED", true, 0, map[string]any{"plan": req.PlanID})
	a.json(w, http.StatusOK, map[string]any{"user_id": userID, "tier": tier, "credits": credits})
}
