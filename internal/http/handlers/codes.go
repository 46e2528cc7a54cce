package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/billyrestey/golfstrategy/internal/infra"
	"github.com/billyrestey/golfstrategy/internal/sqlinline"
)

type activateCodeRequest struct {
	Code string `json:"code"`
}

type activateCodeResponse struct {
	CreditsGranted   int `json:"credits_granted"`
	RemainingCredits int `json:"remaining_credits"`
}

// CodesActivate redeems a single-use trial code for credits.
func (a *App) CodesActivate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req activateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	code := strings.TrimSpace(strings.ToUpper(req.Code))
	if code == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "code required")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QRedeemCode, code, userID)
	var out activateCodeResponse
	if err := row.Scan(&out.CreditsGranted, &out.RemainingCredits); err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "invalid_code", "code is unknown, expired, or already used")
			return
		}
		a.Logger.Error().Err(err).Msg("redeem code failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to redeem code")
		return
	}
	a.logUsage(r.Context(), userID, "CODE_REDEEMED", true, 0, map[string]any{"code": code})
	a.json(w, http.StatusOK, out)
}
