package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/billyrestey/golfstrategy/internal/domain"
	"github.com/billyrestey/golfstrategy/internal/infra"
	"github.com/billyrestey/golfstrategy/internal/sqlinline"
)

const maxAnalysesPage = 50

type previewRequest struct {
	Scorecard domain.Scorecard `json:"scorecard"`
}

type previewResponse struct {
	Strategy *domain.Strategy `json:"strategy"`
	Provider string           `json:"provider"`
}

type commitRequest struct {
	Payload      json.RawMessage `json:"payload"`
	FormSnapshot json.RawMessage `json:"form_snapshot"`
}

type commitResponse struct {
	AnalysisID       string `json:"analysis_id"`
	RemainingCredits int    `json:"remaining_credits"`
}

// AnalysesPreview computes a strategy without persisting anything and
// without consuming a credit. It is open to anonymous callers so a preview
// can be generated before login; the paywall lives at commit time.
func (a *App) AnalysesPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := req.Scorecard.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	start := time.Now()
	strategy, err := a.Strategy.Generate(r.Context(), req.Scorecard)
	latency := int(time.Since(start).Milliseconds())
	userID := a.currentUserID(r)
	if err != nil {
		a.logUsage(r.Context(), userID, "ANALYSIS_PREVIEW", false, latency, map[string]any{"course": req.Scorecard.CourseName})
		a.Logger.Error().Err(err).Msg("strategy generation failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "failed to generate strategy")
		return
	}
	a.logUsage(r.Context(), userID, "ANALYSIS_PREVIEW", true, latency, map[string]any{"course": req.Scorecard.CourseName, "provider": strategy.Provider})
	a.json(w, http.StatusOK, previewResponse{Strategy: strategy, Provider: strategy.Provider})
}

// AnalysesCommit persists a previously generated strategy and consumes one
// credit atomically. This is the only operation that spends entitlement.
func (a *App) AnalysesCommit(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	var strategy domain.Strategy
	if err := json.Unmarshal(req.Payload, &strategy); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "payload is not a strategy")
		return
	}
	if err := strategy.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if len(req.FormSnapshot) == 0 {
		req.FormSnapshot = json.RawMessage(`{}`)
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QCommitAnalysis, userID, req.Payload, req.FormSnapshot)
	var out commitResponse
	if err := row.Scan(&out.AnalysisID, &out.RemainingCredits); err != nil {
		if infra.IsNoRows(err) {
			a.logUsage(r.Context(), userID, "ANALYSIS_COMMIT", false, 0, map[string]any{"reason": "quota"})
			a.error(w, http.StatusForbidden, "quota_exceeded", "no analysis credits remaining")
			return
		}
		a.Logger.Error().Err(err).Msg("commit analysis failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save analysis")
		return
	}
	a.logUsage(r.Context(), userID, "ANALYSIS_COMMIT", true, 0, nil)
	a.json(w, http.StatusCreated, out)
}

func (a *App) AnalysesGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid analysis id")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectAnalysisByID, id, userID)
	var item domain.Analysis
	if err := row.Scan(&item.ID, &item.UserID, &item.Payload, &item.FormSnapshot, &item.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "analysis not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load analysis failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load analysis")
		return
	}
	a.json(w, http.StatusOK, item)
}

func (a *App) AnalysesList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListAnalyses, userID, maxAnalysesPage)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load analyses")
		return
	}
	defer rows.Close()
	items := []domain.Analysis{}
	for rows.Next() {
		var item domain.Analysis
		if err := rows.Scan(&item.ID, &item.UserID, &item.Payload, &item.FormSnapshot, &item.CreatedAt); err != nil {
			a.Logger.Warn().Err(err).Msg("scan analysis failed")
			continue
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
