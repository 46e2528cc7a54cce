package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/billyrestey/golfstrategy/internal/domain"
	"github.com/billyrestey/golfstrategy/internal/sqlinline"
)

const maxRoundsPage = 100

type createRoundRequest struct {
	CourseName string `json:"course_name"`
	DatePlayed string `json:"date_played"` // YYYY-MM-DD
	Score      int    `json:"score"`
	Par        int    `json:"par"`
	Notes      string `json:"notes"`
}

func (a *App) RoundsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req createRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.CourseName) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "course_name required")
		return
	}
	datePlayed, err := time.Parse("2006-01-02", req.DatePlayed)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "date_played must be YYYY-MM-DD")
		return
	}
	if req.Score <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "score must be positive")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertRound, userID, strings.TrimSpace(req.CourseName), datePlayed, req.Score, req.Par, req.Notes)
	var id string
	var createdAt time.Time
	if err := row.Scan(&id, &createdAt); err != nil {
		a.Logger.Error().Err(err).Msg("insert round failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save round")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": id, "created_at": createdAt})
}

func (a *App) RoundsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListRounds, userID, maxRoundsPage)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load rounds")
		return
	}
	defer rows.Close()
	items := []domain.Round{}
	for rows.Next() {
		var item domain.Round
		if err := rows.Scan(&item.ID, &item.UserID, &item.CourseName, &item.DatePlayed, &item.Score, &item.Par, &item.Notes, &item.CreatedAt); err != nil {
			a.Logger.Warn().Err(err).Msg("scan round failed")
			continue
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
