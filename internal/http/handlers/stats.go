package handlers

import (
	"net/http"

	"github.com/billyrestey/golfstrategy/internal/sqlinline"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary)
	var totalUsers, analysesCommitted, roundsTracked, analyses24, previews24 int64
	if err := row.Scan(&totalUsers, &analysesCommitted, &roundsTracked, &analyses24, &previews24); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_users":        totalUsers,
		"analyses_committed": analysesCommitted,
		"rounds_tracked":     roundsTracked,
		"analyses_last_24h":  analyses24,
		"previews_last_24h":  previews24,
	})
}
