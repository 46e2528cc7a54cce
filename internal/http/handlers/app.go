package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/billyrestey/golfstrategy/internal/ghin"
	"github.com/billyrestey/golfstrategy/internal/infra"
	"github.com/billyrestey/golfstrategy/internal/middleware"
	"github.com/billyrestey/golfstrategy/internal/payments"
	"github.com/billyrestey/golfstrategy/internal/providers/strategy"
	"github.com/billyrestey/golfstrategy/internal/sqlinline"
)

// GHINLookup is the slice of the handicap-service client the handlers use.
type GHINLookup interface {
	Lookup(ctx context.Context, ghinNumber string) (*ghin.Profile, error)
}

// CheckoutClient creates hosted checkout sessions.
type CheckoutClient interface {
	CreateSession(ctx context.Context, userID, planID string) (*payments.Session, error)
}

// App bundles the dependencies the HTTP handlers need.
type App struct {
	SQL           infra.SQLExecutor
	Logger        zerolog.Logger
	JWTSecret     string
	WebhookSecret string
	Strategy      strategy.Generator
	GHIN          GHINLookup
	Checkout      CheckoutClient
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// logUsage records a usage event, best effort. userID may be empty for
// anonymous traffic.
func (a *App) logUsage(ctx context.Context, userID, eventType string, success bool, latencyMS int, props map[string]any) {
	var uid any
	if userID != "" {
		uid = userID
	}
	if country := middleware.CountryFromContext(ctx); country != "" {
		if props == nil {
			props = map[string]any{}
		}
		props["country"] = country
	}
	raw, _ := json.Marshal(props)
	if _, err := a.SQL.Exec(ctx, sqlinline.QInsertUsageEvent, uid, nil, eventType, success, latencyMS, raw); err != nil {
		a.Logger.Warn().Err(err).Str("event", eventType).Msg("log usage failed")
	}
}
