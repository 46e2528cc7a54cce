package middleware

import (
	"context"
	"net/http"

	"github.com/billyrestey/golfstrategy/internal/infra/geoip"
)

type countryKeyType struct{}

var countryKey countryKeyType

// GeoCountry annotates the request context with the caller's ISO country
// code. Lookup failures are silent; the code is informational only.
func GeoCountry(resolver geoip.CountryResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver != nil {
				if code, err := resolver.CountryCode(clientIPForRateLimit(r)); err == nil && code != "" {
					r = r.WithContext(context.WithValue(r.Context(), countryKey, code))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CountryFromContext returns the annotated country code, empty if unknown.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}
