package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/billyrestey/golfstrategy/internal/ghin"
	"github.com/billyrestey/golfstrategy/internal/http/handlers"
	"github.com/billyrestey/golfstrategy/internal/http/httpapi"
	"github.com/billyrestey/golfstrategy/internal/infra"
	"github.com/billyrestey/golfstrategy/internal/infra/credentials"
	"github.com/billyrestey/golfstrategy/internal/infra/geoip"
	"github.com/billyrestey/golfstrategy/internal/payments"
	"github.com/billyrestey/golfstrategy/internal/providers/strategy"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sql := infra.NewSQLRunner(dbpool, logger)

	app := &handlers.App{
		SQL:           sql,
		Logger:        logger,
		JWTSecret:     cfg.JWTSecret,
		WebhookSecret: cfg.WebhookSecret,
		Strategy:      buildGenerator(ctx, cfg, sql, logger),
	}

	if cfg.GHINAPIKey != "" {
		ghinClient, err := ghin.NewClient(ghin.Options{BaseURL: cfg.GHINBaseURL, APIKey: cfg.GHINAPIKey})
		if err != nil {
			logger.Fatal().Err(err).Msg("ghin client misconfigured")
		}
		app.GHIN = ghinClient
	} else {
		logger.Warn().Msg("GHIN_API_KEY not set, handicap lookups disabled")
	}

	if cfg.CheckoutBaseURL != "" {
		checkout, err := payments.NewClient(payments.Options{
			BaseURL:    cfg.CheckoutBaseURL,
			APIKey:     cfg.CheckoutAPIKey,
			SuccessURL: cfg.CheckoutSuccessURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("checkout client misconfigured")
		}
		app.Checkout = checkout
	} else {
		logger.Warn().Msg("CHECKOUT_BASE_URL not set, paid upgrades disabled")
	}

	geoResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, usage events carry no country")
	}
	if geoResolver != nil {
		defer geoResolver.Close()
	}

	router := httpapi.NewRouter(app, cfg, logger, geoResolver)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// buildGenerator picks the strategy provider. The OpenAI key is read from
// the credentials table first so it can be rotated without a redeploy, then
// from the environment. Without a key the heuristic generator serves alone.
func buildGenerator(ctx context.Context, cfg *infra.Config, sql infra.SQLExecutor, logger zerolog.Logger) strategy.Generator {
	heuristic := strategy.NewHeuristicGenerator()
	if cfg.StrategyProvider == "heuristic" {
		return heuristic
	}

	apiKey := cfg.OpenAIAPIKey
	store := credentials.NewStore(sql)
	lookupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if key, err := store.OpenAIAPIKey(lookupCtx); err == nil && key != "" {
		apiKey = key
	}
	if apiKey == "" {
		logger.Warn().Msg("no OpenAI key available, using heuristic strategy generator")
		return heuristic
	}

	gen, err := strategy.NewOpenAIGeneratorFromKey(apiKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, heuristic, func(reason string, err error) {
		logger.Warn().Err(err).Str("reason", reason).Msg("openai generator fell back to heuristic")
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("openai generator misconfigured")
	}
	return gen
}
