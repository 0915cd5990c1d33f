package main

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"product-download-layer/internal/application"
	"product-download-layer/internal/application/webhook_handlers"
	"product-download-layer/internal/config"
	"product-download-layer/internal/infrastructure/api"
	"product-download-layer/internal/infrastructure/sessionstore"
	shopifyinfra "product-download-layer/internal/infrastructure/shopify"
	"product-download-layer/internal/infrastructure/storage"
	"product-download-layer/internal/ports"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Session store: volatile memory by default, redis when configured.
	var sessions ports.SessionStore
	switch cfg.Session.Store {
	case "redis":
		redisStore := sessionstore.NewRedis(cfg.Session.RedisAddr, logger)
		if err := redisStore.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Session.RedisAddr).Msg("Failed to connect to Redis")
		}
		sessions = redisStore
	default:
		sessions = sessionstore.NewMemory()
	}
	redirects := sessionstore.NewRedirects()

	store, err := storage.NewS3Store(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize object store")
	}

	adminClient := shopifyinfra.NewAdminClient(
		cfg.Shopify.Shop,
		cfg.Shopify.AdminPassword,
		cfg.Shopify.APIVersion,
		logger,
	)

	oauth := shopifyinfra.NewOAuth(
		cfg.Shopify.APIKey,
		cfg.Shopify.APISecret,
		cfg.Shopify.Scopes,
		cfg.Host,
		logger,
	)
	verifier := shopifyinfra.NewWebhookVerifier(cfg.Shopify.APISecret)
	proxy := shopifyinfra.NewProxy(cfg.Shopify.APIVersion, logger)

	products := application.NewProductService(adminClient, store, logger)

	dispatcher := application.NewWebhookDispatcher(logger)
	dispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, sessions))

	// The UI is an opaque delegate; every non-API path is proxied to it.
	uiURL, err := url.Parse(cfg.UIURL)
	if err != nil {
		logger.Fatal().Err(err).Str("url", cfg.UIURL).Msg("Invalid UI_URL")
	}
	ui := httputil.NewSingleHostReverseProxy(uiURL)

	router := api.NewRouter(products, sessions, redirects, oauth, verifier, dispatcher, proxy, ui, logger)

	logger.Info().
		Str("port", cfg.Port).
		Str("env", cfg.AppEnv).
		Str("sessionStore", cfg.Session.Store).
		Msg("Starting API server")

	if err := http.ListenAndServe(":"+cfg.Port, router.Handler()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
