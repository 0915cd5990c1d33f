package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"product-download-layer/internal/application"
	"product-download-layer/internal/infrastructure/middleware"
	"product-download-layer/internal/infrastructure/shopify"
	"product-download-layer/internal/ports"
)

// Router owns the HTTP surface: the API routes, the webhook endpoint, the
// OAuth gate and the fallthrough to the UI delegate.
type Router struct {
	products    *application.ProductService
	sessions    ports.SessionStore
	redirects   ports.RedirectStore
	oauth       *shopify.OAuth
	verifier    *shopify.WebhookVerifier
	dispatcher  *application.WebhookDispatcher
	proxy       ports.GraphQLProxy
	ui          http.Handler
	swaggerFile string
	logger      zerolog.Logger
}

// NewRouter wires the HTTP surface together. ui is the opaque delegate
// every non-API path is handed to.
func NewRouter(
	products *application.ProductService,
	sessions ports.SessionStore,
	redirects ports.RedirectStore,
	oauth *shopify.OAuth,
	verifier *shopify.WebhookVerifier,
	dispatcher *application.WebhookDispatcher,
	proxy ports.GraphQLProxy,
	ui http.Handler,
	logger zerolog.Logger,
) *Router {
	return &Router{
		products:    products,
		sessions:    sessions,
		redirects:   redirects,
		oauth:       oauth,
		verifier:    verifier,
		dispatcher:  dispatcher,
		proxy:       proxy,
		ui:          ui,
		swaggerFile: "./docs/swagger.json",
		logger:      logger,
	}
}

// Handler builds the chi mux with the middleware stack and route table.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public operational routes, exempt from the auth gate.
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, rt.swaggerFile)
	})

	// OAuth entry and callback.
	r.Get("/auth", rt.handleAuth)
	r.Get("/auth/callback", rt.handleAuthCallback)

	// Platform webhooks.
	r.Post("/webhooks", rt.handleWebhooks)

	// Merchant GraphQL proxy, session required.
	r.Post("/graphql", rt.handleGraphQL)

	// Product file association workflow.
	r.Get("/product/download/{productHash}", rt.handleDownload)
	r.Post("/product/upload/{productID}", rt.handleUpload)
	r.Post("/product/find/{sku}", rt.handleFind)
	r.Post("/product/{productID}", rt.handleProductLookup)

	// Framework assets are served without a session.
	r.Get("/_next/*", rt.ui.ServeHTTP)

	// Everything else goes through the auth gate and then to the UI.
	r.NotFound(rt.handleCatchAll)

	return r
}

// handleCatchAll gates unauthenticated shops through OAuth and forwards
// the rest to the UI delegate. The requested path is recorded so the
// merchant lands back on it after installing.
func (rt *Router) handleCatchAll(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")

	active, err := rt.sessions.Active(r.Context(), shop)
	if err != nil {
		rt.logger.Error().Err(err).Str("shop", shop).Msg("Failed to check session")
	}

	if !active {
		rt.redirects.Set(shop, r.URL.RequestURI())
		http.Redirect(w, r, "/auth?shop="+shop, http.StatusFound)
		return
	}

	rt.ui.ServeHTTP(w, r)
}
