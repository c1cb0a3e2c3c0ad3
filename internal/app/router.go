package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/cepetdeal/marketplace/docs"
	"github.com/cepetdeal/marketplace/pkg/health"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/ratelimit"
)

// RouterConfig holds the options of the outer HTTP surface
type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	RequestTimeout time.Duration
	Gatherer       prometheus.Gatherer
	// AuthLimiter throttles login and registration; nil disables it
	AuthLimiter    ratelimit.Limiter
}

// RegisterRoutes registers the routes of every module
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	h.User.RegisterRoutes(router)
	h.Catalog.RegisterRoutes(router)
	h.Listing.RegisterRoutes(router)
	h.Receipt.RegisterRoutes(router)
	h.Message.RegisterRoutes(router)
	h.Credit.RegisterRoutes(router)
	h.Admin.RegisterRoutes(router)
}

// NewRouter assembles the API routes, operational endpoints and middlewares
func NewRouter(h *Handlers, checker *health.Checker, cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	httpx.RegisterMiddlewares(router, httpx.DefaultMiddlewareConfig(cfg.ServiceName+"-http", cfg.RequestTimeout))
	if cfg.AuthLimiter != nil {
		router.Use(ratelimit.Middleware(cfg.AuthLimiter, "/auth/"))
	}

	h.RegisterRoutes(router)

	router.HandleFunc("/health", checker.Handler()).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondJSON(w, http.StatusNotFound, httpx.ErrorResponse{Error: "Route not found", Code: "ROUTE_NOT_FOUND"})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", httpx.RequestIDHeader},
		ExposedHeaders:   []string{httpx.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(router)
}
