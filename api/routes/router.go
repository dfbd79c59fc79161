package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buildforge/buildforge-backend/api/controllers"
	"github.com/buildforge/buildforge-backend/api/middleware"
	authsvc "github.com/buildforge/buildforge-backend/internal/auth"
	buildsvc "github.com/buildforge/buildforge-backend/internal/builds"
	componentsvc "github.com/buildforge/buildforge-backend/internal/components"
	recommendsvc "github.com/buildforge/buildforge-backend/internal/recommend"
	"github.com/buildforge/buildforge-backend/pkg/config"
	"github.com/buildforge/buildforge-backend/pkg/db"
	"github.com/buildforge/buildforge-backend/pkg/logger"
	"github.com/buildforge/buildforge-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	authService authsvc.Service,
	componentService componentsvc.Service,
	buildService buildsvc.Service,
	recommendService recommendsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	authPolicy := middleware.NewRateLimitPolicy(
		"auth",
		cfg.RateLimit.AuthWindow,
		cfg.RateLimit.AuthIPLimit,
	)
	recommendPolicy := middleware.NewRateLimitPolicy(
		"recommend",
		cfg.RateLimit.RecommendWindow,
		cfg.RateLimit.RecommendLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.IPRateLimit(authPolicy, redisClient, logg))
			r.Post("/register", controllers.AuthRegister(authService, logg))
			r.Post("/login", controllers.AuthLogin(authService, logg))
		})

		r.Route("/components", func(r chi.Router) {
			r.Get("/", controllers.ComponentList(componentService, logg))
			r.Get("/categories", controllers.ComponentCategories(componentService, logg))
			r.Get("/{componentId}", controllers.ComponentDetail(componentService, logg))
		})

		r.Route("/builds", func(r chi.Router) {
			r.Get("/", controllers.BuildList(buildService, logg))
			r.Get("/{buildId}", controllers.BuildDetail(buildService, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).Post("/", controllers.BuildCreate(buildService, logg))
		})

		r.With(
			middleware.OptionalAuth(cfg.JWT, logg),
			middleware.UserRateLimit(recommendPolicy, redisClient, logg),
		).Post("/recommendations", controllers.Recommend(recommendService, logg))

		r.Route("/users/me", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/", controllers.UserProfile(authService, logg))
			r.Get("/builds", controllers.UserBuildList(buildService, logg))
		})
	})

	return r
}
