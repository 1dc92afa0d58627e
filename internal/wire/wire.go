package wire

import (
	"net/http"

	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/middleware"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the router and anything that must be stopped on shutdown
type App struct {
	Router  *chi.Mux
	limiter *middleware.RateLimiter
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, mail mailer.Mailer, config *utils.Config, logger *zap.Logger) (*App, error) {
	service, err := usecase.NewService(repo, mail, config, logger)
	if err != nil {
		return nil, err
	}
	handler := adaptor.NewHandler(service, logger)

	ips, err := middleware.NewClientIP(config.RateLimit.TrustedProxies)
	if err != nil {
		return nil, err
	}
	limiter := middleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst, ips, logger)
	router := setupRouter(handler, limiter, ips, config, logger)

	return &App{
		Router:  router,
		limiter: limiter,
	}, nil
}

// Close releases background workers started by Wiring
func (a *App) Close() {
	a.limiter.Stop()
}

func setupRouter(
	handler *adaptor.Handler,
	limiter *middleware.RateLimiter,
	ips *middleware.ClientIP,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger, ips))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	authMw := middleware.Auth(config.JWT.Secret, logger)

	wireAuth(r, handler.Auth, limiter)
	wireUser(r, handler.User, authMw)
	wireClient(r, handler.Client, authMw)
	wireBooking(r, handler.Booking, authMw)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	return r
}
