// internal/wire/wire.go
package wire

import (
	"net/http"

	"equipment-hire/internal/adaptor"
	"equipment-hire/internal/data/repository"
	"equipment-hire/internal/usecase"
	"equipment-hire/pkg/cache"
	"equipment-hire/pkg/middleware"
	"equipment-hire/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes.
func Wiring(repo *repository.Repository, cache *cache.Cache, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, cache, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireItem(r, handler.Item, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireCatalog(r, handler.Catalog, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
