package wire

import (
	"equipment-hire/internal/adaptor"
	"equipment-hire/internal/data/repository"
	"equipment-hire/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/categories - Filterable category list (cached)
		r.Get("/api/categories", catalogHandler.ListCategories)

		// POST /api/categories - Add a category
		r.Post("/api/categories", catalogHandler.CreateCategory)

		// GET /api/manufacturers - Filterable manufacturer list (cached)
		r.Get("/api/manufacturers", catalogHandler.ListManufacturers)

		// POST /api/manufacturers - Add a manufacturer
		r.Post("/api/manufacturers", catalogHandler.CreateManufacturer)
	})
}
