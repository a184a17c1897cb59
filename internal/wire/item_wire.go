package wire

import (
	"equipment-hire/internal/adaptor"
	"equipment-hire/internal/data/repository"
	"equipment-hire/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireItem(
	r chi.Router,
	itemHandler *adaptor.ItemHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// All item routes require a valid session.
	r.Route("/api/items", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/items - List items with filters and availability
		r.Get("/", itemHandler.ListItems)

		// POST /api/items - Register a new item
		r.Post("/", itemHandler.CreateItem)

		// GET /api/items/{id} - Item detail with depreciation and upcoming bookings
		r.Get("/{id}", itemHandler.GetItem)

		// PUT /api/items/{id} - Update item attributes
		r.Put("/{id}", itemHandler.UpdateItem)

		// DELETE /api/items/{id} - Soft-delete an item
		r.Delete("/{id}", itemHandler.DeleteItem)

		// PUT /api/items/{id}/service - Record a service and reschedule the next one
		r.Put("/{id}/service", itemHandler.UpdateItemService)

		// PUT /api/items/{id}/assign - Hand the item to a user
		r.Put("/{id}/assign", itemHandler.AssignItem)

		// PUT /api/items/{id}/unassign - Return the item to the pool
		r.Put("/{id}/unassign", itemHandler.UnassignItem)
	})
}
