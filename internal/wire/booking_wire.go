package wire

import (
	"equipment-hire/internal/adaptor"
	"equipment-hire/internal/data/repository"
	"equipment-hire/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// All booking routes require a valid session.
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/bookings - Query confirmed and cancelled bookings
		r.Get("/", bookingHandler.ListBookings)

		// POST /api/bookings - Open a new pending booking
		r.Post("/", bookingHandler.CreateBooking)

		// ==================== SUMMARY (the caller's open pending booking) ====================

		// GET /api/bookings/summary - View the open booking with availability flags
		r.Get("/summary", bookingHandler.GetSummary)

		// PUT /api/bookings/summary - Edit the open booking's dates and details
		r.Put("/summary", bookingHandler.UpdateBooking)

		// DELETE /api/bookings/summary - Discard the open booking
		r.Delete("/summary", bookingHandler.CancelSummary)

		// POST /api/bookings/summary/confirm - Verify and confirm the open booking
		r.Post("/summary/confirm", bookingHandler.ConfirmBooking)

		// POST /api/bookings/summary/items/{itemID} - Add an item to the open booking
		r.Post("/summary/items/{itemID}", bookingHandler.AddItem)

		// DELETE /api/bookings/summary/items/{bookingItemID} - Remove a line item
		r.Delete("/summary/items/{bookingItemID}", bookingHandler.RemoveItem)

		// ==================== CONFIRMED BOOKINGS ====================

		// GET /api/bookings/{id} - Booking detail with line items
		r.Get("/{id}", bookingHandler.GetBooking)

		// GET /api/bookings/{id}/costs - Cost breakdown for a booking
		r.Get("/{id}/costs", bookingHandler.GetCosts)

		// PUT /api/bookings/{id}/cancel - Cancel a confirmed booking
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)

		// PUT /api/bookings/{id}/revert - Reopen a confirmed booking for editing
		r.Put("/{id}/revert", bookingHandler.RevertBooking)
	})

	// GET /api/dashboard - Pending flag, today's and recent confirmed bookings
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Get("/api/dashboard", bookingHandler.GetDashboard)
	})
}
