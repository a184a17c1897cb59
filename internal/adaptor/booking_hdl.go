package adaptor

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"equipment-hire/internal/dto/request"
	"equipment-hire/internal/usecase"
	"equipment-hire/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// GetSummary handles GET /api/bookings/summary (protected)
func (h *BookingHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID.String())
	if err != nil {
		h.handleServiceError(w, err, "get booking summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	summary, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", summary)
}

// UpdateBooking handles PUT /api/bookings/summary (protected)
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	summary, err := h.service.UpdateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// AddItem handles POST /api/bookings/summary/items/{itemID} (protected)
func (h *BookingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		utils.ResponseBadRequest(w, "Item ID is required", nil)
		return
	}

	summary, err := h.service.AddItem(r.Context(), userID.String(), itemID)
	if err != nil {
		h.handleServiceError(w, err, "add item to booking")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// RemoveItem handles DELETE /api/bookings/summary/items/{bookingItemID} (protected)
func (h *BookingHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingItemID := chi.URLParam(r, "bookingItemID")
	if bookingItemID == "" {
		utils.ResponseBadRequest(w, "Booking item ID is required", nil)
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID.String(), bookingItemID); err != nil {
		h.handleServiceError(w, err, "remove item from booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ConfirmBooking handles POST /api/bookings/summary/confirm (protected)
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	booking, err := h.service.ConfirmBooking(r.Context(), userID.String())
	if err != nil {
		h.handleServiceError(w, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelSummary handles DELETE /api/bookings/summary (protected)
func (h *BookingHandler) CancelSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req, ok := h.decodeCancelRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelSummary(r.Context(), userID.String(), req); err != nil {
		h.handleServiceError(w, err, "cancel booking summary")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	req, ok := h.decodeCancelRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelBooking(r.Context(), userID.String(), bookingID, req); err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// RevertBooking handles PUT /api/bookings/{id}/revert (protected)
func (h *BookingHandler) RevertBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	summary, err := h.service.RevertBooking(r.Context(), userID.String(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "revert booking")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// ListBookings handles GET /api/bookings (protected)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.BookingQueryRequest{
		Status:         query.Get("status"),
		Search:         query.Get("search"),
		DateRangeStart: query.Get("date_range_start"),
		DateRangeEnd:   query.Get("date_range_end"),
		Page:           utils.ParseInt(query.Get("page"), 1),
		PerPage:        utils.ParseInt(query.Get("per_page"), 40),
	}

	bookings, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetCosts handles GET /api/bookings/{id}/costs (protected)
func (h *BookingHandler) GetCosts(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	costs, err := h.service.GetCosts(r.Context(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "get booking costs")
		return
	}

	utils.ResponseSuccess(w, "success", costs)
}

// GetDashboard handles GET /api/dashboard (protected)
func (h *BookingHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	dashboard, err := h.service.GetDashboard(r.Context(), userID.String())
	if err != nil {
		h.handleServiceError(w, err, "get dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}

// decodeCancelRequest tolerates an empty body; the cancellation reason is
// optional.
func (h *BookingHandler) decodeCancelRequest(w http.ResponseWriter, r *http.Request) (*request.CancelBookingRequest, bool) {
	var req request.CancelBookingRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return nil, false
	}

	return &req, true
}

// handleServiceError maps booking service errors onto HTTP responses.
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already have a pending booking"):
		h.log.Warn(operation+" failed - pending booking exists",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already booked"):
		h.log.Warn(operation+" failed - booking conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "cannot"):
		h.log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "only confirmed bookings"):
		h.log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
