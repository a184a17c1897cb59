package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"equipment-hire/internal/dto/request"
	"equipment-hire/internal/usecase"
	"equipment-hire/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ItemHandler struct {
	service usecase.ItemService
	log     *zap.Logger
}

func NewItemHandler(service usecase.ItemService, log *zap.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		log:     log.With(zap.String("handler", "item")),
	}
}

// ListItems handles GET /api/items (protected)
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.ItemQueryRequest{
		Search:         query.Get("search"),
		Quickfind:      query.Get("quickfind"),
		CategoryID:     query.Get("category_id"),
		ManufacturerID: query.Get("manufacturer_id"),
		Page:           utils.ParseInt(query.Get("page"), 1),
		PerPage:        utils.ParseInt(query.Get("per_page"), 40),
	}

	items, err := h.service.ListItems(r.Context(), userID.String(), req)
	if err != nil {
		h.handleServiceError(w, err, "list items")
		return
	}

	utils.ResponseSuccess(w, "success", items)
}

// GetItem handles GET /api/items/{id} (protected)
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		utils.ResponseBadRequest(w, "Item ID is required", nil)
		return
	}

	item, err := h.service.GetItemByID(r.Context(), itemID)
	if err != nil {
		h.handleServiceError(w, err, "get item")
		return
	}

	utils.ResponseSuccess(w, "success", item)
}

// CreateItem handles POST /api/items (protected)
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	item, err := h.service.CreateItem(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create item")
		return
	}

	utils.ResponseCreated(w, "success", item)
}

// UpdateItem handles PUT /api/items/{id} (protected)
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		utils.ResponseBadRequest(w, "Item ID is required", nil)
		return
	}

	var req request.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), userID.String(), itemID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update item")
		return
	}

	utils.ResponseSuccess(w, "success", item)
}

// UpdateItemService handles PUT /api/items/{id}/service (protected)
func (h *ItemHandler) UpdateItemService(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		utils.ResponseBadRequest(w, "Item ID is required", nil)
		return
	}

	var req request.UpdateItemServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	item, err := h.service.UpdateItemService(r.Context(), userID.String(), itemID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update item service dates")
		return
	}

	utils.ResponseSuccess(w, "success", item)
}

// DeleteItem handles DELETE /api/items/{id} (protected)
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		utils.ResponseBadRequest(w, "Item ID is required", nil)
		return
	}

	if err := h.service.DeleteItem(r.Context(), itemID); err != nil {
		h.handleServiceError(w, err, "delete item")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// AssignItem handles PUT /api/items/{id}/assign (protected)
func (h *ItemHandler) AssignItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		utils.ResponseBadRequest(w, "Item ID is required", nil)
		return
	}

	var req request.AssignItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.AssignItem(r.Context(), itemID, &req); err != nil {
		h.handleServiceError(w, err, "assign item")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// UnassignItem handles PUT /api/items/{id}/unassign (protected)
func (h *ItemHandler) UnassignItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		utils.ResponseBadRequest(w, "Item ID is required", nil)
		return
	}

	if err := h.service.UnassignItem(r.Context(), itemID); err != nil {
		h.handleServiceError(w, err, "unassign item")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError maps item service errors onto HTTP responses.
func (h *ItemHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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

	case strings.Contains(errMsg, "cannot"):
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
