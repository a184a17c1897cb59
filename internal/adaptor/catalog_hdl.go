package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"equipment-hire/internal/dto/request"
	"equipment-hire/internal/usecase"
	"equipment-hire/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ListCategories handles GET /api/categories (protected)
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// CreateCategory handles POST /api/categories (protected)
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create category")
		return
	}

	utils.ResponseCreated(w, "success", category)
}

// ListManufacturers handles GET /api/manufacturers (protected)
func (h *CatalogHandler) ListManufacturers(w http.ResponseWriter, r *http.Request) {
	manufacturers, err := h.service.ListManufacturers(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list manufacturers")
		return
	}

	utils.ResponseSuccess(w, "success", manufacturers)
}

// CreateManufacturer handles POST /api/manufacturers (protected)
func (h *CatalogHandler) CreateManufacturer(w http.ResponseWriter, r *http.Request) {
	var req request.CreateManufacturerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	manufacturer, err := h.service.CreateManufacturer(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create manufacturer")
		return
	}

	utils.ResponseCreated(w, "success", manufacturer)
}

func (h *CatalogHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
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
