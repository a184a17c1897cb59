package usecase

import (
	"context"
	"fmt"
	"time"

	"equipment-hire/internal/data/entity"
	"equipment-hire/internal/data/repository"
	"equipment-hire/internal/dto/request"
	"equipment-hire/internal/dto/response"
	"equipment-hire/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bound on barcode generation retries. When the barcode space is this
// saturated we fail loudly rather than loop forever.
const maxBarcodeAttempts = 100

type ItemService interface {
	ListItems(ctx context.Context, userID string, req *request.ItemQueryRequest) (*response.PaginatedResponse[response.ItemResponse], error)
	GetItemByID(ctx context.Context, itemID string) (*response.ItemDetailResponse, error)
	CreateItem(ctx context.Context, userID string, req *request.CreateItemRequest) (*response.ItemDetailResponse, error)
	UpdateItem(ctx context.Context, userID, itemID string, req *request.UpdateItemRequest) (*response.ItemDetailResponse, error)
	UpdateItemService(ctx context.Context, userID, itemID string, req *request.UpdateItemServiceRequest) (*response.ItemDetailResponse, error)
	DeleteItem(ctx context.Context, itemID string) error
	AssignItem(ctx context.Context, itemID string, req *request.AssignItemRequest) error
	UnassignItem(ctx context.Context, itemID string) error
}

type itemService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewItemService(repo *repository.Repository, log *zap.Logger) ItemService {
	return &itemService{
		repo: repo,
		log:  log.With(zap.String("service", "item")),
	}
}

func (s *itemService) ListItems(ctx context.Context, userID string, req *request.ItemQueryRequest) (*response.PaginatedResponse[response.ItemResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = defaultPerPage
	}

	filter := repository.ItemFilter{}
	if req.Search != "" {
		filter.Search = &req.Search
	}
	if req.Quickfind != "" {
		filter.Quickfind = &req.Quickfind
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category ID format %s: %w", req.CategoryID, err)
		}
		filter.CategoryID = &categoryID
	}
	if req.ManufacturerID != "" {
		manufacturerID, err := uuid.Parse(req.ManufacturerID)
		if err != nil {
			return nil, fmt.Errorf("invalid manufacturer ID format %s: %w", req.ManufacturerID, err)
		}
		filter.ManufacturerID = &manufacturerID
	}

	limit := req.PerPage
	offset := utils.CalculateOffset(req.Page, req.PerPage)

	items, err := s.repo.Item.Find(ctx, filter, limit, offset)
	if err != nil {
		s.log.Error("Failed to list items", zap.Error(err))
		return nil, fmt.Errorf("list items: %w", err)
	}

	total, err := s.repo.Item.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count items", zap.Error(err))
		return nil, fmt.Errorf("count items: %w", err)
	}

	// With an open pending booking, availability reflects that booking's
	// window; otherwise only assignment matters.
	var conflicted map[uuid.UUID]bool
	pending, err := s.repo.Booking.FindPendingByUser(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("find pending booking: %w", err)
	}
	if pending != nil {
		conflictIDs, err := s.repo.BookingItem.ConflictingItemIDs(ctx, pending.StartAt, pending.EndAt, entity.BlockingStatuses)
		if err != nil {
			return nil, fmt.Errorf("find conflicting items: %w", err)
		}
		conflicted = make(map[uuid.UUID]bool, len(conflictIDs))
		for _, id := range conflictIDs {
			conflicted[id] = true
		}
	}

	itemResponses := make([]response.ItemResponse, len(items))
	for i, item := range items {
		available := item.AssignedTo == nil
		if available && conflicted != nil && conflicted[item.ID] {
			available = false
		}
		itemResponses[i] = s.buildItemResponse(ctx, item, available)
	}

	s.log.Info("Items listed",
		zap.Int("count", len(items)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
	)

	return response.NewPaginatedResponse(itemResponses, req.Page, req.PerPage, total), nil
}

func (s *itemService) GetItemByID(ctx context.Context, itemID string) (*response.ItemDetailResponse, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item ID format %s: %w", itemID, err)
	}

	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s not found", itemID)
	}

	upcoming, err := s.repo.BookingItem.FindUpcomingConfirmed(ctx, item.ID, time.Now())
	if err != nil {
		s.log.Error("Failed to load upcoming bookings",
			zap.Error(err),
			zap.String("item_id", itemID),
		)
		return nil, fmt.Errorf("load upcoming bookings: %w", err)
	}

	return s.buildItemDetailResponse(ctx, item, upcoming), nil
}

func (s *itemService) CreateItem(ctx context.Context, userID string, req *request.CreateItemRequest) (*response.ItemDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create item validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	now := time.Now()
	item := &entity.Item{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CreatedBy:          &userUUID,
		UpdatedBy:          &userUUID,
		Status:             entity.ItemStatusPool,
		DepreciationMethod: entity.DepreciationDecliningBalance,
	}

	if err := s.applyItemRequest(item, req); err != nil {
		return nil, err
	}

	if item.Barcode == "" {
		barcode, err := s.generateUniqueBarcode(ctx)
		if err != nil {
			return nil, err
		}
		item.Barcode = barcode
	}

	item.RecomputeServiceDue()

	if err := s.repo.Item.Create(ctx, item); err != nil {
		s.log.Error("Failed to create item", zap.Error(err), zap.String("name", item.Name))
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.log.Info("Item created",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name),
		zap.String("barcode", item.Barcode),
	)

	return s.buildItemDetailResponse(ctx, item, nil), nil
}

func (s *itemService) UpdateItem(ctx context.Context, userID, itemID string, req *request.UpdateItemRequest) (*response.ItemDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update item validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item ID format %s: %w", itemID, err)
	}

	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s not found", itemID)
	}

	if err := s.applyItemRequest(item, req); err != nil {
		return nil, err
	}

	item.UpdatedAt = time.Now()
	item.UpdatedBy = &userUUID
	item.RecomputeServiceDue()

	if err := s.repo.Item.Update(ctx, item); err != nil {
		s.log.Error("Failed to update item", zap.Error(err), zap.String("item_id", itemID))
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.log.Info("Item updated", zap.String("item_id", itemID))

	return s.buildItemDetailResponse(ctx, item, nil), nil
}

func (s *itemService) UpdateItemService(ctx context.Context, userID, itemID string, req *request.UpdateItemServiceRequest) (*response.ItemDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item ID format %s: %w", itemID, err)
	}

	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s not found", itemID)
	}

	lastService := utils.ParseDate(req.LastServiceDate)
	interval := time.Duration(req.ServiceIntervalDays) * 24 * time.Hour

	item.LastServiceDate = lastService
	item.ServiceIntervalPeriod = &interval
	item.UpdatedAt = time.Now()
	item.UpdatedBy = &userUUID
	item.RecomputeServiceDue()

	if err := s.repo.Item.Update(ctx, item); err != nil {
		s.log.Error("Failed to update item service dates", zap.Error(err), zap.String("item_id", itemID))
		return nil, fmt.Errorf("update item service dates: %w", err)
	}

	s.log.Info("Item service dates updated", zap.String("item_id", itemID))

	return s.buildItemDetailResponse(ctx, item, nil), nil
}

func (s *itemService) DeleteItem(ctx context.Context, itemID string) error {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return fmt.Errorf("invalid item ID format %s: %w", itemID, err)
	}

	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("item %s not found", itemID)
	}

	now := time.Now()
	item.SoftDelete(now)
	item.UpdatedAt = now

	if err := s.repo.Item.Update(ctx, item); err != nil {
		s.log.Error("Failed to soft-delete item", zap.Error(err), zap.String("item_id", itemID))
		return fmt.Errorf("delete item: %w", err)
	}

	s.log.Info("Item soft-deleted", zap.String("item_id", itemID))
	return nil
}

func (s *itemService) AssignItem(ctx context.Context, itemID string, req *request.AssignItemRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(itemID)
	if err != nil {
		return fmt.Errorf("invalid item ID format %s: %w", itemID, err)
	}

	assigneeID, err := uuid.Parse(req.AssignedUserID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", req.AssignedUserID, err)
	}

	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("item %s not found", itemID)
	}

	// Items already claimed by an upcoming booking stay in the pool.
	upcoming, err := s.repo.BookingItem.HasUpcoming(ctx, item.ID, time.Now())
	if err != nil {
		return fmt.Errorf("check upcoming bookings: %w", err)
	}
	if upcoming {
		return fmt.Errorf("this item appears in an upcoming booking, and cannot currently be assigned")
	}

	item.AssignTo(assigneeID)
	item.UpdatedAt = time.Now()

	if err := s.repo.Item.Update(ctx, item); err != nil {
		s.log.Error("Failed to assign item", zap.Error(err), zap.String("item_id", itemID))
		return fmt.Errorf("assign item: %w", err)
	}

	s.log.Info("Item assigned",
		zap.String("item_id", itemID),
		zap.String("assigned_to", assigneeID.String()),
	)
	return nil
}

func (s *itemService) UnassignItem(ctx context.Context, itemID string) error {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return fmt.Errorf("invalid item ID format %s: %w", itemID, err)
	}

	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("item %s not found", itemID)
	}

	item.Unassign()
	item.UpdatedAt = time.Now()

	if err := s.repo.Item.Update(ctx, item); err != nil {
		s.log.Error("Failed to unassign item", zap.Error(err), zap.String("item_id", itemID))
		return fmt.Errorf("unassign item: %w", err)
	}

	s.log.Info("Item unassigned", zap.String("item_id", itemID))
	return nil
}

// ==================== HELPER METHODS ====================

// generateUniqueBarcode retries random candidates against every barcode
// ever issued, deleted items included. Exhausting the retries is a hard
// error worth alerting on.
func (s *itemService) generateUniqueBarcode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxBarcodeAttempts; attempt++ {
		barcode := utils.GenerateBarcode()

		exists, err := s.repo.Item.ExistsByBarcode(ctx, barcode)
		if err != nil {
			return "", fmt.Errorf("check barcode uniqueness: %w", err)
		}
		if !exists {
			return barcode, nil
		}
	}

	s.log.Error("Barcode generation exhausted retries",
		zap.Int("attempts", maxBarcodeAttempts),
	)
	return "", fmt.Errorf("failed to generate a unique barcode after %d attempts", maxBarcodeAttempts)
}

func (s *itemService) applyItemRequest(item *entity.Item, req *request.CreateItemRequest) error {
	item.Name = req.Name
	item.Mount = req.Mount
	item.ModelNumber = req.ModelNumber
	item.SerialNumber = req.SerialNumber
	item.Notes = req.Notes

	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return fmt.Errorf("invalid category ID format %s: %w", *req.CategoryID, err)
		}
		item.CategoryID = &categoryID
	} else {
		item.CategoryID = nil
	}

	if req.ManufacturerID != nil {
		manufacturerID, err := uuid.Parse(*req.ManufacturerID)
		if err != nil {
			return fmt.Errorf("invalid manufacturer ID format %s: %w", *req.ManufacturerID, err)
		}
		item.ManufacturerID = &manufacturerID
	} else {
		item.ManufacturerID = nil
	}

	if req.Status != nil {
		item.Status = entity.ItemStatus(*req.Status)
	}
	if req.Barcode != nil {
		item.Barcode = *req.Barcode
	}
	if req.PurchaseCost != nil {
		item.PurchaseCost = *req.PurchaseCost
	}
	if req.DepreciationMethod != nil {
		item.DepreciationMethod = entity.DepreciationMethod(*req.DepreciationMethod)
	}
	if req.HireDayRate != nil {
		item.HireDayRate = *req.HireDayRate
	}
	if req.PurchaseDate != nil {
		item.PurchaseDate = utils.ParseDate(*req.PurchaseDate)
	}
	if req.LastServiceDate != nil {
		item.LastServiceDate = utils.ParseDate(*req.LastServiceDate)
	}
	if req.ServiceIntervalDays != nil {
		interval := time.Duration(*req.ServiceIntervalDays) * 24 * time.Hour
		item.ServiceIntervalPeriod = &interval
	}

	return nil
}

func (s *itemService) buildItemResponse(ctx context.Context, item *entity.Item, available bool) response.ItemResponse {
	var categoryName, manufacturerName string

	if item.CategoryID != nil {
		category, _ := s.repo.Category.FindByID(ctx, *item.CategoryID)
		if category != nil {
			categoryName = category.Name
		}
	}
	if item.ManufacturerID != nil {
		manufacturer, _ := s.repo.Manufacturer.FindByID(ctx, *item.ManufacturerID)
		if manufacturer != nil {
			manufacturerName = manufacturer.Name
		}
	}

	var assignedTo *string
	if item.AssignedTo != nil {
		s := item.AssignedTo.String()
		assignedTo = &s
	}

	return response.ItemResponse{
		ID:               item.ID.String(),
		Name:             item.Name,
		CategoryName:     categoryName,
		ManufacturerName: manufacturerName,
		Mount:            item.Mount,
		ModelNumber:      item.ModelNumber,
		SerialNumber:     item.SerialNumber,
		Status:           item.Status,
		Barcode:          item.Barcode,
		AssignedTo:       assignedTo,
		HireDayRate:      item.HireDayRate,
		Available:        available,
		CreatedAt:        item.CreatedAt,
	}
}

func (s *itemService) buildItemDetailResponse(ctx context.Context, item *entity.Item, upcoming []*entity.EquipmentBooking) *response.ItemDetailResponse {
	detail := &response.ItemDetailResponse{
		ItemResponse:       s.buildItemResponse(ctx, item, item.AssignedTo == nil),
		Notes:              item.Notes,
		PurchaseCost:       item.PurchaseCost,
		DepreciationMethod: string(item.DepreciationMethod),
		DepreciatedValue:   roundCurrency(item.CalculateDepreciation(time.Now())),
		Retired:            item.Retired,
		UpcomingBookings:   make([]response.BookingResponse, 0, len(upcoming)),
	}

	if item.PurchaseDate != nil {
		d := item.PurchaseDate.Format("2006-01-02")
		detail.PurchaseDate = &d
	}
	if item.LastServiceDate != nil {
		d := item.LastServiceDate.Format("2006-01-02")
		detail.LastServiceDate = &d
	}
	if item.ServiceDueDate != nil {
		d := item.ServiceDueDate.Format("2006-01-02")
		detail.ServiceDueDate = &d
	}
	if item.ServiceIntervalPeriod != nil {
		days := int(item.ServiceIntervalPeriod.Hours() / 24)
		detail.ServiceIntervalDays = &days
	}

	for _, booking := range upcoming {
		detail.UpcomingBookings = append(detail.UpcomingBookings, response.BookingToResponse(booking))
	}

	return detail
}
