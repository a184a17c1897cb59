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

const (
	defaultPerPage     = 40
	dashboardPageLimit = 10
)

type BookingService interface {
	GetSummary(ctx context.Context, userID string) (*response.BookingSummaryResponse, error)
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingSummaryResponse, error)
	UpdateBooking(ctx context.Context, userID string, req *request.UpdateBookingRequest) (*response.BookingSummaryResponse, error)
	AddItem(ctx context.Context, userID, itemID string) (*response.BookingSummaryResponse, error)
	RemoveItem(ctx context.Context, userID, bookingItemID string) error
	ConfirmBooking(ctx context.Context, userID string) (*response.BookingDetailResponse, error)
	CancelSummary(ctx context.Context, userID string, req *request.CancelBookingRequest) error
	CancelBooking(ctx context.Context, userID, bookingID string, req *request.CancelBookingRequest) error
	RevertBooking(ctx context.Context, userID, bookingID string) (*response.BookingSummaryResponse, error)
	ListBookings(ctx context.Context, req *request.BookingQueryRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingDetailResponse, error)
	GetCosts(ctx context.Context, bookingID string) (*response.BookingCostResponse, error)
	GetDashboard(ctx context.Context, userID string) (*response.DashboardResponse, error)
}

type bookingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetSummary(ctx context.Context, userID string) (*response.BookingSummaryResponse, error) {
	booking, err := s.findPendingBooking(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.buildSummary(ctx, booking)
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingSummaryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	startAt, endAt, err := parseBookingWindow(req.StartAt, req.EndAt)
	if err != nil {
		return nil, err
	}

	// Fast path only. The partial unique index on (created_by) WHERE
	// status = 'PENDING' enforces this under concurrent requests.
	existing, err := s.repo.Booking.FindPendingByUser(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("find pending booking: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("you already have a pending booking")
	}

	vatValue := entity.DefaultVATValue
	if req.VATValue != nil {
		vatValue = *req.VATValue
	}

	now := time.Now()
	booking := &entity.EquipmentBooking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CreatedBy:    &userUUID,
		UpdatedBy:    &userUUID,
		JobReference: req.JobReference,
		JobNumber:    req.JobNumber,
		StartAt:      startAt,
		EndAt:        endAt,
		Notes:        req.Notes,
		VATValue:     vatValue,
		Status:       entity.BookingStatusPending,
	}
	booking.CalcDuration()

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("job_reference", booking.JobReference),
		zap.Time("start_at", booking.StartAt),
		zap.Time("end_at", booking.EndAt),
	)

	return s.buildSummary(ctx, booking)
}

func (s *bookingService) UpdateBooking(ctx context.Context, userID string, req *request.UpdateBookingRequest) (*response.BookingSummaryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findPendingBooking(ctx, userID)
	if err != nil {
		return nil, err
	}

	startAt, endAt, err := parseBookingWindow(req.StartAt, req.EndAt)
	if err != nil {
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	booking.JobReference = req.JobReference
	booking.JobNumber = req.JobNumber
	booking.StartAt = startAt
	booking.EndAt = endAt
	booking.Notes = req.Notes
	if req.VATValue != nil {
		booking.VATValue = *req.VATValue
	}
	booking.UpdatedAt = time.Now()
	booking.UpdatedBy = &userUUID
	booking.CalcDuration()

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking updated", zap.String("booking_id", booking.ID.String()))

	return s.buildSummary(ctx, booking)
}

// AddItem puts an item on the caller's pending booking. Another user's
// pending hold does not block the add; only confirmed bookings do. The full
// pending-inclusive check runs again at confirmation time.
func (s *bookingService) AddItem(ctx context.Context, userID, itemID string) (*response.BookingSummaryResponse, error) {
	booking, err := s.findPendingBooking(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item ID format %s: %w", itemID, err)
	}

	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil || item.Deleted {
		return nil, fmt.Errorf("item %s not found", itemID)
	}

	if item.AssignedTo != nil {
		return nil, fmt.Errorf("this item cannot currently be booked")
	}

	conflict, err := s.repo.BookingItem.HasConflict(ctx, item.ID, booking.StartAt, booking.EndAt, entity.ConfirmedOnly, nil)
	if err != nil {
		return nil, fmt.Errorf("check booking conflict: %w", err)
	}
	if conflict {
		return nil, fmt.Errorf("this item cannot currently be booked")
	}

	bookingItem := &entity.EquipmentBookingItem{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		EquipmentBookingID: booking.ID,
		ItemID:             &item.ID,
		Value:              item.HireDayRate,
	}

	created, err := s.repo.BookingItem.Create(ctx, bookingItem)
	if err != nil {
		return nil, err
	}
	if !created {
		s.log.Info("Item already on booking, add skipped",
			zap.String("booking_id", booking.ID.String()),
			zap.String("item_id", itemID),
		)
	} else {
		s.log.Info("Item added to booking",
			zap.String("booking_id", booking.ID.String()),
			zap.String("item_id", itemID),
			zap.Float64("value", bookingItem.Value),
		)
	}

	return s.buildSummary(ctx, booking)
}

func (s *bookingService) RemoveItem(ctx context.Context, userID, bookingItemID string) error {
	booking, err := s.findPendingBooking(ctx, userID)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(bookingItemID)
	if err != nil {
		return fmt.Errorf("invalid booking item ID format %s: %w", bookingItemID, err)
	}

	if err := s.repo.BookingItem.Delete(ctx, id, booking.ID); err != nil {
		return err
	}

	s.log.Info("Item removed from booking",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_item_id", bookingItemID),
	)
	return nil
}

// ConfirmBooking runs full verification over the pending booking and, if it
// passes, moves the booking to CONFIRMED. Verification here uses the wide
// status set, so a clash with someone else's pending booking fails the
// confirmation even though it did not block the add.
func (s *bookingService) ConfirmBooking(ctx context.Context, userID string) (*response.BookingDetailResponse, error) {
	booking, err := s.findPendingBooking(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookingItems, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	if err := s.verifyBooking(ctx, booking, bookingItems); err != nil {
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	booking.Confirm()
	booking.UpdatedAt = time.Now()
	booking.UpdatedBy = &userUUID

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.Int("item_count", len(bookingItems)),
	)

	return s.buildDetail(ctx, booking, bookingItems)
}

// CancelSummary discards the caller's pending booking. A booking that has
// never been confirmed leaves no trace and is deleted outright; one that was
// confirmed and reverted keeps its history and is cancelled instead.
func (s *bookingService) CancelSummary(ctx context.Context, userID string, req *request.CancelBookingRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findPendingBooking(ctx, userID)
	if err != nil {
		return err
	}

	if !booking.Confirmed {
		if err := s.repo.Booking.Delete(ctx, booking.ID); err != nil {
			return err
		}
		s.log.Info("Pending booking discarded", zap.String("booking_id", booking.ID.String()))
		return nil
	}

	return s.cancel(ctx, userID, booking, req.CancellationReason)
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string, req *request.CancelBookingRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Cancelled {
		s.log.Info("Booking already cancelled, cancel skipped",
			zap.String("booking_id", bookingID),
		)
		return nil
	}

	// Pending bookings are cancellable here too; a reverted booking whose
	// owner never re-confirmed would otherwise be unreachable.
	return s.cancel(ctx, userID, booking, req.CancellationReason)
}

// RevertBooking reopens a confirmed booking as the caller's pending booking
// so its dates and line items can be edited, then re-confirmed.
func (s *bookingService) RevertBooking(ctx context.Context, userID, bookingID string) (*response.BookingSummaryResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusConfirmed {
		return nil, fmt.Errorf("only confirmed bookings can be updated")
	}

	if booking.StartAt.Before(time.Now()) {
		return nil, fmt.Errorf("bookings cannot be updated if they occurred in the past")
	}

	existing, err := s.repo.Booking.FindPendingByUser(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("find pending booking: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("you cannot update a booking whilst you have one outstanding")
	}

	// The reverted booking becomes the caller's open booking regardless of
	// who originally created it.
	booking.RevertToPending()
	booking.CreatedBy = &userUUID
	booking.UpdatedBy = &userUUID
	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking reverted to pending",
		zap.String("booking_id", bookingID),
		zap.String("user_id", userID),
	)

	return s.buildSummary(ctx, booking)
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.BookingQueryRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = defaultPerPage
	}

	filter := repository.BookingFilter{}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}
	if req.Search != "" {
		filter.Search = &req.Search
	}
	if req.DateRangeStart != "" {
		filter.StartFrom = utils.ParseDate(req.DateRangeStart)
	}
	if req.DateRangeEnd != "" {
		filter.StartTo = utils.ParseDate(req.DateRangeEnd)
	}

	bookings, err := s.repo.Booking.Find(ctx, filter, req.PerPage, utils.CalculateOffset(req.Page, req.PerPage))
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	s.log.Info("Bookings listed",
		zap.Int("count", len(bookings)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
	)

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingDetailResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	bookingItems, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, booking, bookingItems)
}

// GetCosts prices a booking from its line-item snapshots. Each line charges
// its snapshot day rate for every chargeable day; insurable value is the sum
// of the current purchase costs of the surviving referenced items.
func (s *bookingService) GetCosts(ctx context.Context, bookingID string) (*response.BookingCostResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	bookingItems, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	days := ChargeableDays(booking.Duration)

	lines := make([]response.BookingCostLine, len(bookingItems))
	var subTotal, insurable float64
	for i, bi := range bookingItems {
		line := response.BookingCostLine{
			BookingItemResponse: s.buildBookingItemResponse(ctx, bi, true),
			Total:               roundCurrency(bi.Value * float64(days)),
		}
		subTotal += line.Total

		if bi.ItemID != nil {
			item, err := s.repo.Item.FindByID(ctx, *bi.ItemID)
			if err == nil && item != nil {
				insurable += item.PurchaseCost
			}
		}

		lines[i] = line
	}

	vatTotal := roundCurrency(subTotal * booking.VATValue / 100)

	return &response.BookingCostResponse{
		Booking:        response.BookingToResponse(booking),
		ChargeableDays: days,
		Lines:          lines,
		SubTotal:       roundCurrency(subTotal),
		VATPercentage:  booking.VATValue,
		VATTotal:       vatTotal,
		GrandTotal:     roundCurrency(subTotal + vatTotal),
		InsurableValue: roundCurrency(insurable),
	}, nil
}

func (s *bookingService) GetDashboard(ctx context.Context, userID string) (*response.DashboardResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	pending, err := s.repo.Booking.FindPendingByUser(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("find pending booking: %w", err)
	}

	todays, err := s.repo.Booking.FindConfirmedStartingOn(ctx, time.Now(), dashboardPageLimit)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.Booking.FindRecentConfirmed(ctx, dashboardPageLimit)
	if err != nil {
		return nil, err
	}

	dashboard := &response.DashboardResponse{
		HasPendingBooking: pending != nil,
		TodaysBookings:    make([]response.BookingResponse, len(todays)),
		RecentBookings:    make([]response.BookingResponse, len(recent)),
	}
	for i, b := range todays {
		dashboard.TodaysBookings[i] = response.BookingToResponse(b)
	}
	for i, b := range recent {
		dashboard.RecentBookings[i] = response.BookingToResponse(b)
	}

	return dashboard, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) findPendingBooking(ctx context.Context, userID string) (*entity.EquipmentBooking, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	booking, err := s.repo.Booking.FindPendingByUser(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("find pending booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("no pending booking found")
	}

	return booking, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.EquipmentBooking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	return booking, nil
}

// verifyBooking is the confirmation gate. Every line item is re-checked
// against the wide status set, excluding the booking itself.
func (s *bookingService) verifyBooking(ctx context.Context, booking *entity.EquipmentBooking, bookingItems []*entity.EquipmentBookingItem) error {
	if len(bookingItems) == 0 {
		return fmt.Errorf("validation failed: bookings must contain at least one item")
	}

	for _, bi := range bookingItems {
		if bi.ItemID == nil {
			continue
		}

		conflict, err := s.repo.BookingItem.HasConflict(ctx, *bi.ItemID, booking.StartAt, booking.EndAt, entity.BlockingStatuses, &booking.ID)
		if err != nil {
			return fmt.Errorf("check booking conflict: %w", err)
		}
		if conflict {
			name := bi.ItemID.String()
			if item, err := s.repo.Item.FindByID(ctx, *bi.ItemID); err == nil && item != nil {
				name = item.Name
			}
			return fmt.Errorf("validation failed: %s is already booked for that period", name)
		}
	}

	return nil
}

func (s *bookingService) cancel(ctx context.Context, userID string, booking *entity.EquipmentBooking, reason *string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	now := time.Now()
	booking.Cancel(now)
	booking.CancellationReason = reason
	booking.UpdatedAt = now
	booking.UpdatedBy = &userUUID

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID),
	)
	return nil
}

func (s *bookingService) buildSummary(ctx context.Context, booking *entity.EquipmentBooking) (*response.BookingSummaryResponse, error) {
	bookingItems, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	summary := &response.BookingSummaryResponse{
		Booking: response.BookingToResponse(booking),
		Items:   make([]response.BookingItemResponse, len(bookingItems)),
	}

	// Summary availability flags only confirmed clashes, like the add
	// guard. Pending holds elsewhere surface at confirmation, not here.
	for i, bi := range bookingItems {
		available := true
		if bi.ItemID != nil {
			conflict, err := s.repo.BookingItem.HasConflict(ctx, *bi.ItemID, booking.StartAt, booking.EndAt, entity.ConfirmedOnly, &booking.ID)
			if err != nil {
				return nil, fmt.Errorf("check booking conflict: %w", err)
			}
			available = !conflict
		}
		summary.Items[i] = s.buildBookingItemResponse(ctx, bi, available)
	}

	return summary, nil
}

func (s *bookingService) buildDetail(ctx context.Context, booking *entity.EquipmentBooking, bookingItems []*entity.EquipmentBookingItem) (*response.BookingDetailResponse, error) {
	detail := &response.BookingDetailResponse{
		BookingResponse: response.BookingToResponse(booking),
		Items:           make([]response.BookingItemResponse, len(bookingItems)),
	}

	for i, bi := range bookingItems {
		detail.Items[i] = s.buildBookingItemResponse(ctx, bi, true)
	}

	return detail, nil
}

func (s *bookingService) buildBookingItemResponse(ctx context.Context, bi *entity.EquipmentBookingItem, available bool) response.BookingItemResponse {
	resp := response.BookingItemResponse{
		ID:        bi.ID.String(),
		Value:     bi.Value,
		Available: available,
	}

	if bi.ItemID == nil {
		return resp
	}

	itemID := bi.ItemID.String()
	resp.ItemID = &itemID

	item, err := s.repo.Item.FindByID(ctx, *bi.ItemID)
	if err != nil || item == nil {
		return resp
	}

	resp.ItemName = item.Name
	if item.CategoryID != nil {
		if category, err := s.repo.Category.FindByID(ctx, *item.CategoryID); err == nil && category != nil {
			resp.CategoryName = category.Name
		}
	}
	if item.ManufacturerID != nil {
		if manufacturer, err := s.repo.Manufacturer.FindByID(ctx, *item.ManufacturerID); err == nil && manufacturer != nil {
			resp.ManufacturerName = manufacturer.Name
		}
	}

	return resp
}

func parseBookingWindow(startStr, endStr string) (time.Time, time.Time, error) {
	startAt, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("validation failed: start_at must be a valid RFC3339 timestamp")
	}

	endAt, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("validation failed: end_at must be a valid RFC3339 timestamp")
	}

	// A zero-length window is allowed; it just bills no days.
	if endAt.Before(startAt) {
		return time.Time{}, time.Time{}, fmt.Errorf("validation failed: end_at must not precede start_at")
	}

	return startAt, endAt, nil
}
