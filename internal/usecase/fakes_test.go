package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"equipment-hire/internal/data/entity"
	"equipment-hire/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes backing the service tests. The booking item
// fake shares the booking map so conflict checks can join the two, the same
// way the SQL does.

type fakeItemRepo struct {
	items map[uuid.UUID]*entity.Item

	// forces ExistsByBarcode to report every candidate as taken
	barcodeSpaceFull bool
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*entity.Item)}
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("item %s not found", item.ID.String())
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) Find(_ context.Context, filter repository.ItemFilter, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.items {
		if item.Deleted {
			continue
		}
		if filter.CategoryID != nil && (item.CategoryID == nil || *item.CategoryID != *filter.CategoryID) {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeItemRepo) Count(ctx context.Context, filter repository.ItemFilter) (int64, error) {
	items, err := r.Find(ctx, filter, 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (r *fakeItemRepo) ExistsByBarcode(_ context.Context, barcode string) (bool, error) {
	if r.barcodeSpaceFull {
		return true, nil
	}
	for _, item := range r.items {
		if item.Barcode == barcode {
			return true, nil
		}
	}
	return false, nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*entity.EquipmentBooking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.EquipmentBooking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.EquipmentBooking) error {
	if booking.Status == entity.BookingStatusPending && booking.CreatedBy != nil {
		for _, b := range r.bookings {
			if b.Status == entity.BookingStatusPending && b.CreatedBy != nil && *b.CreatedBy == *booking.CreatedBy {
				return fmt.Errorf("you already have a pending booking")
			}
		}
	}
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.EquipmentBooking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *booking
	return &cp, nil
}

func (r *fakeBookingRepo) FindPendingByUser(_ context.Context, userID uuid.UUID) (*entity.EquipmentBooking, error) {
	for _, b := range r.bookings {
		if b.Status == entity.BookingStatusPending && b.CreatedBy != nil && *b.CreatedBy == userID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *entity.EquipmentBooking) error {
	if _, ok := r.bookings[booking.ID]; !ok {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.bookings[id]; !ok {
		return fmt.Errorf("booking %s not found", id.String())
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) Find(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.EquipmentBooking, error) {
	var out []*entity.EquipmentBooking
	for _, b := range r.bookings {
		if b.Status == entity.BookingStatusPending {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) Count(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	bookings, err := r.Find(ctx, filter, 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(bookings)), nil
}

func (r *fakeBookingRepo) FindConfirmedStartingOn(_ context.Context, day time.Time, limit int) ([]*entity.EquipmentBooking, error) {
	var out []*entity.EquipmentBooking
	for _, b := range r.bookings {
		if b.Status != entity.BookingStatusConfirmed || b.Cancelled {
			continue
		}
		y1, m1, d1 := b.StartAt.Date()
		y2, m2, d2 := day.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) FindRecentConfirmed(_ context.Context, limit int) ([]*entity.EquipmentBooking, error) {
	var out []*entity.EquipmentBooking
	for _, b := range r.bookings {
		if b.Status != entity.BookingStatusConfirmed {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeBookingItemRepo struct {
	lines    map[uuid.UUID]*entity.EquipmentBookingItem
	bookings *fakeBookingRepo
}

func newFakeBookingItemRepo(bookings *fakeBookingRepo) *fakeBookingItemRepo {
	return &fakeBookingItemRepo{
		lines:    make(map[uuid.UUID]*entity.EquipmentBookingItem),
		bookings: bookings,
	}
}

func (r *fakeBookingItemRepo) Create(_ context.Context, bookingItem *entity.EquipmentBookingItem) (bool, error) {
	for _, line := range r.lines {
		if line.EquipmentBookingID == bookingItem.EquipmentBookingID &&
			line.ItemID != nil && bookingItem.ItemID != nil && *line.ItemID == *bookingItem.ItemID {
			return false, nil
		}
	}
	cp := *bookingItem
	r.lines[bookingItem.ID] = &cp
	return true, nil
}

func (r *fakeBookingItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.EquipmentBookingItem, error) {
	line, ok := r.lines[id]
	if !ok {
		return nil, nil
	}
	cp := *line
	return &cp, nil
}

func (r *fakeBookingItemRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.EquipmentBookingItem, error) {
	var out []*entity.EquipmentBookingItem
	for _, line := range r.lines {
		if line.EquipmentBookingID == bookingID {
			cp := *line
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBookingItemRepo) Delete(_ context.Context, id, bookingID uuid.UUID) error {
	line, ok := r.lines[id]
	if !ok || line.EquipmentBookingID != bookingID {
		return fmt.Errorf("booking item %s not found", id.String())
	}
	delete(r.lines, id)
	return nil
}

func (r *fakeBookingItemRepo) HasConflict(_ context.Context, itemID uuid.UUID, start, end time.Time, statuses []entity.BookingStatus, excludeBookingID *uuid.UUID) (bool, error) {
	for _, line := range r.lines {
		if line.ItemID == nil || *line.ItemID != itemID {
			continue
		}
		if excludeBookingID != nil && line.EquipmentBookingID == *excludeBookingID {
			continue
		}
		booking, ok := r.bookings.bookings[line.EquipmentBookingID]
		if !ok || !statusIn(booking.Status, statuses) {
			continue
		}
		if entity.WindowsOverlap(booking.StartAt, booking.EndAt, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingItemRepo) ConflictingItemIDs(_ context.Context, start, end time.Time, statuses []entity.BookingStatus) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, line := range r.lines {
		if line.ItemID == nil || seen[*line.ItemID] {
			continue
		}
		booking, ok := r.bookings.bookings[line.EquipmentBookingID]
		if !ok || !statusIn(booking.Status, statuses) {
			continue
		}
		if entity.WindowsOverlap(booking.StartAt, booking.EndAt, start, end) {
			seen[*line.ItemID] = true
			out = append(out, *line.ItemID)
		}
	}
	return out, nil
}

func (r *fakeBookingItemRepo) HasUpcoming(_ context.Context, itemID uuid.UUID, after time.Time) (bool, error) {
	for _, line := range r.lines {
		if line.ItemID == nil || *line.ItemID != itemID {
			continue
		}
		booking, ok := r.bookings.bookings[line.EquipmentBookingID]
		if !ok || !statusIn(booking.Status, entity.BlockingStatuses) {
			continue
		}
		if !booking.StartAt.Before(after) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingItemRepo) FindUpcomingConfirmed(_ context.Context, itemID uuid.UUID, after time.Time) ([]*entity.EquipmentBooking, error) {
	var out []*entity.EquipmentBooking
	for _, line := range r.lines {
		if line.ItemID == nil || *line.ItemID != itemID {
			continue
		}
		booking, ok := r.bookings.bookings[line.EquipmentBookingID]
		if !ok || booking.Status != entity.BookingStatusConfirmed {
			continue
		}
		if !booking.StartAt.Before(after) {
			cp := *booking
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func statusIn(status entity.BookingStatus, statuses []entity.BookingStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *category
	return &cp, nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeManufacturerRepo struct {
	manufacturers map[uuid.UUID]*entity.Manufacturer
}

func newFakeManufacturerRepo() *fakeManufacturerRepo {
	return &fakeManufacturerRepo{manufacturers: make(map[uuid.UUID]*entity.Manufacturer)}
}

func (r *fakeManufacturerRepo) Create(_ context.Context, manufacturer *entity.Manufacturer) error {
	cp := *manufacturer
	r.manufacturers[manufacturer.ID] = &cp
	return nil
}

func (r *fakeManufacturerRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Manufacturer, error) {
	manufacturer, ok := r.manufacturers[id]
	if !ok {
		return nil, nil
	}
	cp := *manufacturer
	return &cp, nil
}

func (r *fakeManufacturerRepo) FindAll(_ context.Context) ([]*entity.Manufacturer, error) {
	var out []*entity.Manufacturer
	for _, m := range r.manufacturers {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// testEnv bundles the fakes with the services under test.
type testEnv struct {
	repo         *repository.Repository
	items        *fakeItemRepo
	bookings     *fakeBookingRepo
	bookingItems *fakeBookingItemRepo
	itemSvc      ItemService
	bookingSvc   BookingService
}

func newTestEnv() *testEnv {
	items := newFakeItemRepo()
	bookings := newFakeBookingRepo()
	bookingItems := newFakeBookingItemRepo(bookings)

	repo := &repository.Repository{
		Category:     newFakeCategoryRepo(),
		Manufacturer: newFakeManufacturerRepo(),
		Item:         items,
		Booking:      bookings,
		BookingItem:  bookingItems,
	}

	log := zap.NewNop()
	return &testEnv{
		repo:         repo,
		items:        items,
		bookings:     bookings,
		bookingItems: bookingItems,
		itemSvc:      NewItemService(repo, log),
		bookingSvc:   NewBookingService(repo, log),
	}
}

func (e *testEnv) seedItem(name string, rate, cost float64) *entity.Item {
	now := time.Now()
	item := &entity.Item{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:               name,
		Status:             entity.ItemStatusPool,
		Barcode:            "0000000000000",
		HireDayRate:        rate,
		PurchaseCost:       cost,
		DepreciationMethod: entity.DepreciationDecliningBalance,
	}
	e.items.items[item.ID] = item
	return item
}

func (e *testEnv) seedBooking(userID uuid.UUID, status entity.BookingStatus, start, end time.Time) *entity.EquipmentBooking {
	now := time.Now()
	booking := &entity.EquipmentBooking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CreatedBy:    &userID,
		JobReference: "JOB-001",
		StartAt:      start,
		EndAt:        end,
		VATValue:     entity.DefaultVATValue,
		Status:       status,
		Confirmed:    status == entity.BookingStatusConfirmed,
	}
	booking.CalcDuration()
	e.bookings.bookings[booking.ID] = booking
	return booking
}

func (e *testEnv) seedLine(booking *entity.EquipmentBooking, item *entity.Item) *entity.EquipmentBookingItem {
	line := &entity.EquipmentBookingItem{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		EquipmentBookingID: booking.ID,
		ItemID:             &item.ID,
		Value:              item.HireDayRate,
	}
	e.bookingItems.lines[line.ID] = line
	return line
}
