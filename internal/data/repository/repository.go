package repository

import (
	"time"

	"equipment-hire/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Session      SessionRepository
	Category     CategoryRepository
	Manufacturer ManufacturerRepository
	Item         ItemRepository
	Booking      BookingRepository
	BookingItem  BookingItemRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Session:      NewSessionRepository(db, log),
		Category:     NewCategoryRepository(db, log),
		Manufacturer: NewManufacturerRepository(db, log),
		Item:         NewItemRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		BookingItem:  NewBookingItemRepository(db, log),
	}
}

// durationNs converts an optional duration to nanoseconds for storage in a
// BIGINT column.
func durationNs(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	ns := int64(*d)
	return &ns
}
