package repository

import (
	"context"
	"fmt"
	"time"

	"equipment-hire/internal/data/entity"
	"equipment-hire/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingItemRepository interface {
	// Create inserts a line item; re-adding an item already on the booking
	// is a no-op. Reports whether a new row was written.
	Create(ctx context.Context, bookingItem *entity.EquipmentBookingItem) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.EquipmentBookingItem, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.EquipmentBookingItem, error)
	Delete(ctx context.Context, id, bookingID uuid.UUID) error

	// Conflict queries. The overlap predicate mirrors entity.WindowsOverlap:
	// existing.start_at < candidate end AND existing.end_at > candidate start.
	HasConflict(ctx context.Context, itemID uuid.UUID, start, end time.Time, statuses []entity.BookingStatus, excludeBookingID *uuid.UUID) (bool, error)
	ConflictingItemIDs(ctx context.Context, start, end time.Time, statuses []entity.BookingStatus) ([]uuid.UUID, error)
	HasUpcoming(ctx context.Context, itemID uuid.UUID, after time.Time) (bool, error)
	FindUpcomingConfirmed(ctx context.Context, itemID uuid.UUID, after time.Time) ([]*entity.EquipmentBooking, error)
}

type bookingItemRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingItemRepository(db database.PgxIface, log *zap.Logger) BookingItemRepository {
	return &bookingItemRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_item")),
	}
}

func (r *bookingItemRepository) Create(ctx context.Context, bookingItem *entity.EquipmentBookingItem) (bool, error) {
	query := `
		INSERT INTO equipment_booking_items (id, created_at, equipment_booking_id, item_id, value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (equipment_booking_id, item_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		bookingItem.ID,
		bookingItem.CreatedAt,
		bookingItem.EquipmentBookingID,
		bookingItem.ItemID,
		bookingItem.Value,
	)

	if err != nil {
		r.log.Error("Failed to create booking item",
			zap.Error(err),
			zap.String("booking_id", bookingItem.EquipmentBookingID.String()),
		)
		return false, fmt.Errorf("create booking item for booking %s: %w",
			bookingItem.EquipmentBookingID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.EquipmentBookingItem, error) {
	query := `
		SELECT id, created_at, equipment_booking_id, item_id, value
		FROM equipment_booking_items
		WHERE id = $1
	`

	var bi entity.EquipmentBookingItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&bi.ID,
		&bi.CreatedAt,
		&bi.EquipmentBookingID,
		&bi.ItemID,
		&bi.Value,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking item by ID",
			zap.Error(err),
			zap.String("booking_item_id", id.String()),
		)
		return nil, fmt.Errorf("find booking item by ID %s: %w", id.String(), err)
	}

	return &bi, nil
}

func (r *bookingItemRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.EquipmentBookingItem, error) {
	query := `
		SELECT id, created_at, equipment_booking_id, item_id, value
		FROM equipment_booking_items
		WHERE equipment_booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking items by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booking items by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var bookingItems []*entity.EquipmentBookingItem
	for rows.Next() {
		var bi entity.EquipmentBookingItem
		err := rows.Scan(
			&bi.ID,
			&bi.CreatedAt,
			&bi.EquipmentBookingID,
			&bi.ItemID,
			&bi.Value,
		)
		if err != nil {
			r.log.Error("Failed to scan booking item row", zap.Error(err))
			return nil, fmt.Errorf("scan booking item row: %w", err)
		}
		bookingItems = append(bookingItems, &bi)
	}

	return bookingItems, nil
}

// Delete removes a line item scoped to its owning booking, so callers can
// only touch lines on their own open booking.
func (r *bookingItemRepository) Delete(ctx context.Context, id, bookingID uuid.UUID) error {
	query := `DELETE FROM equipment_booking_items WHERE id = $1 AND equipment_booking_id = $2`

	result, err := r.db.Exec(ctx, query, id, bookingID)
	if err != nil {
		r.log.Error("Failed to delete booking item",
			zap.Error(err),
			zap.String("booking_item_id", id.String()),
		)
		return fmt.Errorf("delete booking item %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking item %s not found", id.String())
	}

	return nil
}

func (r *bookingItemRepository) HasConflict(ctx context.Context, itemID uuid.UUID, start, end time.Time, statuses []entity.BookingStatus, excludeBookingID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM equipment_booking_items bi
			INNER JOIN equipment_bookings b ON b.id = bi.equipment_booking_id
			WHERE bi.item_id = $1
			  AND b.start_at < $2
			  AND b.end_at > $3
			  AND b.status = ANY($4)
			  AND ($5::uuid IS NULL OR b.id <> $5)
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, itemID, end, start, statusStrings(statuses), excludeBookingID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check booking conflict",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
		)
		return false, fmt.Errorf("check booking conflict for item %s: %w", itemID.String(), err)
	}

	return exists, nil
}

func (r *bookingItemRepository) ConflictingItemIDs(ctx context.Context, start, end time.Time, statuses []entity.BookingStatus) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT bi.item_id
		FROM equipment_booking_items bi
		INNER JOIN equipment_bookings b ON b.id = bi.equipment_booking_id
		WHERE bi.item_id IS NOT NULL
		  AND b.start_at < $1
		  AND b.end_at > $2
		  AND b.status = ANY($3)
	`

	rows, err := r.db.Query(ctx, query, end, start, statusStrings(statuses))
	if err != nil {
		r.log.Error("Failed to find conflicting items", zap.Error(err))
		return nil, fmt.Errorf("find conflicting items: %w", err)
	}
	defer rows.Close()

	var itemIDs []uuid.UUID
	for rows.Next() {
		var itemID uuid.UUID
		if err := rows.Scan(&itemID); err != nil {
			r.log.Error("Failed to scan item ID row", zap.Error(err))
			return nil, fmt.Errorf("scan item ID row: %w", err)
		}
		itemIDs = append(itemIDs, itemID)
	}

	return itemIDs, nil
}

// HasUpcoming reports whether the item appears on any pending or confirmed
// booking that starts after the given time. Used as the assignment guard.
func (r *bookingItemRepository) HasUpcoming(ctx context.Context, itemID uuid.UUID, after time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM equipment_booking_items bi
			INNER JOIN equipment_bookings b ON b.id = bi.equipment_booking_id
			WHERE bi.item_id = $1
			  AND b.start_at >= $2
			  AND b.status IN ('PENDING', 'CONFIRMED')
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, itemID, after).Scan(&exists); err != nil {
		r.log.Error("Failed to check upcoming bookings for item",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
		)
		return false, fmt.Errorf("check upcoming bookings for item %s: %w", itemID.String(), err)
	}

	return exists, nil
}

func (r *bookingItemRepository) FindUpcomingConfirmed(ctx context.Context, itemID uuid.UUID, after time.Time) ([]*entity.EquipmentBooking, error) {
	query := `SELECT ` + prefixedBookingColumns("b") + `
		FROM equipment_bookings b
		INNER JOIN equipment_booking_items bi ON bi.equipment_booking_id = b.id
		WHERE bi.item_id = $1
		  AND b.start_at >= $2
		  AND b.status = 'CONFIRMED'
		ORDER BY b.start_at
	`

	rows, err := r.db.Query(ctx, query, itemID, after)
	if err != nil {
		r.log.Error("Failed to find upcoming bookings for item",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
		)
		return nil, fmt.Errorf("find upcoming bookings for item %s: %w", itemID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func statusStrings(statuses []entity.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func prefixedBookingColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.created_at, %[1]s.updated_at, %[1]s.created_by,
	       %[1]s.updated_by, %[1]s.job_reference, %[1]s.job_number, %[1]s.start_at,
	       %[1]s.end_at, %[1]s.duration, %[1]s.notes, %[1]s.vat_value, %[1]s.status,
	       %[1]s.confirmed, %[1]s.cancelled, %[1]s.cancelled_at, %[1]s.cancellation_reason`, alias)
}
