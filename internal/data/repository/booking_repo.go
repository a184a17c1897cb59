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

// BookingFilter narrows booking queries. The query surface never shows
// PENDING bookings; those are only reachable through the owner's summary.
type BookingFilter struct {
	Status    *entity.BookingStatus
	Search    *string
	StartFrom *time.Time
	StartTo   *time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.EquipmentBooking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.EquipmentBooking, error)
	FindPendingByUser(ctx context.Context, userID uuid.UUID) (*entity.EquipmentBooking, error)
	Update(ctx context.Context, booking *entity.EquipmentBooking) error
	Delete(ctx context.Context, id uuid.UUID) error
	Find(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.EquipmentBooking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	FindConfirmedStartingOn(ctx context.Context, day time.Time, limit int) ([]*entity.EquipmentBooking, error)
	FindRecentConfirmed(ctx context.Context, limit int) ([]*entity.EquipmentBooking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, created_at, updated_at, created_by, updated_by, job_reference,
	       job_number, start_at, end_at, duration, notes, vat_value, status,
	       confirmed, cancelled, cancelled_at, cancellation_reason`

func scanBooking(row pgx.Row) (*entity.EquipmentBooking, error) {
	var booking entity.EquipmentBooking
	var durationNs *int64

	err := row.Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.CreatedBy,
		&booking.UpdatedBy,
		&booking.JobReference,
		&booking.JobNumber,
		&booking.StartAt,
		&booking.EndAt,
		&durationNs,
		&booking.Notes,
		&booking.VATValue,
		&booking.Status,
		&booking.Confirmed,
		&booking.Cancelled,
		&booking.CancelledAt,
		&booking.CancellationReason,
	)
	if err != nil {
		return nil, err
	}

	if durationNs != nil {
		booking.Duration = time.Duration(*durationNs)
	}

	return &booking, nil
}

// Create inserts a PENDING booking. The partial unique index on
// (created_by) WHERE status = 'PENDING' is the authoritative guard for the
// one-pending-booking-per-user invariant; the service-level lookup is only a
// fast path.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.EquipmentBooking) error {
	query := `
		INSERT INTO equipment_bookings (id, created_at, updated_at, created_by, updated_by,
		                                job_reference, job_number, start_at, end_at, duration,
		                                notes, vat_value, status, confirmed, cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	ns := int64(booking.Duration)
	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CreatedAt,
		booking.UpdatedAt,
		booking.CreatedBy,
		booking.UpdatedBy,
		booking.JobReference,
		booking.JobNumber,
		booking.StartAt,
		booking.EndAt,
		ns,
		booking.Notes,
		booking.VATValue,
		booking.Status,
		booking.Confirmed,
		booking.Cancelled,
	)

	if err != nil {
		if database.IsUniqueViolation(err, "uq_equipment_bookings_pending_per_user") {
			return fmt.Errorf("you already have a pending booking")
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("job_reference", booking.JobReference),
		)
		return fmt.Errorf("create booking %s: %w", booking.JobReference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.EquipmentBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM equipment_bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindPendingByUser(ctx context.Context, userID uuid.UUID) (*entity.EquipmentBooking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM equipment_bookings
		WHERE created_by = $1 AND status = 'PENDING'`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pending booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find pending booking for user %s: %w", userID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.EquipmentBooking) error {
	query := `
		UPDATE equipment_bookings
		SET updated_at = $2, updated_by = $3, job_reference = $4, job_number = $5,
		    start_at = $6, end_at = $7, duration = $8, notes = $9, vat_value = $10,
		    status = $11, confirmed = $12, cancelled = $13, cancelled_at = $14,
		    cancellation_reason = $15
		WHERE id = $1
	`

	ns := int64(booking.Duration)
	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UpdatedAt,
		booking.UpdatedBy,
		booking.JobReference,
		booking.JobNumber,
		booking.StartAt,
		booking.EndAt,
		ns,
		booking.Notes,
		booking.VATValue,
		booking.Status,
		booking.Confirmed,
		booking.Cancelled,
		booking.CancelledAt,
		booking.CancellationReason,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

// Delete hard-deletes a booking; line items cascade at the database level.
// Only unconfirmed pending bookings are deleted this way.
func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM equipment_bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

func (r *bookingRepository) filterClause(filter BookingFilter, args []any) (string, []any) {
	clause := ` WHERE status <> 'PENDING'`

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clause += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	if filter.Search != nil && *filter.Search != "" {
		args = append(args, *filter.Search)
		clause += fmt.Sprintf(` AND job_reference ILIKE '%%' || $%d || '%%'`, len(args))
	}

	if filter.StartFrom != nil {
		args = append(args, *filter.StartFrom)
		clause += fmt.Sprintf(` AND start_at::date >= $%d::date`, len(args))
	}

	if filter.StartTo != nil {
		args = append(args, *filter.StartTo)
		clause += fmt.Sprintf(` AND start_at::date <= $%d::date`, len(args))
	}

	return clause, args
}

func (r *bookingRepository) Find(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.EquipmentBooking, error) {
	clause, args := r.filterClause(filter, nil)

	args = append(args, limit, offset)
	query := `SELECT ` + bookingColumns + ` FROM equipment_bookings` + clause +
		fmt.Sprintf(` ORDER BY start_at DESC, created_at LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	clause, args := r.filterClause(filter, nil)
	query := `SELECT COUNT(*) FROM equipment_bookings` + clause

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) FindConfirmedStartingOn(ctx context.Context, day time.Time, limit int) ([]*entity.EquipmentBooking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM equipment_bookings
		WHERE start_at::date = $1::date AND status = 'CONFIRMED' AND cancelled = FALSE
		ORDER BY start_at
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, day, limit)
	if err != nil {
		r.log.Error("Failed to find bookings starting on day",
			zap.Error(err),
			zap.Time("day", day),
		)
		return nil, fmt.Errorf("find bookings starting on %s: %w", day.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func (r *bookingRepository) FindRecentConfirmed(ctx context.Context, limit int) ([]*entity.EquipmentBooking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM equipment_bookings
		WHERE status = 'CONFIRMED'
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find recent confirmed bookings", zap.Error(err))
		return nil, fmt.Errorf("find recent confirmed bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func collectBookings(rows pgx.Rows, log *zap.Logger) ([]*entity.EquipmentBooking, error) {
	var bookings []*entity.EquipmentBooking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}
