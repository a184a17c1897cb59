package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Default VAT percentage applied to new bookings.
const DefaultVATValue = 20.00

type EquipmentBooking struct {
	BaseNoDelete
	CreatedBy          *uuid.UUID    `db:"created_by"`
	UpdatedBy          *uuid.UUID    `db:"updated_by"`
	JobReference       string        `db:"job_reference"`
	JobNumber          *string       `db:"job_number"`
	StartAt            time.Time     `db:"start_at"`
	EndAt              time.Time     `db:"end_at"`
	Duration           time.Duration `db:"duration"`
	Notes              *string       `db:"notes"`
	VATValue           float64       `db:"vat_value"`
	Status             BookingStatus `db:"status"`
	Confirmed          bool          `db:"confirmed"`
	Cancelled          bool          `db:"cancelled"`
	CancelledAt        *time.Time    `db:"cancelled_at"`
	CancellationReason *string       `db:"cancellation_reason"`
}

// CalcDuration recomputes the stored duration from the booking bounds.
// Must be called on every save that touches start_at or end_at.
func (b *EquipmentBooking) CalcDuration() {
	if !b.StartAt.IsZero() && !b.EndAt.IsZero() {
		b.Duration = b.EndAt.Sub(b.StartAt)
	}
}

// Confirm moves the booking to CONFIRMED.
func (b *EquipmentBooking) Confirm() {
	b.Status = BookingStatusConfirmed
	b.Confirmed = true
}

// Cancel moves the booking to CANCELLED, logging the time it was cancelled.
func (b *EquipmentBooking) Cancel(now time.Time) {
	b.Cancelled = true
	b.CancelledAt = &now
	b.Status = BookingStatusCancelled
}

// RevertToPending reopens a confirmed booking for editing.
func (b *EquipmentBooking) RevertToPending() {
	b.Status = BookingStatusPending
}

// WindowsOverlap reports whether two half-open windows [aStart, aEnd) and
// [bStart, bEnd) overlap. Windows that merely touch do not conflict. Every
// availability check in the system goes through this predicate or its SQL
// mirror in the line-item repository.
func WindowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// BlockingStatuses are the booking statuses that make a claimed item
// unavailable during full verification and browsing queries.
var BlockingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// ConfirmedOnly is the narrower status set used when adding an item to a
// pending booking: another user's pending hold does not block the add.
var ConfirmedOnly = []BookingStatus{BookingStatusConfirmed}
