package usecase

import (
	"context"
	"testing"
	"time"

	"equipment-hire/internal/data/entity"
	"equipment-hire/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func bookingWindow(daysFromNow, lengthHours int) (time.Time, time.Time) {
	start := time.Now().Add(time.Duration(daysFromNow) * 24 * time.Hour).Truncate(time.Hour)
	return start, start.Add(time.Duration(lengthHours) * time.Hour)
}

func createRequest(start, end time.Time) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		JobReference: "JOB-001",
		StartAt:      start.Format(time.RFC3339),
		EndAt:        end.Format(time.RFC3339),
	}
}

func TestCreateBooking_Defaults(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 48)

	summary, err := env.bookingSvc.CreateBooking(context.Background(), userID.String(), createRequest(start, end))
	require.NoError(t, err)
	require.Equal(t, entity.BookingStatusPending, summary.Booking.Status)
	require.Equal(t, entity.DefaultVATValue, summary.Booking.VATValue)
	require.Equal(t, 48.0, summary.Booking.DurationHours)
	require.Empty(t, summary.Items)
}

func TestCreateBooking_SecondPendingRejected(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)
	env.seedBooking(userID, entity.BookingStatusPending, start, end)

	_, err := env.bookingSvc.CreateBooking(context.Background(), userID.String(), createRequest(start, end))
	require.ErrorContains(t, err, "you already have a pending booking")
}

func TestCreateBooking_EndBeforeStartRejected(t *testing.T) {
	env := newTestEnv()
	start, end := bookingWindow(1, 24)

	_, err := env.bookingSvc.CreateBooking(context.Background(), uuid.New().String(), createRequest(end, start))
	require.ErrorContains(t, err, "end_at must not precede start_at")
}

func TestCreateBooking_ZeroDurationAllowed(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, _ := bookingWindow(1, 24)

	summary, err := env.bookingSvc.CreateBooking(context.Background(), userID.String(), createRequest(start, start))
	require.NoError(t, err)
	require.Equal(t, 0.0, summary.Booking.DurationHours)

	booking := env.bookings.bookings[uuid.MustParse(summary.Booking.ID)]
	env.seedLine(booking, env.seedItem("Camera", 50, 1200))

	costs, err := env.bookingSvc.GetCosts(context.Background(), summary.Booking.ID)
	require.NoError(t, err)
	require.Equal(t, 0, costs.ChargeableDays)
	require.Equal(t, 0.0, costs.SubTotal)
	require.Equal(t, 0.0, costs.GrandTotal)
}

func TestAddItem_SnapshotsRateAndIsIdempotent(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 48)
	env.seedBooking(userID, entity.BookingStatusPending, start, end)
	item := env.seedItem("Camera", 50, 1200)

	summary, err := env.bookingSvc.AddItem(context.Background(), userID.String(), item.ID.String())
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	require.Equal(t, 50.0, summary.Items[0].Value)

	// A raised day rate must not leak into the existing line.
	item.HireDayRate = 80
	env.items.items[item.ID] = item

	summary, err = env.bookingSvc.AddItem(context.Background(), userID.String(), item.ID.String())
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	require.Equal(t, 50.0, summary.Items[0].Value)
}

func TestAddItem_RequiresPendingBooking(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Camera", 50, 1200)

	_, err := env.bookingSvc.AddItem(context.Background(), uuid.New().String(), item.ID.String())
	require.ErrorContains(t, err, "no pending booking found")
}

func TestAddItem_AssignedItemRejected(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)
	env.seedBooking(userID, entity.BookingStatusPending, start, end)

	item := env.seedItem("Camera", 50, 1200)
	item.AssignTo(uuid.New())
	env.items.items[item.ID] = item

	_, err := env.bookingSvc.AddItem(context.Background(), userID.String(), item.ID.String())
	require.ErrorContains(t, err, "this item cannot currently be booked")
}

func TestAddItem_ConfirmedConflictRejected(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 48)
	env.seedBooking(userID, entity.BookingStatusPending, start, end)

	item := env.seedItem("Camera", 50, 1200)
	other := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, start.Add(-12*time.Hour), start.Add(12*time.Hour))
	env.seedLine(other, item)

	_, err := env.bookingSvc.AddItem(context.Background(), userID.String(), item.ID.String())
	require.ErrorContains(t, err, "this item cannot currently be booked")
}

func TestAddItem_PendingHoldDoesNotBlock(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 48)
	env.seedBooking(userID, entity.BookingStatusPending, start, end)

	// Someone else holds the item on an unconfirmed booking over the same
	// window. The add goes through; only confirmation rechecks it.
	item := env.seedItem("Camera", 50, 1200)
	other := env.seedBooking(uuid.New(), entity.BookingStatusPending, start, end)
	env.seedLine(other, item)

	summary, err := env.bookingSvc.AddItem(context.Background(), userID.String(), item.ID.String())
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
}

func TestGetSummary_FlagsConfirmedClashesOnly(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 48)
	booking := env.seedBooking(userID, entity.BookingStatusPending, start, end)

	held := env.seedItem("Camera", 50, 1200)
	taken := env.seedItem("Tripod", 30, 300)
	env.seedLine(booking, held)
	env.seedLine(booking, taken)

	// Another pending hold on the first item leaves it flagged available;
	// a confirmed booking on the second does not.
	pendingElsewhere := env.seedBooking(uuid.New(), entity.BookingStatusPending, start, end)
	env.seedLine(pendingElsewhere, held)
	confirmedElsewhere := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, start, end)
	env.seedLine(confirmedElsewhere, taken)

	summary, err := env.bookingSvc.GetSummary(context.Background(), userID.String())
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)

	byName := make(map[string]bool, len(summary.Items))
	for _, line := range summary.Items {
		byName[line.ItemName] = line.Available
	}
	require.True(t, byName["Camera"])
	require.False(t, byName["Tripod"])
}

func TestConfirm_EmptyBookingRejected(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)
	env.seedBooking(userID, entity.BookingStatusPending, start, end)

	_, err := env.bookingSvc.ConfirmBooking(context.Background(), userID.String())
	require.ErrorContains(t, err, "bookings must contain at least one item")
}

func TestConfirm_PendingConflictFailsVerification(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 48)
	booking := env.seedBooking(userID, entity.BookingStatusPending, start, end)

	item := env.seedItem("Camera", 50, 1200)
	env.seedLine(booking, item)

	// The same pending hold that did not block the add does fail the
	// confirmation check.
	other := env.seedBooking(uuid.New(), entity.BookingStatusPending, start, end)
	env.seedLine(other, item)

	_, err := env.bookingSvc.ConfirmBooking(context.Background(), userID.String())
	require.ErrorContains(t, err, "Camera is already booked for that period")
}

func TestConfirm_TouchingWindowsDoNotConflict(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)
	booking := env.seedBooking(userID, entity.BookingStatusPending, start, end)

	item := env.seedItem("Camera", 50, 1200)
	env.seedLine(booking, item)

	// Back-to-back booking ending exactly when ours starts.
	other := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, start.Add(-24*time.Hour), start)
	env.seedLine(other, item)

	detail, err := env.bookingSvc.ConfirmBooking(context.Background(), userID.String())
	require.NoError(t, err)
	require.Equal(t, entity.BookingStatusConfirmed, detail.Status)
	require.True(t, detail.Confirmed)
}

func TestCancelSummary_DeletesNeverConfirmedBooking(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)
	booking := env.seedBooking(userID, entity.BookingStatusPending, start, end)

	err := env.bookingSvc.CancelSummary(context.Background(), userID.String(), &request.CancelBookingRequest{})
	require.NoError(t, err)

	_, exists := env.bookings.bookings[booking.ID]
	require.False(t, exists)
}

func TestCancelSummary_CancelsPreviouslyConfirmedBooking(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)
	booking := env.seedBooking(userID, entity.BookingStatusPending, start, end)
	booking.Confirmed = true
	env.bookings.bookings[booking.ID] = booking

	err := env.bookingSvc.CancelSummary(context.Background(), userID.String(), &request.CancelBookingRequest{})
	require.NoError(t, err)

	stored := env.bookings.bookings[booking.ID]
	require.NotNil(t, stored)
	require.Equal(t, entity.BookingStatusCancelled, stored.Status)
	require.True(t, stored.Cancelled)
	require.NotNil(t, stored.CancelledAt)
}

func TestCancelBooking_IsIdempotent(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)
	booking := env.seedBooking(userID, entity.BookingStatusConfirmed, start, end)

	reason := "client pulled out"
	req := &request.CancelBookingRequest{CancellationReason: &reason}

	require.NoError(t, env.bookingSvc.CancelBooking(context.Background(), userID.String(), booking.ID.String(), req))
	require.NoError(t, env.bookingSvc.CancelBooking(context.Background(), userID.String(), booking.ID.String(), req))

	stored := env.bookings.bookings[booking.ID]
	require.Equal(t, entity.BookingStatusCancelled, stored.Status)
	require.Equal(t, reason, *stored.CancellationReason)
}

func TestCancelBooking_CancelsPendingBooking(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)

	// A reverted booking whose owner walked away stays PENDING; the by-id
	// route must still be able to cancel it.
	booking := env.seedBooking(uuid.New(), entity.BookingStatusPending, start, end)
	booking.Confirmed = true
	env.bookings.bookings[booking.ID] = booking

	err := env.bookingSvc.CancelBooking(context.Background(), userID.String(), booking.ID.String(), &request.CancelBookingRequest{})
	require.NoError(t, err)

	stored := env.bookings.bookings[booking.ID]
	require.Equal(t, entity.BookingStatusCancelled, stored.Status)
	require.True(t, stored.Cancelled)
}

func TestRevert_RejectedWhileAnotherPendingExists(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 24)
	confirmed := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, start, end)
	env.seedBooking(userID, entity.BookingStatusPending, start, end)

	_, err := env.bookingSvc.RevertBooking(context.Background(), userID.String(), confirmed.ID.String())
	require.ErrorContains(t, err, "you cannot update a booking whilst you have one outstanding")
}

func TestRevert_PastBookingRejected(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start := time.Now().Add(-48 * time.Hour)
	booking := env.seedBooking(userID, entity.BookingStatusConfirmed, start, start.Add(24*time.Hour))

	_, err := env.bookingSvc.RevertBooking(context.Background(), userID.String(), booking.ID.String())
	require.ErrorContains(t, err, "bookings cannot be updated if they occurred in the past")
}

func TestRevert_ReopensAndTransfersOwnership(t *testing.T) {
	env := newTestEnv()
	start, end := bookingWindow(2, 24)
	booking := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, start, end)

	editor := uuid.New()
	summary, err := env.bookingSvc.RevertBooking(context.Background(), editor.String(), booking.ID.String())
	require.NoError(t, err)
	require.Equal(t, entity.BookingStatusPending, summary.Booking.Status)
	require.True(t, summary.Booking.Confirmed)

	stored := env.bookings.bookings[booking.ID]
	require.Equal(t, editor, *stored.CreatedBy)
}

func TestGetCosts_TwoDayBooking(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 48)
	booking := env.seedBooking(userID, entity.BookingStatusConfirmed, start, end)

	camera := env.seedItem("Camera", 50, 1200)
	tripod := env.seedItem("Tripod", 30, 300)
	env.seedLine(booking, camera)
	env.seedLine(booking, tripod)

	costs, err := env.bookingSvc.GetCosts(context.Background(), booking.ID.String())
	require.NoError(t, err)
	require.Equal(t, 2, costs.ChargeableDays)
	require.Len(t, costs.Lines, 2)
	require.Equal(t, 160.0, costs.SubTotal)
	require.Equal(t, 20.0, costs.VATPercentage)
	require.Equal(t, 32.0, costs.VATTotal)
	require.Equal(t, 192.0, costs.GrandTotal)
	require.Equal(t, 1500.0, costs.InsurableValue)
}

func TestGetCosts_PartialDayRoundsUp(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 6)
	booking := env.seedBooking(userID, entity.BookingStatusConfirmed, start, end)
	env.seedLine(booking, env.seedItem("Camera", 50, 1200))

	costs, err := env.bookingSvc.GetCosts(context.Background(), booking.ID.String())
	require.NoError(t, err)
	require.Equal(t, 1, costs.ChargeableDays)
	require.Equal(t, 50.0, costs.SubTotal)
}

func TestGetDashboard(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()

	now := time.Now()
	env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, now, now.Add(24*time.Hour))
	env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, now.Add(7*24*time.Hour), now.Add(8*24*time.Hour))

	dashboard, err := env.bookingSvc.GetDashboard(context.Background(), userID.String())
	require.NoError(t, err)
	require.False(t, dashboard.HasPendingBooking)
	require.Len(t, dashboard.TodaysBookings, 1)
	require.Len(t, dashboard.RecentBookings, 2)

	env.seedBooking(userID, entity.BookingStatusPending, now, now.Add(24*time.Hour))

	dashboard, err = env.bookingSvc.GetDashboard(context.Background(), userID.String())
	require.NoError(t, err)
	require.True(t, dashboard.HasPendingBooking)
}
