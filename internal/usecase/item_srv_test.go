package usecase

import (
	"context"
	"testing"
	"time"

	"equipment-hire/internal/data/entity"
	"equipment-hire/internal/dto/request"
	"equipment-hire/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCreateItem_GeneratesBarcode(t *testing.T) {
	env := newTestEnv()

	detail, err := env.itemSvc.CreateItem(context.Background(), uuid.New().String(), &request.CreateItemRequest{
		Name: "Camera",
	})
	require.NoError(t, err)
	require.Len(t, detail.Barcode, entity.BarcodeLength)
	for _, c := range detail.Barcode {
		require.True(t, c >= '0' && c <= '9', "barcode must be numeric, got %q", detail.Barcode)
	}
	require.Equal(t, entity.ItemStatusPool, detail.Status)
	require.Equal(t, string(entity.DepreciationDecliningBalance), detail.DepreciationMethod)
}

func TestCreateItem_KeepsSuppliedBarcode(t *testing.T) {
	env := newTestEnv()
	barcode := "1234567890123"

	detail, err := env.itemSvc.CreateItem(context.Background(), uuid.New().String(), &request.CreateItemRequest{
		Name:    "Camera",
		Barcode: &barcode,
	})
	require.NoError(t, err)
	require.Equal(t, barcode, detail.Barcode)
}

func TestCreateItem_BarcodeSpaceExhausted(t *testing.T) {
	env := newTestEnv()
	env.items.barcodeSpaceFull = true

	_, err := env.itemSvc.CreateItem(context.Background(), uuid.New().String(), &request.CreateItemRequest{
		Name: "Camera",
	})
	require.ErrorContains(t, err, "failed to generate a unique barcode after 100 attempts")
}

func TestDeleteItem_SoftDeletes(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Camera", 50, 1200)

	require.NoError(t, env.itemSvc.DeleteItem(context.Background(), item.ID.String()))

	stored := env.items.items[item.ID]
	require.True(t, stored.Deleted)
	require.NotNil(t, stored.DeletedAt)
	require.Equal(t, entity.ItemStatusDepreciated, stored.Status)

	// Soft-deleted items drop out of listings.
	page, err := env.itemSvc.ListItems(context.Background(), uuid.New().String(), &request.ItemQueryRequest{})
	require.NoError(t, err)
	require.Empty(t, page.Data)
}

func TestDeleteItem_KeepsHistoricalLines(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	item := env.seedItem("Camera", 50, 1200)

	start := time.Now().Add(-72 * time.Hour)
	booking := env.seedBooking(userID, entity.BookingStatusConfirmed, start, start.Add(48*time.Hour))
	env.seedLine(booking, item)

	require.NoError(t, env.itemSvc.DeleteItem(context.Background(), item.ID.String()))

	costs, err := env.bookingSvc.GetCosts(context.Background(), booking.ID.String())
	require.NoError(t, err)
	require.Len(t, costs.Lines, 1)
	require.Equal(t, 100.0, costs.Lines[0].Total)
}

func TestAssignItem(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Camera", 50, 1200)
	assignee := uuid.New()

	err := env.itemSvc.AssignItem(context.Background(), item.ID.String(), &request.AssignItemRequest{
		AssignedUserID: assignee.String(),
	})
	require.NoError(t, err)

	stored := env.items.items[item.ID]
	require.Equal(t, entity.ItemStatusAssigned, stored.Status)
	require.Equal(t, assignee, *stored.AssignedTo)
}

func TestAssignItem_BlockedByUpcomingBooking(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Camera", 50, 1200)

	start := time.Now().Add(48 * time.Hour)
	booking := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, start, start.Add(24*time.Hour))
	env.seedLine(booking, item)

	err := env.itemSvc.AssignItem(context.Background(), item.ID.String(), &request.AssignItemRequest{
		AssignedUserID: uuid.New().String(),
	})
	require.ErrorContains(t, err, "cannot currently be assigned")
}

func TestUnassignItem(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Camera", 50, 1200)
	item.AssignTo(uuid.New())
	env.items.items[item.ID] = item

	require.NoError(t, env.itemSvc.UnassignItem(context.Background(), item.ID.String()))

	stored := env.items.items[item.ID]
	require.Nil(t, stored.AssignedTo)
	require.Equal(t, entity.ItemStatusPool, stored.Status)
}

func TestUnassignItem_LeavesRepairStatusAlone(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Camera", 50, 1200)
	userID := uuid.New()
	item.AssignedTo = &userID
	item.Status = entity.ItemStatusRepair
	env.items.items[item.ID] = item

	require.NoError(t, env.itemSvc.UnassignItem(context.Background(), item.ID.String()))

	stored := env.items.items[item.ID]
	require.Nil(t, stored.AssignedTo)
	require.Equal(t, entity.ItemStatusRepair, stored.Status)
}

func TestListItems_AnnotatesAvailability(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	start, end := bookingWindow(1, 48)
	env.seedBooking(userID, entity.BookingStatusPending, start, end)

	free := env.seedItem("Tripod", 30, 300)
	claimed := env.seedItem("Camera", 50, 1200)
	other := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, start, end)
	env.seedLine(other, claimed)

	page, err := env.itemSvc.ListItems(context.Background(), userID.String(), &request.ItemQueryRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	byName := make(map[string]response.ItemResponse, len(page.Data))
	for _, item := range page.Data {
		byName[item.Name] = item
	}
	require.True(t, byName[free.Name].Available)
	require.False(t, byName[claimed.Name].Available)
}

func TestListItems_AllAvailableWithoutPendingBooking(t *testing.T) {
	env := newTestEnv()

	item := env.seedItem("Camera", 50, 1200)
	start, end := bookingWindow(1, 48)
	other := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, start, end)
	env.seedLine(other, item)

	// With no open booking there is no window to clash against; only
	// assignment makes an item unavailable.
	page, err := env.itemSvc.ListItems(context.Background(), uuid.New().String(), &request.ItemQueryRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.True(t, page.Data[0].Available)
}

func TestUpdateItemService_RecomputesDueDate(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Camera", 50, 1200)

	detail, err := env.itemSvc.UpdateItemService(context.Background(), uuid.New().String(), item.ID.String(), &request.UpdateItemServiceRequest{
		LastServiceDate:     "2026-01-10",
		ServiceIntervalDays: 90,
	})
	require.NoError(t, err)
	require.NotNil(t, detail.ServiceDueDate)
	require.Equal(t, "2026-04-10", *detail.ServiceDueDate)
	require.NotNil(t, detail.ServiceIntervalDays)
	require.Equal(t, 90, *detail.ServiceIntervalDays)
}

func TestGetItemByID_IncludesUpcomingConfirmedBookings(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Camera", 50, 1200)

	future := time.Now().Add(72 * time.Hour)
	upcoming := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, future, future.Add(24*time.Hour))
	env.seedLine(upcoming, item)

	// Past bookings and pending holds stay off the detail view.
	past := time.Now().Add(-72 * time.Hour)
	done := env.seedBooking(uuid.New(), entity.BookingStatusConfirmed, past, past.Add(24*time.Hour))
	env.seedLine(done, item)

	detail, err := env.itemSvc.GetItemByID(context.Background(), item.ID.String())
	require.NoError(t, err)
	require.Len(t, detail.UpcomingBookings, 1)
	require.Equal(t, upcoming.ID.String(), detail.UpcomingBookings[0].ID)
}
