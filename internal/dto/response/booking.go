package response

import (
	"time"

	"equipment-hire/internal/data/entity"
)

type BookingResponse struct {
	ID                 string               `json:"id"`
	JobReference       string               `json:"job_reference"`
	JobNumber          *string              `json:"job_number,omitempty"`
	StartAt            time.Time            `json:"start_at"`
	EndAt              time.Time            `json:"end_at"`
	DurationHours      float64              `json:"duration_hours"`
	Notes              *string              `json:"notes,omitempty"`
	VATValue           float64              `json:"vat_value"`
	Status             entity.BookingStatus `json:"status"`
	Confirmed          bool                 `json:"confirmed"`
	Cancelled          bool                 `json:"cancelled"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CancellationReason *string              `json:"cancellation_reason,omitempty"`
	CreatedBy          *string              `json:"created_by,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

type BookingItemResponse struct {
	ID               string  `json:"id"`
	ItemID           *string `json:"item_id,omitempty"`
	ItemName         string  `json:"item_name,omitempty"`
	CategoryName     string  `json:"category_name,omitempty"`
	ManufacturerName string  `json:"manufacturer_name,omitempty"`
	Value            float64 `json:"value"`
	Available        bool    `json:"available"`
}

type BookingSummaryResponse struct {
	Booking BookingResponse       `json:"booking"`
	Items   []BookingItemResponse `json:"items"`
}

type BookingDetailResponse struct {
	BookingResponse
	Items []BookingItemResponse `json:"items"`
}

type BookingCostLine struct {
	BookingItemResponse
	Total float64 `json:"total"`
}

type BookingCostResponse struct {
	Booking        BookingResponse   `json:"booking"`
	ChargeableDays int               `json:"chargeable_days"`
	Lines          []BookingCostLine `json:"lines"`
	SubTotal       float64           `json:"sub_total"`
	VATPercentage  float64           `json:"vat_percentage"`
	VATTotal       float64           `json:"vat_total"`
	GrandTotal     float64           `json:"grand_total"`
	InsurableValue float64           `json:"insurable_value"`
}

type DashboardResponse struct {
	HasPendingBooking bool              `json:"has_pending_booking"`
	TodaysBookings    []BookingResponse `json:"todays_bookings"`
	RecentBookings    []BookingResponse `json:"recent_bookings"`
}

// BookingToResponse maps a booking entity onto the wire shape.
func BookingToResponse(b *entity.EquipmentBooking) BookingResponse {
	var createdBy *string
	if b.CreatedBy != nil {
		s := b.CreatedBy.String()
		createdBy = &s
	}

	return BookingResponse{
		ID:                 b.ID.String(),
		JobReference:       b.JobReference,
		JobNumber:          b.JobNumber,
		StartAt:            b.StartAt,
		EndAt:              b.EndAt,
		DurationHours:      b.Duration.Hours(),
		Notes:              b.Notes,
		VATValue:           b.VATValue,
		Status:             b.Status,
		Confirmed:          b.Confirmed,
		Cancelled:          b.Cancelled,
		CancelledAt:        b.CancelledAt,
		CancellationReason: b.CancellationReason,
		CreatedBy:          createdBy,
		CreatedAt:          b.CreatedAt,
	}
}
