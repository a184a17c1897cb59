package response

import (
	"time"

	"equipment-hire/internal/data/entity"
)

type ItemResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	CategoryName     string            `json:"category_name,omitempty"`
	ManufacturerName string            `json:"manufacturer_name,omitempty"`
	Mount            *string           `json:"mount,omitempty"`
	ModelNumber      *string           `json:"model_number,omitempty"`
	SerialNumber     *string           `json:"serial_number,omitempty"`
	Status           entity.ItemStatus `json:"status"`
	Barcode          string            `json:"barcode"`
	AssignedTo       *string           `json:"assigned_to,omitempty"`
	HireDayRate      float64           `json:"hire_day_rate"`
	Available        bool              `json:"available"`
	CreatedAt        time.Time         `json:"created_at"`
}

type ItemDetailResponse struct {
	ItemResponse
	Notes               *string           `json:"notes,omitempty"`
	PurchaseDate        *string           `json:"purchase_date,omitempty"`
	PurchaseCost        float64           `json:"purchase_cost"`
	DepreciationMethod  string            `json:"depreciation_method"`
	DepreciatedValue    float64           `json:"depreciated_value"`
	LastServiceDate     *string           `json:"last_service_date,omitempty"`
	ServiceIntervalDays *int              `json:"service_interval_days,omitempty"`
	ServiceDueDate      *string           `json:"service_due_date,omitempty"`
	Retired             bool              `json:"retired"`
	UpcomingBookings    []BookingResponse `json:"upcoming_bookings"`
}
