package request

type CreateBookingRequest struct {
	JobReference string   `json:"job_reference" validate:"required,max=30"`
	JobNumber    *string  `json:"job_number,omitempty" validate:"omitempty,max=30"`
	StartAt      string   `json:"start_at" validate:"required"`
	EndAt        string   `json:"end_at" validate:"required"`
	Notes        *string  `json:"notes,omitempty" validate:"omitempty,max=300"`
	VATValue     *float64 `json:"vat_value,omitempty" validate:"omitempty,min=0,max=99.99"`
}

type UpdateBookingRequest = CreateBookingRequest

type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
}

// BookingQueryRequest carries booking list filters parsed from the query
// string. Date bounds are inclusive and apply to the booking start date.
type BookingQueryRequest struct {
	Status         string `json:"status" validate:"omitempty,oneof=CONFIRMED CANCELLED"`
	Search         string `json:"search"`
	DateRangeStart string `json:"date_range_start" validate:"omitempty,datetime=2006-01-02"`
	DateRangeEnd   string `json:"date_range_end" validate:"omitempty,datetime=2006-01-02"`
	Page           int    `json:"page"`
	PerPage        int    `json:"per_page"`
}
