package request

type CreateItemRequest struct {
	Name                  string   `json:"name" validate:"required,max=100"`
	CategoryID            *string  `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	ManufacturerID        *string  `json:"manufacturer_id,omitempty" validate:"omitempty,uuid4"`
	Mount                 *string  `json:"mount,omitempty" validate:"omitempty,max=15"`
	ModelNumber           *string  `json:"model_number,omitempty" validate:"omitempty,max=100"`
	SerialNumber          *string  `json:"serial_number,omitempty" validate:"omitempty,max=50"`
	Status                *string  `json:"status,omitempty" validate:"omitempty,oneof=ASSIGNED DEPRECIATED MISSING POOL REPAIR SOLD"`
	Barcode               *string  `json:"barcode,omitempty" validate:"omitempty,len=13,numeric"`
	Notes                 *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
	PurchaseDate          *string  `json:"purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PurchaseCost          *float64 `json:"purchase_cost,omitempty" validate:"omitempty,min=0"`
	DepreciationMethod    *string  `json:"depreciation_method,omitempty" validate:"omitempty,oneof=DECLINING-BALANCE STRAIGHT-LINE SUM-OF-YEARS UNITS-OF-PRODUCTION"`
	HireDayRate           *float64 `json:"hire_day_rate,omitempty" validate:"omitempty,min=0"`
	LastServiceDate       *string  `json:"last_service_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ServiceIntervalDays   *int     `json:"service_interval_days,omitempty" validate:"omitempty,oneof=30 90 180 365"`
}

type UpdateItemRequest = CreateItemRequest

type UpdateItemServiceRequest struct {
	LastServiceDate     string `json:"last_service_date" validate:"required,datetime=2006-01-02"`
	ServiceIntervalDays int    `json:"service_interval_days" validate:"required,oneof=30 90 180 365"`
}

type AssignItemRequest struct {
	AssignedUserID string `json:"assigned_user_id" validate:"required,uuid4"`
}

// ItemQueryRequest carries item list filters parsed from the query string.
type ItemQueryRequest struct {
	Search         string `json:"search"`
	Quickfind      string `json:"quickfind"`
	CategoryID     string `json:"category_id" validate:"omitempty,uuid4"`
	ManufacturerID string `json:"manufacturer_id" validate:"omitempty,uuid4"`
	Page           int    `json:"page"`
	PerPage        int    `json:"per_page"`
}
