package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type ItemStatus string

const (
	ItemStatusAssigned    ItemStatus = "ASSIGNED"
	ItemStatusDepreciated ItemStatus = "DEPRECIATED"
	ItemStatusMissing     ItemStatus = "MISSING"
	ItemStatusPool        ItemStatus = "POOL"
	ItemStatusRepair      ItemStatus = "REPAIR"
	ItemStatusSold        ItemStatus = "SOLD"
)

type DepreciationMethod string

const (
	DepreciationDecliningBalance  DepreciationMethod = "DECLINING-BALANCE"
	DepreciationStraightLine      DepreciationMethod = "STRAIGHT-LINE"
	DepreciationSumOfYears        DepreciationMethod = "SUM-OF-YEARS"
	DepreciationUnitsOfProduction DepreciationMethod = "UNITS-OF-PRODUCTION"
)

// Annual declining-balance depreciation rate, as a percentage.
const DepreciationRatePercent = 20.0

const BarcodeLength = 13

type Item struct {
	Base
	CreatedBy             *uuid.UUID         `db:"created_by"`
	UpdatedBy             *uuid.UUID         `db:"updated_by"`
	CategoryID            *uuid.UUID         `db:"category_id"`
	ManufacturerID        *uuid.UUID         `db:"manufacturer_id"`
	Name                  string             `db:"name"`
	Mount                 *string            `db:"mount"`
	ModelNumber           *string            `db:"model_number"`
	SerialNumber          *string            `db:"serial_number"`
	Status                ItemStatus         `db:"status"`
	Barcode               string             `db:"barcode"`
	Notes                 *string            `db:"notes"`
	AssignedTo            *uuid.UUID         `db:"assigned_to"`
	PurchaseDate          *time.Time         `db:"purchase_date"`
	PurchaseCost          float64            `db:"purchase_cost"`
	DepreciationMethod    DepreciationMethod `db:"depreciation_method"`
	HireDayRate           float64            `db:"hire_day_rate"`
	LastServiceDate       *time.Time         `db:"last_service_date"`
	ServiceIntervalPeriod *time.Duration     `db:"service_interval_period"`
	ServiceDueDate        *time.Time         `db:"service_due_date"`
	Retired               bool               `db:"retired"`
	Deleted               bool               `db:"deleted"`
}

// CalculateDepreciation returns the declining-balance value of the item at
// the given date. Items without a purchase date depreciate nothing and keep
// their raw purchase cost.
func (i *Item) CalculateDepreciation(now time.Time) float64 {
	if i.PurchaseDate == nil {
		return i.PurchaseCost
	}

	yearsOwned := now.Sub(*i.PurchaseDate).Hours() / 24 / 365.25
	return i.PurchaseCost * math.Pow(1-DepreciationRatePercent/100, yearsOwned)
}

// AssignTo hands the item to a user and marks it ASSIGNED.
func (i *Item) AssignTo(userID uuid.UUID) {
	i.AssignedTo = &userID
	i.Status = ItemStatusAssigned
}

// Unassign returns the item to the pool. Non-ASSIGNED statuses (REPAIR,
// MISSING, ...) are left alone.
func (i *Item) Unassign() {
	i.AssignedTo = nil
	if i.Status == ItemStatusAssigned {
		i.Status = ItemStatusPool
	}
}

// SoftDelete flags the item as deleted, logging the time it was deleted.
// Historical booking line items keep referencing it.
func (i *Item) SoftDelete(now time.Time) {
	i.Deleted = true
	i.DeletedAt = &now
	i.Status = ItemStatusDepreciated
}

// RecomputeServiceDue derives the service due date from the last service
// date and the service interval. Called on every mutating save.
func (i *Item) RecomputeServiceDue() {
	if i.LastServiceDate != nil && i.ServiceIntervalPeriod != nil {
		due := i.LastServiceDate.Add(*i.ServiceIntervalPeriod)
		i.ServiceDueDate = &due
	}
}
