package entity

import "github.com/google/uuid"

// EquipmentBookingItem joins one booking to one item. Value is a snapshot of
// the item's hire day rate taken when the line was added; it is never
// re-derived afterwards. The item reference is nulled when the item is
// removed upstream, the line survives.
type EquipmentBookingItem struct {
	BaseSimple
	EquipmentBookingID uuid.UUID  `db:"equipment_booking_id"`
	ItemID             *uuid.UUID `db:"item_id"`
	Value              float64    `db:"value"`
}
