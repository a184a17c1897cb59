package adaptor

import (
	"equipment-hire/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Item    *ItemHandler
	Booking *BookingHandler
	Catalog *CatalogHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Item:    NewItemHandler(service.Item, log),
		Booking: NewBookingHandler(service.Booking, log),
		Catalog: NewCatalogHandler(service.Catalog, log),
	}
}
