package usecase

import (
	"equipment-hire/internal/data/repository"
	"equipment-hire/pkg/cache"
	"equipment-hire/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Item    ItemService
	Booking BookingService
	Catalog CatalogService
}

func NewService(repo *repository.Repository, cache *cache.Cache, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Item:    NewItemService(repo, log),
		Booking: NewBookingService(repo, log),
		Catalog: NewCatalogService(repo, cache, config.Cache.FilterablesTTL, log),
	}
}
