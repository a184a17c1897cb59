package usecase

import (
	"context"
	"fmt"
	"time"

	"equipment-hire/internal/data/entity"
	"equipment-hire/internal/data/repository"
	"equipment-hire/internal/dto/request"
	"equipment-hire/internal/dto/response"
	"equipment-hire/pkg/cache"
	"equipment-hire/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	cacheKeyCategories    = "equipment:categories"
	cacheKeyManufacturers = "equipment:manufacturers"
)

// CatalogService serves the filterable lists (categories, manufacturers).
// These change rarely and back every item list filter dropdown, so reads go
// through the cache and writes invalidate it.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]response.CategoryResponse, error)
	CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error)
	ListManufacturers(ctx context.Context) ([]response.ManufacturerResponse, error)
	CreateManufacturer(ctx context.Context, req *request.CreateManufacturerRequest) (*response.ManufacturerResponse, error)
}

type catalogService struct {
	repo  *repository.Repository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCatalogService(repo *repository.Repository, cache *cache.Cache, ttl time.Duration, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	var cached []response.CategoryResponse
	if s.cache.GetJSON(ctx, cacheKeyCategories, &cached) {
		return cached, nil
	}

	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]response.CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = response.CategoryToResponse(c)
	}

	s.cache.SetJSON(ctx, cacheKeyCategories, out, s.ttl)
	return out, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cacheKeyCategories)
	s.log.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *catalogService) ListManufacturers(ctx context.Context) ([]response.ManufacturerResponse, error) {
	var cached []response.ManufacturerResponse
	if s.cache.GetJSON(ctx, cacheKeyManufacturers, &cached) {
		return cached, nil
	}

	manufacturers, err := s.repo.Manufacturer.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]response.ManufacturerResponse, len(manufacturers))
	for i, m := range manufacturers {
		out[i] = response.ManufacturerToResponse(m)
	}

	s.cache.SetJSON(ctx, cacheKeyManufacturers, out, s.ttl)
	return out, nil
}

func (s *catalogService) CreateManufacturer(ctx context.Context, req *request.CreateManufacturerRequest) (*response.ManufacturerResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	manufacturer := &entity.Manufacturer{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
	}

	if err := s.repo.Manufacturer.Create(ctx, manufacturer); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cacheKeyManufacturers)
	s.log.Info("Manufacturer created",
		zap.String("manufacturer_id", manufacturer.ID.String()),
		zap.String("name", manufacturer.Name),
	)

	resp := response.ManufacturerToResponse(manufacturer)
	return &resp, nil
}
