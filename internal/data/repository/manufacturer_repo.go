package repository

import (
	"context"
	"fmt"

	"equipment-hire/internal/data/entity"
	"equipment-hire/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ManufacturerRepository interface {
	Create(ctx context.Context, manufacturer *entity.Manufacturer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Manufacturer, error)
	FindAll(ctx context.Context) ([]*entity.Manufacturer, error)
}

type manufacturerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewManufacturerRepository(db database.PgxIface, log *zap.Logger) ManufacturerRepository {
	return &manufacturerRepository{
		db:  db,
		log: log.With(zap.String("repository", "manufacturer")),
	}
}

func (r *manufacturerRepository) Create(ctx context.Context, manufacturer *entity.Manufacturer) error {
	query := `INSERT INTO manufacturers (id, created_at, name) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, manufacturer.ID, manufacturer.CreatedAt, manufacturer.Name)
	if err != nil {
		r.log.Error("Failed to create manufacturer",
			zap.Error(err),
			zap.String("name", manufacturer.Name),
		)
		return fmt.Errorf("create manufacturer %s: %w", manufacturer.Name, err)
	}

	return nil
}

func (r *manufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Manufacturer, error) {
	query := `SELECT id, created_at, name FROM manufacturers WHERE id = $1`

	var manufacturer entity.Manufacturer
	err := r.db.QueryRow(ctx, query, id).Scan(&manufacturer.ID, &manufacturer.CreatedAt, &manufacturer.Name)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find manufacturer by ID",
			zap.Error(err),
			zap.String("manufacturer_id", id.String()),
		)
		return nil, fmt.Errorf("find manufacturer by ID %s: %w", id.String(), err)
	}

	return &manufacturer, nil
}

func (r *manufacturerRepository) FindAll(ctx context.Context) ([]*entity.Manufacturer, error) {
	query := `SELECT id, created_at, name FROM manufacturers ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find manufacturers", zap.Error(err))
		return nil, fmt.Errorf("find manufacturers: %w", err)
	}
	defer rows.Close()

	var manufacturers []*entity.Manufacturer
	for rows.Next() {
		var manufacturer entity.Manufacturer
		if err := rows.Scan(&manufacturer.ID, &manufacturer.CreatedAt, &manufacturer.Name); err != nil {
			r.log.Error("Failed to scan manufacturer row", zap.Error(err))
			return nil, fmt.Errorf("scan manufacturer row: %w", err)
		}
		manufacturers = append(manufacturers, &manufacturer)
	}

	return manufacturers, nil
}
