package repository

import (
	"context"
	"fmt"
	"time"

	"equipment-hire/internal/data/entity"
	"equipment-hire/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ItemFilter narrows item queries. Search matches barcode exactly and
// name/category name case-insensitively, manufacturer name exactly
// (case-insensitive). Quickfind matches category name only.
type ItemFilter struct {
	Search         *string
	Quickfind      *string
	CategoryID     *uuid.UUID
	ManufacturerID *uuid.UUID
}

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Find(ctx context.Context, filter ItemFilter, limit, offset int) ([]*entity.Item, error)
	Count(ctx context.Context, filter ItemFilter) (int64, error)
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
}

type itemRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewItemRepository(db database.PgxIface, log *zap.Logger) ItemRepository {
	return &itemRepository{
		db:  db,
		log: log.With(zap.String("repository", "item")),
	}
}

const itemColumns = `id, created_at, updated_at, deleted_at, created_by, updated_by,
	       category_id, manufacturer_id, name, mount, model_number, serial_number,
	       status, barcode, notes, assigned_to, purchase_date, purchase_cost,
	       depreciation_method, hire_day_rate, last_service_date,
	       service_interval_period, service_due_date, retired, deleted`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var item entity.Item
	var intervalNs *int64

	err := row.Scan(
		&item.ID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.DeletedAt,
		&item.CreatedBy,
		&item.UpdatedBy,
		&item.CategoryID,
		&item.ManufacturerID,
		&item.Name,
		&item.Mount,
		&item.ModelNumber,
		&item.SerialNumber,
		&item.Status,
		&item.Barcode,
		&item.Notes,
		&item.AssignedTo,
		&item.PurchaseDate,
		&item.PurchaseCost,
		&item.DepreciationMethod,
		&item.HireDayRate,
		&item.LastServiceDate,
		&intervalNs,
		&item.ServiceDueDate,
		&item.Retired,
		&item.Deleted,
	)
	if err != nil {
		return nil, err
	}

	if intervalNs != nil {
		interval := time.Duration(*intervalNs)
		item.ServiceIntervalPeriod = &interval
	}

	return &item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, created_at, updated_at, created_by, updated_by,
		                   category_id, manufacturer_id, name, mount, model_number,
		                   serial_number, status, barcode, notes, assigned_to,
		                   purchase_date, purchase_cost, depreciation_method,
		                   hire_day_rate, last_service_date, service_interval_period,
		                   service_due_date, retired, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.CreatedAt,
		item.UpdatedAt,
		item.CreatedBy,
		item.UpdatedBy,
		item.CategoryID,
		item.ManufacturerID,
		item.Name,
		item.Mount,
		item.ModelNumber,
		item.SerialNumber,
		item.Status,
		item.Barcode,
		item.Notes,
		item.AssignedTo,
		item.PurchaseDate,
		item.PurchaseCost,
		item.DepreciationMethod,
		item.HireDayRate,
		item.LastServiceDate,
		durationNs(item.ServiceIntervalPeriod),
		item.ServiceDueDate,
		item.Retired,
		item.Deleted,
	)

	if err != nil {
		r.log.Error("Failed to create item",
			zap.Error(err),
			zap.String("name", item.Name),
			zap.String("barcode", item.Barcode),
		)
		return fmt.Errorf("create item %s: %w", item.Name, err)
	}

	return nil
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find item by ID",
			zap.Error(err),
			zap.String("item_id", id.String()),
		)
		return nil, fmt.Errorf("find item by ID %s: %w", id.String(), err)
	}

	return item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items
		SET updated_at = $2, updated_by = $3, category_id = $4, manufacturer_id = $5,
		    name = $6, mount = $7, model_number = $8, serial_number = $9, status = $10,
		    barcode = $11, notes = $12, assigned_to = $13, purchase_date = $14,
		    purchase_cost = $15, depreciation_method = $16, hire_day_rate = $17,
		    last_service_date = $18, service_interval_period = $19,
		    service_due_date = $20, retired = $21, deleted = $22, deleted_at = $23
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		item.ID,
		item.UpdatedAt,
		item.UpdatedBy,
		item.CategoryID,
		item.ManufacturerID,
		item.Name,
		item.Mount,
		item.ModelNumber,
		item.SerialNumber,
		item.Status,
		item.Barcode,
		item.Notes,
		item.AssignedTo,
		item.PurchaseDate,
		item.PurchaseCost,
		item.DepreciationMethod,
		item.HireDayRate,
		item.LastServiceDate,
		durationNs(item.ServiceIntervalPeriod),
		item.ServiceDueDate,
		item.Retired,
		item.Deleted,
		item.DeletedAt,
	)

	if err != nil {
		r.log.Error("Failed to update item",
			zap.Error(err),
			zap.String("item_id", item.ID.String()),
		)
		return fmt.Errorf("update item %s: %w", item.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s not found", item.ID.String())
	}

	return nil
}

// filterClause builds the shared WHERE tail for Find and Count. Soft-deleted
// items are always excluded.
func (r *itemRepository) filterClause(filter ItemFilter, args []any) (string, []any) {
	clause := ` WHERE i.deleted = FALSE`

	if filter.Search != nil && *filter.Search != "" {
		args = append(args, *filter.Search)
		n := len(args)
		clause += fmt.Sprintf(` AND (i.barcode = $%d
			OR i.name ILIKE '%%' || $%d || '%%'
			OR c.name ILIKE '%%' || $%d || '%%'
			OR LOWER(m.name) = LOWER($%d))`, n, n, n, n)
	}

	if filter.Quickfind != nil && *filter.Quickfind != "" {
		args = append(args, *filter.Quickfind)
		clause += fmt.Sprintf(` AND c.name ILIKE '%%' || $%d || '%%'`, len(args))
	}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clause += fmt.Sprintf(` AND i.category_id = $%d`, len(args))
	}

	if filter.ManufacturerID != nil {
		args = append(args, *filter.ManufacturerID)
		clause += fmt.Sprintf(` AND i.manufacturer_id = $%d`, len(args))
	}

	return clause, args
}

const itemColumnsPrefixed = `i.id, i.created_at, i.updated_at, i.deleted_at, i.created_by,
	       i.updated_by, i.category_id, i.manufacturer_id, i.name, i.mount,
	       i.model_number, i.serial_number, i.status, i.barcode, i.notes,
	       i.assigned_to, i.purchase_date, i.purchase_cost, i.depreciation_method,
	       i.hire_day_rate, i.last_service_date, i.service_interval_period,
	       i.service_due_date, i.retired, i.deleted`

const itemJoin = `
	FROM items i
	LEFT JOIN categories c ON c.id = i.category_id
	LEFT JOIN manufacturers m ON m.id = i.manufacturer_id`

func (r *itemRepository) Find(ctx context.Context, filter ItemFilter, limit, offset int) ([]*entity.Item, error) {
	clause, args := r.filterClause(filter, nil)

	args = append(args, limit, offset)
	query := `SELECT ` + itemColumnsPrefixed + itemJoin + clause +
		fmt.Sprintf(` ORDER BY i.created_at LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find items", zap.Error(err))
		return nil, fmt.Errorf("find items: %w", err)
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.log.Error("Failed to scan item row", zap.Error(err))
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *itemRepository) Count(ctx context.Context, filter ItemFilter) (int64, error) {
	clause, args := r.filterClause(filter, nil)
	query := `SELECT COUNT(*)` + itemJoin + clause

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count items", zap.Error(err))
		return 0, fmt.Errorf("count items: %w", err)
	}

	return count, nil
}

// ExistsByBarcode checks the whole table, deleted items included, so retired
// barcodes are never reissued.
func (r *itemRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM items WHERE barcode = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, barcode).Scan(&exists); err != nil {
		r.log.Error("Failed to check barcode",
			zap.Error(err),
			zap.String("barcode", barcode),
		)
		return false, fmt.Errorf("check barcode %s: %w", barcode, err)
	}

	return exists, nil
}
