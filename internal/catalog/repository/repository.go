package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventcrm_backend/platform/apperr"
)

const inventoryNotFoundMessage = "inventory record not found"

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListInventory returns every inventory record in catalog iteration order.
// The mapping resolver snapshots this result into its time-boxed cache.
func (r *Repo) ListInventory(ctx context.Context) ([]InventoryRecord, error) {
	query := `
		SELECT id, event_name, category_of_ticket, created_at, updated_at
		FROM catalog_inventory
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := make([]InventoryRecord, 0)
	for rows.Next() {
		record, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, record)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate inventory: %w", rows.Err())
	}

	return items, nil
}

// GetInventoryByID retrieves one inventory record.
func (r *Repo) GetInventoryByID(ctx context.Context, id uuid.UUID) (InventoryRecord, error) {
	query := `
		SELECT id, event_name, category_of_ticket, created_at, updated_at
		FROM catalog_inventory
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	record, err := scanInventory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InventoryRecord{}, apperr.NotFound(inventoryNotFoundMessage)
		}
		return InventoryRecord{}, fmt.Errorf("get inventory by id: %w", err)
	}
	return record, nil
}

// CreateInventory inserts a new inventory record.
func (r *Repo) CreateInventory(ctx context.Context, params CreateInventoryParams) (InventoryRecord, error) {
	query := `
		INSERT INTO catalog_inventory (event_name, category_of_ticket)
		VALUES ($1, $2)
		RETURNING id, event_name, category_of_ticket, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, params.EventName, params.CategoryOfTicket)
	record, err := scanInventory(row)
	if err != nil {
		return InventoryRecord{}, fmt.Errorf("create inventory: %w", err)
	}
	return record, nil
}

// UpdateInventory updates an inventory record.
func (r *Repo) UpdateInventory(ctx context.Context, params UpdateInventoryParams) (InventoryRecord, error) {
	query := `
		UPDATE catalog_inventory
		SET event_name = COALESCE($2, event_name),
			category_of_ticket = COALESCE($3, category_of_ticket),
			updated_at = now()
		WHERE id = $1
		RETURNING id, event_name, category_of_ticket, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, params.ID, params.EventName, params.CategoryOfTicket)
	record, err := scanInventory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InventoryRecord{}, apperr.NotFound(inventoryNotFoundMessage)
		}
		return InventoryRecord{}, fmt.Errorf("update inventory: %w", err)
	}
	return record, nil
}

// DeleteInventory deletes an inventory record.
func (r *Repo) DeleteInventory(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM catalog_inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(inventoryNotFoundMessage)
	}
	return nil
}

func scanInventory(row pgx.Row) (InventoryRecord, error) {
	var record InventoryRecord
	var createdAt, updatedAt time.Time
	if err := row.Scan(&record.ID, &record.EventName, &record.CategoryOfTicket, &createdAt, &updatedAt); err != nil {
		return InventoryRecord{}, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}
