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

const mappingColumns = `id, website_event_name, crm_inventory_id, crm_inventory_name,
	created_by, created_date, updated_date, updated_by`

// Repo implements the event mapping repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new event mapping repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns every mapping ordered by website event name.
func (r *Repo) List(ctx context.Context) ([]EventMapping, error) {
	query := fmt.Sprintf(`SELECT %s FROM crm_event_mappings ORDER BY website_event_name ASC`, mappingColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list event mappings: %w", err)
	}
	defer rows.Close()

	mappings := make([]EventMapping, 0)
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event mappings: %w", rows.Err())
	}
	return mappings, nil
}

// GetByWebsiteEventName returns the mapping for an exact event name, or nil
// when none exists.
func (r *Repo) GetByWebsiteEventName(ctx context.Context, eventName string) (*EventMapping, error) {
	query := fmt.Sprintf(`SELECT %s FROM crm_event_mappings WHERE website_event_name = $1`, mappingColumns)

	m, err := scanMapping(r.pool.QueryRow(ctx, query, eventName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event mapping: %w", err)
	}
	return &m, nil
}

// Upsert inserts a mapping or replaces the target of the existing one for the
// same website event name, stamping who updated it.
func (r *Repo) Upsert(ctx context.Context, params UpsertMappingParams) (EventMapping, error) {
	query := fmt.Sprintf(`
		INSERT INTO crm_event_mappings (website_event_name, crm_inventory_id, crm_inventory_name, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (website_event_name) DO UPDATE SET
			crm_inventory_id = EXCLUDED.crm_inventory_id,
			crm_inventory_name = EXCLUDED.crm_inventory_name,
			updated_date = now(),
			updated_by = EXCLUDED.created_by
		RETURNING %s`, mappingColumns)

	m, err := scanMapping(r.pool.QueryRow(ctx, query,
		params.WebsiteEventName, params.CRMInventoryID, params.CRMInventoryName, params.SavedBy))
	if err != nil {
		return EventMapping{}, fmt.Errorf("upsert event mapping: %w", err)
	}
	return m, nil
}

// DeleteByID removes a mapping.
func (r *Repo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM crm_event_mappings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event mapping: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("event mapping not found")
	}
	return nil
}

func scanMapping(row pgx.Row) (EventMapping, error) {
	var m EventMapping
	var createdDate, updatedDate time.Time
	if err := row.Scan(&m.ID, &m.WebsiteEventName, &m.CRMInventoryID, &m.CRMInventoryName,
		&m.CreatedBy, &createdDate, &updatedDate, &m.UpdatedBy); err != nil {
		return EventMapping{}, err
	}
	m.CreatedDate = createdDate.Format(time.RFC3339)
	m.UpdatedDate = updatedDate.Format(time.RFC3339)
	return m, nil
}
