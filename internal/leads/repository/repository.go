package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadColumns = `id, website_lead_id, name, email, phone, tours, inventory_id, trip_date,
	lead_source, trip_type, no_of_persons, currency, budget, city, status, stage,
	group_id, notes, imported_by, imported_at`

const insertLeadQuery = `
	INSERT INTO leads (website_lead_id, name, email, phone, tours, inventory_id, trip_date,
		lead_source, trip_type, no_of_persons, currency, budget, city, status, stage,
		group_id, notes, imported_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	RETURNING ` + leadColumns

// Repo implements the leads repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Insert persists one lead. The website_lead_id unique constraint rejects a
// record that was imported by a concurrent run.
func (r *Repo) Insert(ctx context.Context, params InsertLeadParams) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, insertLeadQuery, insertArgs(params)...))
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead %d: %w", params.WebsiteLeadID, err)
	}
	return lead, nil
}

// InsertBatch persists all leads in one transaction so a multi-event group
// never commits partially.
func (r *Repo) InsertBatch(ctx context.Context, params []InsertLeadParams) ([]Lead, error) {
	if len(params) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin lead batch: %w", err)
	}
	defer tx.Rollback(ctx)

	leads := make([]Lead, 0, len(params))
	for _, p := range params {
		lead, err := scanLead(tx.QueryRow(ctx, insertLeadQuery, insertArgs(p)...))
		if err != nil {
			return nil, fmt.Errorf("insert lead %d in batch: %w", p.WebsiteLeadID, err)
		}
		leads = append(leads, lead)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit lead batch: %w", err)
	}
	return leads, nil
}

// ExistingWebsiteLeadIDs reports which of the given website lead IDs already
// have a CRM lead.
func (r *Repo) ExistingWebsiteLeadIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT website_lead_id FROM leads WHERE website_lead_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("check existing website leads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan website lead id: %w", err)
		}
		existing[id] = true
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate website lead ids: %w", rows.Err())
	}
	return existing, nil
}

// ListImported returns the most recently website-imported leads, newest first.
func (r *Repo) ListImported(ctx context.Context, limit int) ([]Lead, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM leads WHERE imported_from = 'website'
		ORDER BY imported_at DESC, website_lead_id DESC LIMIT $1`,
		leadColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list imported leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan imported lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate imported leads: %w", rows.Err())
	}
	return leads, nil
}

func insertArgs(p InsertLeadParams) []any {
	return []any{
		p.WebsiteLeadID, p.Name, p.Email, p.Phone, p.Tours, p.InventoryID, p.TripDate,
		p.LeadSource, p.TripType, p.Persons, p.Currency, p.Budget, p.City, p.Status,
		p.Stage, p.GroupID, p.Notes, p.ImportedBy,
	}
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	var importedAt time.Time
	if err := row.Scan(&l.ID, &l.WebsiteLeadID, &l.Name, &l.Email, &l.Phone, &l.Tours,
		&l.InventoryID, &l.TripDate, &l.LeadSource, &l.TripType, &l.Persons, &l.Currency,
		&l.Budget, &l.City, &l.Status, &l.Stage, &l.GroupID, &l.Notes, &l.ImportedBy,
		&importedAt); err != nil {
		return Lead{}, err
	}
	l.ImportedAt = importedAt.Format(time.RFC3339)
	return l, nil
}
