package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead is a CRM lead record created from a website lead.
type Lead struct {
	ID            uuid.UUID  `json:"id"`
	WebsiteLeadID int64      `json:"website_lead_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Tours         string     `json:"tours"`
	InventoryID   *uuid.UUID `json:"inventory_id,omitempty"`
	TripDate      *time.Time `json:"trip_date,omitempty"`
	LeadSource    string     `json:"lead_source"`
	TripType      string     `json:"trip_type"`
	Persons       int        `json:"no_of_persons"`
	Currency      string     `json:"currency"`
	Budget        string     `json:"budget,omitempty"`
	City          string     `json:"city,omitempty"`
	Status        string     `json:"status"`
	Stage         string     `json:"stage"`
	GroupID       *string    `json:"group_id,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ImportedBy    string     `json:"imported_by"`
	ImportedAt    string     `json:"imported_at"`
}

// InsertLeadParams carries one lead row to persist.
type InsertLeadParams struct {
	WebsiteLeadID int64
	Name          string
	Email         string
	Phone         string
	Tours         string
	InventoryID   *uuid.UUID
	TripDate      *time.Time
	LeadSource    string
	TripType      string
	Persons       int
	Currency      string
	Budget        string
	City          string
	Status        string
	Stage         string
	GroupID       *string
	Notes         string
	ImportedBy    string
}

// Repository defines persistence for imported CRM leads.
type Repository interface {
	// Insert persists a single lead.
	Insert(ctx context.Context, params InsertLeadParams) (Lead, error)
	// InsertBatch persists all leads in one transaction. Either every row
	// commits or none do.
	InsertBatch(ctx context.Context, params []InsertLeadParams) ([]Lead, error)
	// ExistingWebsiteLeadIDs reports which of the given website lead IDs
	// already have a CRM lead.
	ExistingWebsiteLeadIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	// ListImported returns the most recently imported leads, newest first.
	ListImported(ctx context.Context, limit int) ([]Lead, error)
}
