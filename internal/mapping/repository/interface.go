package repository

import (
	"context"

	"github.com/google/uuid"
)

// EventMapping is a durable association between a website event name and a
// catalog inventory record. At most one mapping exists per website event name.
type EventMapping struct {
	ID               uuid.UUID `json:"id"`
	WebsiteEventName string    `json:"website_event_name"`
	CRMInventoryID   uuid.UUID `json:"crm_inventory_id"`
	CRMInventoryName string    `json:"crm_inventory_name"`
	CreatedBy        string    `json:"created_by"`
	CreatedDate      string    `json:"created_date"`
	UpdatedDate      string    `json:"updated_date"`
	UpdatedBy        *string   `json:"updated_by,omitempty"`
}

// UpsertMappingParams are the fields for saving a mapping by website event name.
type UpsertMappingParams struct {
	WebsiteEventName string
	CRMInventoryID   uuid.UUID
	CRMInventoryName string
	SavedBy          string
}

// Repository defines persisted event mapping operations.
type Repository interface {
	// List returns all mappings.
	List(ctx context.Context) ([]EventMapping, error)
	// GetByWebsiteEventName returns the mapping for an exact event name,
	// or nil when none exists.
	GetByWebsiteEventName(ctx context.Context, eventName string) (*EventMapping, error)
	// Upsert inserts a mapping or updates the existing one for the same
	// website event name.
	Upsert(ctx context.Context, params UpsertMappingParams) (EventMapping, error)
	// DeleteByID removes a mapping.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
