package repository

import (
	"context"

	"github.com/google/uuid"
)

// InventoryRecord is a sellable event/ticket entry in the CRM catalog.
type InventoryRecord struct {
	ID               uuid.UUID `json:"id"`
	EventName        string    `json:"event_name"`
	CategoryOfTicket string    `json:"category_of_ticket"`
	CreatedAt        string    `json:"createdAt"`
	UpdatedAt        string    `json:"updatedAt"`
}

// CreateInventoryParams are the fields for creating an inventory record.
type CreateInventoryParams struct {
	EventName        string
	CategoryOfTicket string
}

// UpdateInventoryParams are the fields for updating an inventory record.
type UpdateInventoryParams struct {
	ID               uuid.UUID
	EventName        *string
	CategoryOfTicket *string
}

// Repository defines catalog inventory persistence operations.
type Repository interface {
	ListInventory(ctx context.Context) ([]InventoryRecord, error)
	GetInventoryByID(ctx context.Context, id uuid.UUID) (InventoryRecord, error)
	CreateInventory(ctx context.Context, params CreateInventoryParams) (InventoryRecord, error)
	UpdateInventory(ctx context.Context, params UpdateInventoryParams) (InventoryRecord, error)
	DeleteInventory(ctx context.Context, id uuid.UUID) error
}
