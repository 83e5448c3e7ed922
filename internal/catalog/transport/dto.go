// Package transport defines request/response DTOs for the catalog module.
package transport

// CreateInventoryRequest creates a catalog inventory record.
type CreateInventoryRequest struct {
	EventName        string `json:"event_name" binding:"required" validate:"required,min=2,max=255"`
	CategoryOfTicket string `json:"category_of_ticket" validate:"max=100"`
}

// UpdateInventoryRequest updates a catalog inventory record.
type UpdateInventoryRequest struct {
	EventName        *string `json:"event_name" validate:"omitempty,min=2,max=255"`
	CategoryOfTicket *string `json:"category_of_ticket" validate:"omitempty,max=100"`
}
