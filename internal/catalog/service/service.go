// Package service contains catalog business logic.
package service

import (
	"context"
	"strings"

	"eventcrm_backend/internal/catalog/repository"
	"eventcrm_backend/internal/catalog/transport"
	"eventcrm_backend/platform/apperr"
	"eventcrm_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides catalog inventory operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListInventory returns the full catalog.
func (s *Service) ListInventory(ctx context.Context) ([]repository.InventoryRecord, error) {
	return s.repo.ListInventory(ctx)
}

// GetInventoryByID retrieves one inventory record.
func (s *Service) GetInventoryByID(ctx context.Context, id uuid.UUID) (repository.InventoryRecord, error) {
	return s.repo.GetInventoryByID(ctx, id)
}

// CreateInventory creates an inventory record.
func (s *Service) CreateInventory(ctx context.Context, req transport.CreateInventoryRequest) (repository.InventoryRecord, error) {
	name := strings.TrimSpace(req.EventName)
	if name == "" {
		return repository.InventoryRecord{}, apperr.Validation("event_name is required")
	}

	return s.repo.CreateInventory(ctx, repository.CreateInventoryParams{
		EventName:        name,
		CategoryOfTicket: strings.TrimSpace(req.CategoryOfTicket),
	})
}

// UpdateInventory updates an inventory record.
func (s *Service) UpdateInventory(ctx context.Context, id uuid.UUID, req transport.UpdateInventoryRequest) (repository.InventoryRecord, error) {
	return s.repo.UpdateInventory(ctx, repository.UpdateInventoryParams{
		ID:               id,
		EventName:        req.EventName,
		CategoryOfTicket: req.CategoryOfTicket,
	})
}

// DeleteInventory deletes an inventory record.
func (s *Service) DeleteInventory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInventory(ctx, id)
}
