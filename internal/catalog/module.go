// Package catalog provides the catalog bounded context module.
package catalog

import (
	"eventcrm_backend/internal/catalog/handler"
	"eventcrm_backend/internal/catalog/repository"
	"eventcrm_backend/internal/catalog/service"
	apphttp "eventcrm_backend/internal/http"
	"eventcrm_backend/platform/logger"
	"eventcrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/catalog")
	group.GET("/inventory", m.handler.ListInventory)
	group.GET("/inventory/:id", m.handler.GetInventoryByID)
	group.POST("/inventory", m.handler.CreateInventory)
	group.PUT("/inventory/:id", m.handler.UpdateInventory)
	group.DELETE("/inventory/:id", m.handler.DeleteInventory)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
