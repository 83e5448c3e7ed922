// Package leads provides the website lead import bounded context module.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	catalogrepo "eventcrm_backend/internal/catalog/repository"
	"eventcrm_backend/internal/events"
	apphttp "eventcrm_backend/internal/http"
	"eventcrm_backend/internal/leads/handler"
	"eventcrm_backend/internal/leads/repository"
	"eventcrm_backend/internal/leads/service"
	mappingrepo "eventcrm_backend/internal/mapping/repository"
	mappingservice "eventcrm_backend/internal/mapping/service"
	"eventcrm_backend/internal/scheduler"
	"eventcrm_backend/internal/websiteapi"
	"eventcrm_backend/platform/logger"
	"eventcrm_backend/platform/validator"
)

// Module is the website lead import bounded context implementing http.Module.
type Module struct {
	handler  *handler.Handler
	service  *service.Service
	resolver *mappingservice.Resolver
}

// NewModule creates and initializes the leads module. The catalog repository
// is shared with the catalog module so both read the same inventory. sync may
// be nil when no task queue is configured.
func NewModule(pool *pgxpool.Pool, client *websiteapi.Client, catalog catalogrepo.Repository, bus events.Bus, cfg service.Config, val *validator.Validator, log *logger.Logger, sync *scheduler.Client) *Module {
	leadsRepo := repository.New(pool)
	mappings := mappingrepo.New(pool)
	resolver := mappingservice.NewResolver(catalog, mappings, log)
	svc := service.New(client, leadsRepo, mappings, resolver, bus, cfg, log)

	var enqueuer handler.SyncEnqueuer
	if sync != nil {
		enqueuer = sync
	}
	h := handler.New(svc, val, enqueuer)

	return &Module{
		handler:  h,
		service:  svc,
		resolver: resolver,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use (the scheduler worker
// triggers imports through it).
func (m *Module) Service() *service.Service {
	return m.service
}

// Resolver returns the event name resolver, for cache invalidation when the
// catalog changes.
func (m *Module) Resolver() *mappingservice.Resolver {
	return m.resolver
}

// RegisterRoutes mounts lead import routes on the provided router context.
// The import route carries a stricter rate limit since each run fans out to
// the upstream website API.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.GET("/preview", m.handler.Preview)
	group.POST("/import", ctx.ImportRateLimiter.RateLimit(), m.handler.Import)
	group.POST("/sync", ctx.ImportRateLimiter.RateLimit(), m.handler.SyncNow)
	group.GET("/import-history", m.handler.ImportHistory)
	group.GET("/test-connection", m.handler.TestConnection)
	group.GET("/event-mappings", m.handler.ListEventMappings)
	group.POST("/event-mappings", m.handler.SaveEventMappings)
	group.DELETE("/event-mappings/:id", m.handler.DeleteEventMapping)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
