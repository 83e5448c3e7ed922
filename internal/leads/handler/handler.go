package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eventcrm_backend/internal/leads/service"
	"eventcrm_backend/internal/leads/transport"
	"eventcrm_backend/platform/httpkit"
	"eventcrm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// SyncEnqueuer queues a background website lead sync run.
type SyncEnqueuer interface {
	EnqueueWebsiteLeadSync(ctx context.Context, minLeadID *int64) error
}

// Handler handles HTTP requests for website lead import.
type Handler struct {
	svc  *service.Service
	val  *validator.Validator
	sync SyncEnqueuer
}

// New creates a new leads handler. sync may be nil when no task queue is
// configured; the sync endpoint then reports the queue as unavailable.
func New(svc *service.Service, val *validator.Validator, sync SyncEnqueuer) *Handler {
	return &Handler{svc: svc, val: val, sync: sync}
}

// Preview fetches one page of website leads without importing them.
// GET /api/v1/leads/preview?page=1&page_size=50&min_lead_id=794
func (h *Handler) Preview(c *gin.Context) {
	page, ok := positiveIntQuery(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := positiveIntQuery(c, "page_size", 0)
	if !ok {
		return
	}

	var minLeadID *int64
	if raw := c.Query("min_lead_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			httpkit.Error(c, http.StatusBadRequest, "invalid min_lead_id", nil)
			return
		}
		minLeadID = &parsed
	}

	result, err := h.svc.Preview(c.Request.Context(), page, pageSize, minLeadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// positiveIntQuery parses an optional positive integer query parameter,
// writing a 400 response itself when the value is malformed.
func positiveIntQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return parsed, true
}

// Import fetches new website leads and commits them as CRM records.
// POST /api/v1/leads/import
func (h *Handler) Import(c *gin.Context) {
	var req transport.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	result, err := h.svc.Import(c.Request.Context(), req, identity.Name())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SyncNow queues a background import run on the task queue instead of running
// it inside the request.
// POST /api/v1/leads/sync?min_lead_id=794
func (h *Handler) SyncNow(c *gin.Context) {
	if h.sync == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "background sync is not configured", nil)
		return
	}

	var minLeadID *int64
	if raw := c.Query("min_lead_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			httpkit.Error(c, http.StatusBadRequest, "invalid min_lead_id", nil)
			return
		}
		minLeadID = &parsed
	}

	if err := h.sync.EnqueueWebsiteLeadSync(c.Request.Context(), minLeadID); err != nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "failed to queue sync run", nil)
		return
	}
	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}

// ImportHistory returns previously imported leads grouped by date.
// GET /api/v1/leads/import-history
func (h *Handler) ImportHistory(c *gin.Context) {
	result, err := h.svc.ImportHistory(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// TestConnection probes upstream authentication and fetches a small sample.
// GET /api/v1/leads/test-connection
func (h *Handler) TestConnection(c *gin.Context) {
	result, err := h.svc.TestConnection(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListEventMappings returns all persisted event mappings.
// GET /api/v1/leads/event-mappings
func (h *Handler) ListEventMappings(c *gin.Context) {
	result, err := h.svc.ListEventMappings(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteEventMapping removes a saved mapping so its event name resolves
// through the catalog tiers again.
// DELETE /api/v1/leads/event-mappings/:id
func (h *Handler) DeleteEventMapping(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid mapping id", nil)
		return
	}

	if err := h.svc.DeleteEventMapping(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": id})
}

// SaveEventMappings upserts event mappings chosen on the preview screen.
// POST /api/v1/leads/event-mappings
func (h *Handler) SaveEventMappings(c *gin.Context) {
	var req transport.SaveMappingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	result, err := h.svc.SaveEventMappings(c.Request.Context(), req, identity.Name())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
