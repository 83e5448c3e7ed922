// Package transport defines the request and response shapes for the website
// lead import endpoints.
package transport

import (
	"time"

	"github.com/google/uuid"

	leadsrepo "eventcrm_backend/internal/leads/repository"
	mappingrepo "eventcrm_backend/internal/mapping/repository"
)

// PreviewLead is one fetched website lead annotated with its catalog
// resolution, shown to the operator before committing an import.
type PreviewLead struct {
	WebsiteLeadID        int64      `json:"website_lead_id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	Phone                string     `json:"phone"`
	EventName            string     `json:"event_name"`
	TripDate             *time.Time `json:"trip_date,omitempty"`
	Persons              int        `json:"persons"`
	Price                float64    `json:"price"`
	Currency             string     `json:"currency"`
	Location             string     `json:"location"`
	GroupID              string     `json:"group_id,omitempty"`
	MatchMethod          string     `json:"match_method"`
	MatchedInventoryID   *uuid.UUID `json:"matched_inventory_id,omitempty"`
	MatchedInventoryName string     `json:"matched_inventory_name,omitempty"`
}

// PreviewGroup bundles the leads of one multi-event enquiry.
type PreviewGroup struct {
	GroupID string        `json:"group_id"`
	Leads   []PreviewLead `json:"leads"`
}

// PreviewSummary aggregates the preview counts.
type PreviewSummary struct {
	TotalFetched int `json:"total_fetched"`
	NewLeads     int `json:"new_leads"`
	Duplicates   int `json:"duplicates"`
	Matched      int `json:"matched"`
	Unmatched    int `json:"unmatched"`
	SingleLeads  int `json:"single_leads"`
	MultiGroups  int `json:"multi_groups"`
}

// PreviewResponse is returned by GET /leads/preview. One upstream page per
// call; Page and PageSize echo the applied pagination.
type PreviewResponse struct {
	MinLeadID     int64                      `json:"min_lead_id"`
	Page          int                        `json:"page"`
	PageSize      int                        `json:"page_size"`
	SingleLeads   []PreviewLead              `json:"single_leads"`
	Groups        []PreviewGroup             `json:"groups"`
	SavedMappings []mappingrepo.EventMapping `json:"saved_mappings"`
	Summary       PreviewSummary             `json:"summary"`
}

// ImportRequest is the body of POST /leads/import. Either ImportAll is set or
// LeadIDs names the leads to import; ManualMappings keys are website lead IDs
// in decimal form, values are catalog inventory UUIDs.
type ImportRequest struct {
	ImportAll      bool              `json:"import_all"`
	LeadIDs        []int64           `json:"lead_ids,omitempty" validate:"omitempty,dive,min=1"`
	MinLeadID      *int64            `json:"min_lead_id,omitempty" validate:"omitempty,min=0"`
	ManualMappings map[string]string `json:"manual_mappings,omitempty" validate:"omitempty,dive,keys,number,endkeys,uuid"`
}

// ImportError records one failed lead or group without aborting the run.
type ImportError struct {
	WebsiteLeadID *int64 `json:"website_lead_id,omitempty"`
	GroupID       string `json:"group_id,omitempty"`
	Message       string `json:"message"`
}

// ImportSummary aggregates the outcome of one import run.
type ImportSummary struct {
	TotalProcessed    int `json:"total_processed"`
	TotalImported     int `json:"total_imported"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	FailedImports     int `json:"failed_imports"`
	SingleLeads       int `json:"single_leads"`
	MultiGroups       int `json:"multi_groups"`
}

// ImportResponse is returned by POST /leads/import. CreatedLeads holds at
// most the first ten created records; Summary carries the full counts.
type ImportResponse struct {
	CreatedLeads []leadsrepo.Lead `json:"created_leads"`
	Summary      ImportSummary    `json:"summary"`
	Errors       []ImportError    `json:"errors,omitempty"`
}

// HistoryBatch groups previously imported leads by calendar date.
type HistoryBatch struct {
	Date  string           `json:"date"`
	Count int              `json:"count"`
	Leads []leadsrepo.Lead `json:"leads"`
}

// HistoryResponse is returned by GET /leads/import-history.
type HistoryResponse struct {
	Batches    []HistoryBatch `json:"batches"`
	TotalLeads int            `json:"total_leads"`
}

// TestConnectionResponse is returned by GET /leads/test-connection.
type TestConnectionResponse struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
	SampleLeads   int    `json:"sample_leads"`
	Message       string `json:"message,omitempty"`
}

// SaveMappingEntry is one mapping to persist.
type SaveMappingEntry struct {
	WebsiteEventName string `json:"website_event_name" validate:"required,max=255"`
	CRMInventoryID   string `json:"crm_inventory_id" validate:"required,uuid"`
	CRMInventoryName string `json:"crm_inventory_name" validate:"required,max=255"`
}

// SaveMappingsRequest is the body of POST /leads/event-mappings.
type SaveMappingsRequest struct {
	Mappings []SaveMappingEntry `json:"mappings" validate:"required,min=1,max=100,dive"`
}

// SaveMappingsResponse is returned by POST /leads/event-mappings.
type SaveMappingsResponse struct {
	Saved []mappingrepo.EventMapping `json:"saved"`
}

// EventMappingsResponse is returned by GET /leads/event-mappings.
type EventMappingsResponse struct {
	Mappings []mappingrepo.EventMapping `json:"mappings"`
}
