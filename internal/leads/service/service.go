// Package service orchestrates the website lead import pipeline: fetch,
// dedup against already imported leads, resolve catalog matches, and commit
// CRM lead records.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	catalogrepo "eventcrm_backend/internal/catalog/repository"
	"eventcrm_backend/internal/events"
	leadsrepo "eventcrm_backend/internal/leads/repository"
	"eventcrm_backend/internal/leads/transport"
	mappingrepo "eventcrm_backend/internal/mapping/repository"
	mappingservice "eventcrm_backend/internal/mapping/service"
	"eventcrm_backend/internal/websiteapi"
	"eventcrm_backend/platform/apperr"
	"eventcrm_backend/platform/logger"
)

const (
	// maxCreatedLeadsInResponse bounds the created lead payload on import;
	// the summary still carries the full counts.
	maxCreatedLeadsInResponse = 10

	// historyLimit bounds how many imported leads the history endpoint loads.
	historyLimit = 100

	// testConnectionSample is the page size used by the connection probe.
	// One lead is enough to prove the fetch path works.
	testConnectionSample = 1

	// defaultPreviewPageSize is applied when the preview request carries no
	// explicit page size.
	defaultPreviewPageSize = 50
)

// WebsiteClient is the slice of the website API client the service uses.
type WebsiteClient interface {
	Authenticate(ctx context.Context) (string, error)
	FetchPage(ctx context.Context, page, pageSize int, minID int64) ([]websiteapi.Lead, error)
	FetchAll(ctx context.Context, minID int64) ([]websiteapi.Lead, error)
}

// EventResolver matches website event names to catalog inventory.
type EventResolver interface {
	FindInventoryForEvent(ctx context.Context, eventName string, websiteLeadID int64, overrides mappingservice.ManualOverrides) (mappingservice.Match, error)
	InventoryByID(ctx context.Context, id uuid.UUID) (*catalogrepo.InventoryRecord, error)
	Invalidate()
}

// Config is the subset of application configuration the service reads.
type Config interface {
	GetWebsiteDefaultMinLeadID() int64
	IsWebsiteAPIEnabled() bool
}

// Service implements the website lead import operations.
type Service struct {
	client   WebsiteClient
	leads    leadsrepo.Repository
	mappings mappingrepo.Repository
	resolver EventResolver
	bus      events.Bus
	cfg      Config
	log      *logger.Logger
}

// New creates a new leads service.
func New(client WebsiteClient, leads leadsrepo.Repository, mappings mappingrepo.Repository, resolver EventResolver, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{
		client:   client,
		leads:    leads,
		mappings: mappings,
		resolver: resolver,
		bus:      bus,
		cfg:      cfg,
		log:      log,
	}
}

// Preview fetches one page of website leads and reports how each would be
// imported, without writing anything.
func (s *Service) Preview(ctx context.Context, page, pageSize int, minLeadID *int64) (transport.PreviewResponse, error) {
	if !s.cfg.IsWebsiteAPIEnabled() {
		return transport.PreviewResponse{}, apperr.Upstream("website lead import is disabled")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPreviewPageSize
	}
	minID := s.effectiveMinLeadID(minLeadID)

	fetched, err := s.client.FetchPage(ctx, page, pageSize, minID)
	if err != nil {
		return transport.PreviewResponse{}, upstreamError(err)
	}

	newLeads, duplicates, err := s.filterNew(ctx, fetched)
	if err != nil {
		return transport.PreviewResponse{}, err
	}

	resp := transport.PreviewResponse{
		MinLeadID:   minID,
		Page:        page,
		PageSize:    pageSize,
		SingleLeads: make([]transport.PreviewLead, 0),
		Groups:      make([]transport.PreviewGroup, 0),
		Summary: transport.PreviewSummary{
			TotalFetched: len(fetched),
			NewLeads:     len(newLeads),
			Duplicates:   duplicates,
		},
	}

	groupIndex := make(map[string]int)
	for _, lead := range newLeads {
		match, err := s.resolver.FindInventoryForEvent(ctx, lead.Tours, lead.ID, nil)
		if err != nil {
			return transport.PreviewResponse{}, err
		}
		preview := toPreviewLead(lead, match)
		if match.Inventory != nil {
			resp.Summary.Matched++
		} else {
			resp.Summary.Unmatched++
		}

		if lead.GroupID == "" {
			resp.SingleLeads = append(resp.SingleLeads, preview)
			continue
		}
		idx, ok := groupIndex[lead.GroupID]
		if !ok {
			idx = len(resp.Groups)
			groupIndex[lead.GroupID] = idx
			resp.Groups = append(resp.Groups, transport.PreviewGroup{GroupID: lead.GroupID})
		}
		resp.Groups[idx].Leads = append(resp.Groups[idx].Leads, preview)
	}
	resp.Summary.SingleLeads = len(resp.SingleLeads)
	resp.Summary.MultiGroups = len(resp.Groups)

	saved, err := s.mappings.List(ctx)
	if err != nil {
		return transport.PreviewResponse{}, err
	}
	resp.SavedMappings = saved

	return resp, nil
}

// Import fetches new website leads and commits them as CRM lead records.
// Standalone leads fail independently; leads sharing a group commit in one
// transaction or not at all.
func (s *Service) Import(ctx context.Context, req transport.ImportRequest, importedBy string) (transport.ImportResponse, error) {
	if !s.cfg.IsWebsiteAPIEnabled() {
		return transport.ImportResponse{}, apperr.Upstream("website lead import is disabled")
	}

	if !req.ImportAll && len(req.LeadIDs) == 0 {
		return transport.ImportResponse{}, apperr.Validation("either import_all or lead_ids must be provided")
	}

	overrides, err := parseManualMappings(req.ManualMappings)
	if err != nil {
		return transport.ImportResponse{}, err
	}

	fetched, err := s.client.FetchAll(ctx, s.effectiveMinLeadID(req.MinLeadID))
	if err != nil {
		return transport.ImportResponse{}, upstreamError(err)
	}
	if !req.ImportAll {
		fetched = selectByID(fetched, req.LeadIDs)
	}

	newLeads, duplicates, err := s.filterNew(ctx, fetched)
	if err != nil {
		return transport.ImportResponse{}, err
	}

	singles, groups, groupOrder := partitionByGroup(newLeads)

	resp := transport.ImportResponse{
		CreatedLeads: make([]leadsrepo.Lead, 0, maxCreatedLeadsInResponse),
		Summary: transport.ImportSummary{
			TotalProcessed:    len(newLeads),
			DuplicatesSkipped: duplicates,
			SingleLeads:       len(singles),
			MultiGroups:       len(groupOrder),
		},
	}

	appendCreated := func(created ...leadsrepo.Lead) {
		resp.Summary.TotalImported += len(created)
		for _, lead := range created {
			if len(resp.CreatedLeads) < maxCreatedLeadsInResponse {
				resp.CreatedLeads = append(resp.CreatedLeads, lead)
			}
		}
	}

	for _, lead := range singles {
		match, err := s.resolver.FindInventoryForEvent(ctx, lead.Tours, lead.ID, overrides)
		if err != nil {
			return transport.ImportResponse{}, err
		}
		created, err := s.leads.Insert(ctx, buildLeadParams(lead, match, importedBy))
		if err != nil {
			id := lead.ID
			resp.Errors = append(resp.Errors, transport.ImportError{WebsiteLeadID: &id, Message: err.Error()})
			resp.Summary.FailedImports++
			s.log.Error("failed to import website lead", "website_lead_id", lead.ID, "error", err)
			continue
		}
		appendCreated(created)
	}

	for _, groupID := range groupOrder {
		members := groups[groupID]
		params := make([]leadsrepo.InsertLeadParams, 0, len(members))
		for _, lead := range members {
			match, err := s.resolver.FindInventoryForEvent(ctx, lead.Tours, lead.ID, overrides)
			if err != nil {
				return transport.ImportResponse{}, err
			}
			params = append(params, buildLeadParams(lead, match, importedBy))
		}
		created, err := s.leads.InsertBatch(ctx, params)
		if err != nil {
			resp.Errors = append(resp.Errors, transport.ImportError{GroupID: groupID, Message: err.Error()})
			resp.Summary.FailedImports += len(members)
			s.log.Error("failed to import website lead group",
				"group_id", groupID,
				"members", len(members),
				"error", err)
			continue
		}
		appendCreated(created...)
	}

	s.log.ImportResult(importedBy, resp.Summary.SingleLeads, resp.Summary.MultiGroups,
		resp.Summary.TotalImported, resp.Summary.FailedImports)
	s.bus.Publish(ctx, events.NewWebsiteLeadsImported(importedBy, resp.Summary.SingleLeads,
		resp.Summary.MultiGroups, resp.Summary.TotalImported, resp.Summary.TotalProcessed,
		resp.Summary.FailedImports))

	return resp, nil
}

// ImportHistory returns recently imported leads grouped by calendar date,
// newest first.
func (s *Service) ImportHistory(ctx context.Context) (transport.HistoryResponse, error) {
	leads, err := s.leads.ListImported(ctx, historyLimit)
	if err != nil {
		return transport.HistoryResponse{}, err
	}

	resp := transport.HistoryResponse{
		Batches:    make([]transport.HistoryBatch, 0),
		TotalLeads: len(leads),
	}
	batchIndex := make(map[string]int)
	for _, lead := range leads {
		date := lead.ImportedAt
		if len(date) >= 10 {
			date = date[:10]
		}
		idx, ok := batchIndex[date]
		if !ok {
			idx = len(resp.Batches)
			batchIndex[date] = idx
			resp.Batches = append(resp.Batches, transport.HistoryBatch{Date: date})
		}
		resp.Batches[idx].Leads = append(resp.Batches[idx].Leads, lead)
		resp.Batches[idx].Count++
	}
	return resp, nil
}

// TestConnection verifies upstream credentials and fetches a small sample.
func (s *Service) TestConnection(ctx context.Context) (transport.TestConnectionResponse, error) {
	if !s.cfg.IsWebsiteAPIEnabled() {
		return transport.TestConnectionResponse{Status: "disabled"}, nil
	}

	if _, err := s.client.Authenticate(ctx); err != nil {
		return transport.TestConnectionResponse{
			Status:  "error",
			Message: err.Error(),
		}, nil
	}

	sample, err := s.client.FetchPage(ctx, 1, testConnectionSample, s.cfg.GetWebsiteDefaultMinLeadID())
	if err != nil {
		return transport.TestConnectionResponse{
			Status:        "error",
			Authenticated: true,
			Message:       err.Error(),
		}, nil
	}

	return transport.TestConnectionResponse{
		Status:        "ok",
		Authenticated: true,
		SampleLeads:   len(sample),
	}, nil
}

// ListEventMappings returns all persisted event mappings.
func (s *Service) ListEventMappings(ctx context.Context) (transport.EventMappingsResponse, error) {
	mappings, err := s.mappings.List(ctx)
	if err != nil {
		return transport.EventMappingsResponse{}, err
	}
	return transport.EventMappingsResponse{Mappings: mappings}, nil
}

// SaveEventMappings upserts the given mappings and refreshes the resolver
// cache so the next preview or import sees them.
func (s *Service) SaveEventMappings(ctx context.Context, req transport.SaveMappingsRequest, savedBy string) (transport.SaveMappingsResponse, error) {
	saved := make([]mappingrepo.EventMapping, 0, len(req.Mappings))
	for _, entry := range req.Mappings {
		inventoryID, err := uuid.Parse(entry.CRMInventoryID)
		if err != nil {
			return transport.SaveMappingsResponse{}, apperr.Validation(
				fmt.Sprintf("invalid inventory id for event %q", entry.WebsiteEventName))
		}
		if rec, err := s.resolver.InventoryByID(ctx, inventoryID); err != nil {
			return transport.SaveMappingsResponse{}, err
		} else if rec == nil {
			return transport.SaveMappingsResponse{}, apperr.Validation(
				fmt.Sprintf("inventory record %s does not exist", entry.CRMInventoryID))
		}

		m, err := s.mappings.Upsert(ctx, mappingrepo.UpsertMappingParams{
			WebsiteEventName: entry.WebsiteEventName,
			CRMInventoryID:   inventoryID,
			CRMInventoryName: entry.CRMInventoryName,
			SavedBy:          savedBy,
		})
		if err != nil {
			return transport.SaveMappingsResponse{}, err
		}
		saved = append(saved, m)
	}

	s.resolver.Invalidate()
	s.bus.Publish(ctx, events.NewEventMappingsSaved(savedBy, len(saved)))

	return transport.SaveMappingsResponse{Saved: saved}, nil
}

// DeleteEventMapping removes a persisted mapping and refreshes the resolver
// cache so subsequent resolutions fall back to the catalog tiers.
func (s *Service) DeleteEventMapping(ctx context.Context, id uuid.UUID) error {
	if err := s.mappings.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.resolver.Invalidate()
	return nil
}

func (s *Service) effectiveMinLeadID(requested *int64) int64 {
	if requested != nil {
		return *requested
	}
	return s.cfg.GetWebsiteDefaultMinLeadID()
}

// filterNew drops leads that already exist in the CRM, preserving fetch order.
func (s *Service) filterNew(ctx context.Context, fetched []websiteapi.Lead) ([]websiteapi.Lead, int, error) {
	ids := make([]int64, 0, len(fetched))
	for _, lead := range fetched {
		ids = append(ids, lead.ID)
	}
	existing, err := s.leads.ExistingWebsiteLeadIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	newLeads := make([]websiteapi.Lead, 0, len(fetched))
	duplicates := 0
	for _, lead := range fetched {
		if existing[lead.ID] {
			duplicates++
			continue
		}
		newLeads = append(newLeads, lead)
	}
	return newLeads, duplicates, nil
}

// selectByID keeps only the leads the operator picked, preserving fetch order.
// Resubmitting already imported IDs is safe: dedup skips them downstream.
func selectByID(fetched []websiteapi.Lead, ids []int64) []websiteapi.Lead {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	selected := make([]websiteapi.Lead, 0, len(ids))
	for _, lead := range fetched {
		if wanted[lead.ID] {
			selected = append(selected, lead)
		}
	}
	return selected
}

// partitionByGroup splits leads into standalone records and grouped clusters,
// keeping the upstream order within each partition.
func partitionByGroup(leads []websiteapi.Lead) (singles []websiteapi.Lead, groups map[string][]websiteapi.Lead, order []string) {
	groups = make(map[string][]websiteapi.Lead)
	for _, lead := range leads {
		if lead.GroupID == "" {
			singles = append(singles, lead)
			continue
		}
		if _, ok := groups[lead.GroupID]; !ok {
			order = append(order, lead.GroupID)
		}
		groups[lead.GroupID] = append(groups[lead.GroupID], lead)
	}
	return singles, groups, order
}

// upstreamError maps website API client failures onto the domain error type
// so handlers respond with an upstream failure instead of a bad request.
func upstreamError(err error) error {
	var authErr *websiteapi.AuthenticationError
	var fetchErr *websiteapi.FetchError
	var timeoutErr *websiteapi.TimeoutError
	if errors.As(err, &authErr) || errors.As(err, &fetchErr) || errors.As(err, &timeoutErr) {
		return apperr.Wrap(apperr.KindUpstream, err.Error(), err)
	}
	return err
}

func parseManualMappings(raw map[string]string) (mappingservice.ManualOverrides, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	overrides := make(mappingservice.ManualOverrides, len(raw))
	for key, value := range raw {
		leadID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("invalid website lead id %q in manual mappings", key))
		}
		inventoryID, err := uuid.Parse(value)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("invalid inventory id for website lead %s", key))
		}
		overrides[leadID] = inventoryID
	}
	return overrides, nil
}

func toPreviewLead(lead websiteapi.Lead, match mappingservice.Match) transport.PreviewLead {
	preview := transport.PreviewLead{
		WebsiteLeadID: lead.ID,
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.PhoneNumber,
		EventName:     lead.Tours,
		TripDate:      lead.TripDate,
		Persons:       lead.Persons,
		Price:         lead.Price,
		Currency:      lead.Currency,
		Location:      lead.Location,
		GroupID:       lead.GroupID,
		MatchMethod:   match.Method,
	}
	if match.Inventory != nil {
		preview.MatchedInventoryID = &match.Inventory.ID
		preview.MatchedInventoryName = match.Inventory.EventName
	}
	return preview
}
