package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

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

type fakeClient struct {
	leads   []websiteapi.Lead
	authErr error
}

func (f *fakeClient) Authenticate(ctx context.Context) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "token", nil
}

func (f *fakeClient) FetchPage(ctx context.Context, page, pageSize int, minID int64) ([]websiteapi.Lead, error) {
	filtered := f.aboveFloor(minID)
	if len(filtered) > pageSize {
		return filtered[:pageSize], nil
	}
	return filtered, nil
}

func (f *fakeClient) FetchAll(ctx context.Context, minID int64) ([]websiteapi.Lead, error) {
	return f.aboveFloor(minID), nil
}

func (f *fakeClient) aboveFloor(minID int64) []websiteapi.Lead {
	out := make([]websiteapi.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		if lead.ID >= minID {
			out = append(out, lead)
		}
	}
	return out
}

type fakeLeadsRepo struct {
	existing map[int64]bool
	failIDs  map[int64]bool
	inserted []leadsrepo.InsertLeadParams
	history  []leadsrepo.Lead
}

func newFakeLeadsRepo() *fakeLeadsRepo {
	return &fakeLeadsRepo{
		existing: make(map[int64]bool),
		failIDs:  make(map[int64]bool),
	}
}

func (f *fakeLeadsRepo) Insert(ctx context.Context, params leadsrepo.InsertLeadParams) (leadsrepo.Lead, error) {
	if f.failIDs[params.WebsiteLeadID] {
		return leadsrepo.Lead{}, fmt.Errorf("insert lead %d: boom", params.WebsiteLeadID)
	}
	f.inserted = append(f.inserted, params)
	return leadsrepo.Lead{ID: uuid.New(), WebsiteLeadID: params.WebsiteLeadID, Name: params.Name}, nil
}

func (f *fakeLeadsRepo) InsertBatch(ctx context.Context, params []leadsrepo.InsertLeadParams) ([]leadsrepo.Lead, error) {
	for _, p := range params {
		if f.failIDs[p.WebsiteLeadID] {
			return nil, fmt.Errorf("insert lead %d in batch: boom", p.WebsiteLeadID)
		}
	}
	created := make([]leadsrepo.Lead, 0, len(params))
	for _, p := range params {
		f.inserted = append(f.inserted, p)
		created = append(created, leadsrepo.Lead{ID: uuid.New(), WebsiteLeadID: p.WebsiteLeadID, Name: p.Name})
	}
	return created, nil
}

func (f *fakeLeadsRepo) ExistingWebsiteLeadIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool)
	for _, id := range ids {
		if f.existing[id] {
			found[id] = true
		}
	}
	return found, nil
}

func (f *fakeLeadsRepo) ListImported(ctx context.Context, limit int) ([]leadsrepo.Lead, error) {
	if len(f.history) > limit {
		return f.history[:limit], nil
	}
	return f.history, nil
}

type fakeMappingStore struct {
	mappings []mappingrepo.EventMapping
	deleted  []uuid.UUID
}

func (f *fakeMappingStore) List(ctx context.Context) ([]mappingrepo.EventMapping, error) {
	return f.mappings, nil
}

func (f *fakeMappingStore) GetByWebsiteEventName(ctx context.Context, eventName string) (*mappingrepo.EventMapping, error) {
	for i := range f.mappings {
		if f.mappings[i].WebsiteEventName == eventName {
			return &f.mappings[i], nil
		}
	}
	return nil, nil
}

func (f *fakeMappingStore) Upsert(ctx context.Context, params mappingrepo.UpsertMappingParams) (mappingrepo.EventMapping, error) {
	m := mappingrepo.EventMapping{
		ID:               uuid.New(),
		WebsiteEventName: params.WebsiteEventName,
		CRMInventoryID:   params.CRMInventoryID,
		CRMInventoryName: params.CRMInventoryName,
		CreatedBy:        params.SavedBy,
	}
	f.mappings = append(f.mappings, m)
	return m, nil
}

func (f *fakeMappingStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeResolver struct {
	catalog     map[string]catalogrepo.InventoryRecord
	byID        map[uuid.UUID]catalogrepo.InventoryRecord
	invalidated int
}

func newFakeResolver(records ...catalogrepo.InventoryRecord) *fakeResolver {
	r := &fakeResolver{
		catalog: make(map[string]catalogrepo.InventoryRecord),
		byID:    make(map[uuid.UUID]catalogrepo.InventoryRecord),
	}
	for _, rec := range records {
		r.catalog[rec.EventName] = rec
		r.byID[rec.ID] = rec
	}
	return r
}

func (f *fakeResolver) FindInventoryForEvent(ctx context.Context, eventName string, websiteLeadID int64, overrides mappingservice.ManualOverrides) (mappingservice.Match, error) {
	if id, ok := overrides[websiteLeadID]; ok {
		if rec, ok := f.byID[id]; ok {
			return mappingservice.Match{Inventory: &rec, Method: "manual"}, nil
		}
	}
	if rec, ok := f.catalog[eventName]; ok {
		return mappingservice.Match{Inventory: &rec, Method: "exact"}, nil
	}
	return mappingservice.Match{Method: "none"}, nil
}

func (f *fakeResolver) InventoryByID(ctx context.Context, id uuid.UUID) (*catalogrepo.InventoryRecord, error) {
	if rec, ok := f.byID[id]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeResolver) Invalidate() { f.invalidated++ }

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(eventName string, handler events.Handler) {}

type fakeConfig struct {
	minLeadID int64
	disabled  bool
}

func (f fakeConfig) GetWebsiteDefaultMinLeadID() int64 { return f.minLeadID }
func (f fakeConfig) IsWebsiteAPIEnabled() bool         { return !f.disabled }

func newTestService(client *fakeClient, repo *fakeLeadsRepo, store *fakeMappingStore, resolver *fakeResolver, bus *fakeBus, cfg fakeConfig) *Service {
	return New(client, repo, store, resolver, bus, cfg, logger.New("test"))
}

func websiteLead(id int64, event, group string) websiteapi.Lead {
	return websiteapi.Lead{
		ID:      id,
		Name:    fmt.Sprintf("Lead %d", id),
		Tours:   event,
		GroupID: group,
	}
}

func TestImport_SingleFailureDoesNotAbortRun(t *testing.T) {
	client := &fakeClient{leads: []websiteapi.Lead{
		websiteLead(801, "A", ""),
		websiteLead(802, "A", ""),
		websiteLead(803, "A", ""),
		websiteLead(804, "A", ""),
		websiteLead(805, "A", ""),
	}}
	repo := newFakeLeadsRepo()
	repo.failIDs[803] = true
	bus := &fakeBus{}
	svc := newTestService(client, repo, &fakeMappingStore{}, newFakeResolver(), bus, fakeConfig{})

	resp, err := svc.Import(context.Background(), transport.ImportRequest{ImportAll: true}, "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.TotalImported != 4 {
		t.Fatalf("expected 4 imported, got %d", resp.Summary.TotalImported)
	}
	if resp.Summary.FailedImports != 1 {
		t.Fatalf("expected 1 failure, got %d", resp.Summary.FailedImports)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].WebsiteLeadID == nil || *resp.Errors[0].WebsiteLeadID != 803 {
		t.Fatalf("expected error for lead 803, got %+v", resp.Errors)
	}
}

func TestImport_GroupCommitsAtomically(t *testing.T) {
	client := &fakeClient{leads: []websiteapi.Lead{
		websiteLead(810, "A", "fam_1"),
		websiteLead(811, "B", "fam_1"),
		websiteLead(812, "C", "fam_1"),
		websiteLead(813, "A", ""),
	}}
	repo := newFakeLeadsRepo()
	repo.failIDs[811] = true
	svc := newTestService(client, repo, &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	resp, err := svc.Import(context.Background(), transport.ImportRequest{ImportAll: true}, "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The standalone lead commits; the whole group fails together.
	if resp.Summary.TotalImported != 1 {
		t.Fatalf("expected only the standalone lead imported, got %d", resp.Summary.TotalImported)
	}
	if resp.Summary.FailedImports != 3 {
		t.Fatalf("expected all 3 group members counted as failed, got %d", resp.Summary.FailedImports)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].GroupID != "fam_1" {
		t.Fatalf("expected one group error for fam_1, got %+v", resp.Errors)
	}
	for _, p := range repo.inserted {
		if p.GroupID != nil {
			t.Fatalf("no group member may be persisted when the batch fails, found %d", p.WebsiteLeadID)
		}
	}
}

func TestImport_SkipsAlreadyImportedLeads(t *testing.T) {
	client := &fakeClient{leads: []websiteapi.Lead{
		websiteLead(800, "A", ""),
		websiteLead(801, "A", ""),
		websiteLead(802, "A", ""),
	}}
	repo := newFakeLeadsRepo()
	repo.existing[800] = true
	repo.existing[801] = true
	svc := newTestService(client, repo, &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	resp, err := svc.Import(context.Background(), transport.ImportRequest{ImportAll: true}, "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.DuplicatesSkipped != 2 {
		t.Fatalf("expected 2 duplicates skipped, got %d", resp.Summary.DuplicatesSkipped)
	}
	if resp.Summary.TotalImported != 1 {
		t.Fatalf("expected 1 imported, got %d", resp.Summary.TotalImported)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].WebsiteLeadID != 802 {
		t.Fatalf("expected only lead 802 persisted, got %+v", repo.inserted)
	}
}

func TestImport_ResponseCapsCreatedLeads(t *testing.T) {
	var leads []websiteapi.Lead
	for i := int64(1); i <= 15; i++ {
		leads = append(leads, websiteLead(i, "A", ""))
	}
	client := &fakeClient{leads: leads}
	svc := newTestService(client, newFakeLeadsRepo(), &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	resp, err := svc.Import(context.Background(), transport.ImportRequest{ImportAll: true}, "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.TotalImported != 15 {
		t.Fatalf("expected all 15 imported, got %d", resp.Summary.TotalImported)
	}
	if len(resp.CreatedLeads) != 10 {
		t.Fatalf("expected created leads payload capped at 10, got %d", len(resp.CreatedLeads))
	}
}

func TestImport_ManualMappingAppliesToOneLead(t *testing.T) {
	record := catalogrepo.InventoryRecord{ID: uuid.New(), EventName: "VIP Package"}
	client := &fakeClient{leads: []websiteapi.Lead{
		websiteLead(820, "Unknown Event", ""),
		websiteLead(821, "Unknown Event", ""),
	}}
	repo := newFakeLeadsRepo()
	svc := newTestService(client, repo, &fakeMappingStore{}, newFakeResolver(record), &fakeBus{}, fakeConfig{})

	req := transport.ImportRequest{
		ImportAll:      true,
		ManualMappings: map[string]string{"820": record.ID.String()},
	}
	if _, err := svc.Import(context.Background(), req, "operator"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := make(map[int64]leadsrepo.InsertLeadParams)
	for _, p := range repo.inserted {
		byID[p.WebsiteLeadID] = p
	}
	if byID[820].Tours != "VIP Package" {
		t.Fatalf("expected manual mapping applied to lead 820, got %q", byID[820].Tours)
	}
	if byID[821].Tours != "Unknown Event" {
		t.Fatalf("expected lead 821 untouched by the override, got %q", byID[821].Tours)
	}
}

func TestImport_SelectedLeadIDsOnly(t *testing.T) {
	client := &fakeClient{leads: []websiteapi.Lead{
		websiteLead(840, "A", ""),
		websiteLead(841, "B", ""),
		websiteLead(842, "C", ""),
	}}
	repo := newFakeLeadsRepo()
	svc := newTestService(client, repo, &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	req := transport.ImportRequest{LeadIDs: []int64{840, 842}}
	resp, err := svc.Import(context.Background(), req, "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.TotalImported != 2 {
		t.Fatalf("expected 2 imported, got %d", resp.Summary.TotalImported)
	}
	for _, p := range repo.inserted {
		if p.WebsiteLeadID == 841 {
			t.Fatalf("lead 841 was not selected but got imported")
		}
	}
}

func TestImport_RejectsEmptySelection(t *testing.T) {
	svc := newTestService(&fakeClient{}, newFakeLeadsRepo(), &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	_, err := svc.Import(context.Background(), transport.ImportRequest{}, "operator")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty selection, got %v", err)
	}
}

func TestImport_InvalidManualMappingKeyRejected(t *testing.T) {
	client := &fakeClient{leads: nil}
	svc := newTestService(client, newFakeLeadsRepo(), &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	req := transport.ImportRequest{ImportAll: true, ManualMappings: map[string]string{"not-a-number": uuid.NewString()}}
	_, err := svc.Import(context.Background(), req, "operator")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImport_DisabledReturnsUpstreamError(t *testing.T) {
	svc := newTestService(&fakeClient{}, newFakeLeadsRepo(), &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{disabled: true})

	_, err := svc.Import(context.Background(), transport.ImportRequest{ImportAll: true}, "operator")
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error when disabled, got %v", err)
	}
}

func TestImport_PublishesCompletionEvent(t *testing.T) {
	client := &fakeClient{leads: []websiteapi.Lead{
		websiteLead(830, "A", ""),
		websiteLead(831, "B", "pair_1"),
		websiteLead(832, "C", "pair_1"),
	}}
	bus := &fakeBus{}
	svc := newTestService(client, newFakeLeadsRepo(), &fakeMappingStore{}, newFakeResolver(), bus, fakeConfig{})

	if _, err := svc.Import(context.Background(), transport.ImportRequest{ImportAll: true}, "operator"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event published, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.WebsiteLeadsImported)
	if !ok {
		t.Fatalf("expected WebsiteLeadsImported, got %T", bus.published[0])
	}
	if evt.TotalImported != 3 || evt.SingleLeads != 1 || evt.MultiGroups != 1 || evt.ImportedBy != "operator" {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
}

func TestPreview_GroupsAndCountsWithoutWriting(t *testing.T) {
	record := catalogrepo.InventoryRecord{ID: uuid.New(), EventName: "A"}
	client := &fakeClient{leads: []websiteapi.Lead{
		websiteLead(800, "A", ""),
		websiteLead(801, "B", "fam_1"),
		websiteLead(802, "C", "fam_1"),
		websiteLead(799, "A", ""),
	}}
	repo := newFakeLeadsRepo()
	repo.existing[799] = true
	svc := newTestService(client, repo, &fakeMappingStore{}, newFakeResolver(record), &fakeBus{}, fakeConfig{})

	resp, err := svc.Preview(context.Background(), 1, 50, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.TotalFetched != 4 || resp.Summary.NewLeads != 3 || resp.Summary.Duplicates != 1 {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}
	if resp.Summary.Matched != 1 || resp.Summary.Unmatched != 2 {
		t.Fatalf("expected 1 matched and 2 unmatched, got %+v", resp.Summary)
	}
	if len(resp.SingleLeads) != 1 || resp.SingleLeads[0].WebsiteLeadID != 800 {
		t.Fatalf("expected lead 800 as the only single, got %+v", resp.SingleLeads)
	}
	if len(resp.Groups) != 1 || resp.Groups[0].GroupID != "fam_1" || len(resp.Groups[0].Leads) != 2 {
		t.Fatalf("expected group fam_1 with 2 members, got %+v", resp.Groups)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("preview must not persist anything, got %d inserts", len(repo.inserted))
	}
}

func TestImport_MinLeadIDFloorApplied(t *testing.T) {
	client := &fakeClient{leads: []websiteapi.Lead{
		websiteLead(700, "A", ""),
		websiteLead(794, "A", ""),
		websiteLead(900, "A", ""),
	}}
	repo := newFakeLeadsRepo()
	svc := newTestService(client, repo, &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{minLeadID: 794})

	resp, err := svc.Import(context.Background(), transport.ImportRequest{ImportAll: true}, "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.TotalImported != 2 {
		t.Fatalf("expected the configured floor to drop lead 700, got %d imported", resp.Summary.TotalImported)
	}

	// An explicit floor in the request overrides the configured default.
	repo2 := newFakeLeadsRepo()
	svc2 := newTestService(client, repo2, &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{minLeadID: 794})
	floor := int64(900)
	resp, err = svc2.Import(context.Background(), transport.ImportRequest{ImportAll: true, MinLeadID: &floor}, "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.TotalImported != 1 {
		t.Fatalf("expected only lead 900 with explicit floor, got %d", resp.Summary.TotalImported)
	}
}

func TestSaveEventMappings_RejectsUnknownInventory(t *testing.T) {
	svc := newTestService(&fakeClient{}, newFakeLeadsRepo(), &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	req := transport.SaveMappingsRequest{Mappings: []transport.SaveMappingEntry{{
		WebsiteEventName: "Sunburn Goa",
		CRMInventoryID:   uuid.NewString(),
		CRMInventoryName: "Sunburn Goa 2026",
	}}}
	_, err := svc.SaveEventMappings(context.Background(), req, "operator")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unknown inventory, got %v", err)
	}
}

func TestSaveEventMappings_PersistsAndInvalidatesCache(t *testing.T) {
	record := catalogrepo.InventoryRecord{ID: uuid.New(), EventName: "Sunburn Goa 2026"}
	store := &fakeMappingStore{}
	resolver := newFakeResolver(record)
	bus := &fakeBus{}
	svc := newTestService(&fakeClient{}, newFakeLeadsRepo(), store, resolver, bus, fakeConfig{})

	req := transport.SaveMappingsRequest{Mappings: []transport.SaveMappingEntry{{
		WebsiteEventName: "Sunburn Goa",
		CRMInventoryID:   record.ID.String(),
		CRMInventoryName: "Sunburn Goa 2026",
	}}}
	resp, err := svc.SaveEventMappings(context.Background(), req, "operator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Saved) != 1 || resp.Saved[0].WebsiteEventName != "Sunburn Goa" {
		t.Fatalf("expected saved mapping returned, got %+v", resp.Saved)
	}
	if len(store.mappings) != 1 {
		t.Fatalf("expected mapping persisted, got %d", len(store.mappings))
	}
	if resolver.invalidated != 1 {
		t.Fatalf("expected resolver cache invalidated once, got %d", resolver.invalidated)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected mappings saved event, got %d events", len(bus.published))
	}
}

func TestImportHistory_GroupsByDate(t *testing.T) {
	repo := newFakeLeadsRepo()
	repo.history = []leadsrepo.Lead{
		{WebsiteLeadID: 3, ImportedAt: "2026-09-01T10:00:00Z"},
		{WebsiteLeadID: 2, ImportedAt: "2026-09-01T08:00:00Z"},
		{WebsiteLeadID: 1, ImportedAt: "2026-08-31T17:00:00Z"},
	}
	svc := newTestService(&fakeClient{}, repo, &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	resp, err := svc.ImportHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalLeads != 3 {
		t.Fatalf("expected 3 leads total, got %d", resp.TotalLeads)
	}
	if len(resp.Batches) != 2 {
		t.Fatalf("expected 2 date batches, got %d", len(resp.Batches))
	}
	if resp.Batches[0].Date != "2026-09-01" || resp.Batches[0].Count != 2 {
		t.Fatalf("expected newest batch first with 2 leads, got %+v", resp.Batches[0])
	}
	if resp.Batches[1].Date != "2026-08-31" || resp.Batches[1].Count != 1 {
		t.Fatalf("expected older batch second, got %+v", resp.Batches[1])
	}
}

func TestTestConnection_ReportsAuthFailure(t *testing.T) {
	client := &fakeClient{authErr: errors.New("bad credentials")}
	svc := newTestService(client, newFakeLeadsRepo(), &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	resp, err := svc.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "error" || resp.Authenticated {
		t.Fatalf("expected unauthenticated error status, got %+v", resp)
	}
}

func TestTestConnection_ReportsSample(t *testing.T) {
	client := &fakeClient{leads: []websiteapi.Lead{websiteLead(1, "A", ""), websiteLead(2, "B", "")}}
	svc := newTestService(client, newFakeLeadsRepo(), &fakeMappingStore{}, newFakeResolver(), &fakeBus{}, fakeConfig{})

	resp, err := svc.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The probe fetches a single lead, never a full page.
	if resp.Status != "ok" || !resp.Authenticated || resp.SampleLeads != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDeleteEventMapping_RemovesAndInvalidatesCache(t *testing.T) {
	store := &fakeMappingStore{}
	resolver := newFakeResolver()
	svc := newTestService(&fakeClient{}, newFakeLeadsRepo(), store, resolver, &fakeBus{}, fakeConfig{})

	id := uuid.New()
	if err := svc.DeleteEventMapping(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != id {
		t.Fatalf("expected mapping %s deleted, got %v", id, store.deleted)
	}
	if resolver.invalidated != 1 {
		t.Fatalf("expected resolver cache invalidated once, got %d", resolver.invalidated)
	}
}
