package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	catalogrepo "eventcrm_backend/internal/catalog/repository"
	"eventcrm_backend/internal/mapping/repository"
	"eventcrm_backend/platform/logger"
)

// cacheTTL bounds how stale the catalog and mapping snapshot may get between
// refreshes. Import runs within the window reuse one consistent snapshot.
const cacheTTL = 5 * time.Minute

// CatalogReader is the slice of the catalog repository the resolver reads.
type CatalogReader interface {
	ListInventory(ctx context.Context) ([]catalogrepo.InventoryRecord, error)
}

// MappingReader lists the persisted event mappings.
type MappingReader interface {
	List(ctx context.Context) ([]repository.EventMapping, error)
}

// ManualOverrides maps a website lead ID to the inventory record chosen for it
// in a single import request. Overrides are request scoped and never persisted.
type ManualOverrides map[int64]uuid.UUID

// Match is the outcome of resolving one website event name.
type Match struct {
	Inventory *catalogrepo.InventoryRecord
	// Method records which tier produced the match: "manual", "saved",
	// "exact", "fuzzy" or "none".
	Method string
}

type snapshot struct {
	inventory []catalogrepo.InventoryRecord
	byID      map[uuid.UUID]*catalogrepo.InventoryRecord
	saved     map[string]uuid.UUID
	fetchedAt time.Time
}

// Resolver matches website event names to catalog inventory records through a
// tiered chain: manual override, persisted mapping, exact name match, then
// bidirectional substring match.
type Resolver struct {
	catalog  CatalogReader
	mappings MappingReader
	log      *logger.Logger

	now func() time.Time

	mu    sync.Mutex
	cache *snapshot
}

func NewResolver(catalog CatalogReader, mappings MappingReader, log *logger.Logger) *Resolver {
	return &Resolver{
		catalog:  catalog,
		mappings: mappings,
		log:      log,
		now:      time.Now,
	}
}

// FindInventoryForEvent resolves eventName for the lead identified by
// websiteLeadID. A nil Inventory with Method "none" means no tier matched.
func (r *Resolver) FindInventoryForEvent(ctx context.Context, eventName string, websiteLeadID int64, overrides ManualOverrides) (Match, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return Match{}, err
	}

	if id, ok := overrides[websiteLeadID]; ok {
		if rec, ok := snap.byID[id]; ok {
			return Match{Inventory: rec, Method: "manual"}, nil
		}
		r.log.Warn("manual override references unknown inventory record",
			"website_lead_id", websiteLeadID,
			"inventory_id", id)
	}

	// Saved mappings are keyed by the raw upstream name. A name differing
	// only in case falls through to the catalog tiers.
	if id, ok := snap.saved[eventName]; ok {
		if rec, ok := snap.byID[id]; ok {
			return Match{Inventory: rec, Method: "saved"}, nil
		}
	}

	normalized := normalizeEventName(eventName)
	if normalized == "" {
		return Match{Method: "none"}, nil
	}

	for i := range snap.inventory {
		if normalizeEventName(snap.inventory[i].EventName) == normalized {
			return Match{Inventory: &snap.inventory[i], Method: "exact"}, nil
		}
	}

	for i := range snap.inventory {
		candidate := normalizeEventName(snap.inventory[i].EventName)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, normalized) || strings.Contains(normalized, candidate) {
			return Match{Inventory: &snap.inventory[i], Method: "fuzzy"}, nil
		}
	}

	return Match{Method: "none"}, nil
}

// InventoryByID looks a record up in the cached snapshot.
func (r *Resolver) InventoryByID(ctx context.Context, id uuid.UUID) (*catalogrepo.InventoryRecord, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.byID[id], nil
}

// Invalidate drops the cached snapshot so the next resolution refetches.
// Called after mappings or inventory change.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}

func (r *Resolver) snapshot(ctx context.Context) (*snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil && r.now().Sub(r.cache.fetchedAt) < cacheTTL {
		return r.cache, nil
	}

	inventory, err := r.catalog.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	persisted, err := r.mappings.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		inventory: inventory,
		byID:      make(map[uuid.UUID]*catalogrepo.InventoryRecord, len(inventory)),
		saved:     make(map[string]uuid.UUID, len(persisted)),
		fetchedAt: r.now(),
	}
	for i := range inventory {
		snap.byID[inventory[i].ID] = &inventory[i]
	}
	for _, m := range persisted {
		snap.saved[m.WebsiteEventName] = m.CRMInventoryID
	}

	r.cache = snap
	return snap, nil
}

func normalizeEventName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
