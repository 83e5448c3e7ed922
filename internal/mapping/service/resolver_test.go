package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	catalogrepo "eventcrm_backend/internal/catalog/repository"
	"eventcrm_backend/internal/mapping/repository"
	"eventcrm_backend/platform/logger"
)

type fakeCatalog struct {
	records []catalogrepo.InventoryRecord
	calls   int
}

func (f *fakeCatalog) ListInventory(ctx context.Context) ([]catalogrepo.InventoryRecord, error) {
	f.calls++
	return f.records, nil
}

type fakeMappings struct {
	mappings []repository.EventMapping
	calls    int
}

func (f *fakeMappings) List(ctx context.Context) ([]repository.EventMapping, error) {
	f.calls++
	return f.mappings, nil
}

func newTestResolver(catalog *fakeCatalog, mappings *fakeMappings) *Resolver {
	return NewResolver(catalog, mappings, logger.New("test"))
}

func inventoryRecord(name string) catalogrepo.InventoryRecord {
	return catalogrepo.InventoryRecord{ID: uuid.New(), EventName: name}
}

func TestFindInventoryForEvent_ExactMatchIsCaseInsensitive(t *testing.T) {
	catalog := &fakeCatalog{records: []catalogrepo.InventoryRecord{
		inventoryRecord("Sunburn Goa 2026"),
		inventoryRecord("NH7 Weekender"),
	}}
	resolver := newTestResolver(catalog, &fakeMappings{})

	match, err := resolver.FindInventoryForEvent(context.Background(), "  sunburn goa 2026 ", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "exact" {
		t.Fatalf("expected exact match, got %q", match.Method)
	}
	if match.Inventory == nil || match.Inventory.EventName != "Sunburn Goa 2026" {
		t.Fatalf("expected Sunburn Goa 2026, got %+v", match.Inventory)
	}
}

func TestFindInventoryForEvent_SubstringMatchesBothDirections(t *testing.T) {
	catalog := &fakeCatalog{records: []catalogrepo.InventoryRecord{
		inventoryRecord("Sunburn Goa 2026"),
	}}
	resolver := newTestResolver(catalog, &fakeMappings{})

	// Website name contained in catalog name.
	match, err := resolver.FindInventoryForEvent(context.Background(), "Sunburn Goa", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "fuzzy" || match.Inventory == nil {
		t.Fatalf("expected fuzzy match for shorter website name, got %q", match.Method)
	}

	// Catalog name contained in website name.
	match, err = resolver.FindInventoryForEvent(context.Background(), "Sunburn Goa 2026 - Early Bird", 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "fuzzy" || match.Inventory == nil {
		t.Fatalf("expected fuzzy match for longer website name, got %q", match.Method)
	}
}

func TestFindInventoryForEvent_SavedMappingBeatsFuzzy(t *testing.T) {
	exactish := inventoryRecord("Sunburn Goa 2026")
	mapped := inventoryRecord("Completely Different Festival")
	catalog := &fakeCatalog{records: []catalogrepo.InventoryRecord{exactish, mapped}}
	mappings := &fakeMappings{mappings: []repository.EventMapping{{
		WebsiteEventName: "Sunburn Goa",
		CRMInventoryID:   mapped.ID,
	}}}
	resolver := newTestResolver(catalog, mappings)

	match, err := resolver.FindInventoryForEvent(context.Background(), "Sunburn Goa", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "saved" {
		t.Fatalf("expected saved mapping to win, got %q", match.Method)
	}
	if match.Inventory.ID != mapped.ID {
		t.Fatalf("expected mapped record, got %s", match.Inventory.EventName)
	}
}

func TestFindInventoryForEvent_SavedMappingIsCaseSensitive(t *testing.T) {
	catalogHit := inventoryRecord("ipl final")
	mapped := inventoryRecord("Something Else")
	catalog := &fakeCatalog{records: []catalogrepo.InventoryRecord{catalogHit, mapped}}
	mappings := &fakeMappings{mappings: []repository.EventMapping{{
		WebsiteEventName: "IPL Final",
		CRMInventoryID:   mapped.ID,
	}}}
	resolver := newTestResolver(catalog, mappings)

	// Differently cased name must not hit the saved mapping; the catalog
	// tiers resolve it instead.
	match, err := resolver.FindInventoryForEvent(context.Background(), "ipl final", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "exact" {
		t.Fatalf("expected the catalog exact tier, got %q", match.Method)
	}
	if match.Inventory.ID != catalogHit.ID {
		t.Fatalf("expected the catalog record, got %s", match.Inventory.EventName)
	}

	// The exact upstream name still resolves through the saved mapping.
	match, err = resolver.FindInventoryForEvent(context.Background(), "IPL Final", 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "saved" || match.Inventory.ID != mapped.ID {
		t.Fatalf("expected the saved mapping, got %q %+v", match.Method, match.Inventory)
	}
}

func TestFindInventoryForEvent_ManualOverrideBeatsEverything(t *testing.T) {
	exact := inventoryRecord("Sunburn Goa")
	chosen := inventoryRecord("VIP Upgrade Package")
	catalog := &fakeCatalog{records: []catalogrepo.InventoryRecord{exact, chosen}}
	mappings := &fakeMappings{mappings: []repository.EventMapping{{
		WebsiteEventName: "Sunburn Goa",
		CRMInventoryID:   exact.ID,
	}}}
	resolver := newTestResolver(catalog, mappings)

	overrides := ManualOverrides{42: chosen.ID}
	match, err := resolver.FindInventoryForEvent(context.Background(), "Sunburn Goa", 42, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "manual" {
		t.Fatalf("expected manual override to win, got %q", match.Method)
	}
	if match.Inventory.ID != chosen.ID {
		t.Fatalf("expected chosen record, got %s", match.Inventory.EventName)
	}

	// The override is keyed to one lead only.
	match, err = resolver.FindInventoryForEvent(context.Background(), "Sunburn Goa", 43, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "saved" {
		t.Fatalf("expected other leads to resolve normally, got %q", match.Method)
	}
}

func TestFindInventoryForEvent_NoMatch(t *testing.T) {
	catalog := &fakeCatalog{records: []catalogrepo.InventoryRecord{
		inventoryRecord("NH7 Weekender"),
	}}
	resolver := newTestResolver(catalog, &fakeMappings{})

	match, err := resolver.FindInventoryForEvent(context.Background(), "Magnetic Fields", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Method != "none" || match.Inventory != nil {
		t.Fatalf("expected no match, got %q %+v", match.Method, match.Inventory)
	}
}

func TestResolver_SnapshotCachedWithinTTL(t *testing.T) {
	catalog := &fakeCatalog{records: []catalogrepo.InventoryRecord{inventoryRecord("A")}}
	mappings := &fakeMappings{}
	resolver := newTestResolver(catalog, mappings)

	now := time.Now()
	resolver.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		if _, err := resolver.FindInventoryForEvent(context.Background(), "A", int64(i), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if catalog.calls != 1 || mappings.calls != 1 {
		t.Fatalf("expected one snapshot fetch within TTL, got catalog=%d mappings=%d", catalog.calls, mappings.calls)
	}

	now = now.Add(cacheTTL + time.Second)
	if _, err := resolver.FindInventoryForEvent(context.Background(), "A", 9, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d catalog calls", catalog.calls)
	}
}

func TestResolver_InvalidateForcesRefetch(t *testing.T) {
	catalog := &fakeCatalog{records: []catalogrepo.InventoryRecord{inventoryRecord("A")}}
	resolver := newTestResolver(catalog, &fakeMappings{})

	if _, err := resolver.FindInventoryForEvent(context.Background(), "A", 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolver.Invalidate()
	if _, err := resolver.FindInventoryForEvent(context.Background(), "A", 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d", catalog.calls)
	}
}
