package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	catalogrepo "eventcrm_backend/internal/catalog/repository"
	mappingservice "eventcrm_backend/internal/mapping/service"
	"eventcrm_backend/internal/websiteapi"
)

func TestBuildLeadParams_DefaultsApplied(t *testing.T) {
	lead := websiteapi.Lead{
		ID:          801,
		Name:        "Asha Rao",
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
		Tours:       "Sunburn Goa",
	}

	params := buildLeadParams(lead, mappingservice.Match{Method: "none"}, "operator")

	if params.TripType != "generic" {
		t.Fatalf("expected default trip type generic, got %q", params.TripType)
	}
	if params.Persons != 1 {
		t.Fatalf("expected default 1 person, got %d", params.Persons)
	}
	if params.Currency != "₹" {
		t.Fatalf("expected default currency, got %q", params.Currency)
	}
	if params.Status != "unassigned" || params.Stage != "new" {
		t.Fatalf("expected unassigned/new, got %q/%q", params.Status, params.Stage)
	}
	if params.Phone != "+919876543210" {
		t.Fatalf("expected E.164 normalized phone, got %q", params.Phone)
	}
	if params.GroupID != nil {
		t.Fatalf("expected standalone lead to have no group, got %v", *params.GroupID)
	}
	if params.ImportedBy != "operator" {
		t.Fatalf("expected importer recorded, got %q", params.ImportedBy)
	}
}

func TestBuildLeadParams_UpstreamValuesPreserved(t *testing.T) {
	tripDate := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
	lead := websiteapi.Lead{
		ID:       802,
		Tours:    "NH7 Weekender",
		TripType: "festival",
		Persons:  4,
		Price:    15999.50,
		Currency: "USD",
		Location: "Pune",
		TripDate: &tripDate,
	}

	params := buildLeadParams(lead, mappingservice.Match{Method: "none"}, "operator")

	if params.TripType != "festival" {
		t.Fatalf("expected upstream trip type kept, got %q", params.TripType)
	}
	if params.Persons != 4 {
		t.Fatalf("expected upstream persons kept, got %d", params.Persons)
	}
	if params.Currency != "USD" {
		t.Fatalf("expected upstream currency kept, got %q", params.Currency)
	}
	if params.Budget != "15999.5" {
		t.Fatalf("expected price carried as budget, got %q", params.Budget)
	}
	if params.City != "Pune" {
		t.Fatalf("expected location carried as city, got %q", params.City)
	}
	if params.TripDate == nil || !params.TripDate.Equal(tripDate) {
		t.Fatalf("expected trip date carried over, got %v", params.TripDate)
	}
}

func TestBuildLeadParams_LeadSourceMapping(t *testing.T) {
	cases := map[string]string{
		"facebook":  "facebook",
		"instagram": "instagram",
		"email":     "email",
		"other":     "other",
		"google":    "google",
		"whatsapp":  "whatsapp",
		"":          "website",
		"partnerx":  "website",
	}
	for referral, want := range cases {
		lead := websiteapi.Lead{ID: 1, ReferralCode: referral}
		params := buildLeadParams(lead, mappingservice.Match{Method: "none"}, "operator")
		if params.LeadSource != want {
			t.Fatalf("referral %q: expected source %q, got %q", referral, want, params.LeadSource)
		}
	}
}

func TestBuildLeadParams_MatchedCatalogNameReplacesEventName(t *testing.T) {
	record := catalogrepo.InventoryRecord{ID: uuid.New(), EventName: "Sunburn Goa 2026"}
	lead := websiteapi.Lead{ID: 803, Tours: "Sunburn Goa"}

	params := buildLeadParams(lead, mappingservice.Match{Inventory: &record, Method: "fuzzy"}, "operator")

	if params.Tours != "Sunburn Goa 2026" {
		t.Fatalf("expected catalog name to replace website name, got %q", params.Tours)
	}
	if params.InventoryID == nil || *params.InventoryID != record.ID {
		t.Fatalf("expected inventory reference set, got %v", params.InventoryID)
	}
	if strings.Contains(params.Notes, "Warning") {
		t.Fatalf("matched lead must not carry a warning note, got %q", params.Notes)
	}
}

func TestBuildLeadParams_UnmatchedEventGetsWarningNote(t *testing.T) {
	lead := websiteapi.Lead{ID: 804, Tours: "Magnetic Fields"}

	params := buildLeadParams(lead, mappingservice.Match{Method: "none"}, "operator")

	if params.Tours != "Magnetic Fields" {
		t.Fatalf("expected website event name kept, got %q", params.Tours)
	}
	if !strings.Contains(params.Notes, `Warning: no matching catalog inventory found for event "Magnetic Fields"`) {
		t.Fatalf("expected warning note, got %q", params.Notes)
	}
}

func TestBuildLeadParams_GroupIDPrefixed(t *testing.T) {
	lead := websiteapi.Lead{ID: 805, GroupID: "grp_77"}

	params := buildLeadParams(lead, mappingservice.Match{Method: "none"}, "operator")

	if params.GroupID == nil || *params.GroupID != "website_group_grp_77" {
		t.Fatalf("expected prefixed group id, got %v", params.GroupID)
	}
}

func TestBuildLeadParams_AdditionalServicesInNotes(t *testing.T) {
	lead := websiteapi.Lead{
		ID:                 806,
		Tours:              "Magnetic Fields",
		AdditionalServices: []string{"camping", "shuttle"},
	}

	params := buildLeadParams(lead, mappingservice.Match{Method: "none"}, "operator")

	if !strings.Contains(params.Notes, "Additional services: camping, shuttle") {
		t.Fatalf("expected services listed in notes, got %q", params.Notes)
	}
	if !strings.Contains(params.Notes, "Warning:") {
		t.Fatalf("expected warning to follow services, got %q", params.Notes)
	}
}
