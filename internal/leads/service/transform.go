package service

import (
	"fmt"
	"strconv"
	"strings"

	"eventcrm_backend/internal/leads/repository"
	mappingservice "eventcrm_backend/internal/mapping/service"
	"eventcrm_backend/internal/websiteapi"
	"eventcrm_backend/platform/phone"
)

const (
	defaultTripType = "generic"
	defaultPersons  = 1
	defaultCurrency = "₹"
	defaultStatus   = "unassigned"
	defaultStage    = "new"

	groupIDPrefix = "website_group_"
)

// leadSourceByReferral maps normalized website referral codes to CRM lead
// sources. Unknown codes fall back to "website".
var leadSourceByReferral = map[string]string{
	"facebook":  "facebook",
	"instagram": "instagram",
	"email":     "email",
	"other":     "other",
	"google":    "google",
	"whatsapp":  "whatsapp",
}

// buildLeadParams converts one website lead into CRM insert parameters.
// When the event matched a catalog record the catalog name replaces the
// website event name; otherwise a warning is recorded in the notes so the
// operator can fix the mapping later.
func buildLeadParams(lead websiteapi.Lead, match mappingservice.Match, importedBy string) repository.InsertLeadParams {
	params := repository.InsertLeadParams{
		WebsiteLeadID: lead.ID,
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         phone.NormalizeE164(lead.PhoneNumber),
		Tours:         lead.Tours,
		TripDate:      lead.TripDate,
		LeadSource:    leadSource(lead.ReferralCode),
		TripType:      defaultTripType,
		Persons:       defaultPersons,
		Currency:      defaultCurrency,
		City:          lead.Location,
		Status:        defaultStatus,
		Stage:         defaultStage,
		ImportedBy:    importedBy,
	}

	if lead.TripType != "" {
		params.TripType = lead.TripType
	}
	if lead.Persons > 0 {
		params.Persons = lead.Persons
	}
	if lead.Currency != "" {
		params.Currency = lead.Currency
	}
	if lead.Price > 0 {
		params.Budget = strconv.FormatFloat(lead.Price, 'f', -1, 64)
	}
	if lead.GroupID != "" {
		groupID := groupIDPrefix + lead.GroupID
		params.GroupID = &groupID
	}

	var notes []string
	if len(lead.AdditionalServices) > 0 {
		notes = append(notes, "Additional services: "+strings.Join(lead.AdditionalServices, ", "))
	}
	if match.Inventory != nil {
		params.Tours = match.Inventory.EventName
		params.InventoryID = &match.Inventory.ID
	} else {
		notes = append(notes, fmt.Sprintf("Warning: no matching catalog inventory found for event %q", lead.Tours))
	}
	params.Notes = strings.Join(notes, "\n")

	return params
}

func leadSource(referralCode string) string {
	if source, ok := leadSourceByReferral[referralCode]; ok {
		return source
	}
	return "website"
}
