package websiteapi

import (
	"strings"
	"time"
)

// Lead is a normalized prospect record from the website leads API.
// Records are immutable once fetched; ID is unique within the upstream system.
// An empty GroupID means the lead is a standalone enquiry; leads sharing a
// GroupID belong to one customer's multi-event enquiry and must be imported
// together or not at all.
type Lead struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Tours              string     `json:"tours"`
	ReferralCode       string     `json:"referral_code"`
	PhoneNumber        string     `json:"phone_number"`
	Persons            int        `json:"persons"`
	Price              float64    `json:"price"`
	Currency           string     `json:"currency"`
	TripDate           *time.Time `json:"trip_date,omitempty"`
	TripType           string     `json:"trip_type"`
	Location           string     `json:"location"`
	AdditionalServices []string   `json:"additional_services"`
	GroupID            string     `json:"group_id,omitempty"`
}

// apiLead is the raw record shape returned by the website leads endpoint.
// Upstream JSON is normalized into the typed Lead at the fetch boundary
// rather than trusted throughout the pipeline.
type apiLead struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Tours              string   `json:"tours"`
	ReferralCode       string   `json:"referral_code"`
	PhoneNumber        string   `json:"phone_number"`
	Persons            int      `json:"persons"`
	Price              float64  `json:"price"`
	Currency           string   `json:"currency"`
	TripDate           string   `json:"trip_date"`
	TripType           string   `json:"trip_type"`
	Location           string   `json:"location"`
	AdditionalServices []string `json:"additional_services"`
	GroupID            string   `json:"group_id"`
}

func (a apiLead) toLead() Lead {
	lead := Lead{
		ID:                 a.ID,
		Name:               strings.TrimSpace(a.Name),
		Email:              strings.TrimSpace(a.Email),
		Tours:              strings.TrimSpace(a.Tours),
		ReferralCode:       strings.ToLower(strings.TrimSpace(a.ReferralCode)),
		PhoneNumber:        strings.TrimSpace(a.PhoneNumber),
		Persons:            a.Persons,
		Price:              a.Price,
		Currency:           a.Currency,
		TripType:           a.TripType,
		Location:           a.Location,
		AdditionalServices: a.AdditionalServices,
		GroupID:            strings.TrimSpace(a.GroupID),
	}

	if parsed, ok := parseTripDate(a.TripDate); ok {
		lead.TripDate = &parsed
	}

	return lead
}

func parseTripDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// loginResponse is the body returned by the upstream login endpoint.
type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// leadsEnvelope is the body returned by the upstream leads endpoint.
type leadsEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    struct {
		LeadsList []apiLead `json:"leadsList"`
	} `json:"data"`
}
