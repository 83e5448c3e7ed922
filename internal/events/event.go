// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"eventcrm_backend/platform/events"
	"eventcrm_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Import Domain Events
// =============================================================================

// WebsiteLeadsImported is published after a website lead import run completes,
// whether triggered by an operator or the scheduler.
type WebsiteLeadsImported struct {
	BaseEvent
	ImportedBy     string `json:"importedBy"`
	SingleLeads    int    `json:"singleLeads"`
	MultiGroups    int    `json:"multiGroups"`
	TotalImported  int    `json:"totalImported"`
	TotalProcessed int    `json:"totalProcessed"`
	FailedImports  int    `json:"failedImports"`
}

func (e WebsiteLeadsImported) EventName() string { return "leads.website.imported" }

// NewWebsiteLeadsImported creates the import completion event.
func NewWebsiteLeadsImported(importedBy string, singleLeads, multiGroups, totalImported, totalProcessed, failedImports int) WebsiteLeadsImported {
	return WebsiteLeadsImported{
		BaseEvent:      NewBaseEvent(),
		ImportedBy:     importedBy,
		SingleLeads:    singleLeads,
		MultiGroups:    multiGroups,
		TotalImported:  totalImported,
		TotalProcessed: totalProcessed,
		FailedImports:  failedImports,
	}
}

// EventMappingsSaved is published when an operator saves event name mappings
// from the import preview screen.
type EventMappingsSaved struct {
	BaseEvent
	SavedBy string `json:"savedBy"`
	Count   int    `json:"count"`
}

func (e EventMappingsSaved) EventName() string { return "leads.website.mappings_saved" }

// NewEventMappingsSaved creates the mappings saved event.
func NewEventMappingsSaved(savedBy string, count int) EventMappingsSaved {
	return EventMappingsSaved{
		BaseEvent: NewBaseEvent(),
		SavedBy:   savedBy,
		Count:     count,
	}
}
