// Package notification sends operator notifications in response to domain
// events. The import pipeline publishes events and never talks to email
// providers directly.
package notification

import (
	"context"
	"time"

	"eventcrm_backend/internal/email"
	"eventcrm_backend/internal/events"
	"eventcrm_backend/platform/config"
	"eventcrm_backend/platform/logger"
)

// Module subscribes to lead import events and mails the import summary.
type Module struct {
	sender email.Sender
	cfg    config.EmailConfig
	log    *logger.Logger
}

// NewModule creates the notification module. When email delivery is disabled
// in the configuration, a no-op sender is used and events are only logged.
func NewModule(cfg config.EmailConfig, log *logger.Logger) *Module {
	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)
	}
	return &Module{sender: sender, cfg: cfg, log: log}
}

// Register subscribes the module to the events it handles.
func (m *Module) Register(bus events.Bus) {
	bus.Subscribe(events.WebsiteLeadsImported{}.EventName(), m)
}

// Handle dispatches one domain event.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.WebsiteLeadsImported:
		return m.handleLeadsImported(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleLeadsImported(ctx context.Context, e events.WebsiteLeadsImported) error {
	if e.TotalImported == 0 && e.FailedImports == 0 {
		return nil
	}

	recipient := m.cfg.GetImportSummaryRecipient()
	if recipient == "" {
		return nil
	}

	err := m.sender.SendImportSummary(ctx, recipient, email.ImportSummaryData{
		ImportedBy:     e.ImportedBy,
		TotalImported:  e.TotalImported,
		TotalProcessed: e.TotalProcessed,
		SingleLeads:    e.SingleLeads,
		MultiGroups:    e.MultiGroups,
		FailedImports:  e.FailedImports,
		RunDate:        time.Now().Format("2006-01-02 15:04"),
	})
	if err != nil {
		m.log.Error("failed to send import summary email", "recipient", recipient, "error", err)
		return err
	}
	m.log.Info("import summary email sent", "recipient", recipient, "imported", e.TotalImported)
	return nil
}

var _ events.Handler = (*Module)(nil)
