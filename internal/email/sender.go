// Package email delivers transactional mail for the CRM, currently the
// import summary sent after a website lead import run.
package email

import "context"

// ImportSummaryData carries the figures shown in the import summary email.
type ImportSummaryData struct {
	ImportedBy     string
	TotalImported  int
	TotalProcessed int
	SingleLeads    int
	MultiGroups    int
	FailedImports  int
	RunDate        string
}

// Sender delivers CRM emails.
type Sender interface {
	SendImportSummary(ctx context.Context, toEmail string, data ImportSummaryData) error
}

// NoopSender is used when email delivery is not configured.
type NoopSender struct{}

func (NoopSender) SendImportSummary(ctx context.Context, toEmail string, data ImportSummaryData) error {
	return nil
}

var _ Sender = NoopSender{}
