package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const subjectImportSummaryFmt = "Website lead import: %d leads imported"

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

var _ Sender = (*SMTPSender)(nil)

// SendImportSummary mails the outcome of one import run to the operator inbox.
func (s *SMTPSender) SendImportSummary(ctx context.Context, toEmail string, data ImportSummaryData) error {
	content, err := renderEmailTemplate("import_summary.html", importSummaryEmailData{
		baseEmailData: baseEmailData{
			Title:   "Website lead import summary",
			Heading: "Website lead import summary",
		},
		ImportedBy:     data.ImportedBy,
		TotalImported:  data.TotalImported,
		TotalProcessed: data.TotalProcessed,
		SingleLeads:    data.SingleLeads,
		MultiGroups:    data.MultiGroups,
		FailedImports:  data.FailedImports,
		RunDate:        data.RunDate,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf(subjectImportSummaryFmt, data.TotalImported)
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
