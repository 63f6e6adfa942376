package notify

import "context"

// Provider delivers the end-of-run error report to the administrators.
type Provider interface {
	SendAdminReport(ctx context.Context, subject, textBody, htmlBody string) error
}
