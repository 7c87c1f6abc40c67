// Package notify delivers fleet reports to the cooperative's managers.
package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/pkg/clients/whatsapp"
)

// Notifier sends a rendered report.
type Notifier interface {
	SendReport(ctx context.Context, text string) error
}

// WhatsAppNotifier sends a report to every configured recipient.
type WhatsAppNotifier struct {
	sender     whatsapp.Sender
	recipients []string
	logger     *zap.Logger
}

// NewWhatsAppNotifier wires a notifier over the Cloud API client.
func NewWhatsAppNotifier(sender whatsapp.Sender, recipients []string, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{sender: sender, recipients: recipients, logger: logger}
}

// SendReport delivers text to each recipient. A failed recipient does not
// stop the others; all failures are joined in the returned error.
func (n *WhatsAppNotifier) SendReport(ctx context.Context, text string) error {
	deliveries, err := whatsapp.SendReport(ctx, n.sender, n.recipients, text)
	if err != nil {
		return err
	}

	var errs []error
	for _, d := range deliveries {
		if d.Err != nil {
			n.logger.Error("report delivery failed", zap.String("to", d.To), zap.Int("parts_sent", len(d.MessageIDs)), zap.Error(d.Err))
			errs = append(errs, fmt.Errorf("deliver report to %s: %w", d.To, d.Err))
			continue
		}
		n.logger.Info("report delivered", zap.String("to", d.To), zap.Strings("message_ids", d.MessageIDs))
	}
	return errors.Join(errs...)
}
