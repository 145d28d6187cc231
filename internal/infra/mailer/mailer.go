package mailer

import (
	"context"
	"log/slog"

	"storefront/internal/usecase/commands"

	"github.com/google/uuid"
)

var _ commands.Mailer = (*LogMailer)(nil)

// LogMailer writes confirmations to the structured log instead of an SMTP
// relay. The durable notification job carries the real delivery; this exists
// for local development and tests.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) SendOrderConfirmation(_ context.Context, orderID uuid.UUID, orderNumber, email string, totalCents int64) error {
	slog.Info("order confirmation sent",
		"order_id", orderID,
		"order_number", orderNumber,
		"email", email,
		"total_cents", totalCents,
	)
	return nil
}
