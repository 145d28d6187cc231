package fake

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Mailer records confirmation sends for assertions.
type Mailer struct {
	mu    sync.Mutex
	sends []MailerSend
	// Err is returned from every send when set.
	Err error
}

type MailerSend struct {
	OrderID     uuid.UUID
	OrderNumber string
	Email       string
	TotalCents  int64
}

func NewMailer() *Mailer {
	return &Mailer{}
}

func (m *Mailer) SendOrderConfirmation(_ context.Context, orderID uuid.UUID, orderNumber, email string, totalCents int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sends = append(m.sends, MailerSend{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Email:       email,
		TotalCents:  totalCents,
	})
	return nil
}

func (m *Mailer) Sends() []MailerSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MailerSend(nil), m.sends...)
}
