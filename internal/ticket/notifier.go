package ticket

import (
	"context"

	"fixdesk/internal/models"
)

// Notifier receives workflow events. Implementations must treat
// delivery as best effort: the workflow never inspects the outcome,
// and a failed notification must not affect the mutation it follows.
type Notifier interface {
	TicketCreated(ctx context.Context, t *models.Ticket, clientEmail string)
	TicketStatusChanged(ctx context.Context, t *models.Ticket, clientEmail, newStatus string)
	MessagePosted(ctx context.Context, t *models.Ticket, m *models.Message, authorName, clientEmail string)
	LeadSubmitted(ctx context.Context, l *models.Lead)
}

// NopNotifier drops every event. Used in tests and when mail is not
// configured.
type NopNotifier struct{}

func (NopNotifier) TicketCreated(context.Context, *models.Ticket, string)                    {}
func (NopNotifier) TicketStatusChanged(context.Context, *models.Ticket, string, string)      {}
func (NopNotifier) MessagePosted(context.Context, *models.Ticket, *models.Message, string, string) {
}
func (NopNotifier) LeadSubmitted(context.Context, *models.Lead) {}
