package ticket

import (
	"context"
	"errors"
	"strings"
	"time"

	"fixdesk/internal/auth"
	"fixdesk/internal/models"
	"fixdesk/internal/repo"
)

var (
	ErrAlreadyClaimed = errors.New("ticket is already claimed")
	ErrValidation     = errors.New("invalid input")
)

// Service is the single canonical ticket workflow. Every mutation
// checks role and ticket access first and rejects outright on failure;
// there is no partial apply.
type Service struct {
	tickets  *repo.TicketStore
	users    *repo.UserStore
	notifier Notifier
}

func NewService(tickets *repo.TicketStore, users *repo.UserStore, n Notifier) *Service {
	if n == nil {
		n = NopNotifier{}
	}
	return &Service{tickets: tickets, users: users, notifier: n}
}

type CreateInput struct {
	Title       string
	Description string
	CategoryID  *uint
	Priority    string
}

// Create opens a new ticket for the actor as client and schedules the
// "ticket created" notification.
func (s *Service) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Ticket, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, ErrValidation
	}
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}
	if !models.ValidPriority(in.Priority) {
		return nil, ErrValidation
	}
	t := &models.Ticket{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.StatusOpen,
		Priority:    in.Priority,
		ClientID:    actor.ID,
		CategoryID:  in.CategoryID,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}
	s.notifier.TicketCreated(ctx, t, actor.Email)
	return t, nil
}

// Claim assigns the ticket to the acting fixer. Only unclaimed tickets
// can be claimed.
func (s *Service) Claim(ctx context.Context, actor *models.User, ticketID uint) (*models.Ticket, error) {
	if err := auth.RequireRole(actor, models.RoleFixer, models.RoleAdmin); err != nil {
		return nil, err
	}
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.FixerID != nil {
		return nil, ErrAlreadyClaimed
	}
	id := actor.ID
	t.FixerID = &id
	if err := s.tickets.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatus moves the ticket to a new status, maintaining closed_at:
// set when entering a done status, cleared when leaving one. The client
// is notified only when the status actually changed.
func (s *Service) UpdateStatus(ctx context.Context, actor *models.User, ticketID uint, newStatus string) (*models.Ticket, error) {
	if err := auth.RequireRole(actor, models.RoleFixer, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !models.ValidStatus(newStatus) {
		return nil, ErrValidation
	}
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireAccess(actor, t); err != nil {
		return nil, err
	}
	old := t.Status
	t.Status = newStatus
	if models.StatusDone(newStatus) {
		if t.ClosedAt == nil {
			now := time.Now().UTC()
			t.ClosedAt = &now
		}
	} else if t.ClosedAt != nil {
		t.ClosedAt = nil
	}
	if err := s.tickets.Save(ctx, t); err != nil {
		return nil, err
	}
	if old != newStatus {
		if email, err := s.clientEmail(ctx, t); err == nil {
			s.notifier.TicketStatusChanged(ctx, t, email, newStatus)
		}
	}
	return t, nil
}

// AddMessage appends to the ticket conversation. Clients can never
// produce internal messages, whatever they submit; a client-visible
// staff reply notifies the client.
func (s *Service) AddMessage(ctx context.Context, actor *models.User, ticketID uint, content string, internal bool) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrValidation
	}
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireAccess(actor, t); err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() {
		internal = false
	}
	m := &models.Message{
		TicketID:   t.ID,
		UserID:     actor.ID,
		Content:    content,
		IsInternal: internal,
	}
	if err := s.tickets.AddMessage(ctx, m); err != nil {
		return nil, err
	}
	if actor.Role.IsStaff() && !internal {
		if email, err := s.clientEmail(ctx, t); err == nil {
			s.notifier.MessagePosted(ctx, t, m, actor.Name, email)
		}
	}
	return m, nil
}

// AddNote records a staff-only annotation. Goes through the same
// access gate as messages; internal notes never notify the client.
func (s *Service) AddNote(ctx context.Context, actor *models.User, ticketID uint, content string) (*models.TicketNote, error) {
	if err := auth.RequireRole(actor, models.RoleFixer, models.RoleAdmin); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrValidation
	}
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireAccess(actor, t); err != nil {
		return nil, err
	}
	n := &models.TicketNote{TicketID: t.ID, UserID: actor.ID, Content: content}
	if err := s.tickets.AddNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// LogTime appends a time entry and lets the store recompute the
// ticket's actual hours from scratch.
func (s *Service) LogTime(ctx context.Context, actor *models.User, ticketID uint, hours, minutes int, description string) (*models.TimeLog, error) {
	if err := auth.RequireRole(actor, models.RoleFixer, models.RoleAdmin); err != nil {
		return nil, err
	}
	if hours < 0 || minutes < 0 || minutes > 59 || (hours == 0 && minutes == 0) {
		return nil, ErrValidation
	}
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireAccess(actor, t); err != nil {
		return nil, err
	}
	entry := &models.TimeLog{
		TicketID:    t.ID,
		UserID:      actor.ID,
		Hours:       hours,
		Minutes:     minutes,
		Description: strings.TrimSpace(description),
	}
	if err := s.tickets.AddTimeLog(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the ticket with all messages, notes and time logs.
// Admin only.
func (s *Service) Delete(ctx context.Context, actor *models.User, ticketID uint) error {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	return s.tickets.DeleteCascade(ctx, ticketID)
}

func (s *Service) clientEmail(ctx context.Context, t *models.Ticket) (string, error) {
	client, err := s.users.GetByID(ctx, t.ClientID)
	if err != nil {
		return "", err
	}
	return client.Email, nil
}
