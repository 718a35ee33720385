package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"fixdesk/internal/models"
)

var numberRe = regexp.MustCompile(`^TKT-\d{8}-[0-9A-F]{8}$`)

func seedTicket(t *testing.T, s *TicketStore, clientID uint) *models.Ticket {
	t.Helper()
	tk := &models.Ticket{
		Title:       "Printer down",
		Description: "It beeps and blinks.",
		Status:      models.StatusOpen,
		Priority:    models.PriorityNormal,
		ClientID:    clientID,
	}
	if err := s.Create(context.Background(), tk); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return tk
}

func TestTicketNumberFormat(t *testing.T) {
	db := testDB(t)
	s := NewTicketStore(db)
	u := seedUser(t, db, "client@example.com", models.RoleClient)

	tk := seedTicket(t, s, u.ID)
	if !numberRe.MatchString(tk.Number) {
		t.Fatalf("ticket number %q does not match TKT-YYYYMMDD-XXXXXXXX", tk.Number)
	}
}

func TestMessagesVisibility(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewTicketStore(db)
	u := seedUser(t, db, "client@example.com", models.RoleClient)
	tk := seedTicket(t, s, u.ID)

	public := &models.Message{TicketID: tk.ID, UserID: u.ID, Content: "hello"}
	hidden := &models.Message{TicketID: tk.ID, UserID: u.ID, Content: "secret", IsInternal: true}
	if err := s.AddMessage(ctx, public); err != nil {
		t.Fatalf("add message: %v", err)
	}
	if err := s.AddMessage(ctx, hidden); err != nil {
		t.Fatalf("add message: %v", err)
	}

	all, err := s.Messages(ctx, tk.ID, false)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("staff view has %d messages, want 2", len(all))
	}

	visible, err := s.Messages(ctx, tk.ID, true)
	if err != nil {
		t.Fatalf("Messages visibleOnly: %v", err)
	}
	if len(visible) != 1 || visible[0].Content != "hello" {
		t.Fatalf("client view = %+v, want only the public message", visible)
	}
}

func TestAddTimeLogRecomputesTotal(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewTicketStore(db)
	u := seedUser(t, db, "fixer@example.com", models.RoleFixer)
	tk := seedTicket(t, s, u.ID)

	entries := []models.TimeLog{
		{TicketID: tk.ID, UserID: u.ID, Hours: 1, Minutes: 30},
		{TicketID: tk.ID, UserID: u.ID, Hours: 0, Minutes: 45},
	}
	for i := range entries {
		if err := s.AddTimeLog(ctx, &entries[i]); err != nil {
			t.Fatalf("AddTimeLog: %v", err)
		}
	}

	got, err := s.GetByID(ctx, tk.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ActualHours != 2.25 {
		t.Fatalf("actual_hours = %v, want 2.25", got.ActualHours)
	}
}

func TestDeleteCascade(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewTicketStore(db)
	u := seedUser(t, db, "client@example.com", models.RoleClient)
	tk := seedTicket(t, s, u.ID)

	if err := s.AddMessage(ctx, &models.Message{TicketID: tk.ID, UserID: u.ID, Content: "hi"}); err != nil {
		t.Fatalf("add message: %v", err)
	}
	if err := s.AddNote(ctx, &models.TicketNote{TicketID: tk.ID, UserID: u.ID, Content: "note"}); err != nil {
		t.Fatalf("add note: %v", err)
	}
	if err := s.AddTimeLog(ctx, &models.TimeLog{TicketID: tk.ID, UserID: u.ID, Hours: 1}); err != nil {
		t.Fatalf("add time log: %v", err)
	}

	if err := s.DeleteCascade(ctx, tk.ID); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}
	if _, err := s.GetByID(ctx, tk.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ticket still present after delete, err = %v", err)
	}
	msgs, err := s.Messages(ctx, tk.ID, false)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("%d orphan messages left behind", len(msgs))
	}

	if err := s.DeleteCascade(ctx, tk.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteCascade err = %v, want ErrNotFound", err)
	}
}

func TestGetOrCreateByEmail(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserStore(db)

	u, err := users.GetOrCreateByEmail(ctx, "  Jane.Doe@Example.com ")
	if err != nil {
		t.Fatalf("GetOrCreateByEmail: %v", err)
	}
	if u.Email != "jane.doe@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", u.Email)
	}
	if u.Role != models.RoleClient {
		t.Fatalf("new account role = %q, want client", u.Role)
	}

	again, err := users.GetOrCreateByEmail(ctx, "jane.doe@example.com")
	if err != nil {
		t.Fatalf("second GetOrCreateByEmail: %v", err)
	}
	if again.ID != u.ID {
		t.Fatalf("second call created a new account (%d != %d)", again.ID, u.ID)
	}
}
