package ticket

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"fixdesk/internal/auth"
	"fixdesk/internal/models"
	"fixdesk/internal/repo"
)

// recorder captures notifications so tests can assert on what the
// workflow emitted.
type recorder struct {
	created       []string // client emails
	statusChanges []string // "<email>:<status>"
	messages      []string // "<author>:<email>"
	leads         int
}

func (r *recorder) TicketCreated(_ context.Context, _ *models.Ticket, clientEmail string) {
	r.created = append(r.created, clientEmail)
}
func (r *recorder) TicketStatusChanged(_ context.Context, _ *models.Ticket, clientEmail, newStatus string) {
	r.statusChanges = append(r.statusChanges, clientEmail+":"+newStatus)
}
func (r *recorder) MessagePosted(_ context.Context, _ *models.Ticket, _ *models.Message, authorName, clientEmail string) {
	r.messages = append(r.messages, authorName+":"+clientEmail)
}
func (r *recorder) LeadSubmitted(_ context.Context, _ *models.Lead) { r.leads++ }

type fixture struct {
	svc    *Service
	rec    *recorder
	db     *gorm.DB
	store  *repo.TicketStore
	client *models.User
	fixer  *models.User
	fixer2 *models.User
	admin  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Ticket{}, &models.Message{},
		&models.TicketNote{}, &models.TimeLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	mk := func(email string, role models.Role) *models.User {
		u := &models.User{Email: email, Name: strings.Split(email, "@")[0], Role: role, IsActive: true}
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed %s: %v", email, err)
		}
		return u
	}
	rec := &recorder{}
	store := repo.NewTicketStore(db)
	return &fixture{
		svc:    NewService(store, repo.NewUserStore(db), rec),
		rec:    rec,
		db:     db,
		store:  store,
		client: mk("client@example.com", models.RoleClient),
		fixer:  mk("fixer@example.com", models.RoleFixer),
		fixer2: mk("fixer2@example.com", models.RoleFixer),
		admin:  mk("admin@example.com", models.RoleAdmin),
	}
}

func (f *fixture) openTicket(t *testing.T) *models.Ticket {
	t.Helper()
	tk, err := f.svc.Create(context.Background(), f.client, CreateInput{
		Title:       "VPN broken",
		Description: "Cannot reach the office network.",
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return tk
}

func TestCreateTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tk := f.openTicket(t)
	if !strings.HasPrefix(tk.Number, "TKT-") {
		t.Fatalf("ticket number = %q, want TKT- prefix", tk.Number)
	}
	if tk.Status != models.StatusOpen {
		t.Fatalf("status = %q, want Open", tk.Status)
	}
	if tk.Priority != models.PriorityNormal {
		t.Fatalf("priority = %q, want normal default", tk.Priority)
	}
	if len(f.rec.created) != 1 || f.rec.created[0] != "client@example.com" {
		t.Fatalf("created notifications = %v, want one to the client", f.rec.created)
	}

	if _, err := f.svc.Create(ctx, f.client, CreateInput{Title: "  ", Description: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank title err = %v, want ErrValidation", err)
	}
	if _, err := f.svc.Create(ctx, f.client, CreateInput{Title: "x", Description: "y", Priority: "asap"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bogus priority err = %v, want ErrValidation", err)
	}
}

func TestClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.openTicket(t)

	got, err := f.svc.Claim(ctx, f.fixer, tk.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got.FixerID == nil || *got.FixerID != f.fixer.ID {
		t.Fatalf("fixer_id = %v, want %d", got.FixerID, f.fixer.ID)
	}

	if _, err := f.svc.Claim(ctx, f.fixer2, tk.ID); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second claim err = %v, want ErrAlreadyClaimed", err)
	}
	if _, err := f.svc.Claim(ctx, f.client, tk.ID); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("client claim err = %v, want ErrForbidden", err)
	}
}

func TestUpdateStatusClosedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.openTicket(t)

	got, err := f.svc.UpdateStatus(ctx, f.fixer, tk.ID, models.StatusResolved)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ClosedAt == nil {
		t.Fatalf("closed_at not set on resolve")
	}
	if len(f.rec.statusChanges) != 1 || f.rec.statusChanges[0] != "client@example.com:Resolved" {
		t.Fatalf("status notifications = %v", f.rec.statusChanges)
	}

	// same status again: no extra notification
	if _, err := f.svc.UpdateStatus(ctx, f.fixer, tk.ID, models.StatusResolved); err != nil {
		t.Fatalf("re-resolve: %v", err)
	}
	if len(f.rec.statusChanges) != 1 {
		t.Fatalf("unchanged status still notified: %v", f.rec.statusChanges)
	}

	got, err = f.svc.UpdateStatus(ctx, f.fixer, tk.ID, models.StatusOpen)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got.ClosedAt != nil {
		t.Fatalf("closed_at not cleared on reopen")
	}

	if _, err := f.svc.UpdateStatus(ctx, f.fixer, tk.ID, "Escalated"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status err = %v, want ErrValidation", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.client, tk.ID, models.StatusClosed); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("client status change err = %v, want ErrForbidden", err)
	}
}

func TestFixerBlockedFromForeignClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.openTicket(t)

	if _, err := f.svc.Claim(ctx, f.fixer, tk.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.fixer2, tk.ID, models.StatusInProgress); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("foreign fixer status change err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.AddMessage(ctx, f.fixer2, tk.ID, "hello", false); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("foreign fixer message err = %v, want ErrForbidden", err)
	}
	// admin still gets through
	if _, err := f.svc.UpdateStatus(ctx, f.admin, tk.ID, models.StatusInProgress); err != nil {
		t.Fatalf("admin status change: %v", err)
	}
}

func TestClientMessagesNeverInternal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.openTicket(t)

	m, err := f.svc.AddMessage(ctx, f.client, tk.ID, "please hurry", true)
	if err != nil {
		t.Fatalf("client message: %v", err)
	}
	if m.IsInternal {
		t.Fatalf("client message stored as internal")
	}
	if len(f.rec.messages) != 0 {
		t.Fatalf("client message notified the client: %v", f.rec.messages)
	}

	if _, err := f.svc.AddMessage(ctx, f.fixer, tk.ID, "working on it", false); err != nil {
		t.Fatalf("staff reply: %v", err)
	}
	if len(f.rec.messages) != 1 || f.rec.messages[0] != "fixer:client@example.com" {
		t.Fatalf("message notifications = %v", f.rec.messages)
	}

	// internal staff note-style message stays silent
	if _, err := f.svc.AddMessage(ctx, f.fixer, tk.ID, "looks like dns", true); err != nil {
		t.Fatalf("internal message: %v", err)
	}
	if len(f.rec.messages) != 1 {
		t.Fatalf("internal message notified the client: %v", f.rec.messages)
	}
}

func TestNotesStaffOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.openTicket(t)

	if _, err := f.svc.AddNote(ctx, f.client, tk.ID, "note"); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("client note err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.AddNote(ctx, f.fixer, tk.ID, "check the switch"); err != nil {
		t.Fatalf("fixer note: %v", err)
	}
}

func TestLogTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.openTicket(t)

	if _, err := f.svc.LogTime(ctx, f.fixer, tk.ID, 1, 30, "diagnosis"); err != nil {
		t.Fatalf("log 1h30: %v", err)
	}
	if _, err := f.svc.LogTime(ctx, f.fixer, tk.ID, 0, 45, "fix"); err != nil {
		t.Fatalf("log 0h45: %v", err)
	}
	got, err := f.store.GetByID(ctx, tk.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ActualHours != 2.25 {
		t.Fatalf("actual_hours = %v, want 2.25", got.ActualHours)
	}

	bad := []struct {
		h, m int
	}{{0, 0}, {-1, 10}, {1, 60}, {1, -5}}
	for _, b := range bad {
		if _, err := f.svc.LogTime(ctx, f.fixer, tk.ID, b.h, b.m, ""); !errors.Is(err, ErrValidation) {
			t.Errorf("LogTime(%d,%d) err = %v, want ErrValidation", b.h, b.m, err)
		}
	}
	if _, err := f.svc.LogTime(ctx, f.client, tk.ID, 1, 0, ""); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("client time log err = %v, want ErrForbidden", err)
	}
}

func TestDeleteTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.openTicket(t)

	if err := f.svc.Delete(ctx, f.fixer, tk.ID); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("fixer delete err = %v, want ErrForbidden", err)
	}
	if err := f.svc.Delete(ctx, f.admin, tk.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := f.store.GetByID(ctx, tk.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("ticket survived delete, err = %v", err)
	}
}
