package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"fixdesk/config"
	"fixdesk/internal/auth"
	"fixdesk/internal/logs"
	"fixdesk/internal/mail"
	"fixdesk/internal/models"
	"fixdesk/internal/repo"
	"fixdesk/internal/ticket"
)

func testRouter(t *testing.T) (*mux.Router, *gorm.DB, *repo.TokenStore) {
	t.Helper()
	logs.Init(logs.Options{Level: "error"})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.LoginToken{}, &models.Category{},
		&models.Ticket{}, &models.Message{}, &models.TicketNote{}, &models.TimeLog{},
		&models.BlogPost{}, &models.KBArticle{}, &models.Lead{},
		&models.Testimonial{}, &models.SiteConfig{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Name = "FixDesk"
	cfg.App.URL = "http://localhost:8080"
	cfg.Auth.SecretKey = "test-secret"

	users := repo.NewUserStore(db)
	tokens := repo.NewTokenStore(db)
	tickets := repo.NewTicketStore(db)

	r := mux.NewRouter()
	Attach(r, Dependencies{
		CFG:     cfg,
		Users:   users,
		Tokens:  tokens,
		Tickets: tickets,
		Content: repo.NewContentStore(db),
		Svc:     ticket.NewService(tickets, users, nil),
		Mailer:  mail.New("", "support@localhost", cfg.App.Name, cfg.App.URL),
	})
	return r, db, tokens
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}

func TestVerifyValidLink(t *testing.T) {
	r, db, tokens := testRouter(t)

	u := &models.User{Email: "client@example.com", Name: "Client", Role: models.RoleClient, IsActive: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	raw, err := tokens.Issue(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/verify/"+raw, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("redirect to %q, want /dashboard", loc)
	}
	c := sessionCookie(rec.Result())
	if c == nil || c.Value == "" {
		t.Fatalf("no session cookie set on successful verify")
	}
	if !c.HttpOnly {
		t.Fatalf("session cookie is not HttpOnly")
	}

	// the cookie gets us into the portal
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(c)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard with session = %d, want 200", rec.Code)
	}
}

func TestVerifyExpiredLink(t *testing.T) {
	r, db, _ := testRouter(t)

	u := &models.User{Email: "client@example.com", Name: "Client", Role: models.RoleClient, IsActive: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	stale := models.LoginToken{UserID: u.ID, Token: "stale-token", ExpiresAt: time.Now().UTC().Add(-time.Hour)}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}

	for _, token := range []string{"stale-token", "never-issued"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/verify/"+token, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("%s: status = %d, want 303", token, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login?expired=1" {
			t.Fatalf("%s: redirect to %q, want /login?expired=1", token, loc)
		}
		if c := sessionCookie(rec.Result()); c != nil {
			t.Fatalf("%s: session cookie set on failed verify", token)
		}
	}
}

func TestVerifyTokenSingleUseOverHTTP(t *testing.T) {
	r, db, tokens := testRouter(t)

	u := &models.User{Email: "client@example.com", Name: "Client", Role: models.RoleClient, IsActive: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	raw, err := tokens.Issue(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/auth/verify/"+raw, nil))
	if first.Header().Get("Location") != "/dashboard" {
		t.Fatalf("first use did not log in")
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/auth/verify/"+raw, nil))
	if second.Header().Get("Location") != "/login?expired=1" {
		t.Fatalf("replayed link accepted, redirect = %q", second.Header().Get("Location"))
	}
	if c := sessionCookie(second.Result()); c != nil {
		t.Fatalf("replayed link set a session cookie")
	}
}

func TestLoginSubmitCreatesAccount(t *testing.T) {
	r, db, _ := testRouter(t)

	form := url.Values{"email": {"new.person@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var u models.User
	if err := db.Where("email = ?", "new.person@example.com").First(&u).Error; err != nil {
		t.Fatalf("account not created: %v", err)
	}
	if u.Role != models.RoleClient {
		t.Fatalf("new account role = %q, want client", u.Role)
	}
	var n int64
	if err := db.Model(&models.LoginToken{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if n != 1 {
		t.Fatalf("%d login tokens issued, want 1", n)
	}
}

func TestPortalRequiresLogin(t *testing.T) {
	r, _, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect to %q, want /login", loc)
	}
}
