package repo

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"fixdesk/internal/models"
)

// testDB opens a throwaway in-memory database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.LoginToken{},
		&models.Category{},
		&models.Ticket{},
		&models.Message{},
		&models.TicketNote{},
		&models.TimeLog{},
		&models.BlogPost{},
		&models.KBArticle{},
		&models.Lead{},
		&models.Testimonial{},
		&models.SiteConfig{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: "Test User", Role: role, IsActive: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}
