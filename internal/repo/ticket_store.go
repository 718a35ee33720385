package repo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"fixdesk/internal/models"
)

type TicketStore struct{ db *gorm.DB }

func NewTicketStore(db *gorm.DB) *TicketStore { return &TicketStore{db: db} }

// Create inserts the ticket with a freshly generated number, retrying
// on the (unlikely) unique collision.
func (s *TicketStore) Create(ctx context.Context, t *models.Ticket) error {
	for attempt := 0; attempt < 3; attempt++ {
		num, err := generateTicketNumber()
		if err != nil {
			return err
		}
		t.Number = num
		err = s.db.WithContext(ctx).Create(t).Error
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return fmt.Errorf("ticket number collision persisted after retries")
}

func (s *TicketStore) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var t models.Ticket
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (s *TicketStore) ListForClient(ctx context.Context, clientID uint) ([]models.Ticket, error) {
	var out []models.Ticket
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("updated_at desc").Find(&out).Error
	return out, err
}

func (s *TicketStore) ListForFixer(ctx context.Context, fixerID uint) ([]models.Ticket, error) {
	var out []models.Ticket
	err := s.db.WithContext(ctx).
		Where("fixer_id = ?", fixerID).
		Order("updated_at desc").Find(&out).Error
	return out, err
}

// ListAvailable returns tickets a fixer can pick up or already owns.
func (s *TicketStore) ListAvailable(ctx context.Context, fixerID uint) ([]models.Ticket, error) {
	var out []models.Ticket
	err := s.db.WithContext(ctx).
		Where("fixer_id IS NULL OR fixer_id = ?", fixerID).
		Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *TicketStore) ListAll(ctx context.Context, status string) ([]models.Ticket, error) {
	var out []models.Ticket
	q := s.db.WithContext(ctx).Order("updated_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&out).Error
	return out, err
}

func (s *TicketStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Select("status, count(*) as n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// Messages lists a ticket's conversation. With visibleOnly set,
// internal messages are filtered out (the client view).
func (s *TicketStore) Messages(ctx context.Context, ticketID uint, visibleOnly bool) ([]models.Message, error) {
	var out []models.Message
	q := s.db.WithContext(ctx).Where("ticket_id = ?", ticketID)
	if visibleOnly {
		q = q.Where("is_internal = ?", false)
	}
	err := q.Order("created_at asc").Find(&out).Error
	return out, err
}

func (s *TicketStore) Notes(ctx context.Context, ticketID uint) ([]models.TicketNote, error) {
	var out []models.TicketNote
	err := s.db.WithContext(ctx).Where("ticket_id = ?", ticketID).
		Order("created_at asc").Find(&out).Error
	return out, err
}

func (s *TicketStore) TimeLogs(ctx context.Context, ticketID uint) ([]models.TimeLog, error) {
	var out []models.TimeLog
	err := s.db.WithContext(ctx).Where("ticket_id = ?", ticketID).
		Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *TicketStore) Save(ctx context.Context, t *models.Ticket) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *TicketStore) AddMessage(ctx context.Context, m *models.Message) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *TicketStore) AddNote(ctx context.Context, n *models.TicketNote) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// AddTimeLog inserts the entry and recomputes the ticket's actual
// hours from all of its rows, in one transaction. Full recompute, not
// an incremental add, so the stored sum cannot drift.
func (s *TicketStore) AddTimeLog(ctx context.Context, entry *models.TimeLog) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		var logs []models.TimeLog
		if err := tx.Where("ticket_id = ?", entry.TicketID).Find(&logs).Error; err != nil {
			return err
		}
		var total float64
		for _, l := range logs {
			total += l.EffectiveHours()
		}
		return tx.Model(&models.Ticket{}).
			Where("id = ?", entry.TicketID).
			Update("actual_hours", total).Error
	})
}

// DeleteCascade removes the ticket and all dependent rows.
func (s *TicketStore) DeleteCascade(ctx context.Context, ticketID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.TimeLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.TicketNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Ticket{}, ticketID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Ticket numbers look like TKT-20260828-4F09A1C3.
func generateTicketNumber() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	date := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("TKT-%s-%s", date, strings.ToUpper(hex.EncodeToString(buf))), nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
