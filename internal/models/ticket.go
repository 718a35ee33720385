package models

import (
	"time"
)

// Ticket statuses. Resolved and Closed are the "done" states: a ticket
// carries a closed_at timestamp exactly while it is in one of them.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

func StatusDone(s string) bool { return s == StatusResolved || s == StatusClosed }

// Ticket priorities, lowest to highest.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string `gorm:"size:200" json:"description"`
	Icon        string `gorm:"size:50" json:"icon"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

type Ticket struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Number      string `gorm:"uniqueIndex;size:32;not null" json:"number"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Status      string `gorm:"size:50;default:Open" json:"status"`
	Priority    string `gorm:"size:20;default:normal" json:"priority"`

	ClientID   uint  `gorm:"index;not null" json:"client_id"`
	FixerID    *uint `gorm:"index" json:"fixer_id"`
	CategoryID *uint `json:"category_id"`

	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    float64    `gorm:"default:0" json:"actual_hours"`
	ClosedAt       *time.Time `json:"closed_at"`
}

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TicketID   uint   `gorm:"index;not null" json:"ticket_id"`
	UserID     uint   `gorm:"not null" json:"user_id"`
	Content    string `gorm:"type:text;not null" json:"content"`
	IsInternal bool   `gorm:"default:false" json:"is_internal"`
}

// TicketNote is staff-only annotation, never shown to clients.
type TicketNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TicketID uint   `gorm:"index;not null" json:"ticket_id"`
	UserID   uint   `gorm:"not null" json:"user_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

type TimeLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	TicketID    uint   `gorm:"index;not null" json:"ticket_id"`
	UserID      uint   `gorm:"not null" json:"user_id"`
	Hours       int    `gorm:"default:0" json:"hours"`
	Minutes     int    `gorm:"default:0" json:"minutes"`
	Description string `gorm:"type:text" json:"description"`
}

// EffectiveHours folds the minutes field into decimal hours.
func (t TimeLog) EffectiveHours() float64 {
	return float64(t.Hours) + float64(t.Minutes)/60
}
