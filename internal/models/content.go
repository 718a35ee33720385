package models

import (
	"time"
)

type BlogPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Excerpt     string     `gorm:"size:300" json:"excerpt"`
	ImageURL    string     `gorm:"size:500" json:"image_url"`
	IsPublished bool       `gorm:"default:false" json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
}

type KBArticle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Content     string `gorm:"type:text;not null" json:"content"`
	Category    string `gorm:"size:50" json:"category"`
	Views       int    `gorm:"default:0" json:"views"`
	IsPublished bool   `gorm:"default:false" json:"is_published"`
}

// Lead statuses follow the sales funnel loosely; "new" until an admin
// touches the record.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadConverted = "converted"
	LeadDropped   = "dropped"
)

type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:120;not null" json:"email"`
	Company string `gorm:"size:100" json:"company"`
	Phone   string `gorm:"size:20" json:"phone"`
	Message string `gorm:"type:text" json:"message"`
	Status  string `gorm:"size:20;default:new" json:"status"`
}

type Testimonial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Company     string `gorm:"size:100" json:"company"`
	Content     string `gorm:"type:text;not null" json:"content"`
	Rating      int    `json:"rating"`
	IsPublished bool   `gorm:"default:false" json:"is_published"`
}

// SiteConfig is a key/value bag for settings editable from the
// back-office (banner text, opening hours and the like).
type SiteConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time `json:"updated_at"`

	Key         string `gorm:"uniqueIndex;size:50;not null" json:"key"`
	Value       string `gorm:"type:text" json:"value"`
	Description string `gorm:"size:200" json:"description"`
}
