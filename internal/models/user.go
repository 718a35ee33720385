package models

import (
	"time"
)

// Role is the closed set of account roles. Stored as a plain string
// column; parse on the way in, never compare raw form values.
type Role string

const (
	RoleClient Role = "client"
	RoleFixer  Role = "fixer"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a stored/submitted value onto the closed enum.
// Unknown values degrade to client, the least privileged role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleFixer:
		return RoleFixer
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleClient
	}
}

func (r Role) IsStaff() bool { return r == RoleFixer || r == RoleAdmin }

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email     string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Company   string     `gorm:"size:100" json:"company"`
	Role      Role       `gorm:"size:20;default:client" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
}

// LoginToken is a single-use magic-link credential. A token that is
// used or past expiry is never accepted again.
type LoginToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;size:100;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
}
