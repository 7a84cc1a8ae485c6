package models

import (
	"time"

	"gorm.io/gorm"
)

// Membership links a user to an organization. The same pair may appear more than once.
type Membership struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	OrganizationID string    `gorm:"type:varchar(36);not null;index" json:"organization" validate:"required"`
	UserID         string    `gorm:"type:varchar(36);not null;index" json:"user" validate:"required"`
	Version        int       `gorm:"not null" json:"__v"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

func (m *Membership) RecordID() string { return m.ID }
