package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization owns polls and has memberships.
type Organization struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Title       string    `gorm:"size:70;not null" json:"title" validate:"required,max=70"`
	Description string    `gorm:"size:150;not null" json:"description" validate:"required,max=150"`
	ImageURL    string    `gorm:"not null" json:"imageUrl" validate:"required"`
	Version     int       `gorm:"not null" json:"__v"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// RecordID returns the primary key.
func (o *Organization) RecordID() string { return o.ID }
