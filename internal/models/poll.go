package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Poll struct {
	ID             string                      `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	OrganizationID string                      `gorm:"type:varchar(36);not null;index" json:"organization" validate:"required"`
	Title          string                      `gorm:"size:70;not null" json:"title" validate:"required,max=70"`
	Description    string                      `gorm:"size:200;not null" json:"description" validate:"required,max=200"`
	Options        datatypes.JSONSlice[string] `json:"options"`
	Version        int                         `gorm:"not null" json:"__v"`
	CreatedAt      time.Time                   `json:"-"`
	UpdatedAt      time.Time                   `json:"-"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	if p.Options == nil {
		p.Options = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (p *Poll) RecordID() string { return p.ID }
