package models

import (
	"time"

	"gorm.io/gorm"
)

// Vote is one user's choice on a poll. The (poll, user) pair is unique.
type Vote struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	PollID         string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_poll_user" json:"poll" validate:"required"`
	UserID         string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_poll_user" json:"user" validate:"required"`
	OptionSelected string    `gorm:"not null" json:"optionSelected" validate:"required"`
	Version        int       `gorm:"not null" json:"__v"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	assignID(&v.ID)
	return nil
}

func (v *Vote) RecordID() string { return v.ID }

// OptionCount is one row of a tally: how many votes picked Option.
type OptionCount struct {
	Option string `gorm:"column:option_selected" json:"option"`
	Count  int64  `gorm:"column:total" json:"count"`
}

// Tally summarizes every vote cast on a poll.
type Tally struct {
	Total       int64         `json:"total"`
	VoteOptions []OptionCount `json:"voteOptions"`
}
