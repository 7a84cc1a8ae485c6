package models

import (
	"time"

	"gorm.io/gorm"
)

// Communication media a user can choose from.
const (
	MediumPhone = "phone"
	MediumEmail = "email"
)

type User struct {
	ID                  string `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Name                string `gorm:"size:70;not null" json:"name" validate:"required,max=70"`
	Phone               string `gorm:"size:15;not null" json:"phone" validate:"required,max=15"`
	Email               string `gorm:"size:60;uniqueIndex;not null" json:"email" validate:"required,max=60"`
	CommunicationMedium string `gorm:"size:10;not null" json:"communicationMedium" validate:"required,oneof=phone email"`
	ImageURL            string `gorm:"not null" json:"imageUrl" validate:"required"`

	// Empty for users created outside of signup; such users cannot log in.
	PasswordHash string `json:"-"`

	Version   int       `gorm:"not null" json:"__v"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (u *User) RecordID() string { return u.ID }

type SignupRequest struct {
	User
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
