package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserProfile holds the optional public details of a user. Every user has exactly one.
type UserProfile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	ProfileImage string    `gorm:"type:varchar(255)" json:"profile_image,omitempty"`
	FirstName    string    `gorm:"type:varchar(100)" json:"first_name" validate:"max=100"`
	LastName     string    `gorm:"type:varchar(100)" json:"last_name" validate:"max=100"`
	Bio          string    `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *UserProfile) Validate() error {
	return validate.Struct(p)
}

// FullName joins first and last name, skipping empty parts.
func (p *UserProfile) FullName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// GetOrCreateUserProfile returns the profile of userID, creating an empty one if missing.
// A concurrent creator winning the unique index is not an error; its row is returned.
func GetOrCreateUserProfile(db *gorm.DB, userID uint) (*UserProfile, error) {
	var p UserProfile
	err := db.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = UserProfile{UserID: userID}
	if err := db.Create(&p).Error; err != nil {
		if !IsDuplicateKey(err) {
			return nil, err
		}
		if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
			return nil, err
		}
	}
	return &p, nil
}
