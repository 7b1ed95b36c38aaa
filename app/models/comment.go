package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	Listing   Listing   `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty" validate:"-"`
	Text      string    `gorm:"type:text;not null" json:"text" validate:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (c *Comment) Validate() error {
	return validate.Struct(c)
}
