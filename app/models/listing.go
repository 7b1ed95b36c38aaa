package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrAuthorImmutable is returned when an update tries to reassign a listing.
var ErrAuthorImmutable = errors.New("listing author cannot be changed")

// MaxListingPrice is the first value that no longer fits into decimal(10,2).
const MaxListingPrice = 100000000

// Listing is a house offered on the site.
type Listing struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Price         float64        `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0,lt=100000000"`
	Image         string         `gorm:"type:varchar(255)" json:"image,omitempty"`
	Bedrooms      uint           `gorm:"not null;default:0" json:"bedrooms"`
	Beds          uint           `gorm:"not null;default:0" json:"beds"`
	Bathrooms     uint           `gorm:"not null;default:0" json:"bathrooms"`
	Location      string         `gorm:"type:varchar(255);not null;index" json:"location" validate:"required,max=255"`
	Description   string         `gorm:"type:text;not null" json:"description" validate:"required"`
	Rating        float64        `gorm:"not null;default:0" json:"rating"`
	ContactName   string         `gorm:"type:varchar(100)" json:"contact_name,omitempty" validate:"max=100"`
	ContactMobile string         `gorm:"type:varchar(10)" json:"contact_mobile,omitempty" validate:"max=10"`
	ContactEmail  string         `gorm:"type:varchar(254)" json:"contact_email,omitempty" validate:"omitempty,email,max=254"`
	AuthorID      uint           `gorm:"not null;index" json:"author_id" validate:"required"`
	Author        User           `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author" validate:"-"`
	Images        []ListingImage `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (l *Listing) Validate() error {
	return validate.Struct(l)
}

// BeforeUpdate rejects updates that would move the listing to another author.
// Save carries the whole row, so its author is compared with the stored one.
func (l *Listing) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("AuthorID") {
		return ErrAuthorImmutable
	}
	if l.ID == 0 || l.AuthorID == 0 {
		return nil
	}

	var stored []uint
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Listing{}).
		Where("id = ?", l.ID).
		Pluck("author_id", &stored).Error
	if err != nil {
		return err
	}
	if len(stored) == 1 && stored[0] != l.AuthorID {
		return ErrAuthorImmutable
	}
	return nil
}

// ListingImage is one gallery picture of a listing.
type ListingImage struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ListingID     uint       `gorm:"not null;index" json:"listing_id"`
	Image         string     `gorm:"type:varchar(255);not null" json:"image"`
	Thumbnail     string     `gorm:"type:varchar(255)" json:"thumbnail,omitempty"`
	WebPThumbnail string     `gorm:"column:webp_thumbnail;type:varchar(255)" json:"webp_thumbnail,omitempty"`
	Width         int        `json:"width,omitempty"`
	Height        int        `json:"height,omitempty"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	UploadedAt    time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
}

// Preview returns the smallest variant that exists.
func (i ListingImage) Preview() string {
	if i.Thumbnail != "" {
		return i.Thumbnail
	}
	return i.Image
}
