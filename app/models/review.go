package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a star rating with text. The composite unique index allows one review per user and listing.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_review_listing_user" json:"listing_id"`
	Listing   Listing   `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_listing_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty" validate:"-"`
	Rating    int       `gorm:"not null" json:"rating" validate:"required,min=1,max=5"`
	Text      string    `gorm:"type:text;not null" json:"text" validate:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Review) Validate() error {
	return validate.Struct(r)
}

// AverageRating returns the mean review rating of a listing, or nil when it has none.
func AverageRating(db *gorm.DB, listingID uint) (*float64, error) {
	var row struct {
		Avg   *float64
		Total int64
	}
	err := db.Model(&Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS total").
		Where("listing_id = ?", listingID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Total == 0 || row.Avg == nil {
		return nil, nil
	}
	return row.Avg, nil
}

// RefreshListingRating stores the current review mean on the listing row (0 without reviews).
func RefreshListingRating(db *gorm.DB, listingID uint) error {
	avg, err := AverageRating(db, listingID)
	if err != nil {
		return err
	}
	rating := 0.0
	if avg != nil {
		rating = *avg
	}
	return db.Model(&Listing{}).Where("id = ?", listingID).Update("rating", rating).Error
}
