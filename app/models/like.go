package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Like is one entry of a listing's liked-by set.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_listing" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_like_user_listing;index" json:"listing_id"`
	Listing   Listing   `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ToggleLike adds or removes the like of userID on listingID and reports whether it is liked afterwards.
func ToggleLike(db *gorm.DB, userID, listingID uint) (bool, error) {
	var like Like
	result := db.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&like)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			err := db.Create(&Like{UserID: userID, ListingID: listingID}).Error
			if IsDuplicateKey(err) {
				// a parallel request liked it first
				return true, nil
			}
			return err == nil, err
		}
		return false, result.Error
	}

	return false, db.Delete(&like).Error
}

// IsLikedBy reports whether userID is in the liked-by set of listingID.
func IsLikedBy(db *gorm.DB, userID, listingID uint) (bool, error) {
	var count int64
	err := db.Model(&Like{}).Where("user_id = ? AND listing_id = ?", userID, listingID).Count(&count).Error
	return count > 0, err
}
