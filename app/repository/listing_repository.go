package repository

import (
	"strings"

	"github.com/ManuelReschke/HouseHub/app/models"
	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards with '!', which all supported dialects accept as ESCAPE character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// listingRepository implements the ListingRepository interface
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository instance
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create inserts the listing together with any images set on it
func (r *listingRepository) Create(listing *models.Listing) error {
	return r.db.Omit("Author").Create(listing).Error
}

// GetByID retrieves a listing with author, author profile and gallery
func (r *listingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.
		Preload("Author.Profile").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Listing{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Search returns one page of listings matching q and the total number of matches
func (r *listingRepository) Search(q ListingQuery) ([]models.Listing, int64, error) {
	base := r.filtered(q)

	var total int64
	if err := base.Session(&gorm.Session{}).Model(&models.Listing{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []models.Listing
	query := base.Session(&gorm.Session{}).Preload("Author").Order(orderFor(q.Sort))
	if q.Limit > 0 {
		query = query.Offset(q.Offset).Limit(q.Limit)
	}
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *listingRepository) filtered(q ListingQuery) *gorm.DB {
	tx := r.db.Model(&models.Listing{})
	if loc := strings.TrimSpace(q.Location); loc != "" {
		tx = tx.Where("LOWER(location) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(loc))+"%")
	}
	if q.PriceMin != nil {
		tx = tx.Where("price >= ?", *q.PriceMin)
	}
	if q.PriceMax != nil {
		tx = tx.Where("price <= ?", *q.PriceMax)
	}
	if q.MinBedrooms != nil {
		tx = tx.Where("bedrooms >= ?", *q.MinBedrooms)
	}
	if q.MinBathrooms != nil {
		tx = tx.Where("bathrooms >= ?", *q.MinBathrooms)
	}
	return tx
}

// orderFor keeps results stable by breaking ties on id
func orderFor(sort ListingSort) string {
	switch sort {
	case SortPriceLow:
		return "price ASC, id ASC"
	case SortPriceHigh:
		return "price DESC, id DESC"
	case SortOldest:
		return "created_at ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

func (r *listingRepository) UpdateImage(image *models.ListingImage) error {
	return r.db.Save(image).Error
}

func (r *listingRepository) RefreshRating(id uint) error {
	return models.RefreshListingRating(r.db, id)
}

func (r *listingRepository) ToggleLike(userID, listingID uint) (bool, error) {
	return models.ToggleLike(r.db, userID, listingID)
}

func (r *listingRepository) IsLikedBy(userID, listingID uint) (bool, error) {
	return models.IsLikedBy(r.db, userID, listingID)
}

func (r *listingRepository) CountLikes(listingID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("listing_id = ?", listingID).Count(&count).Error
	return count, err
}

// Count returns the total number of listings
func (r *listingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Listing{}).Count(&count).Error
	return count, err
}
