package repository

import (
	"github.com/ManuelReschke/HouseHub/app/models"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Omit("Listing", "User").Create(comment).Error
}

// ListByListing returns the comments of a listing, newest first
func (r *commentRepository) ListByListing(listingID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("User.Profile").
		Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Omit("Listing", "User").Create(review).Error
}

// ListByListing returns the reviews of a listing, newest first
func (r *reviewRepository) ListByListing(listingID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("User.Profile").
		Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Exists(listingID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("listing_id = ? AND user_id = ?", listingID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) AverageRating(listingID uint) (*float64, error) {
	return models.AverageRating(r.db, listingID)
}

func (r *reviewRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).Count(&count).Error
	return count, err
}
