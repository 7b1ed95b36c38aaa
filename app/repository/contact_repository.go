package repository

import (
	"github.com/ManuelReschke/HouseHub/app/models"
	"gorm.io/gorm"
)

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(msg *models.ContactMessage) error {
	return r.db.Create(msg).Error
}

// Recent returns up to limit messages, newest first
func (r *contactRepository) Recent(limit int) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&msgs).Error
	return msgs, err
}

// MarkRead flags a message as read. A missing message yields gorm.ErrRecordNotFound.
func (r *contactRepository) MarkRead(id uint) error {
	res := r.db.Model(&models.ContactMessage{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil || res.RowsAffected > 0 {
		return res.Error
	}
	// MySQL reports zero affected rows when the flag was already set
	var count int64
	if err := r.db.Model(&models.ContactMessage{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ContactMessage{}).Count(&count).Error
	return count, err
}
