package repository

import (
	"github.com/ManuelReschke/HouseHub/app/models"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate is the single place that guarantees a user has a profile row.
func (r *profileRepository) GetOrCreate(userID uint) (*models.UserProfile, error) {
	return models.GetOrCreateUserProfile(r.db, userID)
}

func (r *profileRepository) Update(profile *models.UserProfile) error {
	return r.db.Model(profile).Select("profile_image", "first_name", "last_name", "bio").Updates(profile).Error
}

type providerAccountRepository struct {
	db *gorm.DB
}

func NewProviderAccountRepository(db *gorm.DB) ProviderAccountRepository {
	return &providerAccountRepository{db: db}
}

func (r *providerAccountRepository) GetByProviderUID(provider, providerUserID string) (*models.ProviderAccount, error) {
	var pa models.ProviderAccount
	err := r.db.Where("provider = ? AND provider_user_id = ?", provider, providerUserID).First(&pa).Error
	if err != nil {
		return nil, err
	}
	return &pa, nil
}

func (r *providerAccountRepository) Create(account *models.ProviderAccount) error {
	return r.db.Create(account).Error
}

func (r *providerAccountRepository) Update(account *models.ProviderAccount) error {
	return r.db.Save(account).Error
}
