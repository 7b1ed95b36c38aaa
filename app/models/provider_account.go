package models

import "time"

// ProviderAccount links an external OAuth identity (google, github) to a local user
type ProviderAccount struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Provider       string     `gorm:"uniqueIndex:idx_provider_uid;type:varchar(50);not null" json:"provider"`
	ProviderUserID string     `gorm:"uniqueIndex:idx_provider_uid;type:varchar(191);not null" json:"provider_user_id"`
	AccessToken    string     `gorm:"type:text" json:"-"`
	RefreshToken   string     `gorm:"type:text" json:"-"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&ProviderAccount{},
		&Listing{},
		&ListingImage{},
		&Comment{},
		&Review{},
		&Like{},
		&ContactMessage{},
	}
}
