package models

import "time"

// ContactMessage is an inquiry sent through the public contact form.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Email     string    `gorm:"type:varchar(254);not null" json:"email" validate:"required,email,max=254"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty" validate:"max=20"`
	Subject   string    `gorm:"type:varchar(200);not null" json:"subject" validate:"required,max=200"`
	Message   string    `gorm:"type:text;not null" json:"message" validate:"required"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (m *ContactMessage) Validate() error {
	return validate.Struct(m)
}
