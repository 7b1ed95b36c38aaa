package forms

import (
	"strings"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
)

type ContactForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Phone   string `form:"phone" validate:"max=20"`
	Subject string `form:"subject" validate:"required,max=200"`
	Message string `form:"message" validate:"required"`
}

func (f *ContactForm) Clean() (*models.ContactMessage, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)

	if err := apperror.Validation(check(f)); err != nil {
		return nil, err
	}
	return &models.ContactMessage{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		Subject: f.Subject,
		Message: f.Message,
	}, nil
}
