package forms

import (
	"strings"

	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
)

type RegisterForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
	FirstName string `form:"first_name" validate:"max=100"`
	LastName  string `form:"last_name" validate:"max=100"`
	Bio       string `form:"bio"`
}

// Validate checks the fields and the password rules. Password problems are reported on password2.
func (f *RegisterForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Bio = strings.TrimSpace(f.Bio)

	fields := check(f)
	if !fields.Has("password1") && !fields.Has("password2") {
		if msg := CheckPassword(f.Password1, f.Username, f.Email); msg != "" {
			fields.Add("password2", msg)
		}
	}
	return apperror.Validation(fields)
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func (f *LoginForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return apperror.Validation(check(f))
}

type ProfileForm struct {
	FirstName string `form:"first_name" validate:"max=100"`
	LastName  string `form:"last_name" validate:"max=100"`
	Bio       string `form:"bio"`
}

func (f *ProfileForm) Validate() error {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Bio = strings.TrimSpace(f.Bio)
	return apperror.Validation(check(f))
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}
