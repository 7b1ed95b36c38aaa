package models

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

// usernamePattern mirrors the classic letters, digits and @/./+/-/_ rule.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
	return v
}

// ValidUsername reports whether s only contains allowed username characters.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Username    string       `gorm:"uniqueIndex;type:varchar(150);not null" json:"username" validate:"required,max=150,username"`
	Email       string       `gorm:"uniqueIndex;type:varchar(254);not null" json:"email" validate:"required,email,max=254"`
	Password    string       `gorm:"type:varchar(255);not null" json:"-" validate:"required"`
	Role        string       `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Profile     *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty" validate:"-"`
	LastLoginAt *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	return validate.Struct(u)
}

func CreateUser(username string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username: username,
		Email:    email,
		Password: pw,
		Role:     ROLE_USER,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}
