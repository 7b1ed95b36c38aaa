package viewmodel

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

// Layout is shared by every page rendered into layouts/main
type Layout struct {
	Title           string
	User            usercontext.UserContext
	Flash           fiber.Map
	CSRF            string
	OAuthProviders  []string
	HCaptchaSiteKey string
	IsDev           bool
}

// FlashType returns the flash category, "" when there is no message
func (l Layout) FlashType() string {
	if l.Flash == nil {
		return ""
	}
	if t, ok := l.Flash["type"].(string); ok {
		return t
	}
	return ""
}

func (l Layout) FlashMessage() string {
	if l.Flash == nil {
		return ""
	}
	if m, ok := l.Flash["message"].(string); ok {
		return m
	}
	return ""
}

// PageTitle appends the site name
func (l Layout) PageTitle() string {
	if l.Title == "" {
		return "HouseHub"
	}
	return l.Title + " | HouseHub"
}
