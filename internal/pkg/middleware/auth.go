package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

// LoginURL is the login page with a return path
func LoginURL(next string) string {
	if next == "" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// RequireAuth ensures a logged-in web session; redirects to /login with a
// next parameter pointing back at the requested page.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Redirect(LoginURL(c.OriginalURL()), fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireGuest sends logged-in users away from login and registration
func RequireGuest(c *fiber.Ctx) error {
	if usercontext.IsLoggedIn(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAdmin lets only admins through. Anonymous visitors go to the login
// page, everyone else back to the start page.
func RequireAdmin(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Redirect(LoginURL(c.OriginalURL()), fiber.StatusSeeOther)
	}
	if !uc.IsAdmin {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Next()
}
