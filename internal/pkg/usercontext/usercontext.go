package usercontext

import "github.com/gofiber/fiber/v2"

// LocalsKey is where the middleware stores the UserContext
const LocalsKey = "USER_CONTEXT"

// UserContext is the acting user of a request. Services receive it explicitly.
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

// Anonymous is the actor of every request without a login
var Anonymous = UserContext{}

// GetUserContext retrieves the user context from fiber context
// Returns the anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(LocalsKey).(UserContext); ok {
		return ctx
	}
	return Anonymous
}

func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(LocalsKey, uc)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
