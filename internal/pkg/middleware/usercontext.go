package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/HouseHub/internal/pkg/session"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the acting user from the session once per request
func UserContextMiddleware(c *fiber.Ctx) error {
	usercontext.SetUserContext(c, usercontext.Anonymous)

	// Goth keeps its own session cookie on /auth/*, leave it alone
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	store := session.GetSessionStore()
	if store == nil {
		return c.Next()
	}
	sess, err := store.Get(c)
	if err != nil {
		return c.Next()
	}

	authenticated, _ := sess.Get(usercontext.AuthKey).(bool)
	userID, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !authenticated || !ok || userID == 0 {
		return c.Next()
	}

	username, _ := sess.Get(usercontext.KeyUsername).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)
	usercontext.SetUserContext(c, usercontext.UserContext{
		UserID:     userID,
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	return c.Next()
}
