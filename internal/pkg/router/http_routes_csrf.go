package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
	"github.com/ManuelReschke/HouseHub/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return h.disableCSRF || strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", h.ctrl.Listing.HandleIndex)
	group.Get("/add", middleware.RequireAuth, h.ctrl.Listing.HandleAdd)
	group.Post("/add", middleware.RequireAuth, h.ctrl.Listing.HandleAddPost)

	group.Get("/login", middleware.RequireGuest, h.ctrl.Auth.HandleLogin)
	group.Post("/login", middleware.RequireGuest, h.ctrl.Auth.HandleLoginPost)
	group.Get("/register", middleware.RequireGuest, h.ctrl.Auth.HandleRegister)
	group.Post("/register", middleware.RequireGuest, h.ctrl.Auth.HandleRegisterPost)
	group.All("/logout", h.ctrl.Auth.HandleLogout)

	group.Get("/profile", middleware.RequireAuth, h.ctrl.User.HandleProfile)
	group.Post("/profile", middleware.RequireAuth, h.ctrl.User.HandleProfilePost)

	group.Get("/contact", h.ctrl.Contact.HandleContact)
	group.Post("/contact", h.ctrl.Contact.HandleContactPost)

	admin := group.Group("/admin", middleware.RequireAdmin)
	admin.Get("/messages", h.ctrl.Contact.HandleMessages)
	admin.Post("/messages/:id<int>/read", h.ctrl.Contact.HandleMarkRead)

	// Listing pages last, the int constraint keeps them off the named routes
	group.Get("/:id<int>", h.ctrl.Listing.HandleDetail)
	group.Post("/:id<int>/comments", h.ctrl.Listing.HandleComment)
	group.Post("/:id<int>/reviews", h.ctrl.Listing.HandleReview)
	group.Post("/:id<int>/like", middleware.RequireAuth, h.ctrl.Listing.HandleLike)
}
