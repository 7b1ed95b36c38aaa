package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/ManuelReschke/HouseHub/internal/pkg/account"
	"github.com/ManuelReschke/HouseHub/internal/pkg/session"
)

const msgOAuthFailed = "Social login failed. Please try again."

type OAuthController struct {
	accounts *account.Service
}

func NewOAuthController(accounts *account.Service) *OAuthController {
	return &OAuthController{accounts: accounts}
}

// HandleBegin redirects to the provider named in the route
func (oc *OAuthController) HandleBegin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleCallback completes the provider flow and logs the user in
func (oc *OAuthController) HandleCallback(c *fiber.Ctx) error {
	gu, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Warnf("[OAuth] completing %s login: %v", c.Params("provider"), err)
		return flashError(c, msgOAuthFailed, "/login")
	}

	user, err := oc.accounts.LoginWithProvider(c.UserContext(), gu)
	if err != nil {
		log.Errorf("[OAuth] %v", err)
		return flashError(c, msgOAuthFailed, "/login")
	}

	if err := session.Login(c, user.ID, user.Username, user.IsAdmin()); err != nil {
		log.Errorf("[OAuth] session for user %d: %v", user.ID, err)
		return flashError(c, msgSessionFailed, "/login")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
