package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/HouseHub/internal/pkg/account"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/HouseHub/internal/pkg/session"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

const (
	msgRegistered    = "Registration successful. You can now log in."
	msgCaptchaFailed = "Captcha validation failed. Please try again."
	msgSessionFailed = "Your session could not be started. Please try again."
)

// AuthController handles login, logout and registration
type AuthController struct {
	accounts *account.Service
}

func NewAuthController(accounts *account.Service) *AuthController {
	return &AuthController{accounts: accounts}
}

func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	form := forms.LoginForm{Next: c.Query("next")}
	return render(c, fiber.StatusOK, "auth/login", "Log in", fiber.Map{"Form": form})
}

// HandleLoginPost starts a session and returns to next when it is a local path
func (ac *AuthController) HandleLoginPost(c *fiber.Ctx) error {
	var form forms.LoginForm
	_ = c.BodyParser(&form)
	if form.Next == "" {
		form.Next = c.Query("next")
	}

	user, err := ac.accounts.Authenticate(c.UserContext(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrValidationFailed) {
			form.Password = ""
			return render(c, fiber.StatusUnprocessableEntity, "auth/login", "Log in", fiber.Map{
				"Form":   form,
				"Errors": apperror.Fields(err),
			})
		}
		return handleError(c, err)
	}

	if err := session.Login(c, user.ID, user.Username, user.IsAdmin()); err != nil {
		log.Errorf("[Auth] session for user %d: %v", user.ID, err)
		return flashError(c, msgSessionFailed, "/login")
	}
	return c.Redirect(forms.SafeNext(form.Next, "/"), fiber.StatusSeeOther)
}

// HandleLogout accepts any method
func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := session.Logout(c); err != nil {
		log.Warnf("[Auth] logout: %v", err)
	}
	usercontext.SetUserContext(c, usercontext.Anonymous)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (ac *AuthController) HandleRegister(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "auth/register", "Register", fiber.Map{"Form": forms.RegisterForm{}})
}

func (ac *AuthController) HandleRegisterPost(c *fiber.Ctx) error {
	var form forms.RegisterForm
	_ = c.BodyParser(&form)

	if hcaptcha.Enabled() {
		valid, err := hcaptcha.Verify(c.FormValue("h-captcha-response"))
		if err != nil || !valid {
			msg := msgCaptchaFailed
			if err != nil {
				log.Warnf("[Auth] hCaptcha validation error: %v", err)
				if env.IsDev() {
					msg = "Captcha validation failed: " + err.Error()
				}
			}
			return ac.renderRegister(c, form, apperror.FieldErrors{apperror.NonFieldKey: msg})
		}
	}

	_, err := ac.accounts.Register(c.UserContext(), form, formFile(c, "profile_image"))
	switch {
	case err == nil:
		return flashSuccess(c, msgRegistered, "/login")
	case errors.Is(err, apperror.ErrValidationFailed):
		return ac.renderRegister(c, form, apperror.Fields(err))
	default:
		return handleError(c, err)
	}
}

func (ac *AuthController) renderRegister(c *fiber.Ctx, form forms.RegisterForm, fields apperror.FieldErrors) error {
	form.Password1, form.Password2 = "", ""
	return render(c, fiber.StatusUnprocessableEntity, "auth/register", "Register", fiber.Map{
		"Form":   form,
		"Errors": fields,
	})
}
