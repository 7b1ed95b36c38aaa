package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/account"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/middleware"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

const msgProfileUpdated = "Profile updated successfully!"

type UserController struct {
	accounts *account.Service
}

func NewUserController(accounts *account.Service) *UserController {
	return &UserController{accounts: accounts}
}

func (uc *UserController) HandleProfile(c *fiber.Ctx) error {
	user, err := uc.accounts.Profile(c.UserContext(), usercontext.GetUserContext(c))
	if err != nil {
		return uc.profileError(c, err)
	}
	form := forms.ProfileForm{
		FirstName: user.Profile.FirstName,
		LastName:  user.Profile.LastName,
		Bio:       user.Profile.Bio,
	}
	return uc.renderProfile(c, fiber.StatusOK, user, form, nil)
}

func (uc *UserController) HandleProfilePost(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c)

	var form forms.ProfileForm
	_ = c.BodyParser(&form)

	_, err := uc.accounts.UpdateProfile(c.UserContext(), actor, form, formFile(c, "profile_image"))
	if err == nil {
		return flashSuccess(c, msgProfileUpdated, "/profile")
	}
	if !errors.Is(err, apperror.ErrValidationFailed) {
		return uc.profileError(c, err)
	}

	user, perr := uc.accounts.Profile(c.UserContext(), actor)
	if perr != nil {
		return uc.profileError(c, perr)
	}
	return uc.renderProfile(c, fiber.StatusUnprocessableEntity, user, form, apperror.Fields(err))
}

func (uc *UserController) renderProfile(c *fiber.Ctx, status int, user *models.User, form forms.ProfileForm, fields apperror.FieldErrors) error {
	return render(c, status, "user/profile", "Profile", fiber.Map{
		"User":   user,
		"Form":   form,
		"Errors": fields,
	})
}

func (uc *UserController) profileError(c *fiber.Ctx, err error) error {
	if errors.Is(err, apperror.ErrAuthenticationRequired) {
		return c.Redirect(middleware.LoginURL("/profile"), fiber.StatusSeeOther)
	}
	return handleError(c, err)
}
