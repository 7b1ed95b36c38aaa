package controllers

import (
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
	"github.com/ManuelReschke/HouseHub/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
	"github.com/ManuelReschke/HouseHub/internal/pkg/viewmodel"
	"github.com/ManuelReschke/HouseHub/views"
)

// oauthProviders are the enabled social logins shown on the login page
var oauthProviders []string

func newLayout(c *fiber.Ctx, title string) viewmodel.Layout {
	csrfToken, _ := c.Locals("csrf").(string)
	return viewmodel.Layout{
		Title:           title,
		User:            usercontext.GetUserContext(c),
		Flash:           flash.Get(c),
		CSRF:            csrfToken,
		OAuthProviders:  oauthProviders,
		HCaptchaSiteKey: hcaptcha.SiteKey(),
		IsDev:           env.IsDev(),
	}
}

// render executes a page template inside the main layout. Errors is always
// present so templates can index it.
func render(c *fiber.Ctx, status int, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = apperror.FieldErrors(nil)
	}
	data["Layout"] = newLayout(c, title)
	return c.Status(status).Render(name, data, views.Layout)
}

func flashSuccess(c *fiber.Ctx, msg, to string) error {
	flash.WithSuccess(c, fiber.Map{"type": "success", "message": msg})
	return c.Redirect(to, fiber.StatusSeeOther)
}

func flashError(c *fiber.Ctx, msg, to string) error {
	flash.WithError(c, fiber.Map{"type": "error", "message": msg})
	return c.Redirect(to, fiber.StatusSeeOther)
}

// RenderNotFound shows the 404 page
func RenderNotFound(c *fiber.Ctx) error {
	return render(c, fiber.StatusNotFound, "errors/404", "Not found", nil)
}

func renderServerError(c *fiber.Ctx, err error) error {
	log.Errorf("[%s %s] %v", c.Method(), c.Path(), err)
	return render(c, fiber.StatusInternalServerError, "errors/500", "Error", nil)
}

// handleError covers the errors every handler treats the same way
func handleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return RenderNotFound(c)
	}
	return renderServerError(c, err)
}

// ErrorHandler is the fiber error handler for everything a handler returns
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			if rerr := RenderNotFound(c); rerr == nil {
				return nil
			}
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).SendString(fe.Message)
		}
	}
	if errors.Is(err, apperror.ErrNotFound) {
		if rerr := RenderNotFound(c); rerr == nil {
			return nil
		}
	}

	if rerr := renderServerError(c, err); rerr != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}
	return nil
}

// paramID parses the :id route parameter, 0 means invalid
func paramID(c *fiber.Ctx) uint {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func detailURL(id uint) string {
	return "/" + strconv.FormatUint(uint64(id), 10)
}

// formFiles returns the uploads of a multipart request, nil for other bodies.
// Empty file inputs are skipped.
func formFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var files []*multipart.FileHeader
	for _, fh := range form.File[field] {
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}
		files = append(files, fh)
	}
	return files
}

func formFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	files := formFiles(c, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
