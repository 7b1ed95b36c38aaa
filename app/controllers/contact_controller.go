package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/contact"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
)

const (
	msgContactThanks  = "Thank you for your message! We will get back to you soon."
	msgMarkedRead     = "Message marked as read."
	adminMessageLimit = 50
)

type ContactController struct {
	svc *contact.Service
}

func NewContactController(svc *contact.Service) *ContactController {
	return &ContactController{svc: svc}
}

func (cc *ContactController) HandleContact(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "contact/index", "Contact", fiber.Map{"Form": forms.ContactForm{}})
}

func (cc *ContactController) HandleContactPost(c *fiber.Ctx) error {
	var form forms.ContactForm
	_ = c.BodyParser(&form)

	_, err := cc.svc.Submit(c.UserContext(), form)
	switch {
	case err == nil:
		return flashSuccess(c, msgContactThanks, "/contact")
	case errors.Is(err, apperror.ErrValidationFailed):
		return render(c, fiber.StatusUnprocessableEntity, "contact/index", "Contact", fiber.Map{
			"Form":   form,
			"Errors": apperror.Fields(err),
		})
	default:
		return handleError(c, err)
	}
}

// HandleMessages lists the latest contact messages for admins
func (cc *ContactController) HandleMessages(c *fiber.Ctx) error {
	messages, err := cc.svc.Recent(c.UserContext(), adminMessageLimit)
	if err != nil {
		return handleError(c, err)
	}
	return render(c, fiber.StatusOK, "admin/messages", "Messages", fiber.Map{"Messages": messages})
}

func (cc *ContactController) HandleMarkRead(c *fiber.Ctx) error {
	id := paramID(c)
	if id == 0 {
		return RenderNotFound(c)
	}
	if err := cc.svc.MarkRead(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return flashSuccess(c, msgMarkedRead, "/admin/messages")
}
