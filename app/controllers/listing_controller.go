package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/HouseHub/app/repository"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/housing"
	"github.com/ManuelReschke/HouseHub/internal/pkg/middleware"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

const (
	msgCommentLogin    = "You must be logged in to comment."
	msgCommentAdded    = "Comment added!"
	msgReviewLogin     = "You must be logged in to review."
	msgReviewDuplicate = "You have already reviewed this house."
	msgReviewAdded     = "Review added!"
)

type sortOption struct {
	Value string
	Label string
}

var sortOptions = []sortOption{
	{string(repository.SortDefault), "Sort by"},
	{string(repository.SortPriceLow), "Price: low to high"},
	{string(repository.SortPriceHigh), "Price: high to low"},
	{string(repository.SortNewest), "Newest"},
	{string(repository.SortOldest), "Oldest"},
}

// ListingController serves the house pages
type ListingController struct {
	svc *housing.Service
}

func NewListingController(svc *housing.Service) *ListingController {
	return &ListingController{svc: svc}
}

// HandleIndex lists the houses. Malformed filters answer 400 with an empty page.
func (lc *ListingController) HandleIndex(c *fiber.Ctx) error {
	var filter forms.ListingFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	status := fiber.StatusOK
	page, err := lc.svc.Browse(c.UserContext(), filter)
	fields := apperror.Fields(err)
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrValidationFailed):
		status = fiber.StatusBadRequest
	default:
		return handleError(c, err)
	}

	return render(c, status, "listings/index", "Houses", fiber.Map{
		"Page":   page,
		"Filter": filter,
		"Query":  filter.Query(),
		"Errors": fields,
		"Sorts":  sortOptions,
	})
}

func (lc *ListingController) HandleDetail(c *fiber.Ctx) error {
	id := paramID(c)
	if id == 0 {
		return RenderNotFound(c)
	}
	return lc.renderDetail(c, fiber.StatusOK, id, nil)
}

// renderDetail shows the listing page; extra carries a submitted form and its errors
func (lc *ListingController) renderDetail(c *fiber.Ctx, status int, id uint, extra fiber.Map) error {
	view, err := lc.svc.Detail(c.UserContext(), usercontext.GetUserContext(c), id)
	if err != nil {
		return handleError(c, err)
	}

	data := fiber.Map{
		"View":          view,
		"CommentForm":   forms.CommentForm{},
		"CommentErrors": apperror.FieldErrors(nil),
		"ReviewForm":    forms.ReviewForm{},
		"ReviewErrors":  apperror.FieldErrors(nil),
	}
	for k, v := range extra {
		data[k] = v
	}
	return render(c, status, "listings/detail", view.Listing.Name, data)
}

func (lc *ListingController) HandleComment(c *fiber.Ctx) error {
	id := paramID(c)
	if id == 0 {
		return RenderNotFound(c)
	}

	var form forms.CommentForm
	_ = c.BodyParser(&form)

	_, err := lc.svc.AddComment(c.UserContext(), usercontext.GetUserContext(c), id, form)
	switch {
	case err == nil:
		return flashSuccess(c, msgCommentAdded, detailURL(id))
	case errors.Is(err, apperror.ErrAuthenticationRequired):
		return flashError(c, msgCommentLogin, middleware.LoginURL(detailURL(id)))
	case errors.Is(err, apperror.ErrValidationFailed):
		return lc.renderDetail(c, fiber.StatusUnprocessableEntity, id, fiber.Map{
			"CommentForm":   form,
			"CommentErrors": apperror.Fields(err),
		})
	default:
		return handleError(c, err)
	}
}

func (lc *ListingController) HandleReview(c *fiber.Ctx) error {
	id := paramID(c)
	if id == 0 {
		return RenderNotFound(c)
	}

	var form forms.ReviewForm
	_ = c.BodyParser(&form)

	_, err := lc.svc.AddReview(c.UserContext(), usercontext.GetUserContext(c), id, form)
	switch {
	case err == nil:
		return flashSuccess(c, msgReviewAdded, detailURL(id))
	case errors.Is(err, apperror.ErrAuthenticationRequired):
		return flashError(c, msgReviewLogin, middleware.LoginURL(detailURL(id)))
	case errors.Is(err, apperror.ErrDuplicateReview):
		return flashError(c, msgReviewDuplicate, detailURL(id))
	case errors.Is(err, apperror.ErrValidationFailed):
		return lc.renderDetail(c, fiber.StatusUnprocessableEntity, id, fiber.Map{
			"ReviewForm":   form,
			"ReviewErrors": apperror.Fields(err),
		})
	default:
		return handleError(c, err)
	}
}

// HandleLike toggles the like of the acting user and returns to the listing
func (lc *ListingController) HandleLike(c *fiber.Ctx) error {
	id := paramID(c)
	if id == 0 {
		return RenderNotFound(c)
	}
	if _, err := lc.svc.ToggleLike(c.UserContext(), usercontext.GetUserContext(c), id); err != nil {
		if errors.Is(err, apperror.ErrAuthenticationRequired) {
			return c.Redirect(middleware.LoginURL(detailURL(id)), fiber.StatusSeeOther)
		}
		return handleError(c, err)
	}
	return c.Redirect(detailURL(id), fiber.StatusSeeOther)
}

func (lc *ListingController) HandleAdd(c *fiber.Ctx) error {
	return lc.renderForm(c, fiber.StatusOK, forms.ListingForm{}, nil)
}

func (lc *ListingController) HandleAddPost(c *fiber.Ctx) error {
	var form forms.ListingForm
	_ = c.BodyParser(&form)

	listing, err := lc.svc.CreateListing(c.UserContext(), usercontext.GetUserContext(c), form,
		formFile(c, "image"), formFiles(c, "images"))
	switch {
	case err == nil:
		return c.Redirect(detailURL(listing.ID), fiber.StatusSeeOther)
	case errors.Is(err, apperror.ErrAuthenticationRequired):
		return c.Redirect(middleware.LoginURL("/add"), fiber.StatusSeeOther)
	case errors.Is(err, apperror.ErrValidationFailed):
		return lc.renderForm(c, fiber.StatusUnprocessableEntity, form, apperror.Fields(err))
	default:
		return handleError(c, err)
	}
}

func (lc *ListingController) renderForm(c *fiber.Ctx, status int, form forms.ListingForm, fields apperror.FieldErrors) error {
	return render(c, status, "listings/form", "List a house", fiber.Map{
		"Form":      form,
		"Errors":    fields,
		"MaxImages": housing.MaxImages,
	})
}
