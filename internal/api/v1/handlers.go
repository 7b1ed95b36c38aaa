package apiv1

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/housing"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
	"github.com/ManuelReschke/HouseHub/internal/pkg/viewmodel"
)

// APIServer implements the ServerInterface
type APIServer struct {
	housing *housing.Service
}

// NewAPIServer creates a new API server instance
func NewAPIServer(svc *housing.Service) *APIServer {
	return &APIServer{housing: svc}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// ListListings pages the listings with the same filters as the index page
func (s *APIServer) ListListings(c *fiber.Ctx, params ListListingsParams) error {
	filter := forms.ListingFilter{
		Location:  params.Location,
		PriceMin:  params.PriceMin,
		PriceMax:  params.PriceMax,
		Bedrooms:  params.Bedrooms,
		Bathrooms: params.Bathrooms,
		SortBy:    params.SortBy,
		Page:      params.Page,
	}
	page, err := s.housing.Browse(c.UserContext(), filter)
	if err != nil {
		return s.writeServiceError(c, err)
	}

	out := ListingPage{
		Results:  make([]ListingSummary, 0, len(page.Listings)),
		Page:     page.Number,
		NumPages: page.NumPages,
		Count:    page.Total,
	}
	for i := range page.Listings {
		out.Results = append(out.Results, summary(&page.Listings[i]))
	}
	if page.HasNext {
		n := page.NextNumber()
		out.Next = &n
	}
	if page.HasPrev {
		p := page.PrevNumber()
		out.Previous = &p
	}
	return c.JSON(out)
}

// GetListing returns one listing with its gallery, reviews and aggregates
func (s *APIServer) GetListing(c *fiber.Ctx, id uint) error {
	view, err := s.housing.Detail(c.UserContext(), usercontext.Anonymous, id)
	if err != nil {
		return s.writeServiceError(c, err)
	}

	l := view.Listing
	out := ListingDetail{
		ListingSummary: summary(l),
		Description:    l.Description,
		ContactName:    l.ContactName,
		ContactMobile:  l.ContactMobile,
		ContactEmail:   l.ContactEmail,
		AverageRating:  view.AverageRating,
		LikeCount:      view.LikeCount,
		CommentCount:   len(view.Comments),
		Images:         make([]Image, 0, len(l.Images)),
		Reviews:        make([]Review, 0, len(view.Reviews)),
	}
	for _, img := range l.Images {
		out.Images = append(out.Images, Image{
			URL:          viewmodel.MediaURL(img.Image),
			ThumbnailURL: viewmodel.MediaURL(img.Thumbnail),
			WebPURL:      viewmodel.MediaURL(img.WebPThumbnail),
			Width:        img.Width,
			Height:       img.Height,
			TakenAt:      img.TakenAt,
		})
	}
	for _, r := range view.Reviews {
		out.Reviews = append(out.Reviews, Review{
			Author:    r.User.Username,
			Rating:    r.Rating,
			Text:      r.Text,
			CreatedAt: r.CreatedAt,
		})
	}
	return c.JSON(out)
}

func (s *APIServer) writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperror.ErrValidationFailed):
		return WriteError(c, fiber.StatusBadRequest, "validation_failed", "Invalid filter values", apperror.Fields(err))
	case errors.Is(err, apperror.ErrNotFound):
		return WriteError(c, fiber.StatusNotFound, "not_found", "Not found", nil)
	default:
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		return WriteError(c, fiber.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}

func summary(l *models.Listing) ListingSummary {
	return ListingSummary{
		ID:        l.ID,
		Name:      l.Name,
		Price:     l.Price,
		Location:  l.Location,
		Bedrooms:  l.Bedrooms,
		Beds:      l.Beds,
		Bathrooms: l.Bathrooms,
		Rating:    l.Rating,
		ImageURL:  viewmodel.MediaURL(l.Image),
		Author:    l.Author.Username,
		CreatedAt: l.CreatedAt,
	}
}
