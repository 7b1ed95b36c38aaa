package apiv1

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error is the body of every failed API response
type Error struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Pong struct {
	Ping string `json:"ping"`
}

// ListingSummary is one entry of the listing index
type ListingSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Location  string    `json:"location"`
	Bedrooms  uint      `json:"bedrooms"`
	Beds      uint      `json:"beds"`
	Bathrooms uint      `json:"bathrooms"`
	Rating    float64   `json:"rating"`
	ImageURL  string    `json:"image_url,omitempty"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type ListingPage struct {
	Results  []ListingSummary `json:"results"`
	Page     int              `json:"page"`
	NumPages int              `json:"num_pages"`
	Count    int64            `json:"count"`
	Next     *int             `json:"next"`
	Previous *int             `json:"previous"`
}

type Image struct {
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	WebPURL      string     `json:"webp_url,omitempty"`
	Width        int        `json:"width,omitempty"`
	Height       int        `json:"height,omitempty"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
}

type Review struct {
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ListingDetail struct {
	ListingSummary
	Description   string   `json:"description"`
	ContactName   string   `json:"contact_name,omitempty"`
	ContactMobile string   `json:"contact_mobile,omitempty"`
	ContactEmail  string   `json:"contact_email,omitempty"`
	AverageRating *float64 `json:"average_rating"`
	LikeCount     int64    `json:"like_count"`
	CommentCount  int      `json:"comment_count"`
	Images        []Image  `json:"images"`
	Reviews       []Review `json:"reviews"`
}

// ListListingsParams are the query parameters of GET /listings
type ListListingsParams struct {
	Location  string `query:"location"`
	PriceMin  string `query:"price_min"`
	PriceMax  string `query:"price_max"`
	Bedrooms  string `query:"bedrooms"`
	Bathrooms string `query:"bathrooms"`
	SortBy    string `query:"sort_by"`
	Page      string `query:"page"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /listings)
	ListListings(c *fiber.Ctx, params ListListingsParams) error
	// (GET /listings/{id})
	GetListing(c *fiber.Ctx, id uint) error
}

// ServerInterfaceWrapper converts fiber contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (siw *ServerInterfaceWrapper) GetPing(c *fiber.Ctx) error {
	return siw.Handler.GetPing(c)
}

func (siw *ServerInterfaceWrapper) ListListings(c *fiber.Ctx) error {
	var params ListListingsParams
	if err := c.QueryParser(&params); err != nil {
		return WriteError(c, fiber.StatusBadRequest, "bad_request", "Invalid query string", nil)
	}
	return siw.Handler.ListListings(c, params)
}

func (siw *ServerInterfaceWrapper) GetListing(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return WriteError(c, fiber.StatusNotFound, "not_found", "Listing not found", nil)
	}
	return siw.Handler.GetListing(c, uint(id))
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.Get("/ping", wrapper.GetPing)
	router.Get("/listings", wrapper.ListListings)
	router.Get("/listings/:id", wrapper.GetListing)
}

// WriteError sends the JSON error body
func WriteError(c *fiber.Ctx, status int, code, message string, fields map[string]string) error {
	return c.Status(status).JSON(Error{Error: code, Message: message, Fields: fields})
}
