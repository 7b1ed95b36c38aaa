package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
)

// ListingFilter is the query string of the listing index.
type ListingFilter struct {
	Location  string `query:"location" form:"location"`
	PriceMin  string `query:"price_min" form:"price_min"`
	PriceMax  string `query:"price_max" form:"price_max"`
	Bedrooms  string `query:"bedrooms" form:"bedrooms"`
	Bathrooms string `query:"bathrooms" form:"bathrooms"`
	SortBy    string `query:"sort_by" form:"sort_by"`
	Page      string `query:"page" form:"page"`
}

// Sort keys of the listing index. Anything else, "default" included, sorts newest first.
const (
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortNewest    = "newest"
	SortOldest    = "oldest"
)

func cleanSort(raw string) string {
	switch raw = strings.TrimSpace(raw); raw {
	case SortPriceLow, SortPriceHigh, SortNewest, SortOldest:
		return raw
	default:
		return ""
	}
}

// Filter is a cleaned ListingFilter. Nil pointers are filters that were not supplied.
type Filter struct {
	Location  string
	PriceMin  *float64
	PriceMax  *float64
	Bedrooms  *uint
	Bathrooms *uint
	SortBy    string
	Page      int
}

// Clean parses the filter. Malformed values yield ErrValidationFailed,
// a page that is not a positive number yields ErrNotFound.
func (f ListingFilter) Clean() (Filter, error) {
	fields := apperror.FieldErrors{}
	out := Filter{
		Location: strings.TrimSpace(f.Location),
		SortBy:   cleanSort(f.SortBy),
		Page:     1,
	}

	if v, present, ok := parseFilterPrice(fields, "price_min", f.PriceMin); ok && present {
		out.PriceMin = &v
	}
	if v, present, ok := parseFilterPrice(fields, "price_max", f.PriceMax); ok && present {
		out.PriceMax = &v
	}
	if v, present, ok := parseCount(fields, "bedrooms", f.Bedrooms, false); ok && present {
		out.Bedrooms = &v
	}
	if v, present, ok := parseCount(fields, "bathrooms", f.Bathrooms, false); ok && present {
		out.Bathrooms = &v
	}
	if err := apperror.Validation(fields); err != nil {
		return out, err
	}

	if raw := strings.TrimSpace(f.Page); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return out, apperror.ErrNotFound
		}
		out.Page = page
	}
	return out, nil
}

// Query re-encodes the active filters without the page, for pagination links.
func (f ListingFilter) Query() string {
	pairs := []struct{ key, value string }{
		{"location", f.Location},
		{"price_min", f.PriceMin},
		{"price_max", f.PriceMax},
		{"bedrooms", f.Bedrooms},
		{"bathrooms", f.Bathrooms},
		{"sort_by", f.SortBy},
	}
	var b strings.Builder
	for _, p := range pairs {
		if strings.TrimSpace(p.value) == "" {
			continue
		}
		b.WriteString("&")
		b.WriteString(p.key)
		b.WriteString("=")
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// ListingForm is the create listing form without its files.
type ListingForm struct {
	Name          string `form:"name" validate:"required,max=200"`
	Price         string `form:"price"`
	Bedrooms      string `form:"bedrooms"`
	Beds          string `form:"beds"`
	Bathrooms     string `form:"bathrooms"`
	Location      string `form:"location" validate:"required,max=255"`
	Description   string `form:"description" validate:"required"`
	ContactName   string `form:"contact_name" validate:"max=100"`
	ContactMobile string `form:"contact_mobile" validate:"max=10"`
	ContactEmail  string `form:"contact_email" validate:"omitempty,email,max=254"`
}

func (f *ListingForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
	f.ContactName = strings.TrimSpace(f.ContactName)
	f.ContactMobile = strings.TrimSpace(f.ContactMobile)
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
}

// Clean validates the form and returns the listing it describes, without author and images.
// The field errors are returned as well so callers can add file errors to them.
func (f *ListingForm) Clean() (*models.Listing, apperror.FieldErrors) {
	f.trim()
	fields := check(f)

	price, _, _ := parsePrice(fields, "price", f.Price, true)
	bedrooms, _, _ := parseCount(fields, "bedrooms", f.Bedrooms, true)
	beds, _, _ := parseCount(fields, "beds", f.Beds, true)
	bathrooms, _, _ := parseCount(fields, "bathrooms", f.Bathrooms, true)

	return &models.Listing{
		Name:          f.Name,
		Price:         price,
		Bedrooms:      bedrooms,
		Beds:          beds,
		Bathrooms:     bathrooms,
		Location:      f.Location,
		Description:   f.Description,
		ContactName:   f.ContactName,
		ContactMobile: f.ContactMobile,
		ContactEmail:  f.ContactEmail,
	}, fields
}
