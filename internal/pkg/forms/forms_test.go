package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
)

func TestListingFilterClean(t *testing.T) {
	f, err := ListingFilter{
		Location:  "  Berlin ",
		PriceMin:  "100000",
		PriceMax:  "250000.50",
		Bedrooms:  "2",
		SortBy:    "price_low",
		Page:      "3",
	}.Clean()
	require.NoError(t, err)

	assert.Equal(t, "Berlin", f.Location)
	require.NotNil(t, f.PriceMin)
	assert.Equal(t, 100000.0, *f.PriceMin)
	require.NotNil(t, f.PriceMax)
	assert.Equal(t, 250000.5, *f.PriceMax)
	require.NotNil(t, f.Bedrooms)
	assert.Equal(t, uint(2), *f.Bedrooms)
	assert.Nil(t, f.Bathrooms)
	assert.Equal(t, 3, f.Page)
}

func TestListingFilterCleanEmptyIsNoop(t *testing.T) {
	f, err := ListingFilter{}.Clean()
	require.NoError(t, err)

	assert.Nil(t, f.PriceMin)
	assert.Nil(t, f.PriceMax)
	assert.Nil(t, f.Bedrooms)
	assert.Nil(t, f.Bathrooms)
	assert.Equal(t, 1, f.Page)
}

func TestListingFilterRejectsMalformedNumbers(t *testing.T) {
	_, err := ListingFilter{PriceMin: "cheap", PriceMax: "-5", Bedrooms: "-1", Bathrooms: "1.5"}.Clean()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidationFailed))

	fields := apperror.Fields(err)
	assert.Equal(t, msgNumber, fields["price_min"])
	assert.Equal(t, msgNotNegative, fields["price_max"])
	assert.Equal(t, msgNotNegative, fields["bedrooms"])
	assert.Equal(t, msgWholeNumber, fields["bathrooms"])
}

func TestListingFilterPriceBoundsIgnoreStorageLimits(t *testing.T) {
	f, err := ListingFilter{PriceMin: "99.999", PriceMax: "150000000"}.Clean()
	require.NoError(t, err)

	require.NotNil(t, f.PriceMin)
	require.NotNil(t, f.PriceMax)
	assert.InDelta(t, 99.999, *f.PriceMin, 1e-9)
	assert.Equal(t, 150000000.0, *f.PriceMax)
}

func TestListingFilterSortKeys(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"default":    "",
		"random":     "",
		"price_low":  SortPriceLow,
		"price_high": SortPriceHigh,
		"newest":     SortNewest,
		" oldest ":   SortOldest,
	}
	for raw, want := range cases {
		f, err := ListingFilter{SortBy: raw}.Clean()
		require.NoError(t, err, raw)
		assert.Equal(t, want, f.SortBy, raw)
	}
}

func TestListingFilterInvalidPageIsNotFound(t *testing.T) {
	for _, page := range []string{"0", "-2", "last", "abc"} {
		_, err := ListingFilter{Page: page}.Clean()
		assert.ErrorIs(t, err, apperror.ErrNotFound, page)
	}
}

func TestListingFilterQuery(t *testing.T) {
	q := ListingFilter{Location: "New York", Bedrooms: "2", Page: "4"}.Query()
	assert.Equal(t, "&location=New+York&bedrooms=2", q)
}

func TestListingFormClean(t *testing.T) {
	form := ListingForm{
		Name:        "Villa",
		Price:       "450000.99",
		Bedrooms:    "4",
		Beds:        "5",
		Bathrooms:   "2",
		Location:    "Lisbon",
		Description: "Sea view",
	}
	listing, fields := form.Clean()
	assert.Empty(t, fields)
	assert.Equal(t, 450000.99, listing.Price)
	assert.Equal(t, uint(5), listing.Beds)
}

func TestListingFormCleanErrors(t *testing.T) {
	form := ListingForm{
		Price:         "1.999",
		Bedrooms:      "two",
		Beds:          "",
		Bathrooms:     "1",
		ContactMobile: "01234567890",
		ContactEmail:  "nope",
	}
	_, fields := form.Clean()

	assert.Equal(t, msgRequired, fields["name"])
	assert.Equal(t, msgRequired, fields["location"])
	assert.Equal(t, msgRequired, fields["description"])
	assert.Equal(t, "Ensure that there are no more than 2 decimal places.", fields["price"])
	assert.Equal(t, msgWholeNumber, fields["bedrooms"])
	assert.Equal(t, msgRequired, fields["beds"])
	assert.Contains(t, fields["contact_mobile"], "at most 10 characters")
	assert.Equal(t, "Enter a valid email address.", fields["contact_email"])
	assert.False(t, fields.Has("bathrooms"))
}

func TestListingFormPriceBounds(t *testing.T) {
	form := ListingForm{Name: "x", Price: "100000000", Bedrooms: "1", Beds: "1", Bathrooms: "1", Location: "x", Description: "x"}
	_, fields := form.Clean()
	assert.Contains(t, fields["price"], "8 digits")

	form.Price = "-5"
	_, fields = form.Clean()
	assert.Equal(t, msgNotNegative, fields["price"])
}

func TestCommentFormRequiresText(t *testing.T) {
	form := CommentForm{Text: "   "}
	err := form.Validate()
	require.Error(t, err)
	assert.Equal(t, msgRequired, apperror.Fields(err)["text"])

	form = CommentForm{Text: " Lovely garden "}
	require.NoError(t, form.Validate())
	assert.Equal(t, "Lovely garden", form.Text)
}

func TestReviewFormClean(t *testing.T) {
	form := ReviewForm{Rating: "5", Text: "Great"}
	rating, err := form.Clean()
	require.NoError(t, err)
	assert.Equal(t, 5, rating)

	for _, raw := range []string{"0", "6", "x"} {
		form = ReviewForm{Rating: raw, Text: "Great"}
		_, err = form.Clean()
		require.Error(t, err)
		assert.Contains(t, apperror.Fields(err)["rating"], "Select a valid choice", raw)
	}
}

func TestRegisterFormPasswordRules(t *testing.T) {
	base := RegisterForm{Username: "jane.doe", Email: "jane@example.com"}

	cases := map[string]struct {
		p1, p2 string
		want   string
	}{
		"mismatch": {"Sunny-Garden-42", "Sunny-Garden-43", "The two password fields didn't match."},
		"short":    {"Ab1!", "Ab1!", "This password is too short. It must contain at least 8 characters."},
		"common":   {"password123", "password123", "This password is too common."},
		"numeric":  {"8274619305", "8274619305", "This password is entirely numeric."},
		"similar":  {"jane.doe1", "jane.doe1", "The password is too similar to the username."},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			form := base
			form.Password1, form.Password2 = tc.p1, tc.p2
			err := form.Validate()
			require.Error(t, err)
			assert.Equal(t, tc.want, apperror.Fields(err)["password2"])
		})
	}

	form := base
	form.Password1, form.Password2 = "Sunny-Garden-42", "Sunny-Garden-42"
	assert.NoError(t, form.Validate())
}

func TestRegisterFormUsername(t *testing.T) {
	form := RegisterForm{Username: "jane doe", Email: "jane@example.com", Password1: "Sunny-Garden-42", Password2: "Sunny-Garden-42"}
	err := form.Validate()
	require.Error(t, err)
	assert.Contains(t, apperror.Fields(err)["username"], "Enter a valid username")
}

func TestContactFormMissingEmail(t *testing.T) {
	form := ContactForm{Name: "Jane", Subject: "Viewing", Message: "Is it still available?"}
	msg, err := form.Clean()
	assert.Nil(t, msg)
	require.Error(t, err)
	assert.Equal(t, msgRequired, apperror.Fields(err)["email"])
	assert.False(t, apperror.Fields(err).Has("phone"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/12", SafeNext("/12", "/"))
	assert.Equal(t, "/", SafeNext("https://evil.example", "/"))
	assert.Equal(t, "/", SafeNext("//evil.example", "/"))
	assert.Equal(t, "/", SafeNext("", "/"))
}
