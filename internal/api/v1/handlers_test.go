package apiv1_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/HouseHub/app/models"
	apiv1 "github.com/ManuelReschke/HouseHub/internal/api/v1"
	"github.com/ManuelReschke/HouseHub/internal/pkg/housing"
	"github.com/ManuelReschke/HouseHub/internal/pkg/storage"
	"github.com/ManuelReschke/HouseHub/internal/pkg/testutil"
)

func newAPI(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := housing.NewService(db, housing.WithStorage(storage.New(t.TempDir())))

	app := fiber.New()
	apiv1.RegisterHandlers(app.Group("/api/v1"), apiv1.NewAPIServer(svc))
	return app, db
}

func get(t *testing.T, app *fiber.App, url string, out interface{}) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, url, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func TestListListingsPaging(t *testing.T) {
	app, db := newAPI(t)
	author := testutil.CreateUser(t, db, "owner")
	for i := 0; i < 9; i++ {
		testutil.CreateListing(t, db, author, func(l *models.Listing) {
			l.Name = fmt.Sprintf("House %d", i)
		})
	}

	var page apiv1.ListingPage
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/v1/listings", &page))
	assert.Len(t, page.Results, housing.PageSize)
	assert.Equal(t, int64(9), page.Count)
	assert.Equal(t, 2, page.NumPages)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
	assert.Nil(t, page.Previous)
	assert.Equal(t, "owner", page.Results[0].Author)

	page = apiv1.ListingPage{}
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/v1/listings?page=2", &page))
	assert.Len(t, page.Results, 1)

	var apiErr apiv1.Error
	assert.Equal(t, fiber.StatusNotFound, get(t, app, "/api/v1/listings?page=3", &apiErr))
	assert.Equal(t, "not_found", apiErr.Error)
}

func TestListListingsRejectsMalformedFilter(t *testing.T) {
	app, _ := newAPI(t)

	var apiErr apiv1.Error
	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/api/v1/listings?price_min=cheap&bedrooms=two", &apiErr))
	assert.Equal(t, "validation_failed", apiErr.Error)
	assert.Contains(t, apiErr.Fields, "price_min")
	assert.Contains(t, apiErr.Fields, "bedrooms")
}

func TestGetListing(t *testing.T) {
	app, db := newAPI(t)
	author := testutil.CreateUser(t, db, "owner")
	reviewer := testutil.CreateUser(t, db, "reviewer")
	listing := testutil.CreateListing(t, db, author, nil)
	require.NoError(t, db.Create(&models.Review{ListingID: listing.ID, UserID: reviewer.ID, Rating: 4, Text: "Lovely garden"}).Error)

	var detail apiv1.ListingDetail
	require.Equal(t, fiber.StatusOK, get(t, app, fmt.Sprintf("/api/v1/listings/%d", listing.ID), &detail))
	assert.Equal(t, listing.Name, detail.Name)
	require.NotNil(t, detail.AverageRating)
	assert.InDelta(t, 4.0, *detail.AverageRating, 0.001)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "reviewer", detail.Reviews[0].Author)

	var apiErr apiv1.Error
	assert.Equal(t, fiber.StatusNotFound, get(t, app, "/api/v1/listings/9999", &apiErr))
	assert.Equal(t, fiber.StatusNotFound, get(t, app, "/api/v1/listings/abc", &apiErr))
}

func TestGetListingWithoutReviewsHasNullAverage(t *testing.T) {
	app, db := newAPI(t)
	listing := testutil.CreateListing(t, db, testutil.CreateUser(t, db, "owner"), nil)

	var raw map[string]interface{}
	require.Equal(t, fiber.StatusOK, get(t, app, fmt.Sprintf("/api/v1/listings/%d", listing.ID), &raw))
	v, ok := raw["average_rating"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
