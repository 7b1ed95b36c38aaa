package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/testutil"
)

func TestCreateUserHashesPassword(t *testing.T) {
	u, err := models.CreateUser("jane.doe", "jane@example.com", "correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", u.Password)
	assert.True(t, u.CheckPassword("correct horse"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.Equal(t, models.ROLE_USER, u.Role)
}

func TestCreateUserRejectsInvalidUsername(t *testing.T) {
	_, err := models.CreateUser("jane doe!", "jane@example.com", "correct horse")
	assert.Error(t, err)
}

func TestGetOrCreateUserProfileIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	u := testutil.CreateUser(t, db, "owner")

	first, err := models.GetOrCreateUserProfile(db, u.ID)
	require.NoError(t, err)
	second, err := models.GetOrCreateUserProfile(db, u.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	var count int64
	require.NoError(t, db.Model(&models.UserProfile{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	fan := testutil.CreateUser(t, db, "fan")
	listing := testutil.CreateListing(t, db, author, nil)

	liked, err := models.ToggleLike(db, fan.ID, listing.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	isLiked, err := models.IsLikedBy(db, fan.ID, listing.ID)
	require.NoError(t, err)
	assert.True(t, isLiked)

	liked, err = models.ToggleLike(db, fan.ID, listing.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	isLiked, err = models.IsLikedBy(db, fan.ID, listing.ID)
	require.NoError(t, err)
	assert.False(t, isLiked)
}

func TestAverageRating(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	listing := testutil.CreateListing(t, db, author, nil)

	avg, err := models.AverageRating(db, listing.ID)
	require.NoError(t, err)
	assert.Nil(t, avg)

	for i, rating := range []int{3, 5} {
		reviewer := testutil.CreateUser(t, db, []string{"r1", "r2"}[i])
		require.NoError(t, db.Create(&models.Review{ListingID: listing.ID, UserID: reviewer.ID, Rating: rating, Text: "ok"}).Error)
	}

	avg, err = models.AverageRating(db, listing.ID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 4.0, *avg, 0.0001)

	require.NoError(t, models.RefreshListingRating(db, listing.ID))
	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.InDelta(t, 4.0, reloaded.Rating, 0.0001)
}

func TestReviewUniquePerListingAndUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	reviewer := testutil.CreateUser(t, db, "reviewer")
	listing := testutil.CreateListing(t, db, author, nil)

	require.NoError(t, db.Create(&models.Review{ListingID: listing.ID, UserID: reviewer.ID, Rating: 4, Text: "nice"}).Error)
	err := db.Create(&models.Review{ListingID: listing.ID, UserID: reviewer.ID, Rating: 1, Text: "again"}).Error

	require.Error(t, err)
	assert.True(t, models.IsDuplicateKey(err))
}

func TestListingAuthorIsImmutable(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	listing := testutil.CreateListing(t, db, author, nil)

	err := db.Model(listing).Update("author_id", other.ID).Error
	assert.True(t, errors.Is(err, models.ErrAuthorImmutable))

	require.NoError(t, db.Model(listing).Update("name", "Renamed").Error)
	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, author.ID, reloaded.AuthorID)
	assert.Equal(t, "Renamed", reloaded.Name)
}

func TestListingAuthorIsImmutableOnSave(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	listing := testutil.CreateListing(t, db, author, nil)

	var loaded models.Listing
	require.NoError(t, db.First(&loaded, listing.ID).Error)
	loaded.AuthorID = other.ID
	err := db.Save(&loaded).Error
	assert.True(t, errors.Is(err, models.ErrAuthorImmutable))

	loaded.AuthorID = author.ID
	loaded.Name = "Saved again"
	require.NoError(t, db.Save(&loaded).Error)

	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, author.ID, reloaded.AuthorID)
	assert.Equal(t, "Saved again", reloaded.Name)
}

func TestListingValidate(t *testing.T) {
	l := models.Listing{Name: "Villa", Price: -1, Location: "Rome", Description: "x", AuthorID: 1}
	assert.Error(t, l.Validate())

	l.Price = 250000.50
	assert.NoError(t, l.Validate())

	l.ContactEmail = "not-an-email"
	assert.Error(t, l.Validate())
}
