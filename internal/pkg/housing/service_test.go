package housing_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/events"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/housing"
	"github.com/ManuelReschke/HouseHub/internal/pkg/storage"
	"github.com/ManuelReschke/HouseHub/internal/pkg/testutil"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

var ctx = context.Background()

func actorFor(u *models.User) usercontext.UserContext {
	return usercontext.UserContext{UserID: u.ID, Username: u.Username, IsLoggedIn: true}
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

type queue struct{ jobs []models.ListingImage }

func (q *queue) Enqueue(img models.ListingImage) error {
	q.jobs = append(q.jobs, img)
	return nil
}

type statsSpy struct{ calls int }

func (s *statsSpy) Invalidate(context.Context) { s.calls++ }

type fixture struct {
	db     *gorm.DB
	svc    *housing.Service
	events *events.Recorder
	locker *fakeLocker
	queue  *queue
	stats  *statsSpy
	store  *storage.Storage
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		db:     testutil.NewTestDB(t),
		events: &events.Recorder{},
		locker: &fakeLocker{},
		queue:  &queue{},
		stats:  &statsSpy{},
		store:  storage.New(t.TempDir()),
	}
	f.svc = housing.NewService(f.db,
		housing.WithStorage(f.store),
		housing.WithEvents(f.events),
		housing.WithLocker(f.locker),
		housing.WithImageQueue(f.queue),
		housing.WithStatistics(f.stats),
	)
	return f
}

func TestBrowsePaginates(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "agent")
	for i := 0; i < 10; i++ {
		testutil.CreateListing(t, f.db, author, func(l *models.Listing) { l.Name = fmt.Sprintf("House %d", i) })
	}

	page, err := f.svc.Browse(ctx, forms.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Listings, housing.PageSize)
	assert.Equal(t, 2, page.NumPages)
	assert.Equal(t, int64(10), page.Total)
	assert.False(t, page.HasPrev)
	assert.True(t, page.HasNext)

	page, err = f.svc.Browse(ctx, forms.ListingFilter{Page: "2"})
	require.NoError(t, err)
	assert.Len(t, page.Listings, 2)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)

	_, err = f.svc.Browse(ctx, forms.ListingFilter{Page: "3"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.Browse(ctx, forms.ListingFilter{Page: "zero"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBrowseEmptyFirstPageIsValid(t *testing.T) {
	f := newFixture(t)
	page, err := f.svc.Browse(ctx, forms.ListingFilter{Location: "nowhere"})
	require.NoError(t, err)
	assert.Empty(t, page.Listings)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
}

func TestBrowseRejectsMalformedFilters(t *testing.T) {
	f := newFixture(t)
	page, err := f.svc.Browse(ctx, forms.ListingFilter{PriceMin: "cheap", Bedrooms: "2.5"})
	require.ErrorIs(t, err, apperror.ErrValidationFailed)
	assert.Empty(t, page.Listings)

	fields := apperror.Fields(err)
	assert.True(t, fields.Has("price_min"))
	assert.True(t, fields.Has("bedrooms"))
}

func TestDetailAggregates(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "agent")
	visitor := testutil.CreateUser(t, f.db, "visitor")
	listing := testutil.CreateListing(t, f.db, author, nil)

	view, err := f.svc.Detail(ctx, actorFor(visitor), listing.ID)
	require.NoError(t, err)
	assert.Nil(t, view.AverageRating)
	assert.False(t, view.HasReviewed)
	assert.Zero(t, view.LikeCount)

	_, err = f.svc.AddReview(ctx, actorFor(visitor), listing.ID, forms.ReviewForm{Rating: "4", Text: "Nice"})
	require.NoError(t, err)
	_, err = f.svc.ToggleLike(ctx, actorFor(visitor), listing.ID)
	require.NoError(t, err)

	view, err = f.svc.Detail(ctx, actorFor(visitor), listing.ID)
	require.NoError(t, err)
	require.NotNil(t, view.AverageRating)
	assert.InDelta(t, 4.0, *view.AverageRating, 0.001)
	assert.True(t, view.HasReviewed)
	assert.True(t, view.LikedByActor)
	assert.Equal(t, int64(1), view.LikeCount)

	anon, err := f.svc.Detail(ctx, usercontext.Anonymous, listing.ID)
	require.NoError(t, err)
	assert.False(t, anon.HasReviewed)
	assert.False(t, anon.LikedByActor)

	_, err = f.svc.Detail(ctx, usercontext.Anonymous, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "agent")
	listing := testutil.CreateListing(t, f.db, author, nil)

	_, err := f.svc.AddComment(ctx, usercontext.Anonymous, listing.ID, forms.CommentForm{Text: "hi"})
	assert.ErrorIs(t, err, apperror.ErrAuthenticationRequired)

	_, err = f.svc.AddComment(ctx, actorFor(author), listing.ID, forms.CommentForm{Text: "   "})
	require.ErrorIs(t, err, apperror.ErrValidationFailed)
	assert.True(t, apperror.Fields(err).Has("text"))

	_, err = f.svc.AddComment(ctx, actorFor(author), 404, forms.CommentForm{Text: "hi"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	c, err := f.svc.AddComment(ctx, actorFor(author), listing.ID, forms.CommentForm{Text: "  Lovely garden "})
	require.NoError(t, err)
	assert.Equal(t, "Lovely garden", c.Text)
	assert.Equal(t, author.ID, c.UserID)
}

func TestAddReviewOncePerActor(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "agent")
	reviewer := testutil.CreateUser(t, f.db, "reviewer")
	listing := testutil.CreateListing(t, f.db, author, nil)

	_, err := f.svc.AddReview(ctx, usercontext.Anonymous, listing.ID, forms.ReviewForm{Rating: "5", Text: "x"})
	assert.ErrorIs(t, err, apperror.ErrAuthenticationRequired)

	_, err = f.svc.AddReview(ctx, actorFor(reviewer), listing.ID, forms.ReviewForm{Rating: "6", Text: "x"})
	require.ErrorIs(t, err, apperror.ErrValidationFailed)
	assert.Equal(t, "Select a valid choice. 6 is not one of the available choices.", apperror.Fields(err)["rating"])

	review, err := f.svc.AddReview(ctx, actorFor(reviewer), listing.ID, forms.ReviewForm{Rating: "3", Text: "Decent"})
	require.NoError(t, err)
	assert.Equal(t, 3, review.Rating)

	_, err = f.svc.AddReview(ctx, actorFor(reviewer), listing.ID, forms.ReviewForm{Rating: "5", Text: "Again"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateReview)

	var count int64
	require.NoError(t, f.db.Model(&models.Review{}).Where("listing_id = ?", listing.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Listing
	require.NoError(t, f.db.First(&stored, listing.ID).Error)
	assert.InDelta(t, 3.0, stored.Rating, 0.001)

	assert.Equal(t, []string{events.SubjectReviewCreated}, f.events.Subjects())
	assert.Equal(t, 1, f.stats.calls)
	assert.Empty(t, f.locker.held, "lock released after the insert")
}

func TestAddReviewRejectedWhileLockIsHeld(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "agent")
	reviewer := testutil.CreateUser(t, f.db, "reviewer")
	listing := testutil.CreateListing(t, f.db, author, nil)

	ok, err := f.locker.TryLock(ctx, fmt.Sprintf("review:%d:%d", listing.ID, reviewer.ID), time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.svc.AddReview(ctx, actorFor(reviewer), listing.ID, forms.ReviewForm{Rating: "5", Text: "double submit"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateReview)
}

func TestToggleLike(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "agent")
	listing := testutil.CreateListing(t, f.db, author, nil)

	liked, err := f.svc.ToggleLike(ctx, actorFor(author), listing.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = f.svc.ToggleLike(ctx, actorFor(author), listing.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = f.svc.ToggleLike(ctx, actorFor(author), 31337)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.ToggleLike(ctx, usercontext.Anonymous, listing.ID)
	assert.ErrorIs(t, err, apperror.ErrAuthenticationRequired)
}

func validListingForm() forms.ListingForm {
	return forms.ListingForm{
		Name: "Lake house", Price: "250000.50", Bedrooms: "3", Beds: "4", Bathrooms: "2",
		Location: "Lakeside", Description: "Right at the water",
	}
}

func TestCreateListing(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "agent")

	png := testutil.PNG(t)
	gallery := make([]testutil.File, 0, 12)
	for i := 0; i < 12; i++ {
		gallery = append(gallery, testutil.File{Field: "images", Filename: fmt.Sprintf("g%d.png", i), Data: png})
	}
	files := testutil.FileHeaders(t, append(gallery, testutil.File{Field: "image", Filename: "cover.png", Data: png})...)

	listing, err := f.svc.CreateListing(ctx, actorFor(author), validListingForm(), files["image"][0], files["images"])
	require.NoError(t, err)

	assert.Equal(t, author.ID, listing.AuthorID)
	assert.InDelta(t, 250000.50, listing.Price, 0.001)
	assert.Len(t, listing.Images, housing.MaxImages, "images beyond the tenth are dropped")
	assert.Len(t, f.queue.jobs, housing.MaxImages)
	assert.Contains(t, listing.Image, "houses/")

	path, err := f.store.Path(listing.Images[0].Image)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	var stored int64
	require.NoError(t, f.db.Model(&models.ListingImage{}).Where("listing_id = ?", listing.ID).Count(&stored).Error)
	assert.Equal(t, int64(housing.MaxImages), stored)
	assert.Equal(t, []string{events.SubjectListingCreated}, f.events.Subjects())

	err = f.db.Model(listing).Update("author_id", author.ID+1).Error
	assert.ErrorIs(t, err, models.ErrAuthorImmutable)
}

func TestCreateListingValidation(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "agent")

	_, err := f.svc.CreateListing(ctx, usercontext.Anonymous, validListingForm(), nil, nil)
	assert.ErrorIs(t, err, apperror.ErrAuthenticationRequired)

	form := validListingForm()
	form.Price = "-1"
	form.Name = ""
	files := testutil.FileHeaders(t, testutil.File{Field: "images", Filename: "evil.png", Data: []byte("<html></html>")})
	_, err = f.svc.CreateListing(ctx, actorFor(author), form, nil, files["images"])
	require.ErrorIs(t, err, apperror.ErrValidationFailed)

	fields := apperror.Fields(err)
	assert.True(t, fields.Has("price"))
	assert.True(t, fields.Has("name"))
	assert.True(t, fields.Has("images"))

	var count int64
	require.NoError(t, f.db.Model(&models.Listing{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.events.Subjects())
}
