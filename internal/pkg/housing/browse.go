package housing

import (
	"context"
	"fmt"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/app/repository"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

// Page is one page of the listing index
type Page struct {
	Listings []models.Listing
	Number   int
	NumPages int
	Total    int64
	HasPrev  bool
	HasNext  bool
}

func (p Page) PrevNumber() int { return p.Number - 1 }
func (p Page) NextNumber() int { return p.Number + 1 }

func emptyPage() Page {
	return Page{Number: 1, NumPages: 1}
}

// Browse filters, sorts and pages the listings. A malformed filter returns
// ErrValidationFailed together with an empty page.
func (s *Service) Browse(ctx context.Context, filter forms.ListingFilter) (Page, error) {
	f, err := filter.Clean()
	if err != nil {
		return emptyPage(), err
	}

	listings, total, err := s.repos.Listing.Search(repository.ListingQuery{
		Location:     f.Location,
		PriceMin:     f.PriceMin,
		PriceMax:     f.PriceMax,
		MinBedrooms:  f.Bedrooms,
		MinBathrooms: f.Bathrooms,
		Sort:         repository.ListingSort(f.SortBy),
		Offset:       (f.Page - 1) * PageSize,
		Limit:        PageSize,
	})
	if err != nil {
		return emptyPage(), fmt.Errorf("search listings: %w", err)
	}

	numPages := int((total + PageSize - 1) / PageSize)
	if numPages < 1 {
		numPages = 1
	}
	if f.Page > numPages {
		return emptyPage(), apperror.ErrNotFound
	}

	return Page{
		Listings: listings,
		Number:   f.Page,
		NumPages: numPages,
		Total:    total,
		HasPrev:  f.Page > 1,
		HasNext:  f.Page < numPages,
	}, nil
}

// DetailView is everything the listing page shows
type DetailView struct {
	Listing       *models.Listing
	Comments      []models.Comment
	Reviews       []models.Review
	AverageRating *float64
	HasReviewed   bool
	LikeCount     int64
	LikedByActor  bool
}

func (s *Service) Detail(ctx context.Context, actor usercontext.UserContext, id uint) (*DetailView, error) {
	listing, err := s.getListing(id)
	if err != nil {
		return nil, err
	}

	view := &DetailView{Listing: listing}
	if view.Comments, err = s.repos.Comment.ListByListing(id); err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	if view.Reviews, err = s.repos.Review.ListByListing(id); err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	if view.AverageRating, err = s.repos.Review.AverageRating(id); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if view.LikeCount, err = s.repos.Listing.CountLikes(id); err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	if actor.IsLoggedIn {
		for _, r := range view.Reviews {
			if r.UserID == actor.UserID {
				view.HasReviewed = true
				break
			}
		}
		if view.LikedByActor, err = s.repos.Listing.IsLikedBy(actor.UserID, id); err != nil {
			return nil, fmt.Errorf("like state: %w", err)
		}
	}
	return view, nil
}
