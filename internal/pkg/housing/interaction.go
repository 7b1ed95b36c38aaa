package housing

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/app/repository"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/events"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

func (s *Service) AddComment(ctx context.Context, actor usercontext.UserContext, listingID uint, form forms.CommentForm) (*models.Comment, error) {
	if err := s.requireListing(listingID); err != nil {
		return nil, err
	}
	if !actor.IsLoggedIn {
		return nil, apperror.ErrAuthenticationRequired
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	comment := &models.Comment{ListingID: listingID, UserID: actor.UserID, Text: form.Text}
	if err := s.repos.Comment.Create(comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// AddReview stores the actor's only review of a listing and refreshes the
// listing rating in the same transaction.
func (s *Service) AddReview(ctx context.Context, actor usercontext.UserContext, listingID uint, form forms.ReviewForm) (*models.Review, error) {
	if err := s.requireListing(listingID); err != nil {
		return nil, err
	}
	if !actor.IsLoggedIn {
		return nil, apperror.ErrAuthenticationRequired
	}

	reviewed, err := s.repos.Review.Exists(listingID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if reviewed {
		return nil, apperror.ErrDuplicateReview
	}

	rating, err := form.Clean()
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		key := fmt.Sprintf("review:%d:%d", listingID, actor.UserID)
		locked, err := s.locker.TryLock(ctx, key, reviewLockTTL)
		switch {
		case err != nil:
			// the unique index still protects us without redis
			log.Warnf("[Housing] review lock unavailable: %v", err)
		case !locked:
			return nil, apperror.ErrDuplicateReview
		default:
			defer func() {
				if err := s.locker.Unlock(ctx, key); err != nil {
					log.Warnf("[Housing] releasing %s: %v", key, err)
				}
			}()
		}
	}

	review := &models.Review{ListingID: listingID, UserID: actor.UserID, Rating: rating, Text: form.Text}
	var average float64
	err = repository.Transaction(ctx, s.db, func(repos *repository.Repositories) error {
		if err := repos.Review.Create(review); err != nil {
			return err
		}
		if err := repos.Listing.RefreshRating(listingID); err != nil {
			return err
		}
		avg, err := repos.Review.AverageRating(listingID)
		if err != nil {
			return err
		}
		if avg != nil {
			average = *avg
		}
		return nil
	})
	if models.IsDuplicateKey(err) {
		return nil, apperror.ErrDuplicateReview
	}
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.publish(events.SubjectReviewCreated, events.NewReviewCreated(review, average))
	s.invalidateStats(ctx)
	return review, nil
}

// ToggleLike adds or removes the actor's like and reports the new state
func (s *Service) ToggleLike(ctx context.Context, actor usercontext.UserContext, listingID uint) (bool, error) {
	if !actor.IsLoggedIn {
		return false, apperror.ErrAuthenticationRequired
	}
	if err := s.requireListing(listingID); err != nil {
		return false, err
	}
	liked, err := s.repos.Listing.ToggleLike(actor.UserID, listingID)
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}
	return liked, nil
}
