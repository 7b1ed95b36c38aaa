package housing

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/app/repository"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/events"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/storage"
	"github.com/ManuelReschke/HouseHub/internal/pkg/upload"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

// CreateListing publishes a listing owned by actor. cover may be nil. Only
// the first MaxImages gallery files are used, the rest are ignored.
func (s *Service) CreateListing(ctx context.Context, actor usercontext.UserContext, form forms.ListingForm, cover *multipart.FileHeader, gallery []*multipart.FileHeader) (*models.Listing, error) {
	if !actor.IsLoggedIn {
		return nil, apperror.ErrAuthenticationRequired
	}
	if len(gallery) > MaxImages {
		gallery = gallery[:MaxImages]
	}

	listing, fields := form.Clean()
	if cover != nil {
		if _, err := upload.ValidateFileHeader(cover); err != nil {
			fields.Add("image", err.Error())
		}
	}
	for _, fh := range gallery {
		if _, err := upload.ValidateFileHeader(fh); err != nil {
			fields.Add("images", fmt.Sprintf("%s: %s", fh.Filename, err.Error()))
		}
	}
	if err := apperror.Validation(fields); err != nil {
		return nil, err
	}

	var saved []string
	cleanup := func() {
		for _, rel := range saved {
			if err := s.store.Delete(rel); err != nil {
				log.Warnf("[Housing] removing %s: %v", rel, err)
			}
		}
	}

	if cover != nil {
		rel, err := s.store.Save(storage.NamespaceHouses, cover)
		if err != nil {
			return nil, fmt.Errorf("save cover image: %w", err)
		}
		saved = append(saved, rel)
		listing.Image = rel
	}
	for _, fh := range gallery {
		rel, err := s.store.Save(storage.NamespaceHouseImages, fh)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("save gallery image: %w", err)
		}
		saved = append(saved, rel)
		listing.Images = append(listing.Images, models.ListingImage{Image: rel})
	}

	listing.AuthorID = actor.UserID
	if err := listing.Validate(); err != nil {
		cleanup()
		return nil, fmt.Errorf("listing invalid after cleaning: %w", err)
	}

	err := repository.Transaction(ctx, s.db, func(repos *repository.Repositories) error {
		return repos.Listing.Create(listing)
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("create listing: %w", err)
	}

	if s.images != nil {
		for _, img := range listing.Images {
			if err := s.images.Enqueue(img); err != nil {
				log.Warnf("[Housing] thumbnails for image %d skipped: %v", img.ID, err)
			}
		}
	}
	s.publish(events.SubjectListingCreated, events.NewListingCreated(listing))
	s.invalidateStats(ctx)
	return listing, nil
}
