// Package housing implements the listing workflows: browsing, detail pages,
// comments, reviews, likes and listing creation.
package housing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/app/repository"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/events"
	"github.com/ManuelReschke/HouseHub/internal/pkg/storage"
)

const (
	PageSize      = 8
	MaxImages     = 10
	reviewLockTTL = 10 * time.Second
)

// Locker guards a key for a short time across processes
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// ImageQueue receives gallery images that still need thumbnails
type ImageQueue interface {
	Enqueue(img models.ListingImage) error
}

// StatsInvalidator drops cached site totals
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	db     *gorm.DB
	repos  *repository.Repositories
	store  *storage.Storage
	events events.Publisher
	locker Locker
	images ImageQueue
	stats  StatsInvalidator
}

type Option func(*Service)

func WithStorage(s *storage.Storage) Option { return func(svc *Service) { svc.store = s } }

func WithEvents(p events.Publisher) Option {
	return func(svc *Service) {
		if p != nil {
			svc.events = p
		}
	}
}

func WithLocker(l Locker) Option         { return func(svc *Service) { svc.locker = l } }
func WithImageQueue(q ImageQueue) Option { return func(svc *Service) { svc.images = q } }
func WithStatistics(s StatsInvalidator) Option {
	return func(svc *Service) { svc.stats = s }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	svc := &Service{
		db:     db,
		repos:  repository.NewRepositories(db),
		store:  storage.FromEnv(),
		events: events.Nop{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) publish(subject string, event interface{}) {
	if err := s.events.Publish(subject, event); err != nil {
		log.Warnf("[Housing] publishing %s failed: %v", subject, err)
	}
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

func (s *Service) getListing(id uint) (*models.Listing, error) {
	listing, err := s.repos.Listing.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load listing %d: %w", id, err)
	}
	return listing, nil
}

func (s *Service) requireListing(id uint) error {
	exists, err := s.repos.Listing.Exists(id)
	if err != nil {
		return fmt.Errorf("check listing %d: %w", id, err)
	}
	if !exists {
		return apperror.ErrNotFound
	}
	return nil
}
