package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/app/repository"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/events"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
)

// Notifier forwards a new message to the site operator
type Notifier interface {
	NotifyContact(msg *models.ContactMessage) error
}

type Service struct {
	messages repository.ContactRepository
	events   events.Publisher
	notifier Notifier
}

type Option func(*Service)

func WithEvents(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		messages: repository.NewContactRepository(db),
		events:   events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores an unread message. Notifications run in the background and
// never fail the submission.
func (s *Service) Submit(ctx context.Context, form forms.ContactForm) (*models.ContactMessage, error) {
	msg, err := form.Clean()
	if err != nil {
		return nil, err
	}
	if err := s.messages.Create(msg); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	if err := s.events.Publish(events.SubjectContactReceived, events.NewContactReceived(msg)); err != nil {
		log.Warnf("[Contact] publishing message %d failed: %v", msg.ID, err)
	}
	if s.notifier != nil {
		copied := *msg
		go func() {
			if err := s.notifier.NotifyContact(&copied); err != nil {
				log.Errorf("[Contact] notification for message %d failed: %v", copied.ID, err)
			}
		}()
	}
	return msg, nil
}

// Recent lists the newest messages first
func (s *Service) Recent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.messages.Recent(limit)
}

func (s *Service) MarkRead(ctx context.Context, id uint) error {
	err := s.messages.MarkRead(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("mark message %d read: %w", id, err)
	}
	return nil
}
