package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/nats-io/nats.go"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
)

const (
	SubjectListingCreated  = "listing.created"
	SubjectReviewCreated   = "review.created"
	SubjectContactReceived = "contact.received"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// Publisher sends domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(subject string, event interface{}) error
	Close()
}

// Setup connects to NATS_URL. Without a URL, or when the server is unreachable,
// events are discarded.
func Setup() Publisher {
	url := env.GetEnv("NATS_URL", "")
	if url == "" {
		log.Info("NATS_URL not set, domain events are disabled")
		return Nop{}
	}
	p, err := Connect(url)
	if err != nil {
		log.Warnf("Failed to connect to NATS at %s: %v", url, err)
		return Nop{}
	}
	log.Infof("NATS connected successfully: %s", url)
	return p
}

type NATSPublisher struct {
	conn *nats.Conn
}

func Connect(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("househub"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(subject string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	return p.conn.Publish(subject, payload)
}

// Close flushes pending messages before closing the connection
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Warnf("NATS drain failed: %v", err)
		p.conn.Close()
	}
}

type Nop struct{}

func (Nop) Publish(string, interface{}) error { return nil }
func (Nop) Close()                            {}

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	Events []Recorded
}

type Recorded struct {
	Subject string
	Event   interface{}
}

func (r *Recorder) Publish(subject string, event interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Recorded{Subject: subject, Event: event})
	return nil
}

func (r *Recorder) Close() {}

func (r *Recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Subject)
	}
	return out
}

// Event structures

type ListingCreatedEvent struct {
	ListingID uint    `json:"listing_id"`
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	Price     float64 `json:"price"`
	AuthorID  uint    `json:"author_id"`
	Images    int     `json:"images"`
	Timestamp string  `json:"timestamp"`
}

func NewListingCreated(l *models.Listing) ListingCreatedEvent {
	return ListingCreatedEvent{
		ListingID: l.ID,
		Name:      l.Name,
		Location:  l.Location,
		Price:     l.Price,
		AuthorID:  l.AuthorID,
		Images:    len(l.Images),
		Timestamp: l.CreatedAt.UTC().Format(timestampLayout),
	}
}

type ReviewCreatedEvent struct {
	ReviewID  uint    `json:"review_id"`
	ListingID uint    `json:"listing_id"`
	UserID    uint    `json:"user_id"`
	Rating    int     `json:"rating"`
	Average   float64 `json:"average"`
	Timestamp string  `json:"timestamp"`
}

func NewReviewCreated(r *models.Review, average float64) ReviewCreatedEvent {
	return ReviewCreatedEvent{
		ReviewID:  r.ID,
		ListingID: r.ListingID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Average:   average,
		Timestamp: r.CreatedAt.UTC().Format(timestampLayout),
	}
}

// ContactReceivedEvent leaves out the message body
type ContactReceivedEvent struct {
	MessageID uint   `json:"message_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Timestamp string `json:"timestamp"`
}

func NewContactReceived(m *models.ContactMessage) ContactReceivedEvent {
	return ContactReceivedEvent{
		MessageID: m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Timestamp: m.CreatedAt.UTC().Format(timestampLayout),
	}
}
