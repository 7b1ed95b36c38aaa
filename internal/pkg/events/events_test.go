package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/HouseHub/app/models"
)

func TestSetupWithoutURLIsNop(t *testing.T) {
	t.Setenv("NATS_URL", "")
	p := Setup()
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.Publish(SubjectListingCreated, struct{}{}))
	p.Close()
}

func TestListingCreatedPayload(t *testing.T) {
	l := &models.Listing{
		ID: 7, Name: "Loft", Location: "Berlin", Price: 250000.5, AuthorID: 3,
		CreatedAt: time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC),
		Images:    []models.ListingImage{{}, {}},
	}

	raw, err := json.Marshal(NewListingCreated(l))
	require.NoError(t, err)
	assert.JSONEq(t, `{"listing_id":7,"name":"Loft","location":"Berlin","price":250000.5,"author_id":3,"images":2,"timestamp":"2024-02-01T10:30:00Z"}`, string(raw))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(SubjectReviewCreated, NewReviewCreated(&models.Review{ID: 1, Rating: 4}, 4)))
	require.NoError(t, r.Publish(SubjectContactReceived, NewContactReceived(&models.ContactMessage{ID: 2})))
	assert.Equal(t, []string{SubjectReviewCreated, SubjectContactReceived}, r.Subjects())
}
