package statistics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedCounter struct {
	n     int64
	err   error
	calls int
}

func (f *fixedCounter) Count() (int64, error) {
	f.calls++
	return f.n, f.err
}

func TestProviderWithoutCacheCountsInDatabase(t *testing.T) {
	listings := &fixedCounter{n: 12}
	users := &fixedCounter{n: 4}
	reviews := &fixedCounter{err: errors.New("boom")}

	p := NewProvider(listings, users, reviews, nil)
	data := p.Get(context.Background())

	assert.Equal(t, int64(12), data.TotalListings)
	assert.Equal(t, int64(4), data.TotalUsers)
	assert.Zero(t, data.TotalReviews)
	assert.Equal(t, 1, listings.calls)

	// no cache configured, invalidation is a no-op
	p.Invalidate(context.Background())
}
