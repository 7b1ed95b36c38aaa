package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/testutil"
)

func TestFactoryTransactionRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "agent")
	f := NewFactory(db)

	boom := errors.New("boom")
	err := f.Transaction(context.Background(), func(repos *Repositories) error {
		l := &models.Listing{Name: "Cabin", Price: 1, Location: "Harz", Description: "x", AuthorID: author.ID}
		require.NoError(t, repos.Listing.Create(l))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := f.GetRepositories().Listing.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFactoryTransactionCommits(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "agent")
	f := NewFactory(db)

	err := f.Transaction(context.Background(), func(repos *Repositories) error {
		return repos.Listing.Create(&models.Listing{Name: "Cabin", Price: 1, Location: "Harz", Description: "x", AuthorID: author.ID})
	})
	require.NoError(t, err)

	count, err := f.GetRepositories().Listing.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Same(t, f.GetRepositories(), f.GetRepositories())
}
