// Package testutil provides throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/database"
)

// NewTestDB returns a migrated in-memory SQLite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with an empty profile.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	u, err := models.CreateUser(username, username+"@example.com", "s3cure-Passw0rd")
	require.NoError(t, err)
	require.NoError(t, db.Create(u).Error)
	_, err = models.GetOrCreateUserProfile(db, u.ID)
	require.NoError(t, err)
	return u
}

// CreateListing inserts a valid listing owned by author, applying mutate before the insert.
func CreateListing(t *testing.T, db *gorm.DB, author *models.User, mutate func(*models.Listing)) *models.Listing {
	t.Helper()

	l := &models.Listing{
		Name:        "Cottage",
		Price:       100000,
		Bedrooms:    2,
		Beds:        2,
		Bathrooms:   1,
		Location:    "Springfield",
		Description: "A small cottage",
		AuthorID:    author.ID,
	}
	if mutate != nil {
		mutate(l)
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
