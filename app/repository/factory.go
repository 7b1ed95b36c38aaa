package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Factory hands out the repositories for one connection pool
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns the repositories bound to the pool, built once
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// Transaction runs fn with repositories that share one database transaction.
// Returning an error from fn rolls everything back.
func (f *Factory) Transaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return Transaction(ctx, f.db, fn)
}

func Transaction(ctx context.Context, db *gorm.DB, fn func(repos *Repositories) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

var (
	globalFactory *Factory
	factoryOnce   sync.Once
)

// InitializeFactory binds the process wide factory to db. Later calls are no-ops.
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("repository factory not initialized, call InitializeFactory first")
	}
	return globalFactory
}

func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
