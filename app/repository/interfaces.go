package repository

import (
	"github.com/ManuelReschke/HouseHub/app/models"
	"gorm.io/gorm"
)

// ListingSort selects the order of a listing search.
type ListingSort string

const (
	SortDefault   ListingSort = ""
	SortPriceLow  ListingSort = "price_low"
	SortPriceHigh ListingSort = "price_high"
	SortNewest    ListingSort = "newest"
	SortOldest    ListingSort = "oldest"
)

// ListingQuery combines all supplied filters with AND. Nil filters are ignored.
type ListingQuery struct {
	Location     string
	PriceMin     *float64
	PriceMax     *float64
	MinBedrooms  *uint
	MinBathrooms *uint
	Sort         ListingSort
	Offset       int
	Limit        int
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	TouchLastLogin(id uint) error
	Count() (int64, error)
}

// ProfileRepository defines the interface for user profile operations
type ProfileRepository interface {
	GetOrCreate(userID uint) (*models.UserProfile, error)
	Update(profile *models.UserProfile) error
}

// ProviderAccountRepository defines the interface for linked OAuth identities
type ProviderAccountRepository interface {
	GetByProviderUID(provider, providerUserID string) (*models.ProviderAccount, error)
	Create(account *models.ProviderAccount) error
	Update(account *models.ProviderAccount) error
}

// ListingRepository defines the interface for listing-related database operations
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id uint) (*models.Listing, error)
	Exists(id uint) (bool, error)
	Search(q ListingQuery) ([]models.Listing, int64, error)
	UpdateImage(image *models.ListingImage) error
	RefreshRating(id uint) error
	ToggleLike(userID, listingID uint) (bool, error)
	IsLikedBy(userID, listingID uint) (bool, error)
	CountLikes(listingID uint) (int64, error)
	Count() (int64, error)
}

// CommentRepository defines the interface for comment operations
type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByListing(listingID uint) ([]models.Comment, error)
}

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	Create(review *models.Review) error
	ListByListing(listingID uint) ([]models.Review, error)
	Exists(listingID, userID uint) (bool, error)
	AverageRating(listingID uint) (*float64, error)
	Count() (int64, error)
}

// ContactRepository defines the interface for contact message operations
type ContactRepository interface {
	Create(msg *models.ContactMessage) error
	Recent(limit int) ([]models.ContactMessage, error)
	MarkRead(id uint) error
	Count() (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	User            UserRepository
	Profile         ProfileRepository
	ProviderAccount ProviderAccountRepository
	Listing         ListingRepository
	Comment         CommentRepository
	Review          ReviewRepository
	Contact         ContactRepository
}

// NewRepositories creates a new instance of all repositories bound to db.
// Passing a transaction yields repositories that take part in it.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		Profile:         NewProfileRepository(db),
		ProviderAccount: NewProviderAccountRepository(db),
		Listing:         NewListingRepository(db),
		Comment:         NewCommentRepository(db),
		Review:          NewReviewRepository(db),
		Contact:         NewContactRepository(db),
	}
}
