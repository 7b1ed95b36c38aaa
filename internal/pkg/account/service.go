package account

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/app/repository"
	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
	"github.com/ManuelReschke/HouseHub/internal/pkg/forms"
	"github.com/ManuelReschke/HouseHub/internal/pkg/storage"
	"github.com/ManuelReschke/HouseHub/internal/pkg/upload"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

const (
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "A user with that email already exists."
	msgInvalidLogin  = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

// StatsInvalidator drops cached site totals
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service covers registration, login and profile maintenance
type Service struct {
	db    *gorm.DB
	repos *repository.Repositories
	store *storage.Storage
	stats StatsInvalidator
}

type Option func(*Service)

func WithStorage(s *storage.Storage) Option { return func(svc *Service) { svc.store = s } }

func WithStatistics(s StatsInvalidator) Option { return func(svc *Service) { svc.stats = s } }

func NewService(db *gorm.DB, opts ...Option) *Service {
	svc := &Service{
		db:    db,
		repos: repository.NewRepositories(db),
		store: storage.FromEnv(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register creates a user and its profile in one transaction
func (s *Service) Register(ctx context.Context, form forms.RegisterForm, profileImage *multipart.FileHeader) (*models.User, error) {
	fields := apperror.Fields(form.Validate())
	if fields == nil {
		fields = apperror.FieldErrors{}
	}

	if err := s.checkTaken(fields, form.Username, form.Email); err != nil {
		return nil, err
	}
	if profileImage != nil {
		if _, err := upload.ValidateFileHeader(profileImage); err != nil {
			fields.Add("profile_image", err.Error())
		}
	}
	if err := apperror.Validation(fields); err != nil {
		return nil, err
	}

	user, err := models.CreateUser(form.Username, form.Email, form.Password1)
	if err != nil {
		return nil, fmt.Errorf("build user: %w", err)
	}

	var imagePath string
	if profileImage != nil {
		if imagePath, err = s.store.Save(storage.NamespaceProfiles, profileImage); err != nil {
			return nil, fmt.Errorf("save profile image: %w", err)
		}
	}

	err = repository.Transaction(ctx, s.db, func(repos *repository.Repositories) error {
		if err := repos.User.Create(user); err != nil {
			return err
		}
		profile, err := repos.Profile.GetOrCreate(user.ID)
		if err != nil {
			return err
		}
		profile.FirstName = form.FirstName
		profile.LastName = form.LastName
		profile.Bio = form.Bio
		profile.ProfileImage = imagePath
		if err := repos.Profile.Update(profile); err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		if imagePath != "" {
			_ = s.store.Delete(imagePath)
		}
		if models.IsDuplicateKey(err) {
			// lost a race against a parallel registration
			fields := apperror.FieldErrors{}
			if err := s.checkTaken(fields, form.Username, form.Email); err != nil {
				return nil, err
			}
			if len(fields) == 0 {
				fields.Add("username", msgUsernameTaken)
			}
			return nil, apperror.Validation(fields)
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	log.Infof("[Account] Registered user %d (%s)", user.ID, user.Username)
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
	return user, nil
}

// Authenticate checks the credentials and stamps the login time
// checkTaken adds an error for every identity that already belongs to a user.
// Fields that already carry an error are not checked.
func (s *Service) checkTaken(fields apperror.FieldErrors, username, email string) error {
	if !fields.Has("username") {
		taken, err := s.repos.User.UsernameExists(username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			fields.Add("username", msgUsernameTaken)
		}
	}
	if !fields.Has("email") {
		taken, err := s.repos.User.EmailExists(email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			fields.Add("email", msgEmailTaken)
		}
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	form := forms.LoginForm{Username: username, Password: password}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repos.User.GetByUsername(form.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Validation(apperror.FieldErrors{apperror.NonFieldKey: msgInvalidLogin})
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, apperror.Validation(apperror.FieldErrors{apperror.NonFieldKey: msgInvalidLogin})
	}

	if err := s.repos.User.TouchLastLogin(user.ID); err != nil {
		log.Warnf("[Account] last login of user %d not stored: %v", user.ID, err)
	}
	return user, nil
}

// Profile returns the actor with a guaranteed profile
func (s *Service) Profile(ctx context.Context, actor usercontext.UserContext) (*models.User, error) {
	if !actor.IsLoggedIn {
		return nil, apperror.ErrAuthenticationRequired
	}
	user, err := s.repos.User.GetByID(actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", actor.UserID, err)
	}
	if user.Profile == nil {
		if user.Profile, err = s.repos.Profile.GetOrCreate(user.ID); err != nil {
			return nil, fmt.Errorf("ensure profile: %w", err)
		}
	}
	return user, nil
}

// UpdateProfile saves the profile form. A new image replaces the old file.
func (s *Service) UpdateProfile(ctx context.Context, actor usercontext.UserContext, form forms.ProfileForm, image *multipart.FileHeader) (*models.UserProfile, error) {
	if !actor.IsLoggedIn {
		return nil, apperror.ErrAuthenticationRequired
	}

	fields := apperror.Fields(form.Validate())
	if fields == nil {
		fields = apperror.FieldErrors{}
	}
	if image != nil {
		if _, err := upload.ValidateFileHeader(image); err != nil {
			fields.Add("profile_image", err.Error())
		}
	}
	if err := apperror.Validation(fields); err != nil {
		return nil, err
	}

	profile, err := s.repos.Profile.GetOrCreate(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	oldImage := profile.ProfileImage
	if image != nil {
		if profile.ProfileImage, err = s.store.Save(storage.NamespaceProfiles, image); err != nil {
			return nil, fmt.Errorf("save profile image: %w", err)
		}
	}
	profile.FirstName = form.FirstName
	profile.LastName = form.LastName
	profile.Bio = form.Bio

	if err := s.repos.Profile.Update(profile); err != nil {
		if image != nil {
			_ = s.store.Delete(profile.ProfileImage)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if image != nil && oldImage != "" {
		if err := s.store.Delete(oldImage); err != nil {
			log.Warnf("[Account] removing old profile image %s: %v", oldImage, err)
		}
	}
	return profile, nil
}
