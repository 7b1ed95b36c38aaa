package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/markbates/goth"
	"gorm.io/gorm"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/app/repository"
)

var invalidUsernameChars = regexp.MustCompile(`[^\w.@+-]+`)

// LoginWithProvider links an OAuth identity to a user. Unknown identities are
// matched by email first, then a new user with an empty profile is created.
func (s *Service) LoginWithProvider(ctx context.Context, gu goth.User) (*models.User, error) {
	if gu.Provider == "" || gu.UserID == "" {
		return nil, errors.New("provider identity is incomplete")
	}

	var user *models.User
	created := false
	err := repository.Transaction(ctx, s.db, func(repos *repository.Repositories) error {
		pa, err := repos.ProviderAccount.GetByProviderUID(gu.Provider, gu.UserID)
		switch {
		case err == nil:
			pa.AccessToken = gu.AccessToken
			pa.RefreshToken = gu.RefreshToken
			pa.ExpiresAt = expiry(gu.ExpiresAt)
			if err := repos.ProviderAccount.Update(pa); err != nil {
				return err
			}
			user, err = repos.User.GetByID(pa.UserID)
			return err
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if gu.Email != "" {
			existing, err := repos.User.GetByEmail(gu.Email)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			user = existing
		}
		if user == nil {
			if user, err = newProviderUser(repos, gu); err != nil {
				return err
			}
			created = true
		}
		if _, err := repos.Profile.GetOrCreate(user.ID); err != nil {
			return err
		}

		return repos.ProviderAccount.Create(&models.ProviderAccount{
			UserID:         user.ID,
			Provider:       gu.Provider,
			ProviderUserID: gu.UserID,
			AccessToken:    gu.AccessToken,
			RefreshToken:   gu.RefreshToken,
			ExpiresAt:      expiry(gu.ExpiresAt),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s login: %w", gu.Provider, err)
	}

	if created {
		log.Infof("[Account] Created user %d from %s login", user.ID, gu.Provider)
		if s.stats != nil {
			s.stats.Invalidate(ctx)
		}
	}
	if err := s.repos.User.TouchLastLogin(user.ID); err != nil {
		log.Warnf("[Account] last login of user %d not stored: %v", user.ID, err)
	}
	return user, nil
}

func newProviderUser(repos *repository.Repositories, gu goth.User) (*models.User, error) {
	username, err := uniqueUsername(repos, firstNonEmpty(gu.NickName, emailLocalPart(gu.Email), gu.Name, gu.Provider+"_user"))
	if err != nil {
		return nil, err
	}
	email := gu.Email
	if email == "" {
		email = fmt.Sprintf("%s_%s@%s.oauth.local", gu.Provider, gu.UserID, gu.Provider)
	}

	// the password is never shown to anyone, it only satisfies the column
	user, err := models.CreateUser(username, email, randomSecret())
	if err != nil {
		return nil, err
	}
	if err := repos.User.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func uniqueUsername(repos *repository.Repositories, base string) (string, error) {
	base = invalidUsernameChars.ReplaceAllString(base, "")
	if base == "" {
		base = "user"
	}
	if len(base) > 140 {
		base = base[:140]
	}
	candidate := base
	for i := 2; i < 1000; i++ {
		taken, err := repos.User.UsernameExists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return base + "_" + randomSecret()[:8], nil
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return ""
}

func expiry(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func randomSecret() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
