package viewmodel

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/constants"
)

// GravatarURL generates a Gravatar URL for the given email address.
// Default size is 200px if not specified.
func GravatarURL(email string, size int) string {
	if size <= 0 {
		size = 200
	}
	email = strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}

// AvatarURL prefers the uploaded profile image over Gravatar
func AvatarURL(user *models.User, size int) string {
	if user == nil {
		return GravatarURL("", size)
	}
	if user.Profile != nil && user.Profile.ProfileImage != "" {
		return MediaURL(user.Profile.ProfileImage)
	}
	return GravatarURL(user.Email, size)
}

// MediaURL maps a stored relative path to its public URL
func MediaURL(rel string) string {
	if rel == "" {
		return ""
	}
	return constants.UploadsRoute + "/" + strings.TrimPrefix(rel, "/")
}
