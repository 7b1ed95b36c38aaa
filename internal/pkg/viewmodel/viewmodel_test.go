package viewmodel

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/HouseHub/app/models"
)

func TestGravatarURLNormalisesEmail(t *testing.T) {
	a := GravatarURL("  Jane@Example.com ", 0)
	b := GravatarURL("jane@example.com", 200)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "s=200")
}

func TestAvatarURLPrefersUpload(t *testing.T) {
	u := &models.User{Email: "jane@example.com", Profile: &models.UserProfile{ProfileImage: "profiles/abc.png"}}
	assert.Equal(t, "/uploads/profiles/abc.png", AvatarURL(u, 80))

	u.Profile.ProfileImage = ""
	assert.Contains(t, AvatarURL(u, 80), "gravatar.com")
}

func TestLayoutFlash(t *testing.T) {
	l := Layout{Title: "Add"}
	assert.Equal(t, "", l.FlashType())
	assert.Equal(t, "Add | HouseHub", l.PageTitle())

	l.Flash = fiber.Map{"type": "success", "message": "Comment added!"}
	assert.Equal(t, "success", l.FlashType())
	assert.Equal(t, "Comment added!", l.FlashMessage())
}
