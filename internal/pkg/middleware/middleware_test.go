package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/HouseHub/internal/pkg/session"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	session.SetSessionStore(fibersession.New(fibersession.Config{KeyLookup: "cookie:session_id"}))
	t.Cleanup(func() { session.SetSessionStore(nil) })

	app := fiber.New()
	app.Use(UserContextMiddleware)
	app.Get("/login-as", func(c *fiber.Ctx) error {
		return session.Login(c, 42, "alice", false)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(usercontext.GetUserContext(c))
	})
	app.Get("/secret", RequireAuth, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/login", RequireGuest, func(c *fiber.Ctx) error {
		return c.SendString("login form")
	})
	app.Get("/admin-login-as", func(c *fiber.Ctx) error {
		return session.Login(c, 1, "root", true)
	})
	app.Get("/admin", RequireAdmin, func(c *fiber.Ctx) error {
		return c.SendString("admin")
	})
	return app
}

func sessionCookie(t *testing.T, app *fiber.App) string {
	t.Helper()
	return sessionCookieFrom(t, app, "/login-as")
}

func sessionCookieFrom(t *testing.T, app *fiber.App, target string) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("no session cookie set")
	return ""
}

func TestRequireAuthRedirectsWithNext(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/secret?tab=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fsecret%3Ftab%3D1", resp.Header.Get("Location"))
}

func TestLoggedInUserPassesAndIsKeptFromLogin(t *testing.T) {
	app := newApp(t)
	cookie := sessionCookie(t, app)

	req := httptest.NewRequest(fiber.MethodGet, "/secret", nil)
	req.Header.Set("Cookie", cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.JSONEq(t, `{"user_id":42,"username":"alice","is_logged_in":true,"is_admin":false}`, buf.String())

	req = httptest.NewRequest(fiber.MethodGet, "/login", nil)
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAnonymousContext(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.JSONEq(t, `{"user_id":0,"username":"","is_logged_in":false,"is_admin":false}`, buf.String())
}

func TestRequireAdmin(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fadmin", resp.Header.Get("Location"))

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set("Cookie", sessionCookie(t, app))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	req = httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set("Cookie", sessionCookieFrom(t, app, "/admin-login-as"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
