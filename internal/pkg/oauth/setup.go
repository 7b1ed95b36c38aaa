package oauth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
	"github.com/ManuelReschke/HouseHub/internal/pkg/session"
)

// Setup registers every provider that has credentials configured and returns
// their names. OAuth state lives in redis DB 2 unless sessions run in memory.
func Setup() []string {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}

	var providers []goth.Provider
	if key := env.GetEnv("GOOGLE_KEY", ""); key != "" {
		providers = append(providers, google.New(key, env.GetEnv("GOOGLE_SECRET", ""),
			base+"/auth/google/callback", "email", "profile"))
	}
	if key := env.GetEnv("GITHUB_KEY", ""); key != "" {
		providers = append(providers, github.New(key, env.GetEnv("GITHUB_SECRET", ""),
			base+"/auth/github/callback", "user:email"))
	}
	if len(providers) == 0 {
		log.Info("No OAuth providers configured")
		return nil
	}
	goth.UseProviders(providers...)

	cfg := fibersession.Config{
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Hour,
	}
	if env.GetEnv("SESSION_DRIVER", session.DriverRedis) == session.DriverRedis {
		cfg.Storage = session.RedisStorage(2)
	}
	gothfiber.SessionStore = fibersession.New(cfg)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	log.Infof("OAuth providers enabled: %s", strings.Join(names, ", "))
	return names
}
