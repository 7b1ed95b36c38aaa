package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/HouseHub/internal/pkg/cache"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
	"github.com/ManuelReschke/HouseHub/internal/pkg/usercontext"
)

const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

var sessionStore *session.Store

// NewSessionStore builds the app session store for SESSION_DRIVER and makes
// it the package default.
func NewSessionStore() *session.Store {
	cfg := session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     2 * time.Hour,
		KeyLookup:      "cookie:session_id",
	}

	switch driver := env.GetEnv("SESSION_DRIVER", DriverRedis); driver {
	case DriverMemory:
		log.Warn("Using in-memory sessions, logins are lost on restart")
	case DriverRedis:
		cfg.Storage = RedisStorage(1) // cache uses DB 0
	default:
		log.Warnf("Unknown SESSION_DRIVER %q, falling back to memory", driver)
	}

	sessionStore = session.New(cfg)
	return sessionStore
}

// RedisStorage opens a fiber storage on database db of the cache server
func RedisStorage(db int) *redis.Storage {
	host, port := "localhost", 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client := cache.GetClient(); client != nil {
		opts := client.Options()
		if h, p, err := net.SplitHostPort(opts.Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if opts.Password != "" {
			password = opts.Password
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: db,
		Reset:    false,
	})
}

// SetSessionStore replaces the package default, mainly for tests
func SetSessionStore(store *session.Store) {
	sessionStore = store
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// Login stores the authenticated identity under a fresh session id
func Login(c *fiber.Ctx, userID uint, username string, isAdmin bool) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}

	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, userID)
	sess.Set(usercontext.KeyUsername, username)
	sess.Set(usercontext.KeyIsAdmin, isAdmin)
	return sess.Save()
}

// Logout drops the whole session
func Logout(c *fiber.Ctx) error {
	if sessionStore == nil {
		return nil
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}
