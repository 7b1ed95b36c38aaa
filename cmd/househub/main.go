package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/HouseHub/app/controllers"
	"github.com/ManuelReschke/HouseHub/app/repository"
	"github.com/ManuelReschke/HouseHub/internal/pkg/account"
	"github.com/ManuelReschke/HouseHub/internal/pkg/cache"
	"github.com/ManuelReschke/HouseHub/internal/pkg/constants"
	"github.com/ManuelReschke/HouseHub/internal/pkg/contact"
	"github.com/ManuelReschke/HouseHub/internal/pkg/database"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
	"github.com/ManuelReschke/HouseHub/internal/pkg/events"
	"github.com/ManuelReschke/HouseHub/internal/pkg/housing"
	"github.com/ManuelReschke/HouseHub/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/HouseHub/internal/pkg/mail"
	"github.com/ManuelReschke/HouseHub/internal/pkg/oauth"
	"github.com/ManuelReschke/HouseHub/internal/pkg/router"
	"github.com/ManuelReschke/HouseHub/internal/pkg/s3backup"
	"github.com/ManuelReschke/HouseHub/internal/pkg/session"
	"github.com/ManuelReschke/HouseHub/internal/pkg/statistics"
	"github.com/ManuelReschke/HouseHub/internal/pkg/storage"
	"github.com/ManuelReschke/HouseHub/views"
)

const shutdownTimeout = 10 * time.Second

// Application is the HTTP server plus the background parts that have to be
// stopped with it
type Application struct {
	App       *fiber.App
	processor *imageprocessor.Processor
	events    events.Publisher
}

func main() {
	a := NewApplication()

	go func() {
		addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
		if err := a.App.Listen(addr); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	a.Shutdown()
}

func NewApplication() *Application {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	session.SetSessionStore(session.NewSessionStore())

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/househub to project root
		"../../../", // Fallback
	}

	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	rdb := cache.GetClient()
	store := storage.FromEnv()
	publisher := events.Setup()
	stats := statistics.NewProvider(repos.Listing, repos.User, repos.Review, rdb)

	processor := imageprocessor.New(store, repos.Listing,
		imageprocessor.WithWorkers(env.GetEnvInt("IMAGE_WORKERS", imageprocessor.DefaultWorkers)),
		imageprocessor.WithQueueSize(env.GetEnvInt("IMAGE_QUEUE_SIZE", imageprocessor.DefaultQueueSize)),
		imageprocessor.WithBackup(s3backup.Setup(context.Background())),
	)
	processor.Start()

	housingOpts := []housing.Option{
		housing.WithStorage(store),
		housing.WithEvents(publisher),
		housing.WithImageQueue(processor),
		housing.WithStatistics(stats),
	}
	if rdb != nil {
		housingOpts = append(housingOpts, housing.WithLocker(cache.NewLocker(rdb)))
	}

	contactOpts := []contact.Option{contact.WithEvents(publisher)}
	if notifier := mail.NewContactNotifier(); notifier != nil {
		contactOpts = append(contactOpts, contact.WithNotifier(notifier))
	}

	housingSvc := housing.NewService(db, housingOpts...)
	ctrl := controllers.New(controllers.Services{
		Housing:        housingSvc,
		Accounts:       account.NewService(db, account.WithStorage(store), account.WithStatistics(stats)),
		Contact:        contact.NewService(db, contactOpts...),
		Statistics:     stats,
		OAuthProviders: oauth.Setup(),
	})

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		ErrorHandler: controllers.ErrorHandler,
		BodyLimit:    64 * 1024 * 1024, // cover plus up to ten gallery images
	})

	// ignore and cache favicon
	if _, err := os.Stat(basePath + "public/assets/icons/favicon.ico"); err == nil {
		app.Use(favicon.New(favicon.Config{
			File:         basePath + "public/assets/icons/favicon.ico",
			URL:          "/favicon.ico",
			CacheControl: "public, max-age=604800",
		}))
	}

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	if password := env.GetEnv("METRICS_PASSWORD", ""); password != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				env.GetEnv("METRICS_USERNAME", "admin"): password,
			},
		}), monitor.New(monitor.Config{Title: "HouseHub Metrics"}))
	}

	// static files
	app.Static(constants.AssetsRoute, basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// static uploads
	app.Static(constants.UploadsRoute, store.Root, fiber.Static{
		CacheDuration: 10 * time.Second,
		Compress:      false,
		MaxAge:        604800, // 7 days
	})

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: constants.APIDocsRoute,
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
		Title:    "HouseHub API",
	}))

	// ROUTER
	router.InstallRouter(app, router.Config{
		Controllers: ctrl,
		Housing:     housingSvc,
	})

	return &Application{App: app, processor: processor, events: publisher}
}

// Shutdown stops accepting requests, drains the image queue and closes the
// event connection
func (a *Application) Shutdown() {
	if err := a.App.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	a.processor.Stop()
	a.events.Close()
}
