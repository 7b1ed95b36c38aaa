package database

import (
	"log"
	"time"

	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

func SetupDatabase() {
	driver := env.GetEnv("DB_DRIVER", DriverMySQL)
	dialector, err := Dialector(driver)
	if err != nil {
		panic(err)
	}

	for i := 0; i < maxRetries; i++ {
		DB, err = Open(dialector)
		if err == nil {
			if err = Migrate(DB); err != nil {
				panic(err)
			}
			log.Printf("Connected to %s database", driver)
			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retry in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}
