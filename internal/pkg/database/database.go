package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var DB *gorm.DB

// GetDB returns the shared connection pool opened by SetupDatabase.
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the shared connection, used by tests and tools.
func SetDB(db *gorm.DB) {
	DB = db
}

// Dialector builds the GORM dialector for driver from the DB_* environment.
func Dialector(driver string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case DriverMySQL, "":
		// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			env.GetEnv("DB_USER", ""),
			env.GetEnv("DB_PASSWORD", ""),
			env.GetEnv("DB_HOST", "127.0.0.1"),
			env.GetEnv("DB_PORT", "3306"),
			env.GetEnv("DB_NAME", ""),
		)
		return mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			env.GetEnv("DB_HOST", "127.0.0.1"),
			env.GetEnv("DB_USER", ""),
			env.GetEnv("DB_PASSWORD", ""),
			env.GetEnv("DB_NAME", ""),
			env.GetEnv("DB_PORT", "5432"),
			env.GetEnv("DB_SSLMODE", "disable"),
		)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(env.GetEnv("DB_SQLITE_PATH", "househub.db") + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Open connects with the settings every HouseHub connection shares.
// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	level := logger.Warn
	if env.IsDev() {
		level = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.Models()...)
}
