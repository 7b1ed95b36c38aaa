package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/ManuelReschke/HouseHub/internal/pkg/database"
	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
)

var (
	driver string
	dir    string
)

func main() {
	env.SetupEnvFile()

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "HouseHub database migrations",
	}
	rootCmd.PersistentFlags().StringVar(&driver, "driver", env.GetEnv("DB_DRIVER", database.DriverMySQL), "database driver (mysql or postgres)")
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "migrations", "directory holding one sub directory per driver")

	rootCmd.AddCommand(upCmd(), downCmd(), gotoCmd(), statusCmd(), autoCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrate(func(m *migrate.Migrate) error {
				err := m.Up()
				if errors.Is(err, migrate.ErrNoChange) {
					log.Println("No change: database is up to date")
					return nil
				}
				if err != nil {
					return fmt.Errorf("applying migrations: %w", err)
				}
				log.Println("Migrations applied")
				return nil
			})
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrate(func(m *migrate.Migrate) error {
				if err := m.Steps(-1); err != nil {
					return fmt.Errorf("rolling back: %w", err)
				}
				log.Println("Last migration rolled back")
				return nil
			})
		},
	}
}

func gotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto N",
		Short: "Migrate to version N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return withMigrate(func(m *migrate.Migrate) error {
				err := m.Migrate(uint(version))
				if errors.Is(err, migrate.ErrNoChange) {
					log.Printf("No change: database is already at version %d", version)
					return nil
				}
				if err != nil {
					return fmt.Errorf("migrating to version %d: %w", version, err)
				}
				log.Printf("Migrated to version %d", version)
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrate(func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					log.Println("No migrations applied yet")
					return nil
				}
				if err != nil {
					return fmt.Errorf("reading version: %w", err)
				}
				dirtyStatus := ""
				if dirty {
					dirtyStatus = " (dirty)"
				}
				log.Printf("Current migration version: %d%s", version, dirtyStatus)
				return nil
			})
		},
	}
}

// autoCmd creates the schema from the models, the only option for sqlite
func autoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Create or update the schema from the GORM models",
		RunE: func(cmd *cobra.Command, args []string) error {
			dialector, err := database.Dialector(driver)
			if err != nil {
				return err
			}
			db, err := database.Open(dialector)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Printf("Schema migrated for %s", driver)
			return nil
		},
	}
}

func withMigrate(run func(m *migrate.Migrate) error) error {
	dbURL, err := databaseURL(driver)
	if err != nil {
		return err
	}

	log.Printf("Connecting to %s database %s@%s:%s/%s", driver,
		env.GetEnv("DB_USER", "househub"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", defaultPort(driver)),
		env.GetEnv("DB_NAME", "househub"),
	)

	m, err := migrate.New(fmt.Sprintf("file://%s/%s", dir, driver), dbURL)
	if err != nil {
		return fmt.Errorf("initializing migrations: %w", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Printf("Closing migration resources: %v, %v", sourceErr, dbErr)
		}
	}()

	return run(m)
}

func databaseURL(driver string) (string, error) {
	user := env.GetEnv("DB_USER", "househub")
	password := env.GetEnv("DB_PASSWORD", "househub")
	host := env.GetEnv("DB_HOST", "db")
	port := env.GetEnv("DB_PORT", defaultPort(driver))
	name := env.GetEnv("DB_NAME", "househub")

	switch driver {
	case database.DriverMySQL:
		return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
			user, password, host, port, name), nil
	case database.DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(user, password),
			Host:     host + ":" + port,
			Path:     name,
			RawQuery: "sslmode=" + env.GetEnv("DB_SSLMODE", "disable"),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("no SQL migrations for driver %q, use the auto command", driver)
	}
}

func defaultPort(driver string) string {
	if driver == database.DriverPostgres {
		return "5432"
	}
	return "3306"
}
