package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/YusovID/library-service/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"
)

const defaultMigrationsTable = "schema_migrations"

type migrationCfg struct {
	configPath      string
	migrationsPath  string
	migrationsTable string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &migrationCfg{}

	root := &cobra.Command{
		Use:          "migrator",
		Short:        "Apply or roll back library-service schema migrations",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfg.configPath, "config", os.Getenv("CONFIG_PATH"), "path to the service config file")
	root.PersistentFlags().StringVar(&cfg.migrationsPath, "path", envOr("MIGRATIONS_PATH", "./migrations"), "directory with migration files")
	root.PersistentFlags().StringVar(&cfg.migrationsTable, "table", envOr("MIGRATIONS_TABLE", defaultMigrationsTable), "migrations bookkeeping table")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := cfg.open()
				if err != nil {
					return err
				}
				defer m.Close()

				if err := m.Up(); err != nil {
					if errors.Is(err, migrate.ErrNoChange) {
						cmd.Println("no new migrations to apply")
						return nil
					}

					return fmt.Errorf("can't apply migrations: %w", err)
				}

				cmd.Println("migrations applied successfully")

				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := cfg.open()
				if err != nil {
					return err
				}
				defer m.Close()

				if err := m.Down(); err != nil {
					if errors.Is(err, migrate.ErrNoChange) {
						return errors.New("no migrations to roll back")
					}

					return fmt.Errorf("can't roll back migrations: %w", err)
				}

				cmd.Println("migrations rolled back successfully")

				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := cfg.open()
				if err != nil {
					return err
				}
				defer m.Close()

				version, dirty, err := m.Version()
				if err != nil {
					if errors.Is(err, migrate.ErrNilVersion) {
						cmd.Println("no migrations applied")
						return nil
					}

					return fmt.Errorf("can't read version: %w", err)
				}

				cmd.Printf("version %d (dirty: %t)\n", version, dirty)

				return nil
			},
		},
	)

	return root
}

func (c *migrationCfg) open() (*migrate.Migrate, error) {
	dsn, err := c.databaseURL()
	if err != nil {
		return nil, err
	}

	m, err := migrate.New("file://"+c.migrationsPath, dsn)
	if err != nil {
		return nil, fmt.Errorf("can't create migrator: %w", err)
	}

	return m, nil
}

// databaseURL reuses the service config so the migrator and the server
// always target the same database.
func (c *migrationCfg) databaseURL() (string, error) {
	if c.configPath == "" {
		return "", errors.New("config path is not set, use --config or CONFIG_PATH")
	}

	if _, err := os.Stat(c.configPath); err != nil {
		return "", fmt.Errorf("file '%s' doesn't exist: %w", c.configPath, err)
	}

	var cfg config.Config
	if err := cleanenv.ReadConfig(c.configPath, &cfg); err != nil {
		return "", fmt.Errorf("can't read config: %w", err)
	}

	u, err := url.Parse(cfg.Postgres.DSN())
	if err != nil {
		return "", fmt.Errorf("invalid postgres dsn: %w", err)
	}

	q := u.Query()
	q.Set("x-migrations-table", c.migrationsTable)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
