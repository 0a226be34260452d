// Package migrate implements the `migrate` subcommand wrapping golang-migrate.
package migrate

import (
	"fmt"

	gomigrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"lucerna/internal/infrastructure/config"
	"lucerna/internal/shared/logger"
)

// NewCommand creates the migrate command with up, down and version
// subcommands.
func NewCommand() *cobra.Command {
	var env string
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "environment to run in")
	cmd.PersistentFlags().StringVarP(&dir, "dir", "d", "./migrations", "directory with migration files")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(env, dir, func(m *gomigrate.Migrate) error {
					if err := m.Up(); err != nil && err != gomigrate.ErrNoChange {
						return err
					}
					logger.Info("migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(env, dir, func(m *gomigrate.Migrate) error {
					if err := m.Steps(-1); err != nil {
						return err
					}
					logger.Info("migration rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current migration version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(env, dir, func(m *gomigrate.Migrate) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					logger.Info("migration status", "version", version, "dirty", dirty)
					return nil
				})
			},
		},
	)

	return cmd
}

func withMigrator(env, dir string, fn func(*gomigrate.Migrate) error) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%d)/%s?multiStatements=true",
		cfg.Database.Username, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	m, err := gomigrate.New("file://"+dir, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	return fn(m)
}
