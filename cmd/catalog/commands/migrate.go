package commands

import (
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var steps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run the embedded schema migrations.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Print the current schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back applied migrations.

Examples:
  catalog migrate down --steps 1   # Roll back the last migration
  catalog migrate down --steps 0   # Roll back everything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			return m.Down(steps)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (0 = all)")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(fn func(m *migrations.Migrator) error) error {
	cfg := loadConfig()
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	m, err := migrations.New(postgresConfig(cfg).DSN(), appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			appLogger.Warn("failed to close migrator", zap.Error(err))
		}
	}()
	return fn(m)
}
