package system

import (
	"fmt"
	"io/fs"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/migration"
	"github.com/julianstephens/studylit/internal/storage/postgres"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
	"github.com/julianstephens/studylit/migrations"
)

type MigrateCmd struct {
	Status bool `help:"Show migration status without applying anything."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	runner, err := migrationRunner(ctx)
	if err != nil {
		return err
	}

	if c.Status {
		currentVersion, err := runner.GetCurrentVersion()
		if err != nil {
			return fmt.Errorf("failed to get current schema version: %w", err)
		}
		latestVersion, err := runner.GetLatestVersion()
		if err != nil {
			return fmt.Errorf("failed to get latest schema version: %w", err)
		}

		fmt.Printf("Current schema version: %d\n", currentVersion)
		fmt.Printf("Latest schema version:  %d\n", latestVersion)
		switch {
		case currentVersion == latestVersion:
			fmt.Println("Database schema is up to date.")
		case currentVersion < latestVersion:
			fmt.Printf("%d migration(s) pending. Run 'studylit migrate' to apply.\n", latestVersion-currentVersion)
		default:
			fmt.Println("⚠️  Database schema is newer than this version of studylit.")
		}
		return nil
	}

	applied, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return err
	}
	if applied == 0 {
		return nil
	}

	fmt.Printf("Applied %d migration(s) successfully.\n", applied)
	return nil
}

// migrationRunner builds a migration runner for the active backend from the
// embedded migration files.
func migrationRunner(ctx *cli.Context) (*migration.Runner, error) {
	switch store := ctx.Store.(type) {
	case *sqlite.Store:
		sub, err := fs.Sub(migrations.FS, "sqlite")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
		}
		return migration.NewRunner(store.GetDB(), sub), nil
	case *postgres.Store:
		sub, err := fs.Sub(migrations.FS, "postgres")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
		}
		return migration.NewRunner(store.GetDB(), sub), nil
	default:
		return nil, fmt.Errorf("migrations are not supported for this storage backend")
	}
}
