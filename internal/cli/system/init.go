package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/storage/postgres"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if dbPath == "postgresql" {
			return fmt.Errorf("--force is not supported for PostgreSQL; drop and recreate the schema manually")
		}
		// Don't delete if it's the source (user error protection)
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized studylit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	var sourceStore storage.Provider
	if strings.HasPrefix(sourcePath, "postgres://") || strings.HasPrefix(sourcePath, "postgresql://") {
		if valid, err := postgres.ValidateConnString(sourcePath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use the keyring or STUDYLIT_DB_CONNECTION instead")
			}
			return err
		}
		sourceStore = postgres.New(sourcePath)
	} else {
		sourceStore = sqlite.NewStore(sourcePath)
	}

	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	userID := ctx.UserID

	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings(userID)
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(userID, settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating courses...")
	courses, err := sourceStore.GetCourses(userID)
	if err != nil {
		return fmt.Errorf("failed to get courses from source: %w", err)
	}
	for _, course := range courses {
		if err := ctx.Store.AddCourse(course); err != nil {
			return fmt.Errorf("failed to add course %s: %w", course.ID, err)
		}
	}
	fmt.Printf("    Migrated %d courses\n", len(courses))

	fmt.Println("  Migrating assessments...")
	assessments, err := sourceStore.GetAssessments(userID)
	if err != nil {
		return fmt.Errorf("failed to get assessments from source: %w", err)
	}
	for _, assessment := range assessments {
		if err := ctx.Store.AddAssessment(assessment); err != nil {
			return fmt.Errorf("failed to add assessment %s: %w", assessment.ID, err)
		}
	}
	fmt.Printf("    Migrated %d assessments\n", len(assessments))

	fmt.Println("  Migrating availability...")
	slots, err := sourceStore.GetAvailability(userID)
	if err != nil {
		return fmt.Errorf("failed to get availability from source: %w", err)
	}
	if len(slots) > 0 {
		if err := ctx.Store.SetAvailability(userID, slots); err != nil {
			return fmt.Errorf("failed to save availability to destination: %w", err)
		}
	}
	fmt.Printf("    Migrated %d availability slots\n", len(slots))

	fmt.Println("  Migrating study blocks...")
	// The widest representable window: blocks outside it would have
	// unparseable dates anyway.
	blocks, err := sourceStore.GetStudyBlocks(userID, "0000-01-01", "9999-12-31")
	if err != nil {
		return fmt.Errorf("failed to get study blocks from source: %w", err)
	}
	if len(blocks) > 0 {
		if err := ctx.Store.InsertStudyBlocks(userID, blocks); err != nil {
			return fmt.Errorf("failed to save study blocks to destination: %w", err)
		}
	}
	fmt.Printf("    Migrated %d study blocks\n", len(blocks))

	fmt.Println("  Migrating plan summary...")
	summary, err := sourceStore.GetPlanSummary(userID)
	switch {
	case err == nil:
		if err := ctx.Store.UpsertPlanSummary(summary); err != nil {
			return fmt.Errorf("failed to save plan summary to destination: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		fmt.Println("    No plan summary in source, skipping")
	default:
		return fmt.Errorf("failed to get plan summary from source: %w", err)
	}

	return nil
}
