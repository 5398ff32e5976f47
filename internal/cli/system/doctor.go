package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/backup"
	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
	"github.com/julianstephens/studylit/internal/utils"
	"github.com/julianstephens/studylit/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false
	isPostgres := ctx.Store.GetConfigPath() == "postgresql"

	// Check 1: DB reachable
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version valid (only if DB is reachable)
	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Migrations complete (only if DB is reachable)
	if dbReachable {
		if err := checkMigrationsComplete(ctx); err != nil {
			fmt.Printf("❌ Migrations complete: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Migrations complete: OK\n")
		}
	} else {
		fmt.Printf("⊘ Migrations complete: SKIPPED (database not reachable)\n")
	}

	// Check 4: Backups present (warning only; PostgreSQL uses its own tooling)
	if isPostgres {
		fmt.Printf("⊘ Backups present: SKIPPED (PostgreSQL backend)\n")
	} else if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: Data validation (only if DB is reachable)
	if dbReachable {
		if err := checkValidation(ctx); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	// Check 6: Availability coverage (warning only, the planner has defaults)
	if dbReachable {
		if err := checkAvailabilityCoverage(ctx); err != nil {
			fmt.Printf("⚠ Availability coverage: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Availability coverage: OK\n")
		}
	} else {
		fmt.Printf("⊘ Availability coverage: SKIPPED (database not reachable)\n")
	}

	// Check 7: Study block integrity (only if DB is reachable)
	if dbReachable {
		if err := checkBlockIntegrity(ctx); err != nil {
			fmt.Printf("❌ Study block integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Study block integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Study block integrity: SKIPPED (database not reachable)\n")
	}

	// Check 8: Date formats (only if DB is reachable)
	if dbReachable {
		if err := checkDateFormats(ctx); err != nil {
			fmt.Printf("❌ Date formats: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Date formats: OK\n")
		}
	} else {
		fmt.Printf("⊘ Date formats: SKIPPED (database not reachable)\n")
	}

	// Check 9: Plan freshness (warning only)
	if dbReachable {
		if err := checkPlanFreshness(ctx); err != nil {
			fmt.Printf("⚠ Plan freshness: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Plan freshness: OK\n")
		}
	} else {
		fmt.Printf("⊘ Plan freshness: SKIPPED (database not reachable)\n")
	}

	// Check 10: Clock/timezone sanity
	if err := checkClockTimezone(ctx, dbReachable); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		if err := sqliteStore.VerifyTables(); err != nil {
			return err
		}
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, err := migrationRunner(ctx)
	if err != nil {
		return err
	}

	currentVersion, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}

	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, err := migrationRunner(ctx)
	if err != nil {
		return err
	}

	currentVersion, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if currentVersion < latestVersion {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", currentVersion, latestVersion)
	}

	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'studylit backup create'")
	}

	return nil
}

func checkValidation(ctx *cli.Context) error {
	if _, err := ctx.Store.GetSettings(ctx.UserID); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	courses, err := ctx.Store.GetCourses(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get courses: %w", err)
	}
	assessments, err := ctx.Store.GetAssessments(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get assessments: %w", err)
	}
	slots, err := ctx.Store.GetAvailability(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get availability: %w", err)
	}

	seenIDs := make(map[string]bool, len(assessments))
	for _, a := range assessments {
		if seenIDs[a.ID] {
			return fmt.Errorf("duplicate assessment ID found: %s", a.ID)
		}
		seenIDs[a.ID] = true
	}

	validator := validation.New()
	conflicts := validator.ValidateCourses(courses).Conflicts
	conflicts = append(conflicts, validator.ValidateAssessments(assessments, courses).Conflicts...)
	conflicts = append(conflicts, validator.ValidateAvailability(slots).Conflicts...)
	if len(conflicts) > 0 {
		return fmt.Errorf("found %d data conflicts (run 'studylit validate' for details)", len(conflicts))
	}

	return nil
}

func checkAvailabilityCoverage(ctx *cli.Context) error {
	slots, err := ctx.Store.GetAvailability(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get availability: %w", err)
	}

	if len(slots) == 0 {
		return fmt.Errorf("no weekly availability set - the planner assumes %.0fh per day (set with 'studylit availability set')", constants.DefaultDailyHours)
	}

	return nil
}

func checkBlockIntegrity(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil // FK constraints cover this on PostgreSQL
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Blocks referencing assessments that no longer exist
	var orphanedCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM study_blocks b
		LEFT JOIN assessments a ON b.assessment_id = a.id
		WHERE a.id IS NULL
	`).Scan(&orphanedCount)
	if err != nil {
		return fmt.Errorf("failed to check orphaned study blocks: %w", err)
	}
	if orphanedCount > 0 {
		return fmt.Errorf("found %d orphaned study blocks (run 'studylit plan' to rebuild the schedule)", orphanedCount)
	}

	var nonPositiveCount int
	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM study_blocks
		WHERE duration_min <= 0
	`).Scan(&nonPositiveCount)
	if err != nil {
		return fmt.Errorf("failed to check study block durations: %w", err)
	}
	if nonPositiveCount > 0 {
		return fmt.Errorf("found %d study blocks with non-positive duration", nonPositiveCount)
	}

	return nil
}

func checkDateFormats(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil // Not SQLite, skip
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var invalidCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM assessments
		WHERE due_date NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
	`).Scan(&invalidCount)
	if err != nil {
		return fmt.Errorf("failed to check assessment dates: %w", err)
	}
	if invalidCount > 0 {
		return fmt.Errorf("found %d assessments with invalid due date format", invalidCount)
	}

	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM study_blocks
		WHERE date NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
	`).Scan(&invalidCount)
	if err != nil {
		return fmt.Errorf("failed to check study block dates: %w", err)
	}
	if invalidCount > 0 {
		return fmt.Errorf("found %d study blocks with invalid date format", invalidCount)
	}

	return nil
}

func checkPlanFreshness(ctx *cli.Context) error {
	summary, err := ctx.Store.GetPlanSummary(ctx.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("no plan generated yet - run 'studylit plan' to create one")
	case err != nil:
		return fmt.Errorf("failed to get plan summary: %w", err)
	}

	generatedAt, err := time.Parse(time.RFC3339, summary.GeneratedAt)
	if err != nil {
		return fmt.Errorf("plan summary has unparseable timestamp %q", summary.GeneratedAt)
	}
	if age := time.Since(generatedAt); age > constants.PlanWindowDays*24*time.Hour {
		return fmt.Errorf("last plan was generated %d days ago - run 'studylit plan' to refresh", int(age.Hours()/24))
	}

	return nil
}

func checkClockTimezone(ctx *cli.Context, dbReachable bool) error {
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if dbReachable {
		settings, err := ctx.Store.GetSettings(ctx.UserID)
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if settings.Timezone != "" && !utils.ValidateTimezone(settings.Timezone) {
			return fmt.Errorf("configured timezone %q cannot be loaded", settings.Timezone)
		}
	}

	return nil
}
