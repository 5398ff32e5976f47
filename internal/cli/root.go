package cli

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/backup"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/planner"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/utils"
)

// Context carries the shared dependencies into every command's Run method.
type Context struct {
	Store   storage.Provider
	Planner *planner.Planner
	UserID  string
}

// PerformAutomaticBackup creates an automatic backup and logs failures
// without interrupting the user's workflow. PostgreSQL storage has no file
// to snapshot, so it is skipped.
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.GetConfigPath()
	if path == "postgresql" {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("automatic backup failed", "error", err)
	}
}

// ResolveDate validates an explicit YYYY-MM-DD argument, or resolves "today"
// (and the empty string) using the timezone from the user's settings.
func (c *Context) ResolveDate(date string) (string, error) {
	if date != "" && date != "today" {
		if !utils.ValidateDateFormat(date) {
			return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD or 'today'", date)
		}
		return date, nil
	}

	settings, err := c.Store.GetSettings(c.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return "", err
	}
	return today, nil
}
