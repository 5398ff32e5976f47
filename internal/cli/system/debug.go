package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/storage"
)

type DebugCmd struct {
	DBPath         *DebugDBPathCmd         `cmd:"" help:"Show database path."`
	DumpCourse     *DebugDumpCourseCmd     `cmd:"" help:"Dump course data as JSON."`
	DumpAssessment *DebugDumpAssessmentCmd `cmd:"" help:"Dump assessment data as JSON."`
	DumpBlocks     *DebugDumpBlocksCmd     `cmd:"" help:"Dump study blocks for a date as JSON."`
	DumpSummary    *DebugDumpSummaryCmd    `cmd:"" help:"Dump the plan summary as JSON."`
	DumpSettings   *DebugDumpSettingsCmd   `cmd:"" help:"Dump settings data as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"path": ctx.Store.GetConfigPath(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpCourseCmd struct {
	ID string `arg:"" help:"ID of the course to dump."`
}

func (cmd *DebugDumpCourseCmd) Run(ctx *cli.Context) error {
	course, err := ctx.Store.GetCourse(ctx.UserID, cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("course not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(course, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpAssessmentCmd struct {
	ID string `arg:"" help:"ID of the assessment to dump."`
}

func (cmd *DebugDumpAssessmentCmd) Run(ctx *cli.Context) error {
	assessment, err := ctx.Store.GetAssessment(ctx.UserID, cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("assessment not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get assessment: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpBlocksCmd struct {
	Date string `arg:"" help:"Date of the blocks to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpBlocksCmd) Run(ctx *cli.Context) error {
	date := cmd.Date
	if date == "today" {
		date = getCurrentDate()
	}
	if !isValidDate(date) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}

	blocks, err := ctx.Store.GetStudyBlocks(ctx.UserID, date, date)
	if err != nil {
		return fmt.Errorf("failed to get study blocks: %w", err)
	}
	if len(blocks) == 0 {
		return fmt.Errorf("no study blocks found for date: %s", date)
	}

	jsonBytes, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal study blocks: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpSummaryCmd struct{}

func (cmd *DebugDumpSummaryCmd) Run(ctx *cli.Context) error {
	summary, err := ctx.Store.GetPlanSummary(ctx.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no plan summary found (run 'studylit plan' first)")
		}
		return fmt.Errorf("failed to get plan summary: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan summary: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

func getCurrentDate() string {
	return time.Now().Format("2006-01-02")
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}
