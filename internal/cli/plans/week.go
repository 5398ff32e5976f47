package plans

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/utils"
)

type WeekCmd struct {
	AsOf string `arg:"" name:"as-of" help:"Reference date (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	today, err := ctx.ResolveDate(c.AsOf)
	if err != nil {
		return err
	}
	windowEnd, err := utils.AddDays(today, constants.PlanWindowDays-1)
	if err != nil {
		return err
	}

	blocks, err := ctx.Store.GetStudyBlocks(ctx.UserID, today, windowEnd)
	if err != nil {
		return fmt.Errorf("failed to get study blocks: %w", err)
	}

	summary, summaryErr := ctx.Store.GetPlanSummary(ctx.UserID)
	if summaryErr != nil && !errors.Is(summaryErr, storage.ErrNotFound) {
		return summaryErr
	}

	if len(blocks) == 0 {
		if errors.Is(summaryErr, storage.ErrNotFound) {
			fmt.Println("No plan generated yet. Run 'studylit plan' to create one.")
			return nil
		}
		fmt.Printf("No study blocks scheduled for %s to %s.\n", today, windowEnd)
		if summary.ShortfallMinutes > 0 {
			fmt.Printf("⚠️  Unscheduled work: %s\n", utils.FormatMinutes(summary.ShortfallMinutes))
		}
		return nil
	}

	fmt.Printf("Week of %s:\n", today)

	plannedMin := 0
	doneMin := 0
	lastDate := ""
	for _, block := range blocks {
		if block.Date != lastDate {
			weekday, err := utils.WeekdayOf(block.Date)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s %s\n", weekday, block.Date)
			lastDate = block.Date
		}

		marker := "[ ]"
		if block.Done {
			marker = "[x]"
			doneMin += block.DurationMin
		}
		plannedMin += block.DurationMin
		fmt.Printf("  %s %-6s %s  (%s)\n", marker, utils.FormatMinutes(block.DurationMin), block.Title, block.ID)
	}

	fmt.Printf("\nTotal: %s planned, %s done.\n", utils.FormatMinutes(plannedMin), utils.FormatMinutes(doneMin))
	if summaryErr == nil {
		if summary.ShortfallMinutes > 0 {
			fmt.Printf("⚠️  Unscheduled work: %s\n", utils.FormatMinutes(summary.ShortfallMinutes))
		}
		fmt.Printf("Last generated: %s\n", summary.GeneratedAt)
	}
	return nil
}
