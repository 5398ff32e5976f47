package plans

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/utils"
	"github.com/julianstephens/studylit/internal/validation"
)

type PlanCmd struct {
	AsOf string `arg:"" name:"as-of" help:"Reference date (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	today, err := ctx.ResolveDate(c.AsOf)
	if err != nil {
		return err
	}

	// Perform automatic backup before the plan replaces stored blocks
	ctx.PerformAutomaticBackup()

	result, err := ctx.Planner.Generate(ctx.UserID, today)
	if err != nil {
		return err
	}

	if len(result.Blocks) == 0 {
		fmt.Println(result.Message)
		if result.Warning != "" {
			fmt.Printf("\n⚠️  %s\n", result.Warning)
		}
		return nil
	}

	fmt.Printf("Study plan for the week of %s:\n", today)

	lastDate := ""
	for _, block := range result.Blocks {
		if block.Date != lastDate {
			weekday, err := utils.WeekdayOf(block.Date)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s %s\n", weekday, block.Date)
			lastDate = block.Date
		}
		fmt.Printf("  %-6s %s\n", utils.FormatMinutes(block.DurationMin), block.Title)
	}

	fmt.Printf("\n%s\n", result.Message)
	if result.Warning != "" {
		fmt.Printf("⚠️  %s\n", result.Warning)
	}

	// Sanity-check the stored plan against availability and due dates
	availability, err := ctx.Store.GetAvailability(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get availability: %w", err)
	}
	assessments, err := ctx.Store.GetAssessments(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get assessments: %w", err)
	}

	validator := validation.New()
	validationResult := validator.ValidatePlan(result.Blocks, availability, assessments)
	if validationResult.HasConflicts() {
		fmt.Println("\n⚠️  Validation warnings:")
		for _, conflict := range validationResult.Conflicts {
			fmt.Printf("  - %s\n", conflict.Description)
		}
	}

	fmt.Println("\nMark blocks done with 'studylit block done <id>'. See the week with 'studylit week'.")
	return nil
}
