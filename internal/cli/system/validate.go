package system

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/utils"
	"github.com/julianstephens/studylit/internal/validation"
)

type ValidateCmd struct {
	AsOf string `arg:"" name:"as-of" help:"Reference date (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	today, err := ctx.ResolveDate(cmd.AsOf)
	if err != nil {
		return err
	}

	courses, err := ctx.Store.GetCourses(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}
	assessments, err := ctx.Store.GetAssessments(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to load assessments: %w", err)
	}
	slots, err := ctx.Store.GetAvailability(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to load availability: %w", err)
	}

	validator := validation.New()

	fmt.Println("Validating courses...")
	courseResult := validator.ValidateCourses(courses)

	fmt.Println("Validating assessments...")
	assessmentResult := validator.ValidateAssessments(assessments, courses)

	fmt.Println("Validating availability...")
	availabilityResult := validator.ValidateAvailability(slots)

	fmt.Println("Validating this week's plan...")
	windowEnd, err := utils.AddDays(today, constants.PlanWindowDays-1)
	if err != nil {
		return err
	}
	blocks, err := ctx.Store.GetStudyBlocks(ctx.UserID, today, windowEnd)
	if err != nil {
		return fmt.Errorf("failed to load study blocks: %w", err)
	}
	planResult := validator.ValidatePlan(blocks, slots, assessments)

	allConflicts := append(courseResult.Conflicts, assessmentResult.Conflicts...)
	allConflicts = append(allConflicts, availabilityResult.Conflicts...)
	allConflicts = append(allConflicts, planResult.Conflicts...)
	combinedResult := validation.ValidationResult{Conflicts: allConflicts}

	fmt.Println()
	fmt.Println(combinedResult.FormatReport())

	// Conflicts are reported, not fatal
	return nil
}
