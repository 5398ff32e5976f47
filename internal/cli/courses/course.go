package courses

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

type CourseAddCmd struct {
	Title      string `arg:"" help:"Course title."`
	Difficulty int    `short:"d" help:"Difficulty from 1 (easiest) to 5 (hardest)." default:"3"`
}

func (c *CourseAddCmd) Validate() error {
	if c.Difficulty < constants.MinDifficulty || c.Difficulty > constants.MaxDifficulty {
		return fmt.Errorf("difficulty must be between %d and %d", constants.MinDifficulty, constants.MaxDifficulty)
	}
	return nil
}

func (c *CourseAddCmd) Run(ctx *cli.Context) error {
	course := models.Course{
		ID:         uuid.New().String(),
		UserID:     ctx.UserID,
		Title:      c.Title,
		Difficulty: c.Difficulty,
	}
	if err := course.Validate(); err != nil {
		return fmt.Errorf("invalid course: %w", err)
	}

	if err := ctx.Store.AddCourse(course); err != nil {
		return err
	}

	fmt.Printf("Added course: %s (ID: %s)\n", course.Title, course.ID)
	return nil
}

type CourseListCmd struct{}

func (c *CourseListCmd) Run(ctx *cli.Context) error {
	courses, err := ctx.Store.GetCourses(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get courses: %w", err)
	}

	if len(courses) == 0 {
		fmt.Println("No courses yet. Add one with 'studylit course add'.")
		return nil
	}

	fmt.Printf("Courses (%d):\n", len(courses))
	for _, course := range courses {
		fmt.Printf("  %s  difficulty %d/%d  %s\n", course.ID, course.Difficulty, constants.MaxDifficulty, course.Title)
	}
	return nil
}

type CourseEditCmd struct {
	ID         string  `arg:"" help:"Course ID to edit."`
	Title      *string `help:"New course title."`
	Difficulty *int    `short:"d" help:"New difficulty (1-5)."`
}

func (c *CourseEditCmd) Run(ctx *cli.Context) error {
	course, err := ctx.Store.GetCourse(ctx.UserID, c.ID)
	if err != nil {
		return err
	}

	updated := false
	if c.Title != nil {
		course.Title = *c.Title
		updated = true
	}
	if c.Difficulty != nil {
		course.Difficulty = *c.Difficulty
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --title or --difficulty.")
		return nil
	}

	if err := course.Validate(); err != nil {
		return fmt.Errorf("invalid course: %w", err)
	}
	if err := ctx.Store.UpdateCourse(course); err != nil {
		return err
	}

	fmt.Printf("Updated course: %s\n", course.Title)
	return nil
}

type CourseRemoveCmd struct {
	ID string `arg:"" help:"Course ID to remove."`
}

func (c *CourseRemoveCmd) Run(ctx *cli.Context) error {
	course, err := ctx.Store.GetCourse(ctx.UserID, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteCourse(ctx.UserID, c.ID); err != nil {
		return err
	}
	fmt.Printf("Removed course: %s\n", course.Title)

	assessments, err := ctx.Store.GetAssessments(ctx.UserID)
	if err != nil {
		return nil
	}
	linked := 0
	for _, a := range assessments {
		if a.CourseID == c.ID {
			linked++
		}
	}
	if linked > 0 {
		fmt.Printf("Note: %d assessment(s) still reference this course and will use the default difficulty.\n", linked)
	}

	return nil
}
