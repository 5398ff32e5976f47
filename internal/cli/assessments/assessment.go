package assessments

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

type AssessmentAddCmd struct {
	Title  string  `arg:"" help:"Assessment title."`
	Due    string  `short:"D" help:"Due date (YYYY-MM-DD)." required:""`
	Hours  float64 `short:"H" help:"Estimated hours of work." required:""`
	Course string  `short:"c" help:"Course ID to link the assessment to."`
	Status string  `short:"s" help:"Initial status (todo|in-progress|done)." default:"todo"`
}

func (c *AssessmentAddCmd) Validate() error {
	if !utils.ValidateDateFormat(c.Due) {
		return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", c.Due)
	}
	if c.Hours <= 0 {
		return fmt.Errorf("estimated hours must be greater than zero")
	}
	if !models.ValidStatus(constants.AssessmentStatus(c.Status)) {
		return fmt.Errorf("invalid status %q: expected one of todo, in-progress, done", c.Status)
	}
	return nil
}

func (c *AssessmentAddCmd) Run(ctx *cli.Context) error {
	if c.Course != "" {
		if _, err := ctx.Store.GetCourse(ctx.UserID, c.Course); err != nil {
			return err
		}
	}

	assessment := models.Assessment{
		ID:             uuid.New().String(),
		UserID:         ctx.UserID,
		CourseID:       c.Course,
		Title:          c.Title,
		DueDate:        c.Due,
		EstimatedHours: c.Hours,
		Status:         constants.AssessmentStatus(c.Status),
	}
	if err := assessment.Validate(); err != nil {
		return fmt.Errorf("invalid assessment: %w", err)
	}

	if err := ctx.Store.AddAssessment(assessment); err != nil {
		return err
	}

	fmt.Printf("Added assessment: %s, due %s (ID: %s)\n", assessment.Title, assessment.DueDate, assessment.ID)
	return nil
}

type AssessmentListCmd struct {
	Pending bool `short:"p" help:"Show only assessments that are not done."`
}

func (c *AssessmentListCmd) Run(ctx *cli.Context) error {
	assessments, err := ctx.Store.GetAssessments(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get assessments: %w", err)
	}

	courses, err := ctx.Store.GetCourses(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get courses: %w", err)
	}
	courseTitle := make(map[string]string, len(courses))
	for _, course := range courses {
		courseTitle[course.ID] = course.Title
	}

	shown := 0
	for _, a := range assessments {
		if c.Pending && !a.IsPending() {
			continue
		}
		if shown == 0 {
			fmt.Println("Assessments:")
		}
		shown++

		title := a.Title
		if name, ok := courseTitle[a.CourseID]; ok && a.CourseID != "" {
			title = fmt.Sprintf("%s — %s", name, a.Title)
		}
		fmt.Printf("  %s  due %s  %-12s %-6s %s\n",
			a.ID, a.DueDate, a.Status, utils.FormatMinutes(a.RemainingMinutes()), title)
	}

	if shown == 0 {
		if c.Pending {
			fmt.Println("No pending assessments.")
		} else {
			fmt.Println("No assessments yet. Add one with 'studylit assessment add'.")
		}
	}
	return nil
}

type AssessmentEditCmd struct {
	ID     string   `arg:"" help:"Assessment ID to edit."`
	Title  *string  `help:"New title."`
	Due    *string  `short:"D" help:"New due date (YYYY-MM-DD)."`
	Hours  *float64 `short:"H" help:"New estimated hours."`
	Course *string  `short:"c" help:"New course ID (empty string unlinks)."`
	Status *string  `short:"s" help:"New status (todo|in-progress|done)."`
}

func (c *AssessmentEditCmd) Run(ctx *cli.Context) error {
	assessment, err := ctx.Store.GetAssessment(ctx.UserID, c.ID)
	if err != nil {
		return err
	}

	updated := false
	if c.Title != nil {
		assessment.Title = *c.Title
		updated = true
	}
	if c.Due != nil {
		assessment.DueDate = *c.Due
		updated = true
	}
	if c.Hours != nil {
		assessment.EstimatedHours = *c.Hours
		updated = true
	}
	if c.Course != nil {
		if *c.Course != "" {
			if _, err := ctx.Store.GetCourse(ctx.UserID, *c.Course); err != nil {
				return err
			}
		}
		assessment.CourseID = *c.Course
		updated = true
	}
	if c.Status != nil {
		assessment.Status = constants.AssessmentStatus(*c.Status)
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}

	if err := assessment.Validate(); err != nil {
		return fmt.Errorf("invalid assessment: %w", err)
	}
	if err := ctx.Store.UpdateAssessment(assessment); err != nil {
		return err
	}

	fmt.Printf("Updated assessment: %s\n", assessment.Title)
	return nil
}

type AssessmentDoneCmd struct {
	ID   string `arg:"" help:"Assessment ID to mark done."`
	Undo bool   `help:"Set the status back to todo instead."`
}

func (c *AssessmentDoneCmd) Run(ctx *cli.Context) error {
	assessment, err := ctx.Store.GetAssessment(ctx.UserID, c.ID)
	if err != nil {
		return err
	}

	if c.Undo {
		assessment.Status = constants.StatusTodo
	} else {
		assessment.Status = constants.StatusDone
	}
	if err := ctx.Store.UpdateAssessment(assessment); err != nil {
		return err
	}

	fmt.Printf("Marked %s as %s.\n", assessment.Title, assessment.Status)
	return nil
}

type AssessmentRemoveCmd struct {
	ID string `arg:"" help:"Assessment ID to remove."`
}

func (c *AssessmentRemoveCmd) Run(ctx *cli.Context) error {
	assessment, err := ctx.Store.GetAssessment(ctx.UserID, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteAssessment(ctx.UserID, c.ID); err != nil {
		return err
	}

	fmt.Printf("Removed assessment: %s\n", assessment.Title)
	fmt.Println("Run 'studylit plan' to refresh scheduled study blocks.")
	return nil
}
