package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/utils"
)

// Store is the read-only slice of the storage surface the collector uses.
// storage.Provider satisfies it.
type Store interface {
	GetCourses(userID string) ([]models.Course, error)
	GetAssessments(userID string) ([]models.Assessment, error)
	GetStudyBlocks(userID, startDate, endDate string) ([]models.StudyBlock, error)
	GetPlanSummary(userID string) (models.PlanSummary, error)
}

// CourseStats aggregates the scheduled work for one course over the current
// 7-day window.
type CourseStats struct {
	CourseID     string
	Title        string
	PlannedMin   int
	CompletedMin int
	Pending      int
}

// Upcoming is a pending assessment with countdown context relative to the
// reference date.
type Upcoming struct {
	ID             string
	Title          string
	CourseTitle    string
	DueDate        string
	DaysLeft       int
	EstimatedHours float64
	Status         constants.AssessmentStatus
}

// Report holds the numbers the stats command prints.
type Report struct {
	WindowStart       string
	WindowEnd         string
	Courses           []CourseStats
	Upcoming          []Upcoming
	TotalPlannedMin   int
	TotalCompletedMin int
	ShortfallMinutes  int
	GeneratedAt       string
	HasSummary        bool
}

// Collector reads stored records and computes the dashboard numbers.
type Collector struct {
	store Store
}

// New creates a new Collector over the given store
func New(store Store) *Collector {
	return &Collector{store: store}
}

// Collect aggregates planned and completed minutes per course for the window
// starting at today, lists pending assessments by due date, and attaches the
// latest plan summary if one exists.
func (c *Collector) Collect(userID, today string) (Report, error) {
	start, err := utils.ParseDate(today)
	if err != nil {
		return Report{}, fmt.Errorf("invalid reference date %q: expected YYYY-MM-DD", today)
	}
	windowEnd := utils.FormatDate(start.AddDate(0, 0, constants.PlanWindowDays-1))

	courses, err := c.store.GetCourses(userID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read courses: %w", err)
	}
	assessments, err := c.store.GetAssessments(userID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read assessments: %w", err)
	}
	blocks, err := c.store.GetStudyBlocks(userID, today, windowEnd)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read study blocks: %w", err)
	}

	report := Report{WindowStart: today, WindowEnd: windowEnd}

	summary, err := c.store.GetPlanSummary(userID)
	switch {
	case err == nil:
		report.ShortfallMinutes = summary.ShortfallMinutes
		report.GeneratedAt = summary.GeneratedAt
		report.HasSummary = true
	case !errors.Is(err, storage.ErrNotFound):
		return Report{}, fmt.Errorf("failed to read plan summary: %w", err)
	}

	assessmentByID := make(map[string]models.Assessment, len(assessments))
	for _, a := range assessments {
		assessmentByID[a.ID] = a
	}

	rowByCourse := make(map[string]*CourseStats, len(courses)+1)
	order := make([]string, 0, len(courses)+1)
	for _, course := range courses {
		rowByCourse[course.ID] = &CourseStats{CourseID: course.ID, Title: course.Title}
		order = append(order, course.ID)
	}
	// Assessments without a course (or whose course was deleted) collect in
	// a synthetic row keyed by the empty ID.
	courseRow := func(courseID string) *CourseStats {
		if row, ok := rowByCourse[courseID]; ok {
			return row
		}
		row, ok := rowByCourse[""]
		if !ok {
			row = &CourseStats{Title: "(no course)"}
			rowByCourse[""] = row
			order = append(order, "")
		}
		return row
	}

	for _, a := range assessments {
		if a.IsPending() {
			courseRow(a.CourseID).Pending++
		}
	}

	for _, b := range blocks {
		a, ok := assessmentByID[b.AssessmentID]
		if !ok {
			continue
		}
		row := courseRow(a.CourseID)
		row.PlannedMin += b.DurationMin
		report.TotalPlannedMin += b.DurationMin
		if b.Done {
			row.CompletedMin += b.DurationMin
			report.TotalCompletedMin += b.DurationMin
		}
	}

	for _, id := range order {
		report.Courses = append(report.Courses, *rowByCourse[id])
	}

	courseTitle := make(map[string]string, len(courses))
	for _, course := range courses {
		courseTitle[course.ID] = course.Title
	}
	for _, a := range assessments {
		if !a.IsPending() {
			continue
		}
		daysLeft := 0
		if d, err := utils.DaysBetween(today, a.DueDate); err == nil {
			daysLeft = d
		}
		report.Upcoming = append(report.Upcoming, Upcoming{
			ID:             a.ID,
			Title:          a.Title,
			CourseTitle:    courseTitle[a.CourseID],
			DueDate:        a.DueDate,
			DaysLeft:       daysLeft,
			EstimatedHours: a.EstimatedHours,
			Status:         a.Status,
		})
	}
	sort.SliceStable(report.Upcoming, func(i, j int) bool {
		return report.Upcoming[i].DueDate < report.Upcoming[j].DueDate
	})

	return report, nil
}

// Format renders the report as plain text.
func (r *Report) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Week %s to %s\n", r.WindowStart, r.WindowEnd)
	if r.HasSummary {
		fmt.Fprintf(&b, "Last plan generated: %s\n", r.GeneratedAt)
		if r.ShortfallMinutes > 0 {
			fmt.Fprintf(&b, "Unscheduled work: %s\n", utils.FormatMinutes(r.ShortfallMinutes))
		} else {
			fmt.Fprintf(&b, "Unscheduled work: none\n")
		}
	} else {
		fmt.Fprintf(&b, "No plan has been generated yet.\n")
	}
	fmt.Fprintf(&b, "Scheduled this week: %s planned, %s completed\n",
		utils.FormatMinutes(r.TotalPlannedMin), utils.FormatMinutes(r.TotalCompletedMin))

	fmt.Fprintf(&b, "\nCourses:\n")
	if len(r.Courses) == 0 {
		fmt.Fprintf(&b, "  No courses.\n")
	}
	for _, row := range r.Courses {
		fmt.Fprintf(&b, "  %-30s planned %-8s completed %-8s pending %d\n",
			row.Title, utils.FormatMinutes(row.PlannedMin), utils.FormatMinutes(row.CompletedMin), row.Pending)
	}

	fmt.Fprintf(&b, "\nUpcoming assessments:\n")
	if len(r.Upcoming) == 0 {
		fmt.Fprintf(&b, "  Nothing pending.\n")
	}
	for _, u := range r.Upcoming {
		title := u.Title
		if u.CourseTitle != "" {
			title = fmt.Sprintf("%s — %s", u.CourseTitle, u.Title)
		}
		fmt.Fprintf(&b, "  %s  %-40s %s\n", u.DueDate, title, describeDue(u.DaysLeft))
	}

	return b.String()
}

func describeDue(days int) string {
	switch {
	case days < -1:
		return fmt.Sprintf("overdue by %d days", -days)
	case days == -1:
		return "overdue by 1 day"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", days)
	}
}
