package validation

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateCourseTitle ConflictType = "duplicate_course_title"
	ConflictInvalidDifficulty    ConflictType = "invalid_difficulty"
	ConflictInvalidDueDate       ConflictType = "invalid_due_date"
	ConflictInvalidEstimate      ConflictType = "invalid_estimate"
	ConflictInvalidStatus        ConflictType = "invalid_status"
	ConflictUnknownCourse        ConflictType = "unknown_course"
	ConflictInvalidAvailability  ConflictType = "invalid_availability"
	ConflictCapacityExceeded     ConflictType = "capacity_exceeded"
	ConflictBlockPastDue         ConflictType = "block_past_due"
	ConflictOrphanedBlock        ConflictType = "orphaned_block"
	ConflictInvalidDuration      ConflictType = "invalid_duration"
)

// Conflict represents a detected problem in stored records or a generated plan
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Titles involved
	IDs         []string // Record IDs involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator audits stored records and generated plans
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateCourses checks courses for duplicate titles and out-of-range difficulty
func (v *Validator) ValidateCourses(courses []models.Course) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	titleCount := make(map[string][]string)
	for _, course := range courses {
		if course.Title == "" {
			continue
		}
		titleCount[course.Title] = append(titleCount[course.Title], course.ID)
	}
	for title, ids := range titleCount {
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateCourseTitle,
				Description: fmt.Sprintf("Duplicate course title: \"%s\" (IDs: %v)", title, ids),
				Items:       []string{title},
				IDs:         ids,
			})
		}
	}

	for _, course := range courses {
		if course.Difficulty < constants.MinDifficulty || course.Difficulty > constants.MaxDifficulty {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDifficulty,
				Description: fmt.Sprintf("Course \"%s\" has difficulty %d, outside %d..%d", course.Title, course.Difficulty, constants.MinDifficulty, constants.MaxDifficulty),
				Items:       []string{course.Title},
				IDs:         []string{course.ID},
			})
		}
	}

	return result
}

// ValidateAssessments checks assessments for malformed fields and dangling
// course references
func (v *Validator) ValidateAssessments(assessments []models.Assessment, courses []models.Course) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	courseIDs := make(map[string]bool, len(courses))
	for _, c := range courses {
		courseIDs[c.ID] = true
	}

	for _, a := range assessments {
		if _, err := time.Parse(constants.DateFormat, a.DueDate); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDueDate,
				Description: fmt.Sprintf("Assessment \"%s\" has invalid due date: %s", a.Title, a.DueDate),
				Items:       []string{a.Title},
				IDs:         []string{a.ID},
			})
		}
		if a.EstimatedHours < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidEstimate,
				Description: fmt.Sprintf("Assessment \"%s\" has a negative estimate: %.2f hours", a.Title, a.EstimatedHours),
				Items:       []string{a.Title},
				IDs:         []string{a.ID},
			})
		}
		if !models.ValidStatus(a.Status) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidStatus,
				Description: fmt.Sprintf("Assessment \"%s\" has unknown status: %s", a.Title, a.Status),
				Items:       []string{a.Title},
				IDs:         []string{a.ID},
			})
		}
		// Dangling references are tolerated by the planner, which falls
		// back to the default difficulty.
		if a.CourseID != "" && !courseIDs[a.CourseID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownCourse,
				Description: fmt.Sprintf("Assessment \"%s\" references unknown course %s", a.Title, a.CourseID),
				Items:       []string{a.Title},
				IDs:         []string{a.ID},
			})
		}
	}

	return result
}

// ValidateAvailability checks the weekly profile for invalid entries
func (v *Validator) ValidateAvailability(slots []models.AvailabilitySlot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, slot := range slots {
		if slot.Weekday < time.Sunday || slot.Weekday > time.Saturday {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidAvailability,
				Description: fmt.Sprintf("Availability entry has invalid weekday %d", slot.Weekday),
			})
		}
		if slot.Hours < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidAvailability,
				Description: fmt.Sprintf("Availability for %s is negative: %.2f hours", slot.Weekday, slot.Hours),
			})
		}
	}

	return result
}

// ValidatePlan audits a generated plan against the availability profile and
// the assessments it schedules.
func (v *Validator) ValidatePlan(blocks []models.StudyBlock, availability []models.AvailabilitySlot, assessments []models.Assessment) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	hoursByWeekday := make(map[time.Weekday]float64, len(availability))
	for _, slot := range availability {
		hoursByWeekday[slot.Weekday] = slot.Hours
	}

	dueByID := make(map[string]string, len(assessments))
	for _, a := range assessments {
		dueByID[a.ID] = a.DueDate
	}

	minutesByDate := make(map[string]int)
	for _, b := range blocks {
		minutesByDate[b.Date] += b.DurationMin

		if b.DurationMin <= 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDuration,
				Description: fmt.Sprintf("Block \"%s\" on %s has non-positive duration %d", b.Title, b.Date, b.DurationMin),
				Date:        b.Date,
				IDs:         []string{b.ID},
			})
		}

		due, ok := dueByID[b.AssessmentID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanedBlock,
				Description: fmt.Sprintf("Block \"%s\" on %s references missing assessment %s", b.Title, b.Date, b.AssessmentID),
				Date:        b.Date,
				IDs:         []string{b.ID},
			})
		} else if b.Date > due {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBlockPastDue,
				Description: fmt.Sprintf("Block \"%s\" on %s is past its due date %s", b.Title, b.Date, due),
				Date:        b.Date,
				IDs:         []string{b.ID},
			})
		}
	}

	for date, minutes := range minutesByDate {
		t, err := time.Parse(constants.DateFormat, date)
		if err != nil {
			continue
		}
		hours, ok := hoursByWeekday[t.Weekday()]
		if !ok {
			hours = constants.DefaultDailyHours
		}
		capacity := models.AvailabilitySlot{Weekday: t.Weekday(), Hours: hours}.CapacityMinutes()
		if minutes > capacity {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictCapacityExceeded,
				Description: fmt.Sprintf("Date %s has %d scheduled minutes but only %d of capacity", date, minutes, capacity),
				Date:        date,
			})
		}
	}

	return result
}
