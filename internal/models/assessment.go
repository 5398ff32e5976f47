package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
)

// Assessment represents a graded piece of work with a due date. The planner
// turns its remaining estimated effort into study blocks.
type Assessment struct {
	ID             string                     `json:"id"`
	UserID         string                     `json:"user_id"`
	CourseID       string                     `json:"course_id,omitempty"` // empty when not linked to a course
	Title          string                     `json:"title"`
	DueDate        string                     `json:"due_date"` // YYYY-MM-DD format
	EstimatedHours float64                    `json:"estimated_hours"`
	Status         constants.AssessmentStatus `json:"status"`
}

// RemainingMinutes converts the estimated effort to whole minutes,
// clamped to be non-negative.
func (a Assessment) RemainingMinutes() int {
	m := int(math.Round(a.EstimatedHours * 60))
	if m < 0 {
		return 0
	}
	return m
}

// IsPending reports whether the assessment still needs study time scheduled.
func (a Assessment) IsPending() bool {
	return a.Status != constants.StatusDone
}

// Validate checks that the assessment fields are well-formed.
func (a Assessment) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("assessment title is required")
	}
	if _, err := time.Parse(constants.DateFormat, a.DueDate); err != nil {
		return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", a.DueDate)
	}
	if a.EstimatedHours < 0 {
		return fmt.Errorf("estimated hours must not be negative, got %.2f", a.EstimatedHours)
	}
	if !ValidStatus(a.Status) {
		return fmt.Errorf("invalid status %q: expected one of todo, in-progress, done", a.Status)
	}
	return nil
}

// ValidStatus reports whether s is a recognized assessment status.
func ValidStatus(s constants.AssessmentStatus) bool {
	for _, v := range constants.ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}
