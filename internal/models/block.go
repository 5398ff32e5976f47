package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
)

// StudyBlock is a scheduled unit of study time produced by the planner.
// Seq orders blocks within a day in the order they were allocated.
type StudyBlock struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Date         string `json:"date"` // YYYY-MM-DD format
	Title        string `json:"title"`
	DurationMin  int    `json:"duration_min"`
	AssessmentID string `json:"assessment_id"`
	Done         bool   `json:"done"`
	Seq          int    `json:"seq"`
}

// Validate checks that the block fields are well-formed.
func (b StudyBlock) Validate() error {
	if _, err := time.Parse(constants.DateFormat, b.Date); err != nil {
		return fmt.Errorf("invalid block date %q: expected YYYY-MM-DD", b.Date)
	}
	if b.DurationMin <= 0 {
		return fmt.Errorf("block duration must be positive, got %d", b.DurationMin)
	}
	return nil
}

// PlanSummary records the outcome of the most recent plan generation for a
// user. ShortfallMinutes is the effort that could not be placed in the window.
type PlanSummary struct {
	UserID           string `json:"user_id"`
	ShortfallMinutes int    `json:"shortfall_minutes"`
	GeneratedAt      string `json:"generated_at"` // RFC3339 timestamp
}
