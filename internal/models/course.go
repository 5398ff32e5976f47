package models

import (
	"fmt"
	"strings"

	"github.com/julianstephens/studylit/internal/constants"
)

// Course represents a subject of study. Its difficulty weights how urgently
// the planner schedules work for the course's assessments.
type Course struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Title      string `json:"title"`
	Difficulty int    `json:"difficulty"` // 1 (easiest) to 5 (hardest)
}

// Validate checks that the course fields are well-formed.
func (c Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("course title is required")
	}
	if c.Difficulty < constants.MinDifficulty || c.Difficulty > constants.MaxDifficulty {
		return fmt.Errorf("difficulty must be between %d and %d, got %d",
			constants.MinDifficulty, constants.MaxDifficulty, c.Difficulty)
	}
	return nil
}
