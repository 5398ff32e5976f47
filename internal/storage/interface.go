package storage

import (
	"errors"

	"github.com/julianstephens/studylit/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
// Callers that treat absence as a normal condition branch on it with
// errors.Is.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings(userID string) (models.Settings, error)
	SaveSettings(userID string, settings models.Settings) error

	// Courses
	AddCourse(models.Course) error
	GetCourse(userID, id string) (models.Course, error)
	GetCourses(userID string) ([]models.Course, error)
	UpdateCourse(models.Course) error
	DeleteCourse(userID, id string) error

	// Assessments
	AddAssessment(models.Assessment) error
	GetAssessment(userID, id string) (models.Assessment, error)
	GetAssessments(userID string) ([]models.Assessment, error)
	// GetPendingAssessments returns assessments whose status is not "done"
	// and whose due date lies within [windowStart, windowEnd] inclusive,
	// ordered by due date then id.
	GetPendingAssessments(userID, windowStart, windowEnd string) ([]models.Assessment, error)
	UpdateAssessment(models.Assessment) error
	DeleteAssessment(userID, id string) error

	// Availability
	GetAvailability(userID string) ([]models.AvailabilitySlot, error)
	SetAvailability(userID string, slots []models.AvailabilitySlot) error
	ClearAvailability(userID string) error

	// Study blocks
	GetStudyBlocks(userID, startDate, endDate string) ([]models.StudyBlock, error)
	InsertStudyBlocks(userID string, blocks []models.StudyBlock) error
	DeleteStudyBlocks(userID string, dates []string) error
	SetStudyBlockDone(userID, id string, done bool) error
	// ReplaceStudyBlocks deletes all blocks on the given dates, inserts the
	// new blocks, and upserts the plan summary in a single transaction, so
	// concurrent readers never observe a half-replaced window.
	ReplaceStudyBlocks(userID string, dates []string, blocks []models.StudyBlock, summary models.PlanSummary) error

	// Plan summary
	GetPlanSummary(userID string) (models.PlanSummary, error)
	UpsertPlanSummary(models.PlanSummary) error

	// Utils
	GetConfigPath() string
}
