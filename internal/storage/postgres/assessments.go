package postgres

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

func (s *Store) AddAssessment(assessment models.Assessment) error {
	var courseID sql.NullString
	if assessment.CourseID != "" {
		courseID = sql.NullString{String: assessment.CourseID, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO assessments (id, user_id, course_id, title, due_date, estimated_hours, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		assessment.ID, assessment.UserID, courseID, assessment.Title,
		assessment.DueDate, assessment.EstimatedHours, string(assessment.Status),
	)
	return err
}

func (s *Store) GetAssessment(userID, id string) (models.Assessment, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, course_id, title, due_date, estimated_hours, status
		FROM assessments WHERE user_id = $1 AND id = $2`, userID, id)

	a, err := scanAssessment(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Assessment{}, fmt.Errorf("assessment with id %s: %w", id, storage.ErrNotFound)
		}
		return models.Assessment{}, err
	}

	return a, nil
}

func (s *Store) GetAssessments(userID string) ([]models.Assessment, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, course_id, title, due_date, estimated_hours, status
		FROM assessments WHERE user_id = $1 ORDER BY due_date, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssessments(rows)
}

func (s *Store) GetPendingAssessments(userID, windowStart, windowEnd string) ([]models.Assessment, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, course_id, title, due_date, estimated_hours, status
		FROM assessments
		WHERE user_id = $1 AND status != $2 AND due_date >= $3 AND due_date <= $4
		ORDER BY due_date, id`,
		userID, string(constants.StatusDone), windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssessments(rows)
}

func (s *Store) UpdateAssessment(assessment models.Assessment) error {
	var courseID sql.NullString
	if assessment.CourseID != "" {
		courseID = sql.NullString{String: assessment.CourseID, Valid: true}
	}

	res, err := s.db.Exec(`
		UPDATE assessments SET course_id = $1, title = $2, due_date = $3, estimated_hours = $4, status = $5
		WHERE user_id = $6 AND id = $7`,
		courseID, assessment.Title, assessment.DueDate, assessment.EstimatedHours,
		string(assessment.Status), assessment.UserID, assessment.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("assessment with id %s: %w", assessment.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteAssessment(userID, id string) error {
	res, err := s.db.Exec("DELETE FROM assessments WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("assessment with id %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func scanAssessment(scan func(...any) error) (models.Assessment, error) {
	var a models.Assessment
	var courseID sql.NullString
	var status string

	err := scan(&a.ID, &a.UserID, &courseID, &a.Title, &a.DueDate, &a.EstimatedHours, &status)
	if err != nil {
		return models.Assessment{}, err
	}

	if courseID.Valid {
		a.CourseID = courseID.String
	}
	a.Status = constants.AssessmentStatus(status)

	return a, nil
}

func collectAssessments(rows *sql.Rows) ([]models.Assessment, error) {
	var assessments []models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows.Scan)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}
