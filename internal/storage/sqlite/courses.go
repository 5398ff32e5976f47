package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

func (s *Store) AddCourse(course models.Course) error {
	_, err := s.db.Exec(`
		INSERT INTO courses (id, user_id, title, difficulty)
		VALUES (?, ?, ?, ?)`,
		course.ID, course.UserID, course.Title, course.Difficulty,
	)
	return err
}

func (s *Store) GetCourse(userID, id string) (models.Course, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, title, difficulty
		FROM courses WHERE user_id = ? AND id = ?`, userID, id)

	var c models.Course
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Difficulty)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Course{}, fmt.Errorf("course with id %s: %w", id, storage.ErrNotFound)
		}
		return models.Course{}, err
	}

	return c, nil
}

func (s *Store) GetCourses(userID string) ([]models.Course, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, difficulty
		FROM courses WHERE user_id = ? ORDER BY title, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Difficulty); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

func (s *Store) UpdateCourse(course models.Course) error {
	res, err := s.db.Exec(`
		UPDATE courses SET title = ?, difficulty = ?
		WHERE user_id = ? AND id = ?`,
		course.Title, course.Difficulty, course.UserID, course.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("course with id %s: %w", course.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteCourse(userID, id string) error {
	res, err := s.db.Exec("DELETE FROM courses WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("course with id %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
