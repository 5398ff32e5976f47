package postgres

import (
	"time"

	"github.com/julianstephens/studylit/internal/models"
)

func (s *Store) GetAvailability(userID string) ([]models.AvailabilitySlot, error) {
	rows, err := s.db.Query(`
		SELECT user_id, weekday, hours
		FROM availability WHERE user_id = $1 ORDER BY weekday`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []models.AvailabilitySlot
	for rows.Next() {
		var slot models.AvailabilitySlot
		var weekday int
		if err := rows.Scan(&slot.UserID, &weekday, &slot.Hours); err != nil {
			return nil, err
		}
		slot.Weekday = time.Weekday(weekday)
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// SetAvailability replaces the user's weekly availability profile with the
// given slots in one transaction.
func (s *Store) SetAvailability(userID string, slots []models.AvailabilitySlot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM availability WHERE user_id = $1", userID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO availability (user_id, weekday, hours) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, weekday) DO UPDATE SET hours = EXCLUDED.hours`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, slot := range slots {
		if _, err := stmt.Exec(userID, int(slot.Weekday), slot.Hours); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) ClearAvailability(userID string) error {
	_, err := s.db.Exec("DELETE FROM availability WHERE user_id = $1", userID)
	return err
}
