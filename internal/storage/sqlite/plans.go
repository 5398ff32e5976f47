package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

func (s *Store) GetStudyBlocks(userID, startDate, endDate string) ([]models.StudyBlock, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, date, title, duration_min, assessment_id, done, seq
		FROM study_blocks
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date, seq`,
		userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.StudyBlock
	for rows.Next() {
		var b models.StudyBlock
		var assessmentID sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &b.Date, &b.Title, &b.DurationMin, &assessmentID, &b.Done, &b.Seq); err != nil {
			return nil, err
		}
		if assessmentID.Valid {
			b.AssessmentID = assessmentID.String
		}
		blocks = append(blocks, b)
	}

	return blocks, rows.Err()
}

func (s *Store) InsertStudyBlocks(userID string, blocks []models.StudyBlock) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertBlocksTx(tx, userID, blocks); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) DeleteStudyBlocks(userID string, dates []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteBlocksTx(tx, userID, dates); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) SetStudyBlockDone(userID, id string, done bool) error {
	res, err := s.db.Exec("UPDATE study_blocks SET done = ? WHERE user_id = ? AND id = ?", done, userID, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("study block with id %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ReplaceStudyBlocks swaps out the planning window in one transaction: all
// blocks on the given dates are deleted, the new blocks inserted, and the
// plan summary upserted. A reader never sees the window half-replaced.
func (s *Store) ReplaceStudyBlocks(userID string, dates []string, blocks []models.StudyBlock, summary models.PlanSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteBlocksTx(tx, userID, dates); err != nil {
		return err
	}
	if err := insertBlocksTx(tx, userID, blocks); err != nil {
		return err
	}
	if err := upsertSummaryTx(tx, summary); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetPlanSummary(userID string) (models.PlanSummary, error) {
	row := s.db.QueryRow(`
		SELECT user_id, shortfall_minutes, generated_at
		FROM plan_summaries WHERE user_id = ?`, userID)

	var p models.PlanSummary
	err := row.Scan(&p.UserID, &p.ShortfallMinutes, &p.GeneratedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.PlanSummary{}, fmt.Errorf("plan summary for user %s: %w", userID, storage.ErrNotFound)
		}
		return models.PlanSummary{}, err
	}

	return p, nil
}

func (s *Store) UpsertPlanSummary(summary models.PlanSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertSummaryTx(tx, summary); err != nil {
		return err
	}

	return tx.Commit()
}

func insertBlocksTx(tx *sql.Tx, userID string, blocks []models.StudyBlock) error {
	stmt, err := tx.Prepare(`
		INSERT INTO study_blocks (id, user_id, date, title, duration_min, assessment_id, done, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range blocks {
		var assessmentID sql.NullString
		if b.AssessmentID != "" {
			assessmentID = sql.NullString{String: b.AssessmentID, Valid: true}
		}
		if _, err := stmt.Exec(b.ID, userID, b.Date, b.Title, b.DurationMin, assessmentID, b.Done, b.Seq); err != nil {
			return err
		}
	}

	return nil
}

func deleteBlocksTx(tx *sql.Tx, userID string, dates []string) error {
	stmt, err := tx.Prepare("DELETE FROM study_blocks WHERE user_id = ? AND date = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, date := range dates {
		if _, err := stmt.Exec(userID, date); err != nil {
			return err
		}
	}

	return nil
}

func upsertSummaryTx(tx *sql.Tx, summary models.PlanSummary) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO plan_summaries (user_id, shortfall_minutes, generated_at)
		VALUES (?, ?, ?)`,
		summary.UserID, summary.ShortfallMinutes, summary.GeneratedAt,
	)
	return err
}
