package store

import (
	"context"
	"fmt"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
)

// GetProgress loads the position of a user in a quiz.
func (s *Store) GetProgress(ctx context.Context, userID, quizID int64) (models.Progress, error) {
	var p models.Progress
	err := s.db.GetContext(ctx, &p, s.q(`
		SELECT user_id, quiz_id, current_grp_id, current_q_idx
		FROM progress WHERE user_id = ? AND quiz_id = ?`), userID, quizID)
	if err != nil {
		return models.Progress{}, fmt.Errorf("get progress %d/%d: %w", userID, quizID, notFound(err))
	}
	return p, nil
}

// SaveProgress inserts or replaces the position of a user in a quiz.
func (s *Store) SaveProgress(ctx context.Context, p models.Progress) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO progress (user_id, quiz_id, current_grp_id, current_q_idx)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, quiz_id) DO UPDATE
		SET current_grp_id = excluded.current_grp_id, current_q_idx = excluded.current_q_idx`),
		p.UserID, p.QuizID, p.GroupID, p.Index,
	)
	if err != nil {
		return fmt.Errorf("save progress %d/%d: %w", p.UserID, p.QuizID, err)
	}
	return nil
}

// DeleteProgress forgets the position of a user in a quiz.
func (s *Store) DeleteProgress(ctx context.Context, userID, quizID int64) error {
	_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM progress WHERE user_id = ? AND quiz_id = ?`), userID, quizID)
	if err != nil {
		return fmt.Errorf("delete progress %d/%d: %w", userID, quizID, err)
	}
	return nil
}

// AdvanceProgress increments the question index without bounds checks.
func (s *Store) AdvanceProgress(ctx context.Context, userID, quizID int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE progress SET current_q_idx = current_q_idx + 1
		WHERE user_id = ? AND quiz_id = ?`), userID, quizID)
	if err != nil {
		return fmt.Errorf("advance progress %d/%d: %w", userID, quizID, err)
	}
	if err := requireAffected(res); err != nil {
		return fmt.Errorf("advance progress %d/%d: %w", userID, quizID, err)
	}
	return nil
}

// AdvanceFrom increments the index only while the row still points at
// (groupID, index). It reports false when the position already moved.
func (s *Store) AdvanceFrom(ctx context.Context, userID, quizID, groupID int64, index int) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE progress SET current_q_idx = current_q_idx + 1
		WHERE user_id = ? AND quiz_id = ? AND current_grp_id = ? AND current_q_idx = ?`),
		userID, quizID, groupID, index,
	)
	if err != nil {
		return false, fmt.Errorf("advance progress %d/%d: %w", userID, quizID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("advance progress %d/%d: %w", userID, quizID, err)
	}
	return n == 1, nil
}

// ClearAllProgress deletes every progress row and returns how many were removed.
func (s *Store) ClearAllProgress(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM progress`)
	if err != nil {
		return 0, fmt.Errorf("clear progress: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
