package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
)

// HasPrivateAccess reports whether the user already holds a grant for the quiz.
func (s *Store) HasPrivateAccess(ctx context.Context, userID, quizID int64) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`
		SELECT COUNT(*) FROM private_access WHERE user_id = ? AND quiz_id = ?`), userID, quizID)
	if err != nil {
		return false, fmt.Errorf("private access %d/%d: %w", userID, quizID, err)
	}
	return n > 0, nil
}

// GrantPrivateAccess records a grant once and recomputes used_users from the
// grant rows. It returns the new used count.
func (s *Store) GrantPrivateAccess(ctx context.Context, userID, quizID int64, at time.Time) (int, error) {
	var used int
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO private_access (user_id, quiz_id, accessed_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id, quiz_id) DO NOTHING`), userID, quizID, at.UTC()); err != nil {
			return fmt.Errorf("grant access %d/%d: %w", userID, quizID, err)
		}
		if err := tx.GetContext(ctx, &used, tx.Rebind(`
			UPDATE quizzes
			SET used_users = (SELECT COUNT(*) FROM private_access WHERE quiz_id = ?)
			WHERE id = ?
			RETURNING used_users`), quizID, quizID); err != nil {
			return fmt.Errorf("grant access %d/%d: recount: %w", userID, quizID, notFound(err))
		}
		return nil
	})
	return used, err
}

// ListPrivateUsers returns the grant holders of a quiz, oldest first.
func (s *Store) ListPrivateUsers(ctx context.Context, quizID int64) ([]models.PrivateUser, error) {
	var out []models.PrivateUser
	err := s.db.SelectContext(ctx, &out, s.q(`
		SELECT p.user_id,
			COALESCE(u.full_name, '') AS full_name,
			COALESCE(u.username, '') AS username,
			p.accessed_at
		FROM private_access p
		LEFT JOIN users u ON u.user_id = p.user_id
		WHERE p.quiz_id = ?
		ORDER BY p.accessed_at, p.user_id`), quizID)
	if err != nil {
		return nil, fmt.Errorf("list private users %d: %w", quizID, err)
	}
	return out, nil
}

// ClearPrivateAccess drops every grant of a quiz and resets its used count.
func (s *Store) ClearPrivateAccess(ctx context.Context, quizID int64) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM private_access WHERE quiz_id = ?`), quizID); err != nil {
			return fmt.Errorf("clear private access %d: %w", quizID, err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE quizzes SET used_users = 0 WHERE id = ?`), quizID)
		if err != nil {
			return fmt.Errorf("clear private access %d: %w", quizID, err)
		}
		if err := requireAffected(res); err != nil {
			return fmt.Errorf("clear private access %d: %w", quizID, err)
		}
		return nil
	})
}
