package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
)

const quizColumns = `id, name, is_active, private_token, max_users, used_users`

// CreateQuiz inserts a hidden quiz and returns its id.
func (s *Store) CreateQuiz(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, s.q(`INSERT INTO quizzes (name) VALUES (?) RETURNING id`), name)
	if err != nil {
		return 0, fmt.Errorf("create quiz: %w", err)
	}
	return id, nil
}

// GetQuiz loads a quiz by id.
func (s *Store) GetQuiz(ctx context.Context, id int64) (models.Quiz, error) {
	var q models.Quiz
	err := s.db.GetContext(ctx, &q, s.q(`SELECT `+quizColumns+` FROM quizzes WHERE id = ?`), id)
	if err != nil {
		return models.Quiz{}, fmt.Errorf("get quiz %d: %w", id, notFound(err))
	}
	return q, nil
}

// GetQuizByToken resolves a private invite token.
func (s *Store) GetQuizByToken(ctx context.Context, token string) (models.Quiz, error) {
	var q models.Quiz
	err := s.db.GetContext(ctx, &q, s.q(`SELECT `+quizColumns+` FROM quizzes WHERE private_token = ?`), token)
	if err != nil {
		return models.Quiz{}, fmt.Errorf("get quiz by token: %w", notFound(err))
	}
	return q, nil
}

// ListActiveQuizzes returns the quizzes visible on /start.
func (s *Store) ListActiveQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var out []models.Quiz
	err := s.db.SelectContext(ctx, &out, `SELECT `+quizColumns+` FROM quizzes WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active quizzes: %w", err)
	}
	return out, nil
}

// ListQuizStats returns every quiz with its group, question and participant counts.
func (s *Store) ListQuizStats(ctx context.Context) ([]models.QuizStats, error) {
	var out []models.QuizStats
	err := s.db.SelectContext(ctx, &out, `
		SELECT q.id, q.name, q.is_active, q.private_token, q.max_users, q.used_users,
			(SELECT COUNT(*) FROM question_groups g WHERE g.quiz_id = q.id) AS groups_count,
			(SELECT COUNT(*) FROM questions x WHERE x.quiz_id = q.id) AS questions_count,
			(SELECT COUNT(DISTINCT p.user_id) FROM progress p WHERE p.quiz_id = q.id) AS users_count
		FROM quizzes q
		ORDER BY q.id`)
	if err != nil {
		return nil, fmt.Errorf("list quiz stats: %w", err)
	}
	return out, nil
}

// ToggleQuizActive flips the visibility flag and returns the new value.
func (s *Store) ToggleQuizActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := s.db.GetContext(ctx, &active, s.q(`
		UPDATE quizzes SET is_active = 1 - is_active
		WHERE id = ?
		RETURNING is_active`), id)
	if err != nil {
		return false, fmt.Errorf("toggle quiz %d: %w", id, notFound(err))
	}
	return active, nil
}

// RenameQuiz changes the display name.
func (s *Store) RenameQuiz(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE quizzes SET name = ? WHERE id = ?`), name, id)
	if err != nil {
		return fmt.Errorf("rename quiz %d: %w", id, err)
	}
	if err := requireAffected(res); err != nil {
		return fmt.Errorf("rename quiz %d: %w", id, err)
	}
	return nil
}

// SetMaxUsers changes the private access cap; 0 removes it.
func (s *Store) SetMaxUsers(ctx context.Context, id int64, max int) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE quizzes SET max_users = ? WHERE id = ?`), max, id)
	if err != nil {
		return fmt.Errorf("set max users %d: %w", id, err)
	}
	if err := requireAffected(res); err != nil {
		return fmt.Errorf("set max users %d: %w", id, err)
	}
	return nil
}

// SetPrivateToken overwrites the invite token. Previous links stop resolving.
func (s *Store) SetPrivateToken(ctx context.Context, id int64, token string) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE quizzes SET private_token = ? WHERE id = ?`), token, id)
	if err != nil {
		return fmt.Errorf("set private token %d: %w", id, err)
	}
	if err := requireAffected(res); err != nil {
		return fmt.Errorf("set private token %d: %w", id, err)
	}
	return nil
}

// DeleteQuiz removes a quiz with its groups, questions, progress and access rows.
func (s *Store) DeleteQuiz(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM questions WHERE quiz_id = ?`,
			`DELETE FROM question_groups WHERE quiz_id = ?`,
			`DELETE FROM progress WHERE quiz_id = ?`,
			`DELETE FROM private_access WHERE quiz_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), id); err != nil {
				return fmt.Errorf("delete quiz %d: %w", id, err)
			}
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM quizzes WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete quiz %d: %w", id, err)
		}
		if err := requireAffected(res); err != nil {
			return fmt.Errorf("delete quiz %d: %w", id, err)
		}
		return nil
	})
}
