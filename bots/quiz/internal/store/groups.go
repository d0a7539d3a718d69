package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
)

// CreateGroup stores a group and its questions atomically.
func (s *Store) CreateGroup(ctx context.Context, quizID int64, name string, questions []models.Question) (models.Group, error) {
	g := models.Group{QuizID: quizID, FileName: name}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM quizzes WHERE id = ?`), quizID); err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("create group: quiz %d: %w", quizID, models.ErrNotFound)
		}
		if err := tx.GetContext(ctx, &g.ID, tx.Rebind(`
			INSERT INTO question_groups (quiz_id, file_name) VALUES (?, ?) RETURNING id`),
			quizID, name,
		); err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		insert := tx.Rebind(`
			INSERT INTO questions (quiz_id, group_id, stem, a, b, c, d, correct, explanation)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		for i, q := range questions {
			if _, err := tx.ExecContext(ctx, insert,
				quizID, g.ID, q.Stem, q.A, q.B, q.C, q.D, q.Correct, q.Explanation,
			); err != nil {
				return fmt.Errorf("create group: question %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetGroup loads one group.
func (s *Store) GetGroup(ctx context.Context, id int64) (models.Group, error) {
	var g models.Group
	err := s.db.GetContext(ctx, &g, s.q(`SELECT id, quiz_id, file_name FROM question_groups WHERE id = ?`), id)
	if err != nil {
		return models.Group{}, fmt.Errorf("get group %d: %w", id, notFound(err))
	}
	return g, nil
}

// ListGroups returns the groups of a quiz in sequence order.
func (s *Store) ListGroups(ctx context.Context, quizID int64) ([]models.Group, error) {
	var out []models.Group
	err := s.db.SelectContext(ctx, &out, s.q(`
		SELECT id, quiz_id, file_name FROM question_groups WHERE quiz_id = ? ORDER BY id`), quizID)
	if err != nil {
		return nil, fmt.Errorf("list groups %d: %w", quizID, err)
	}
	return out, nil
}

// FirstGroup returns the lowest-id group of a quiz.
func (s *Store) FirstGroup(ctx context.Context, quizID int64) (models.Group, error) {
	var g models.Group
	err := s.db.GetContext(ctx, &g, s.q(`
		SELECT id, quiz_id, file_name FROM question_groups
		WHERE quiz_id = ? ORDER BY id LIMIT 1`), quizID)
	if err != nil {
		return models.Group{}, fmt.Errorf("first group %d: %w", quizID, notFound(err))
	}
	return g, nil
}

// NextGroup returns the group following afterID within the quiz.
func (s *Store) NextGroup(ctx context.Context, quizID, afterID int64) (models.Group, error) {
	var g models.Group
	err := s.db.GetContext(ctx, &g, s.q(`
		SELECT id, quiz_id, file_name FROM question_groups
		WHERE quiz_id = ? AND id > ? ORDER BY id LIMIT 1`), quizID, afterID)
	if err != nil {
		return models.Group{}, fmt.Errorf("next group %d/%d: %w", quizID, afterID, notFound(err))
	}
	return g, nil
}

// DeleteGroup removes a group, its questions and the progress rows positioned on it.
func (s *Store) DeleteGroup(ctx context.Context, id int64) (models.Group, error) {
	var g models.Group
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &g, tx.Rebind(`
			SELECT id, quiz_id, file_name FROM question_groups WHERE id = ?`), id); err != nil {
			return fmt.Errorf("delete group %d: %w", id, notFound(err))
		}
		for _, stmt := range []string{
			`DELETE FROM questions WHERE group_id = ?`,
			`DELETE FROM progress WHERE current_grp_id = ?`,
			`DELETE FROM question_groups WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), id); err != nil {
				return fmt.Errorf("delete group %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// QuestionsByGroup returns the questions of a group in ascending id order.
func (s *Store) QuestionsByGroup(ctx context.Context, groupID int64) ([]models.Question, error) {
	var out []models.Question
	err := s.db.SelectContext(ctx, &out, s.q(`
		SELECT id, quiz_id, group_id, stem, a, b, c, d, correct, explanation
		FROM questions WHERE group_id = ? ORDER BY id`), groupID)
	if err != nil {
		return nil, fmt.Errorf("questions of group %d: %w", groupID, err)
	}
	return out, nil
}

// GetQuestion loads one question.
func (s *Store) GetQuestion(ctx context.Context, id int64) (models.Question, error) {
	var q models.Question
	err := s.db.GetContext(ctx, &q, s.q(`
		SELECT id, quiz_id, group_id, stem, a, b, c, d, correct, explanation
		FROM questions WHERE id = ?`), id)
	if err != nil {
		return models.Question{}, fmt.Errorf("get question %d: %w", id, notFound(err))
	}
	return q, nil
}
