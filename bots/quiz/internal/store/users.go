package store

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
)

// RegisterUser inserts u unless it already exists and reports whether a row was created.
func (s *Store) RegisterUser(ctx context.Context, u models.User) (bool, error) {
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (user_id, full_name, username, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`),
		u.ID, u.FullName, u.Username, u.JoinedAt,
	)
	if err != nil {
		return false, fmt.Errorf("register user %d: %w", u.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("register user %d: %w", u.ID, err)
	}
	return n == 1, nil
}

// GetUser loads one user.
func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, s.q(`
		SELECT user_id, full_name, username, joined_at, fail_count
		FROM users WHERE user_id = ?`), id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", id, notFound(err))
	}
	return u, nil
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// ListUserIDs returns every registered user id in join order.
func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM users ORDER BY joined_at, user_id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

// MarkDelivered resets the consecutive failure counter.
func (s *Store) MarkDelivered(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, s.q(`UPDATE users SET fail_count = 0 WHERE user_id = ?`), id); err != nil {
		return fmt.Errorf("mark delivered %d: %w", id, err)
	}
	return nil
}

// MarkFailed increments the consecutive failure counter and returns its new value.
func (s *Store) MarkFailed(ctx context.Context, id int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`
		UPDATE users SET fail_count = fail_count + 1
		WHERE user_id = ?
		RETURNING fail_count`), id)
	if err != nil {
		return 0, fmt.Errorf("mark failed %d: %w", id, notFound(err))
	}
	return n, nil
}
