package service

import (
	"context"
	"errors"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
)

// Position is where a user stands in a quiz.
type Position struct {
	Group     models.Group
	Questions []models.Question
	// Index is zero-based; Index == len(Questions) means the group is exhausted.
	Index int
}

// Exhausted reports whether every question of the current group was answered.
func (p Position) Exhausted() bool {
	return p.Index >= len(p.Questions)
}

// Tracker maps (user, quiz) to a position and moves it forward.
type Tracker struct {
	store *store.Store
}

// NewTracker creates a progress tracker.
func NewTracker(s *store.Store) *Tracker {
	return &Tracker{store: s}
}

// GetCurrentPosition loads the position of userID in quizID. reset drops the
// stored position first. A missing position starts at the first group.
// ErrNoContent is returned when the quiz has no groups.
func (t *Tracker) GetCurrentPosition(ctx context.Context, userID, quizID int64, reset bool) (Position, error) {
	if reset {
		if err := t.store.DeleteProgress(ctx, userID, quizID); err != nil {
			return Position{}, err
		}
	}

	var pos Position
	p, err := t.store.GetProgress(ctx, userID, quizID)
	switch {
	case err == nil:
		g, gErr := t.store.GetGroup(ctx, p.GroupID)
		if gErr == nil {
			pos.Group, pos.Index = g, p.Index
			break
		}
		if !errors.Is(gErr, models.ErrNotFound) {
			return Position{}, gErr
		}
		// The group vanished under the user; start over.
		if pos, err = t.startAtFirstGroup(ctx, userID, quizID); err != nil {
			return Position{}, err
		}
	case errors.Is(err, models.ErrNotFound):
		if pos, err = t.startAtFirstGroup(ctx, userID, quizID); err != nil {
			return Position{}, err
		}
	default:
		return Position{}, err
	}

	qs, err := t.store.QuestionsByGroup(ctx, pos.Group.ID)
	if err != nil {
		return Position{}, err
	}
	pos.Questions = qs
	return pos, nil
}

func (t *Tracker) startAtFirstGroup(ctx context.Context, userID, quizID int64) (Position, error) {
	g, err := t.store.FirstGroup(ctx, quizID)
	if errors.Is(err, models.ErrNotFound) {
		return Position{}, ErrNoContent
	}
	if err != nil {
		return Position{}, err
	}
	if err := t.store.SaveProgress(ctx, models.Progress{UserID: userID, QuizID: quizID, GroupID: g.ID}); err != nil {
		return Position{}, err
	}
	return Position{Group: g}, nil
}

// Advance moves the index forward by one without bounds checks.
func (t *Tracker) Advance(ctx context.Context, userID, quizID int64) error {
	return t.store.AdvanceProgress(ctx, userID, quizID)
}

// AdvanceFrom moves the index forward only if the user is still at pos.
func (t *Tracker) AdvanceFrom(ctx context.Context, userID, quizID int64, pos Position) (bool, error) {
	return t.store.AdvanceFrom(ctx, userID, quizID, pos.Group.ID, pos.Index)
}

// JumpToGroup places the user at the first question of groupID.
func (t *Tracker) JumpToGroup(ctx context.Context, userID, quizID, groupID int64) error {
	return t.store.SaveProgress(ctx, models.Progress{UserID: userID, QuizID: quizID, GroupID: groupID})
}
