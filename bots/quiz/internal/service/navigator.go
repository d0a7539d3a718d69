package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/core/logger"
)

// ViewKind selects what the user sees next.
type ViewKind int

const (
	// ViewQuestion shows the question at View.Index.
	ViewQuestion ViewKind = iota + 1
	// ViewGroupBoundary offers to end the quiz or continue with View.NextGroup.
	ViewGroupBoundary
	// ViewComplete means every group was answered.
	ViewComplete
)

func (k ViewKind) String() string {
	switch k {
	case ViewQuestion:
		return "question"
	case ViewGroupBoundary:
		return "group_boundary"
	case ViewComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Feedback describes the answer that produced a view.
type Feedback struct {
	Stem        string
	Choice      string
	Correct     string
	Explanation string
	IsCorrect   bool
}

// View is the navigator's decision, ready to be rendered.
type View struct {
	Kind   ViewKind
	QuizID int64
	Group  models.Group

	// Question state.
	Index    int
	Total    int
	Question models.Question
	Options  []models.Option

	// Boundary state.
	NextGroup models.Group

	Feedback *Feedback
}

// Navigator composes the tracker into the question, boundary and completion states.
type Navigator struct {
	store   *store.Store
	tracker *Tracker
	locks   *keyedMutex
}

// NewNavigator creates a navigator over tracker.
func NewNavigator(s *store.Store, tracker *Tracker) *Navigator {
	return &Navigator{store: s, tracker: tracker, locks: newKeyedMutex()}
}

func (n *Navigator) lock(userID, quizID int64) func() {
	return n.locks.Lock(fmt.Sprintf("%d:%d", userID, quizID))
}

// Start resets the user's progress and shows the first question.
func (n *Navigator) Start(ctx context.Context, userID, quizID int64) (View, error) {
	defer n.lock(userID, quizID)()

	pos, err := n.tracker.GetCurrentPosition(ctx, userID, quizID, true)
	if err != nil {
		return View{}, err
	}
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelInfo, "quiz.start",
		slog.Int64("quiz_id", quizID),
		slog.Int64("group_id", pos.Group.ID),
	)
	return n.evaluate(ctx, quizID, pos, nil)
}

// Resume shows the user's current state without resetting it.
func (n *Navigator) Resume(ctx context.Context, userID, quizID int64) (View, error) {
	defer n.lock(userID, quizID)()

	pos, err := n.tracker.GetCurrentPosition(ctx, userID, quizID, false)
	if err != nil {
		return View{}, err
	}
	return n.evaluate(ctx, quizID, pos, nil)
}

// Submit grades choice for questionID, advances the user and returns the
// next view with the feedback attached. Answers to any question other than
// the current one return ErrStaleAnswer and change nothing.
func (n *Navigator) Submit(ctx context.Context, userID, quizID, questionID int64, choice string) (View, error) {
	defer n.lock(userID, quizID)()

	q, err := n.store.GetQuestion(ctx, questionID)
	if err != nil {
		return View{}, err
	}
	if q.QuizID != quizID {
		return View{}, fmt.Errorf("question %d in quiz %d: %w", questionID, quizID, models.ErrNotFound)
	}

	pos, err := n.tracker.GetCurrentPosition(ctx, userID, quizID, false)
	if err != nil {
		return View{}, err
	}
	if pos.Exhausted() || pos.Questions[pos.Index].ID != questionID {
		return View{}, ErrStaleAnswer
	}
	moved, err := n.tracker.AdvanceFrom(ctx, userID, quizID, pos)
	if err != nil {
		return View{}, err
	}
	if !moved {
		return View{}, ErrStaleAnswer
	}
	pos.Index++

	fb := &Feedback{
		Stem:        q.Stem,
		Choice:      choice,
		Correct:     q.Correct,
		Explanation: q.Explanation,
		IsCorrect:   choice == q.Correct,
	}
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelDebug, "quiz.answer",
		slog.Int64("quiz_id", quizID),
		slog.Int64("question_id", questionID),
		slog.Bool("correct", fb.IsCorrect),
	)
	return n.evaluate(ctx, quizID, pos, fb)
}

// Continue moves the user to groupID and shows its first question. The move
// is only taken from an exhausted group into the group right after it; any
// other press returns ErrStaleAnswer and changes nothing.
func (n *Navigator) Continue(ctx context.Context, userID, quizID, groupID int64) (View, error) {
	g, err := n.store.GetGroup(ctx, groupID)
	if err != nil {
		return View{}, err
	}
	if g.QuizID != quizID {
		return View{}, fmt.Errorf("group %d in quiz %d: %w", groupID, quizID, models.ErrNotFound)
	}

	defer n.lock(userID, quizID)()
	pos, err := n.tracker.GetCurrentPosition(ctx, userID, quizID, false)
	if err != nil {
		return View{}, err
	}
	if !pos.Exhausted() {
		return View{}, ErrStaleAnswer
	}
	next, err := n.store.NextGroup(ctx, quizID, pos.Group.ID)
	if errors.Is(err, models.ErrNotFound) {
		return View{}, ErrStaleAnswer
	}
	if err != nil {
		return View{}, err
	}
	if next.ID != groupID {
		return View{}, ErrStaleAnswer
	}

	if err := n.tracker.JumpToGroup(ctx, userID, quizID, groupID); err != nil {
		return View{}, err
	}
	pos, err = n.tracker.GetCurrentPosition(ctx, userID, quizID, false)
	if err != nil {
		return View{}, err
	}
	return n.evaluate(ctx, quizID, pos, nil)
}

// Quit ends the session on the user's side. Progress is kept so a private
// link resumes where the user stopped.
func (n *Navigator) Quit(ctx context.Context, userID, quizID int64) {
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelInfo, "quiz.quit",
		slog.Int64("quiz_id", quizID),
	)
}

func (n *Navigator) evaluate(ctx context.Context, quizID int64, pos Position, fb *Feedback) (View, error) {
	v := View{QuizID: quizID, Group: pos.Group, Index: pos.Index, Total: len(pos.Questions), Feedback: fb}
	if !pos.Exhausted() {
		v.Kind = ViewQuestion
		v.Question = pos.Questions[pos.Index]
		v.Options = VisibleOptions(v.Question)
		return v, nil
	}

	next, err := n.store.NextGroup(ctx, quizID, pos.Group.ID)
	switch {
	case err == nil:
		v.Kind = ViewGroupBoundary
		v.NextGroup = next
	case errors.Is(err, models.ErrNotFound):
		v.Kind = ViewComplete
		logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelDebug, "quiz.complete",
			slog.Int64("quiz_id", quizID),
		)
	default:
		return View{}, err
	}
	return v, nil
}

// VisibleOptions drops blank options, keeping label order.
func VisibleOptions(q models.Question) []models.Option {
	all := q.Options()
	out := all[:0]
	for _, o := range all {
		if !models.IsBlankOption(o.Text) {
			out = append(out, o)
		}
	}
	return out
}
