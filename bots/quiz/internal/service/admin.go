package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/core/logger"
)

// QuestionParser turns an uploaded workbook into question rows.
type QuestionParser interface {
	Parse(r io.Reader) ([]models.Question, error)
}

// Admin implements the owner's content management actions.
type Admin struct {
	store    *store.Store
	parser   QuestionParser
	newToken func() (string, error)
}

// NewAdmin creates the admin service.
func NewAdmin(s *store.Store, parser QuestionParser) *Admin {
	return &Admin{store: s, parser: parser, newToken: NewToken}
}

// CreateQuiz adds a hidden quiz named name.
func (a *Admin) CreateQuiz(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("quiz name is empty: %w", ErrInvalidInput)
	}
	id, err := a.store.CreateQuiz(ctx, name)
	if err != nil {
		return 0, err
	}
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelInfo, "admin.quiz.created",
		slog.Int64("quiz_id", id),
	)
	return id, nil
}

// GetQuiz loads one quiz.
func (a *Admin) GetQuiz(ctx context.Context, id int64) (models.Quiz, error) {
	return a.store.GetQuiz(ctx, id)
}

// QuizByToken resolves a private invite token.
func (a *Admin) QuizByToken(ctx context.Context, token string) (models.Quiz, error) {
	return a.store.GetQuizByToken(ctx, token)
}

// ListQuizzes returns every quiz with its counters.
func (a *Admin) ListQuizzes(ctx context.Context) ([]models.QuizStats, error) {
	return a.store.ListQuizStats(ctx)
}

// ActiveQuizzes returns the quizzes listed to users.
func (a *Admin) ActiveQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return a.store.ListActiveQuizzes(ctx)
}

// ToggleQuiz flips visibility and returns the new state.
func (a *Admin) ToggleQuiz(ctx context.Context, id int64) (bool, error) {
	active, err := a.store.ToggleQuizActive(ctx, id)
	if err != nil {
		return false, err
	}
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelInfo, "admin.quiz.toggled",
		slog.Int64("quiz_id", id),
		slog.Bool("active", active),
	)
	return active, nil
}

// RenameQuiz changes the quiz name.
func (a *Admin) RenameQuiz(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("quiz name is empty: %w", ErrInvalidInput)
	}
	return a.store.RenameQuiz(ctx, id, name)
}

// SetMaxUsers sets the private access cap; 0 means unlimited.
func (a *Admin) SetMaxUsers(ctx context.Context, id int64, max int) error {
	if max < 0 {
		return fmt.Errorf("max users %d: %w", max, ErrInvalidInput)
	}
	return a.store.SetMaxUsers(ctx, id, max)
}

// RegenerateLink replaces the quiz's invite token and returns the new deep link.
func (a *Admin) RegenerateLink(ctx context.Context, id int64, botUsername string) (string, error) {
	if botUsername == "" {
		return "", fmt.Errorf("bot username unknown: %w", ErrInvalidInput)
	}
	token, err := a.newToken()
	if err != nil {
		return "", err
	}
	if err := a.store.SetPrivateToken(ctx, id, token); err != nil {
		return "", err
	}
	logger.LogEvent(ctx, logger.SVCAccess, slog.LevelInfo, "admin.link.regenerated",
		slog.Int64("quiz_id", id),
	)
	return InviteLink(botUsername, token), nil
}

// PrivateUsers lists the users granted private access to a quiz.
func (a *Admin) PrivateUsers(ctx context.Context, id int64) ([]models.PrivateUser, error) {
	return a.store.ListPrivateUsers(ctx, id)
}

// ClearPrivateUsers removes every private grant of a quiz.
func (a *Admin) ClearPrivateUsers(ctx context.Context, id int64) error {
	if err := a.store.ClearPrivateAccess(ctx, id); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCAccess, slog.LevelInfo, "admin.access.cleared",
		slog.Int64("quiz_id", id),
	)
	return nil
}

// Groups lists the question groups of a quiz.
func (a *Admin) Groups(ctx context.Context, quizID int64) ([]models.Group, error) {
	return a.store.ListGroups(ctx, quizID)
}

// DeleteGroup removes a group with its questions. Users positioned on it
// start the quiz over next time.
func (a *Admin) DeleteGroup(ctx context.Context, groupID int64) (models.Group, error) {
	g, err := a.store.DeleteGroup(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelInfo, "admin.group.deleted",
		slog.Int64("quiz_id", g.QuizID),
		slog.Int64("group_id", g.ID),
	)
	return g, nil
}

// DeleteQuiz removes a quiz and everything attached to it.
func (a *Admin) DeleteQuiz(ctx context.Context, id int64) error {
	if err := a.store.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelInfo, "admin.quiz.deleted",
		slog.Int64("quiz_id", id),
	)
	return nil
}

// ClearAllProgress forgets the position of every user in every quiz.
func (a *Admin) ClearAllProgress(ctx context.Context) (int64, error) {
	n, err := a.store.ClearAllProgress(ctx)
	if err != nil {
		return 0, err
	}
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelInfo, "admin.progress.cleared",
		slog.Int64("rows", n),
	)
	return n, nil
}

// ImportResult summarizes a workbook import.
type ImportResult struct {
	Group     models.Group
	Questions int
}

// Import parses a workbook and stores it as a new group named after the
// file without its extension.
func (a *Admin) Import(ctx context.Context, quizID int64, fileName string, r io.Reader) (ImportResult, error) {
	if a.parser == nil {
		return ImportResult{}, fmt.Errorf("no workbook parser configured")
	}
	qs, err := a.parser.Parse(r)
	if err != nil {
		logger.LogEvent(ctx, logger.SVCImport, slog.LevelWarn, "import.parse_failed",
			slog.Int64("quiz_id", quizID),
			slog.String("file", logger.SanitizeLimit(fileName, 64)),
			slog.String("err", err.Error()),
		)
		return ImportResult{}, err
	}
	if len(qs) == 0 {
		return ImportResult{}, fmt.Errorf("workbook has no question rows: %w", ErrInvalidInput)
	}

	name := GroupName(fileName)
	g, err := a.store.CreateGroup(ctx, quizID, name, qs)
	if err != nil {
		return ImportResult{}, err
	}
	logger.LogEvent(ctx, logger.SVCImport, slog.LevelInfo, "import.done",
		slog.Int64("quiz_id", quizID),
		slog.Int64("group_id", g.ID),
		slog.Int("questions", len(qs)),
	)
	return ImportResult{Group: g, Questions: len(qs)}, nil
}

// GroupName derives a group name from an uploaded file name.
func GroupName(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "questions"
	}
	return name
}
