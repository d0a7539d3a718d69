package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/service"
	"github.com/m3rciful/tgbots/core/logger"
	"github.com/m3rciful/tgbots/core/telegram/callbacks"
	"github.com/m3rciful/tgbots/core/telegram/format"
	tghelpers "github.com/m3rciful/tgbots/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	u := senderUser(c)
	if _, err := h.Users.Register(ctx, u); err != nil {
		return err
	}

	token := ""
	if m := c.Message(); m != nil {
		token = strings.TrimSpace(m.Payload)
	}
	if token != "" {
		return h.startPrivate(ctx, c, u, token)
	}
	return h.listQuizzes(ctx, c, u)
}

func (h *Handlers) listQuizzes(ctx context.Context, c tele.Context, u models.User) error {
	quizzes, err := h.Admin.ActiveQuizzes(ctx)
	if err != nil {
		return err
	}
	if h.OwnerID != 0 && u.ID == h.OwnerID {
		if err := tghelpers.ReplyMD(c, txtAdminPanel, adminKeyboard()); err != nil {
			return err
		}
	}
	if len(quizzes) == 0 {
		return tghelpers.SendText(c, txtNoActive)
	}
	return tghelpers.SendText(c, txtAvailable, quizListMarkup(quizzes))
}

// startPrivate handles a deep link: cap check, channel check, then grant.
func (h *Handlers) startPrivate(ctx context.Context, c tele.Context, u models.User, token string) error {
	q, err := h.Admin.QuizByToken(ctx, token)
	if errors.Is(err, models.ErrNotFound) {
		return tghelpers.SendText(c, txtInvalidLink)
	}
	if err != nil {
		return err
	}

	d, err := h.Gate.CanAccessPrivate(ctx, u.ID, q.ID)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return tghelpers.SendText(c, fmt.Sprintf(txtCapReached, d.MaxUsers))
	}
	if !h.Gate.CheckExternalMembership(ctx, u) {
		return h.sendSubscribe(ctx, c, txtSubscribeStart)
	}

	// The cap may have filled up between the check above and the grant.
	d, err = h.Gate.Admit(ctx, u.ID, q.ID)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return tghelpers.SendText(c, fmt.Sprintf(txtCapReached, d.MaxUsers))
	}
	if err := tghelpers.ReplyMD(c, fmt.Sprintf(txtPrivateGranted, format.MD(q.Name))); err != nil {
		return err
	}

	v, err := h.Navigator.Resume(ctx, u.ID, q.ID)
	if err != nil {
		return quizFailure(c, err)
	}
	text, markup := renderView(v)
	return tghelpers.ReplyMD(c, text, markup)
}

// visible reports whether u may open quiz q from a button.
func (h *Handlers) visible(ctx context.Context, userID int64, q models.Quiz) (bool, error) {
	if q.IsActive || userID == h.OwnerID {
		return true, nil
	}
	return h.Gate.Granted(ctx, userID, q.ID)
}

func (h *Handlers) requireMembership(ctx context.Context, c tele.Context, prompt string) (bool, error) {
	if h.Gate.CheckExternalMembership(ctx, senderUser(c)) {
		return true, nil
	}
	if err := callbacks.Answer(c); err != nil {
		return false, err
	}
	return false, h.sendSubscribe(ctx, c, prompt)
}

func (h *Handlers) sendSubscribe(ctx context.Context, c tele.Context, prompt string) error {
	if markup := subscribeMarkup(h.Settings.ChannelLink(ctx)); markup != nil {
		return tghelpers.SendText(c, prompt, markup)
	}
	return tghelpers.SendText(c, prompt)
}

func (h *Handlers) onQuizStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbQuizStart, err)
	}
	userID := senderID(c)

	q, err := h.Admin.GetQuiz(ctx, quizID)
	if err != nil {
		return quizFailure(c, err)
	}
	ok, err := h.visible(ctx, userID, q)
	if err != nil {
		return err
	}
	if !ok {
		return callbacks.Alert(c, txtNotFound)
	}
	if ok, err := h.requireMembership(ctx, c, txtSubscribeStart); !ok {
		return err
	}

	v, err := h.Navigator.Start(ctx, userID, quizID)
	if err != nil {
		return quizFailure(c, err)
	}
	text, markup := renderView(v)
	return tghelpers.EditOrSendMD(c, text, markup)
}

func (h *Handlers) onQuizAnswer(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	parts, err := callbacks.PayloadParts(c, 3)
	if err != nil {
		return badPayload(cbQuizAns, err)
	}
	quizID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return badPayload(cbQuizAns, err)
	}
	questionID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return badPayload(cbQuizAns, err)
	}

	v, err := h.Navigator.Submit(ctx, senderID(c), quizID, questionID, parts[0])
	if err != nil {
		if errors.Is(err, service.ErrStaleAnswer) {
			logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelDebug, "quiz.answer.stale",
				slog.Int64("quiz_id", quizID),
				slog.Int64("question_id", questionID),
			)
		}
		return quizFailure(c, err)
	}
	text, markup := renderView(v)
	return tghelpers.EditOrSendMD(c, text, markup)
}

func (h *Handlers) onQuizQuit(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbQuizQuit, err)
	}
	h.Navigator.Quit(ctx, senderID(c), quizID)
	return tghelpers.EditOrSendMD(c, txtQuit)
}

func (h *Handlers) onQuizNext(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, groupID, err := callbacks.PayloadTwoInt64(c)
	if err != nil {
		return badPayload(cbQuizNext, err)
	}
	if ok, err := h.requireMembership(ctx, c, txtSubscribeContinue); !ok {
		return err
	}

	v, err := h.Navigator.Continue(ctx, senderID(c), quizID, groupID)
	if err != nil {
		return quizFailure(c, err)
	}
	if err := c.Delete(); err != nil {
		logFailure(ctx, "quiz.next.delete_failed", err, slog.Int64("quiz_id", quizID))
	}
	text, markup := renderView(v)
	return tghelpers.ReplyMD(c, text, markup)
}
