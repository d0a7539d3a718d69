// Package handlers binds the quiz services to Telegram commands, callbacks
// and admin dialogs.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/service"
	"github.com/m3rciful/tgbots/core/logger"
	coretelegram "github.com/m3rciful/tgbots/core/telegram"
	"github.com/m3rciful/tgbots/core/telegram/callbacks"
	"github.com/m3rciful/tgbots/core/telegram/commands"
	tghelpers "github.com/m3rciful/tgbots/core/telegram/helpers"
	"github.com/m3rciful/tgbots/core/telegram/middleware"
	"github.com/m3rciful/tgbots/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// Bot is the slice of the Telegram gateway the handlers need.
type Bot interface {
	service.MessageSender
	Username() string
	OpenFile(f tele.File) (io.ReadCloser, error)
}

// Deps carries everything the handlers call into.
type Deps struct {
	OwnerID   int64
	Users     *service.Users
	Gate      *service.Gate
	Navigator *service.Navigator
	Admin     *service.Admin
	Settings  *service.Settings
	Bot       Bot
	FSM       state.Manager
	// MaxUploadBytes caps workbook uploads; 0 disables the check.
	MaxUploadBytes int64
}

// Handlers serves the quiz bot updates.
type Handlers struct {
	Deps
}

// New builds the handler set and registers the admin dialog states on d.FSM.
func New(d Deps) *Handlers {
	if d.FSM == nil {
		d.FSM = state.NewMemoryManager()
	}
	h := &Handlers{Deps: d}
	h.registerStates()
	return h
}

// Register adds commands and callbacks to reg.
func (h *Handlers) Register(reg *coretelegram.Registry) error {
	cmds := map[string]commands.Command{
		"/start": {Handler: h.onStart, Description: "Start the bot"},
		"/admin": {Handler: h.onAdmin, Description: "Control panel", AdminOnly: true, Hidden: true},
		"/cancel": {
			Handler: h.onCancel, Description: "Cancel the current dialog", AdminOnly: true, Hidden: true,
		},
		"/newquiz": {
			Handler: h.onNewQuiz, Description: "Create a quiz", AdminOnly: true, Hidden: true,
			Aliases: []string{btnCreateQuiz},
		},
		"/quizzes": {
			Handler: h.onQuizzes, Description: "Manage quizzes", AdminOnly: true, Hidden: true,
			Aliases: []string{btnManageQuizzes},
		},
		"/channel": {
			Handler: h.onChannel, Description: "Channel settings", AdminOnly: true, Hidden: true,
			Aliases: []string{btnChannelSettings},
		},
		"/botstatus": {
			Handler: h.onBotStatus, Description: "Turn the bot on or off", AdminOnly: true, Hidden: true,
			Aliases: []string{btnBotToggle},
		},
		"/resetprogress": {
			Handler: h.onResetProgress, Description: "Clear all progress", AdminOnly: true, Hidden: true,
			Aliases: []string{btnResetProgress},
		},
		"/broadcast": {
			Handler: h.onBroadcast, Description: "Message all users", AdminOnly: true, Hidden: true,
			Aliases: []string{btnBroadcast},
		},
	}
	for name, cmd := range cmds {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			return err
		}
	}

	user := map[string]tele.HandlerFunc{
		cbQuizStart: h.onQuizStart,
		cbQuizAns:   h.onQuizAnswer,
		cbQuizQuit:  h.onQuizQuit,
		cbQuizNext:  h.onQuizNext,
	}
	admin := map[string]tele.HandlerFunc{
		cbAdmUpload:    h.onAdmUpload,
		cbAdmGroups:    h.onAdmGroups,
		cbAdmToggle:    h.onAdmToggle,
		cbAdmLink:      h.onAdmLink,
		cbAdmMax:       h.onAdmMax,
		cbAdmUsers:     h.onAdmUsers,
		cbAdmClear:     h.onAdmClear,
		cbAdmClearOK:   h.onAdmClearOK,
		cbAdmClearNo:   h.onDismiss,
		cbAdmDel:       h.onAdmDel,
		cbAdmDelOK:     h.onAdmDelOK,
		cbAdmDelNo:     h.onDismiss,
		cbAdmRename:    h.onAdmRename,
		cbAdmGroupDel:  h.onAdmGroupDel,
		cbChSetID:      h.onChSetID,
		cbChSetLink:    h.onChSetLink,
		cbChClear:      h.onChClear,
		cbChToggleLink: h.onChToggleLink,
		cbChBack:       h.onChBack,
		cbBotToggle:    h.onBotToggle,
		cbBotBack:      h.onBotBack,
		cbBroadcastYes: h.onBroadcastYes,
		cbBroadcastNo:  h.onBroadcastNo,
	}

	for key, fn := range user {
		if err := reg.RegisterCallback(key, fn); err != nil {
			return err
		}
	}
	adminOnly := middleware.AdminOnlyMiddleware(h.adminOptions())
	for key, fn := range admin {
		if err := reg.RegisterCallback(key, adminOnly(fn)); err != nil {
			return err
		}
	}
	reg.SetTextFallback(h.onUnknownText)
	return nil
}

func (h *Handlers) adminOptions() middleware.AdminOptions {
	return middleware.AdminOptions{AdminID: h.OwnerID, OnReject: h.onAdminReject}
}

// AdminReject answers updates from anyone but the owner on admin entry points.
func (h *Handlers) AdminReject() tele.HandlerFunc {
	return h.onAdminReject
}

func (h *Handlers) onAdminReject(c tele.Context) error {
	if c.Callback() != nil {
		return callbacks.Alert(c, txtAdminOnly)
	}
	return tghelpers.SendText(c, txtAdminOnly)
}

func (h *Handlers) onUnknownText(c tele.Context) error {
	if c.Message() == nil || c.Chat() == nil || c.Chat().Type != tele.ChatPrivate {
		return nil
	}
	return tghelpers.SendText(c, txtStartHint)
}

// OnError is the last resort reply for handler errors.
func (h *Handlers) OnError(err error, c tele.Context) {
	if c == nil {
		return
	}
	if c.Callback() != nil {
		_ = callbacks.Alert(c, txtGenericError)
		return
	}
	if c.Chat() != nil {
		_ = c.Send(txtGenericError)
	}
}

func senderUser(c tele.Context) models.User {
	s := c.Sender()
	if s == nil {
		return models.User{}
	}
	return models.User{
		ID:       s.ID,
		FullName: strings.TrimSpace(s.FirstName + " " + s.LastName),
		Username: s.Username,
	}
}

func senderID(c tele.Context) int64 {
	if s := c.Sender(); s != nil {
		return s.ID
	}
	return 0
}

// quizFailure replies to the domain errors a user can run into and returns
// the rest to the caller.
func quizFailure(c tele.Context, err error) error {
	var text string
	switch {
	case errors.Is(err, service.ErrStaleAnswer):
		return callbacks.Toast(c, txtStale)
	case errors.Is(err, models.ErrNotFound):
		text = txtNotFound
	case errors.Is(err, service.ErrNoContent):
		text = txtNoContent
	default:
		return err
	}
	if c.Callback() != nil {
		return callbacks.Alert(c, text)
	}
	return tghelpers.SendText(c, text)
}

func logFailure(ctx context.Context, event string, err error, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	logger.LogEvent(ctx, logger.SVCQuiz, slog.LevelWarn, event, attrs...)
}

func badPayload(key string, err error) error {
	return fmt.Errorf("%s: bad payload: %w", key, err)
}
