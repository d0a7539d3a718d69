// Package gateway adapts the running telebot instance to the quiz services:
// channel membership lookups, owner notifications and broadcast delivery.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/service"
	"github.com/m3rciful/tgbots/core/logger"
	coretelegram "github.com/m3rciful/tgbots/core/telegram"
	"github.com/m3rciful/tgbots/core/telegram/format"
	"github.com/m3rciful/tgbots/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// ErrDetached is returned while no bot runtime is attached.
var ErrDetached = errors.New("gateway: bot runtime not attached")

var (
	_ service.MembershipChecker = (*Telegram)(nil)
	_ service.OwnerNotifier     = (*Telegram)(nil)
	_ service.MessageSender     = (*Telegram)(nil)
)

// Telegram talks to the Bot API through the bot of the current run.
// The runtime is rebuilt after every restart, so it is attached on start
// and detached on stop.
type Telegram struct {
	ownerID int64
	bot     atomic.Pointer[tele.Bot]
	disp    atomic.Pointer[sender.Dispatcher]
}

// New creates a detached gateway. ownerID receives notifications; 0 disables them.
func New(ownerID int64) *Telegram {
	return &Telegram{ownerID: ownerID}
}

// Attach binds the gateway to a started runtime.
func (t *Telegram) Attach(rt coretelegram.Runtime) {
	t.bot.Store(rt.Bot)
	t.disp.Store(rt.Dispatcher)
}

// Detach releases the runtime of a stopped run.
func (t *Telegram) Detach() {
	t.bot.Store(nil)
	t.disp.Store(nil)
}

// Username returns the bot's @username without the at sign.
func (t *Telegram) Username() string {
	b := t.bot.Load()
	if b == nil || b.Me == nil {
		return ""
	}
	return b.Me.Username
}

// chatRef addresses a chat by numeric id or by @username.
type chatRef string

func (c chatRef) Recipient() string { return string(c) }

// channelRecipient normalizes the configured channel: numeric ids stay as
// they are, bare names get the @ prefix.
func channelRecipient(channel string) tele.Recipient {
	channel = strings.TrimSpace(channel)
	if _, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return chatRef(channel)
	}
	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}
	return chatRef(channel)
}

// MemberStatus looks up the role of userID in channel.
func (t *Telegram) MemberStatus(_ context.Context, channel string, userID int64) (service.MemberStatus, error) {
	b := t.bot.Load()
	if b == nil {
		return service.MemberStatusOther, ErrDetached
	}
	m, err := b.ChatMemberOf(channelRecipient(channel), tele.ChatID(userID))
	if err != nil {
		return service.MemberStatusOther, fmt.Errorf("chat member %s/%d: %w", channel, userID, err)
	}
	return mapRole(m.Role), nil
}

func mapRole(role tele.MemberStatus) service.MemberStatus {
	switch role {
	case tele.Creator:
		return service.MemberStatusOwner
	case tele.Administrator:
		return service.MemberStatusAdministrator
	case tele.Member:
		return service.MemberStatusMember
	default:
		return service.MemberStatusOther
	}
}

// OpenFile streams a file uploaded to the bot.
func (t *Telegram) OpenFile(f tele.File) (io.ReadCloser, error) {
	b := t.bot.Load()
	if b == nil {
		return nil, ErrDetached
	}
	return b.File(&f)
}

// SendText delivers text synchronously; broadcasts count the result.
func (t *Telegram) SendText(_ context.Context, chatID int64, text string) error {
	b := t.bot.Load()
	if b == nil {
		return ErrDetached
	}
	_, err := b.Send(tele.ChatID(chatID), text)
	return err
}

// NotifyNewMember tells the owner that u just registered.
func (t *Telegram) NotifyNewMember(ctx context.Context, u models.User, total int) error {
	return t.notifyOwner(ctx, "notify.new_member", NewMemberText(u, total))
}

// NotifyMembershipError reports a failed subscription lookup to the owner.
func (t *Telegram) NotifyMembershipError(ctx context.Context, u models.User, channel string, cause error) error {
	return t.notifyOwner(ctx, "notify.membership_error", MembershipErrorText(u, channel, cause))
}

func (t *Telegram) notifyOwner(ctx context.Context, action, text string) error {
	if t.ownerID == 0 {
		return nil
	}
	b := t.bot.Load()
	if b == nil {
		return ErrDetached
	}
	send := func() error {
		_, err := b.Send(tele.ChatID(t.ownerID), text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		return err
	}
	d := t.disp.Load()
	if d == nil {
		return send()
	}
	err := d.Enqueue(ctx, action, "sendMessage", send)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("payload", action),
			slog.String("err", err.Error()),
		)
		return send()
	}
	return err
}

func displayUsername(u models.User) string {
	if u.Username == "" {
		return "none"
	}
	return "@" + u.Username
}

// NewMemberText formats the owner notice for a new subscriber.
func NewMemberText(u models.User, total int) string {
	return fmt.Sprintf("🔔 New member joined:\n👤 Name: %s\n🆔 ID: `%d`\n🔗 Username: %s\n🔢 Number: %d",
		format.MD(u.FullName), u.ID, format.MD(displayUsername(u)), total)
}

// MembershipErrorText formats the owner notice for a failed subscription check.
func MembershipErrorText(u models.User, channel string, cause error) string {
	return fmt.Sprintf("⚠️ Subscription check failed\nUser: %s\nID: `%d`\nUsername: %s\nRequired channel: %s\nError: %s",
		format.MD(u.FullName), u.ID, format.MD(displayUsername(u)), format.MD(channel), format.MD(cause.Error()))
}
