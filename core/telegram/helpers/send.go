package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/tgbots/core/logger"
	"github.com/m3rciful/tgbots/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

// sendAsync queues run on the dispatcher, or runs it inline when none is set
// or the queue cannot take it.
func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := globalDispatcher.Load()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	err := disp.Enqueue(ctx, action, endpoint, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("payload", action),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

// SendText queues a plain text message to the current chat.
// Use it for standalone replies whose order relative to other messages does not matter.
func SendText(c tele.Context, text string, opts ...any) error {
	return sendAsync(c, "send.text", "sendMessage", func() error {
		return c.Send(text, opts...)
	})
}

// SendMD queues a Markdown message with an optional reply markup.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return SendText(c, text, mdOptions(markup))
}

// ReplyMD sends a Markdown message synchronously, keeping order with the caller's other sends.
func ReplyMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return c.Send(text, mdOptions(markup))
}

// EditOrSendMD edits the callback message (Markdown) or sends a new one when editing is not possible.
func EditOrSendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return c.EditOrSend(text, mdOptions(markup))
}

func mdOptions(markup []*tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return opts
}
