package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/core/logger"
)

// unreachableAfter is the number of consecutive failed deliveries after
// which a user counts as unreachable.
const unreachableAfter = 2

// MessageSender delivers a plain text message to one chat.
type MessageSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Registration is the outcome of a /start registration.
type Registration struct {
	New   bool
	Total int
}

// BroadcastReport summarizes one broadcast pass.
type BroadcastReport struct {
	Delivered   int
	Unreachable int
	Total       int
}

// Users handles subscriber registration and broadcasts.
type Users struct {
	store    *store.Store
	notifier OwnerNotifier
}

// NewUsers creates the users service. notifier may be nil.
func NewUsers(s *store.Store, notifier OwnerNotifier) *Users {
	return &Users{store: s, notifier: notifier}
}

// Register records u on first contact and tells the owner about new members.
func (u *Users) Register(ctx context.Context, user models.User) (Registration, error) {
	if user.JoinedAt.IsZero() {
		user.JoinedAt = time.Now().UTC()
	}
	created, err := u.store.RegisterUser(ctx, user)
	if err != nil {
		return Registration{}, err
	}
	total, err := u.store.CountUsers(ctx)
	if err != nil {
		return Registration{}, err
	}
	reg := Registration{New: created, Total: total}
	if !created {
		return reg, nil
	}

	logger.LogEvent(ctx, logger.SVCAccess, slog.LevelInfo, "user.registered",
		slog.Int64("target_user_id", user.ID),
		slog.Int("total", total),
	)
	if u.notifier != nil {
		if err := u.notifier.NotifyNewMember(ctx, user, total); err != nil {
			logger.LogEvent(ctx, logger.SVCAccess, slog.LevelWarn, "user.notify_failed",
				slog.String("err", err.Error()),
			)
		}
	}
	return reg, nil
}

// Broadcast sends text to every registered user, one after another. A
// failed delivery is not retried within the pass; two consecutive failures
// across passes mark the user unreachable.
func (u *Users) Broadcast(ctx context.Context, text string, sender MessageSender) (BroadcastReport, error) {
	start := time.Now()
	ids, err := u.store.ListUserIDs(ctx)
	if err != nil {
		return BroadcastReport{}, err
	}
	report := BroadcastReport{Total: len(ids)}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sendErr := sender.SendText(ctx, id, text)
		if sendErr == nil {
			report.Delivered++
			if err := u.store.MarkDelivered(ctx, id); err != nil {
				return report, err
			}
			continue
		}
		logger.LogEvent(ctx, logger.SVCBroadcast, slog.LevelDebug, "broadcast.send_failed",
			slog.Int64("target_user_id", id),
			slog.String("err", logger.SanitizeLimit(sendErr.Error(), 128)),
		)
		fails, err := u.store.MarkFailed(ctx, id)
		if err != nil {
			return report, err
		}
		if fails >= unreachableAfter {
			report.Unreachable++
		}
	}

	logger.LogEvent(ctx, logger.SVCBroadcast, slog.LevelInfo, "broadcast.done",
		slog.Int("delivered", report.Delivered),
		slog.Int("unreachable", report.Unreachable),
		slog.Int("total", report.Total),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return report, nil
}
