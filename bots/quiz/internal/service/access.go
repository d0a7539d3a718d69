package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/core/logger"
)

// MemberStatus is the role of a user in the required channel.
type MemberStatus string

const (
	MemberStatusMember        MemberStatus = "member"
	MemberStatusAdministrator MemberStatus = "administrator"
	MemberStatusOwner         MemberStatus = "owner"
	MemberStatusOther         MemberStatus = "other"
)

// MembershipChecker asks the messaging platform for a user's channel role.
type MembershipChecker interface {
	MemberStatus(ctx context.Context, channel string, userID int64) (MemberStatus, error)
}

// OwnerNotifier delivers operator notices out of band.
type OwnerNotifier interface {
	NotifyNewMember(ctx context.Context, u models.User, total int) error
	NotifyMembershipError(ctx context.Context, u models.User, channel string, cause error) error
}

// AccessReason explains an access decision.
type AccessReason string

const (
	ReasonAlreadyGranted AccessReason = "already_granted"
	ReasonUnlimited      AccessReason = "unlimited"
	ReasonUnderCap       AccessReason = "under_cap"
	ReasonCapReached     AccessReason = "cap_reached"
)

// AccessDecision is the outcome of a private access check.
type AccessDecision struct {
	Allowed bool
	Reason  AccessReason
	// MaxUsers is the cap that applied to the decision.
	MaxUsers int
}

// Gate decides who may open a private quiz and whether the channel
// subscription requirement is met.
type Gate struct {
	store    *store.Store
	settings *Settings
	checker  MembershipChecker
	notifier OwnerNotifier
	locks    *keyedMutex
	now      func() time.Time
}

// NewGate wires the access gate. checker and notifier may be nil; a nil
// checker fails every membership lookup.
func NewGate(s *store.Store, settings *Settings, checker MembershipChecker, notifier OwnerNotifier) *Gate {
	return &Gate{
		store:    s,
		settings: settings,
		checker:  checker,
		notifier: notifier,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// CanAccessPrivate checks the private access cap of quizID for userID.
// An existing grant always passes; max_users 0 means unlimited.
func (g *Gate) CanAccessPrivate(ctx context.Context, userID, quizID int64) (AccessDecision, error) {
	q, err := g.store.GetQuiz(ctx, quizID)
	if err != nil {
		return AccessDecision{}, err
	}
	granted, err := g.store.HasPrivateAccess(ctx, userID, quizID)
	if err != nil {
		return AccessDecision{}, err
	}
	d := AccessDecision{MaxUsers: q.MaxUsers}
	switch {
	case granted:
		d.Allowed, d.Reason = true, ReasonAlreadyGranted
	case q.MaxUsers == 0:
		d.Allowed, d.Reason = true, ReasonUnlimited
	case q.UsedUsers < q.MaxUsers:
		d.Allowed, d.Reason = true, ReasonUnderCap
	default:
		d.Reason = ReasonCapReached
	}
	return d, nil
}

// Granted reports whether userID holds a private grant for quizID.
func (g *Gate) Granted(ctx context.Context, userID, quizID int64) (bool, error) {
	return g.store.HasPrivateAccess(ctx, userID, quizID)
}

// RegisterAccess records a grant for userID and returns the quiz's used count.
// Repeated calls for the same pair change nothing.
func (g *Gate) RegisterAccess(ctx context.Context, userID, quizID int64) (int, error) {
	used, err := g.store.GrantPrivateAccess(ctx, userID, quizID, g.now())
	if err != nil {
		return 0, err
	}
	logger.LogEvent(ctx, logger.SVCAccess, slog.LevelInfo, "access.granted",
		slog.Int64("quiz_id", quizID),
		slog.Int64("target_user_id", userID),
		slog.Int("used", used),
	)
	return used, nil
}

// Admit checks the cap and registers the grant as one step per quiz, so
// concurrent newcomers cannot overshoot max_users.
func (g *Gate) Admit(ctx context.Context, userID, quizID int64) (AccessDecision, error) {
	unlock := g.locks.Lock("quiz:" + strconv.FormatInt(quizID, 10))
	defer unlock()

	d, err := g.CanAccessPrivate(ctx, userID, quizID)
	if err != nil || !d.Allowed {
		if err == nil {
			logger.LogEvent(ctx, logger.SVCAccess, slog.LevelInfo, "access.denied",
				slog.Int64("quiz_id", quizID),
				slog.String("reason", string(d.Reason)),
				slog.Int("max_users", d.MaxUsers),
			)
		}
		return d, err
	}
	if d.Reason == ReasonAlreadyGranted {
		return d, nil
	}
	if _, err := g.RegisterAccess(ctx, userID, quizID); err != nil {
		return AccessDecision{}, err
	}
	return d, nil
}

// CheckExternalMembership reports whether u satisfies the channel
// requirement. Lookup failures count as not subscribed and are reported to
// the owner, never to the user.
func (g *Gate) CheckExternalMembership(ctx context.Context, u models.User) bool {
	channel, err := g.settings.Get(ctx, models.SettingRequiredChannel)
	if err != nil {
		g.membershipFailed(ctx, u, "", err)
		return false
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return true
	}
	if g.checker == nil {
		g.membershipFailed(ctx, u, channel, errors.New("membership checker not configured"))
		return false
	}

	status, err := g.checker.MemberStatus(ctx, channel, u.ID)
	if err != nil {
		g.membershipFailed(ctx, u, channel, err)
		return false
	}
	switch status {
	case MemberStatusMember, MemberStatusAdministrator, MemberStatusOwner:
		return true
	default:
		logger.LogEvent(ctx, logger.SVCAccess, slog.LevelDebug, "membership.missing",
			slog.String("channel", channel),
			slog.String("member_status", string(status)),
		)
		return false
	}
}

func (g *Gate) membershipFailed(ctx context.Context, u models.User, channel string, cause error) {
	logger.LogEvent(ctx, logger.SVCAccess, slog.LevelError, "membership.check_failed",
		slog.String("channel", channel),
		slog.Int64("target_user_id", u.ID),
		slog.String("err", logger.SanitizeLimit(cause.Error(), 256)),
	)
	if g.notifier == nil {
		return
	}
	if err := g.notifier.NotifyMembershipError(ctx, u, channel, cause); err != nil {
		logger.LogEvent(ctx, logger.SVCAccess, slog.LevelWarn, "membership.notify_failed",
			slog.String("err", err.Error()),
		)
	}
}
