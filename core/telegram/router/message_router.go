package router

import (
	"time"

	tg "github.com/m3rciful/tgbots/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ClearState(userID int64)
	ManagerHandler(c tele.Context) error
}

// TextOptions controls fallback behaviour for text and media updates.
type TextOptions struct {
	// Commands carries the admin settings applied to command aliases.
	Commands        CommandRouteOptions
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
	// Media lists extra endpoints (tele.OnPhoto, ...) routed like documents.
	Media map[string]tele.HandlerFunc
}

// TextRoutes builds handlers for text and document routing.
// Command aliases win over an active FSM dialog and cancel it.
func TextRoutes(fsmMgr FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		userID := c.Sender().ID

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				if fsmMgr != nil && fsmMgr.InProgress(userID) {
					fsmMgr.ClearState(userID)
				}
				return wrapCommand(key, cmd, opts.Commands)(c)
			}
		}

		if fsmMgr != nil && fsmMgr.InProgress(userID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	mediaHandler := func(name string, fallback tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
				return handleWithSummary(c, "fsm_"+name, start, "", "", func() error {
					return fsmMgr.ManagerHandler(c)
				})
			}
			if fallback != nil {
				return handleWithSummary(c, name, start, "", "", func() error {
					return fallback(c)
				})
			}
			logHandlerSummary(c, "unexpected_"+name, start, "skip", "ok", nil)
			return nil
		}
	}

	routes := []tg.Route{
		{Endpoint: tele.OnText, Handler: handler},
		{Endpoint: tele.OnDocument, Handler: mediaHandler("document", opts.UnknownDocument)},
	}
	for endpoint, h := range opts.Media {
		routes = append(routes, tg.Route{Endpoint: endpoint, Handler: mediaHandler(normalizeHandlerName(endpoint), h)})
	}
	return routes
}
