package handlers

import (
	coretelegram "github.com/m3rciful/tgbots/core/telegram"
	"github.com/m3rciful/tgbots/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/tgbots/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Maintenance stops every update from users other than the owner while the
// bot_active setting is off.
func (h *Handlers) Maintenance() coretelegram.Middleware {
	return coretelegram.Middleware{
		Name: "maintenance",
		Use: func(next tele.HandlerFunc) tele.HandlerFunc {
			return func(c tele.Context) error {
				if c.Sender() == nil {
					return next(c)
				}
				ctx := tghelpers.BuildContext(c)
				if h.Settings.BotActiveFor(ctx, c.Sender().ID) {
					return next(c)
				}
				if c.Callback() != nil {
					return callbacks.Alert(c, txtStoppedAlert)
				}
				return tghelpers.SendText(c, txtMaintenance)
			}
		},
	}
}
