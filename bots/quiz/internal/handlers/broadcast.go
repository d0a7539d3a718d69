package handlers

import (
	"fmt"
	"strings"

	"github.com/m3rciful/tgbots/core/telegram/callbacks"
	"github.com/m3rciful/tgbots/core/telegram/format"
	tghelpers "github.com/m3rciful/tgbots/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onBroadcast(c tele.Context) error {
	uid := senderID(c)
	h.FSM.Clear(uid)
	h.FSM.SetState(uid, stBroadcastText)
	return tghelpers.SendText(c, txtAskBroadcast)
}

// onBroadcastInput keeps the text for the confirmation step.
func (h *Handlers) onBroadcastInput(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendText(c, txtAskBroadcast)
	}
	uid := senderID(c)
	h.FSM.SetTemp(uid, tempBroadcast, text)
	h.FSM.ClearState(uid)
	return tghelpers.ReplyMD(c, fmt.Sprintf(txtBroadcastPreview, format.MD(text)),
		confirmMarkup(btnConfirmSend, cbBroadcastYes, cbBroadcastNo, ""))
}

func (h *Handlers) onBroadcastYes(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := senderID(c)
	text, ok := h.FSM.GetTempString(uid, tempBroadcast)
	h.FSM.Clear(uid)
	if !ok || text == "" {
		return c.EditOrSend(txtBroadcastMissing)
	}
	if err := callbacks.Answer(c); err != nil {
		return err
	}
	if err := c.EditOrSend(txtSending); err != nil {
		return err
	}

	report, err := h.Users.Broadcast(ctx, text, h.Bot)
	if err != nil {
		return err
	}
	return tghelpers.ReplyMD(c, fmt.Sprintf(txtBroadcastReport, report.Delivered, report.Unreachable, report.Total))
}

func (h *Handlers) onBroadcastNo(c tele.Context) error {
	h.FSM.Clear(senderID(c))
	return c.EditOrSend(txtBroadcastCancelled)
}
