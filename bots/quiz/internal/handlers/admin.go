package handlers

import (
	"context"
	"fmt"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/tgbots/core/telegram/helpers"
	"github.com/m3rciful/tgbots/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onAdmin(c tele.Context) error {
	h.FSM.Clear(senderID(c))
	return tghelpers.ReplyMD(c, txtAdminPanel, adminKeyboard())
}

func (h *Handlers) onCancel(c tele.Context) error {
	h.FSM.Clear(senderID(c))
	return tghelpers.SendText(c, txtCancelled, adminKeyboard())
}

func (h *Handlers) onNewQuiz(c tele.Context) error {
	h.FSM.SetState(senderID(c), stQuizName)
	return tghelpers.SendText(c, txtAskQuizName)
}

func (h *Handlers) onQuizzes(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	stats, err := h.Admin.ListQuizzes(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return tghelpers.SendText(c, txtNoQuizzes)
	}
	for _, st := range stats {
		text, markup := quizCard(st)
		if err := tghelpers.ReplyMD(c, text, markup); err != nil {
			return err
		}
	}
	return nil
}

// refreshCard redraws the card of quizID in place.
func (h *Handlers) refreshCard(ctx context.Context, c tele.Context, quizID int64) error {
	stats, err := h.Admin.ListQuizzes(ctx)
	if err != nil {
		return err
	}
	for _, st := range stats {
		if st.ID == quizID {
			text, markup := quizCard(st)
			return tghelpers.EditOrSendMD(c, text, markup)
		}
	}
	return quizFailure(c, models.ErrNotFound)
}

// promptForQuiz opens a dialog step that needs the quiz from the payload.
func (h *Handlers) promptForQuiz(c tele.Context, key string, st state.State, prompt string) error {
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(key, err)
	}
	uid := senderID(c)
	h.FSM.SetTemp(uid, tempQuizID, quizID)
	h.FSM.SetState(uid, st)
	if err := callbacks.Answer(c); err != nil {
		return err
	}
	return tghelpers.SendText(c, prompt)
}

func (h *Handlers) onAdmUpload(c tele.Context) error {
	return h.promptForQuiz(c, cbAdmUpload, stUpload, txtAskUpload)
}

func (h *Handlers) onAdmMax(c tele.Context) error {
	return h.promptForQuiz(c, cbAdmMax, stMaxUsers, txtAskMax)
}

func (h *Handlers) onAdmRename(c tele.Context) error {
	return h.promptForQuiz(c, cbAdmRename, stRename, txtAskRename)
}

func (h *Handlers) onAdmGroups(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmGroups, err)
	}
	groups, err := h.Admin.Groups(ctx, quizID)
	if err != nil {
		return err
	}
	text, markup := groupList(groups)
	if markup == nil {
		return tghelpers.SendText(c, text)
	}
	return tghelpers.ReplyMD(c, text, markup)
}

func (h *Handlers) onAdmGroupDel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	groupID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmGroupDel, err)
	}
	g, err := h.Admin.DeleteGroup(ctx, groupID)
	if err != nil {
		return quizFailure(c, err)
	}
	groups, err := h.Admin.Groups(ctx, g.QuizID)
	if err != nil {
		return err
	}
	if err := callbacks.Toast(c, "🗑 "+g.FileName); err != nil {
		return err
	}
	text, markup := groupList(groups)
	if markup == nil {
		return c.EditOrSend(text)
	}
	return tghelpers.EditOrSendMD(c, text, markup)
}

func (h *Handlers) onAdmToggle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmToggle, err)
	}
	if _, err := h.Admin.ToggleQuiz(ctx, quizID); err != nil {
		return quizFailure(c, err)
	}
	if err := callbacks.Toast(c, txtToggled); err != nil {
		return err
	}
	return h.refreshCard(ctx, c, quizID)
}

func (h *Handlers) onAdmLink(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmLink, err)
	}
	link, err := h.Admin.RegenerateLink(ctx, quizID, h.Bot.Username())
	if err != nil {
		return quizFailure(c, err)
	}
	if err := callbacks.Toast(c, txtLinkGenerated); err != nil {
		return err
	}
	return tghelpers.SendMD(c, fmt.Sprintf(txtNewLink, link))
}

func (h *Handlers) onAdmUsers(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmUsers, err)
	}
	users, err := h.Admin.PrivateUsers(ctx, quizID)
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, privateUsersText(users))
}

func (h *Handlers) onAdmClear(c tele.Context) error {
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmClear, err)
	}
	return tghelpers.SendText(c, txtConfirmClear, confirmMarkup(btnYesRemove, cbAdmClearOK, cbAdmClearNo, id(quizID)))
}

func (h *Handlers) onAdmClearOK(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmClearOK, err)
	}
	if err := h.Admin.ClearPrivateUsers(ctx, quizID); err != nil {
		return quizFailure(c, err)
	}
	return c.EditOrSend(txtCleared)
}

func (h *Handlers) onAdmDel(c tele.Context) error {
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmDel, err)
	}
	return tghelpers.SendText(c, txtConfirmDelete, confirmMarkup(btnYesDelete, cbAdmDelOK, cbAdmDelNo, id(quizID)))
}

func (h *Handlers) onAdmDelOK(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return badPayload(cbAdmDelOK, err)
	}
	if err := h.Admin.DeleteQuiz(ctx, quizID); err != nil {
		return quizFailure(c, err)
	}
	return c.EditOrSend(txtQuizDeleted)
}

// onDismiss closes a confirmation dialog.
func (h *Handlers) onDismiss(c tele.Context) error {
	return c.EditOrSend(txtCancelled)
}

func (h *Handlers) onResetProgress(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	n, err := h.Admin.ClearAllProgress(ctx)
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf(txtProgressCleared, n))
}

func (h *Handlers) showChannelPanel(ctx context.Context, c tele.Context, edit bool) error {
	channel, err := h.Settings.Get(ctx, models.SettingRequiredChannel)
	if err != nil {
		return err
	}
	link, err := h.Settings.Get(ctx, models.SettingChannelLink)
	if err != nil {
		return err
	}
	show, err := h.Settings.Enabled(ctx, models.SettingShowChannelLink)
	if err != nil {
		return err
	}
	text, markup := channelPanel(channel, link, show)
	if edit {
		return tghelpers.EditOrSendMD(c, text, markup)
	}
	return tghelpers.ReplyMD(c, text, markup)
}

func (h *Handlers) onChannel(c tele.Context) error {
	return h.showChannelPanel(tghelpers.BuildContext(c), c, false)
}

func (h *Handlers) onChBack(c tele.Context) error {
	return h.showChannelPanel(tghelpers.BuildContext(c), c, true)
}

func (h *Handlers) onChSetID(c tele.Context) error {
	h.FSM.SetState(senderID(c), stChannelID)
	if err := callbacks.Answer(c); err != nil {
		return err
	}
	return tghelpers.SendMD(c, txtAskChannelID)
}

func (h *Handlers) onChSetLink(c tele.Context) error {
	h.FSM.SetState(senderID(c), stChannelLink)
	if err := callbacks.Answer(c); err != nil {
		return err
	}
	return tghelpers.SendMD(c, txtAskChannelLink)
}

func (h *Handlers) onChClear(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	for _, key := range []string{models.SettingRequiredChannel, models.SettingChannelLink} {
		if err := h.Settings.Set(ctx, key, ""); err != nil {
			return err
		}
	}
	return c.EditOrSend(txtChannelCleared, backMarkup(cbChBack))
}

func (h *Handlers) onChToggleLink(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	on, err := h.Settings.Toggle(ctx, models.SettingShowChannelLink)
	if err != nil {
		return err
	}
	if err := callbacks.Toast(c, fmt.Sprintf(txtShowLinkChanged, onOff(on))); err != nil {
		return err
	}
	return h.showChannelPanel(ctx, c, true)
}

func (h *Handlers) showBotPanel(ctx context.Context, c tele.Context, edit bool) error {
	active, err := h.Settings.Enabled(ctx, models.SettingBotActive)
	if err != nil {
		return err
	}
	text, markup := botPanel(active)
	if edit {
		return tghelpers.EditOrSendMD(c, text, markup)
	}
	return tghelpers.ReplyMD(c, text, markup)
}

func (h *Handlers) onBotStatus(c tele.Context) error {
	return h.showBotPanel(tghelpers.BuildContext(c), c, false)
}

func (h *Handlers) onBotBack(c tele.Context) error {
	return h.showBotPanel(tghelpers.BuildContext(c), c, true)
}

func (h *Handlers) onBotToggle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	active, err := h.Settings.Toggle(ctx, models.SettingBotActive)
	if err != nil {
		return err
	}
	return c.EditOrSend(fmt.Sprintf(txtBotToggled, runningLabel(active)), backMarkup(cbBotBack))
}
