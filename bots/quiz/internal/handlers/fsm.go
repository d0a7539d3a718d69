package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/m3rciful/tgbots/bots/quiz/internal/importer"
	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/service"
	"github.com/m3rciful/tgbots/core/telegram/format"
	tghelpers "github.com/m3rciful/tgbots/core/telegram/helpers"
	"github.com/m3rciful/tgbots/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// Admin dialog steps.
const (
	stQuizName      state.State = "quiz_name"
	stRename        state.State = "quiz_rename"
	stMaxUsers      state.State = "quiz_max_users"
	stUpload        state.State = "quiz_upload"
	stChannelID     state.State = "channel_id"
	stChannelLink   state.State = "channel_link"
	stBroadcastText state.State = "broadcast_text"
)

const (
	tempQuizID    = "quiz_id"
	tempBroadcast = "broadcast_text"
)

func (h *Handlers) registerStates() {
	h.FSM.Handle(stQuizName, h.onQuizNameInput)
	h.FSM.Handle(stRename, h.onRenameInput)
	h.FSM.Handle(stMaxUsers, h.onMaxUsersInput)
	h.FSM.Handle(stUpload, h.onUploadInput)
	h.FSM.Handle(stChannelID, h.onChannelIDInput)
	h.FSM.Handle(stChannelLink, h.onChannelLinkInput)
	h.FSM.Handle(stBroadcastText, h.onBroadcastInput)
}

func (h *Handlers) onQuizNameInput(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	name := strings.TrimSpace(c.Text())
	if _, err := h.Admin.CreateQuiz(ctx, name); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return tghelpers.SendText(c, txtEmptyName)
		}
		return err
	}
	h.FSM.Clear(senderID(c))
	return tghelpers.SendText(c, fmt.Sprintf(txtQuizCreated, name), adminKeyboard())
}

func (h *Handlers) onRenameInput(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := senderID(c)
	quizID, ok := h.FSM.GetTempInt64(uid, tempQuizID)
	if !ok {
		h.FSM.Clear(uid)
		return tghelpers.SendText(c, txtCancelled)
	}
	name := strings.TrimSpace(c.Text())
	if err := h.Admin.RenameQuiz(ctx, quizID, name); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return tghelpers.SendText(c, txtEmptyName)
		}
		h.FSM.Clear(uid)
		return quizFailure(c, err)
	}
	h.FSM.Clear(uid)
	return tghelpers.SendText(c, fmt.Sprintf(txtRenamed, name))
}

func (h *Handlers) onMaxUsersInput(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := senderID(c)
	quizID, ok := h.FSM.GetTempInt64(uid, tempQuizID)
	if !ok {
		h.FSM.Clear(uid)
		return tghelpers.SendText(c, txtCancelled)
	}
	limit, err := strconv.Atoi(strings.TrimSpace(c.Text()))
	if err != nil || limit < 0 {
		return tghelpers.SendText(c, txtNotANumber)
	}
	if err := h.Admin.SetMaxUsers(ctx, quizID, limit); err != nil {
		h.FSM.Clear(uid)
		return quizFailure(c, err)
	}
	h.FSM.Clear(uid)
	return tghelpers.SendText(c, fmt.Sprintf(txtMaxSet, limit))
}

func isWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func (h *Handlers) onUploadInput(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := senderID(c)
	quizID, ok := h.FSM.GetTempInt64(uid, tempQuizID)
	if !ok {
		h.FSM.Clear(uid)
		return tghelpers.SendText(c, txtCancelled)
	}

	msg := c.Message()
	if msg == nil || msg.Document == nil || !isWorkbook(msg.Document.FileName) {
		return tghelpers.SendText(c, txtExpectFile)
	}
	doc := msg.Document
	if h.MaxUploadBytes > 0 && doc.FileSize > h.MaxUploadBytes {
		return tghelpers.SendText(c, fmt.Sprintf(txtFileTooLarge, h.MaxUploadBytes>>20))
	}

	rc, err := h.Bot.OpenFile(doc.File)
	if err != nil {
		return err
	}
	defer rc.Close()
	var r io.Reader = rc
	if h.MaxUploadBytes > 0 {
		r = io.LimitReader(rc, h.MaxUploadBytes)
	}

	res, err := h.Admin.Import(ctx, quizID, doc.FileName, r)
	h.FSM.Clear(uid)
	if err != nil {
		if isImportError(err) {
			return tghelpers.SendText(c, fmt.Sprintf(txtImportFailed, err.Error()))
		}
		return quizFailure(c, err)
	}
	return tghelpers.SendText(c, fmt.Sprintf(txtImported, res.Group.FileName, res.Questions))
}

// isImportError reports errors caused by the workbook contents.
func isImportError(err error) bool {
	return errors.Is(err, service.ErrInvalidInput) ||
		errors.Is(err, importer.ErrNoSheet) ||
		errors.Is(err, importer.ErrMissingStem) ||
		errors.Is(err, importer.ErrTooManyRows) ||
		errors.Is(err, importer.ErrUnreadable)
}

func (h *Handlers) onChannelIDInput(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	channel := strings.TrimSpace(c.Text())
	if channel == "" {
		return tghelpers.SendMD(c, txtAskChannelID)
	}
	if err := h.Settings.Set(ctx, models.SettingRequiredChannel, channel); err != nil {
		return err
	}
	h.FSM.Clear(senderID(c))
	return tghelpers.ReplyMD(c, fmt.Sprintf(txtChannelIDSet, format.MD(channel)), backMarkup(cbChBack))
}

func validLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

func (h *Handlers) onChannelLinkInput(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	link := strings.TrimSpace(c.Text())
	if !validLink(link) {
		return tghelpers.SendText(c, txtBadLink)
	}
	if err := h.Settings.Set(ctx, models.SettingChannelLink, link); err != nil {
		return err
	}
	h.FSM.Clear(senderID(c))
	return tghelpers.ReplyMD(c, fmt.Sprintf(txtChannelLinkSet, format.MD(link)), backMarkup(cbChBack))
}
