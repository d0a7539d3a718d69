package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/service"
	"github.com/m3rciful/tgbots/core/telegram/callbacks"
	"github.com/m3rciful/tgbots/core/telegram/format"
	"github.com/m3rciful/tgbots/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Callback keys.
const (
	cbQuizStart = "quiz_start"
	cbQuizAns   = "quiz_ans"
	cbQuizQuit  = "quiz_quit"
	cbQuizNext  = "quiz_next"

	cbAdmUpload   = "adm_upload"
	cbAdmGroups   = "adm_groups"
	cbAdmToggle   = "adm_toggle"
	cbAdmLink     = "adm_link"
	cbAdmMax      = "adm_max"
	cbAdmUsers    = "adm_users"
	cbAdmClear    = "adm_clear"
	cbAdmClearOK  = "adm_clear_ok"
	cbAdmClearNo  = "adm_clear_no"
	cbAdmDel      = "adm_del"
	cbAdmDelOK    = "adm_del_ok"
	cbAdmDelNo    = "adm_del_no"
	cbAdmRename   = "adm_rename"
	cbAdmGroupDel = "adm_grp_del"

	cbChSetID      = "ch_set_id"
	cbChSetLink    = "ch_set_link"
	cbChClear      = "ch_clear"
	cbChToggleLink = "ch_toggle_link"
	cbChBack       = "ch_back"

	cbBotToggle = "bot_toggle"
	cbBotBack   = "bot_back"

	cbBroadcastYes = "bc_yes"
	cbBroadcastNo  = "bc_no"
)

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// renderView turns a navigator view into message text and keyboard.
func renderView(v service.View) (string, *tele.ReplyMarkup) {
	var b strings.Builder
	if v.Feedback != nil {
		b.WriteString(renderFeedback(*v.Feedback))
		b.WriteString("\n\n")
	}

	switch v.Kind {
	case service.ViewQuestion:
		if v.Index == 0 {
			fmt.Fprintf(&b, txtGroupHeader, format.MD(v.Group.FileName))
		}
		fmt.Fprintf(&b, txtQuestion, v.Index+1, v.Total, format.MD(v.Question.Stem))
		rows := make([][]keyboard.InlineBtn, 0, len(v.Options))
		for _, o := range v.Options {
			rows = append(rows, []keyboard.InlineBtn{{
				Text:   o.Label + ") " + o.Text,
				Unique: cbQuizAns,
				Data:   callbacks.Join(o.Label, id(v.QuizID), id(v.Question.ID)),
			}})
		}
		return b.String(), keyboard.InlineButtonsRows(rows...)

	case service.ViewGroupBoundary:
		b.WriteString(txtBoundary)
		return b.String(), keyboard.InlineButtons(
			keyboard.InlineBtn{Text: btnEndQuiz, Unique: cbQuizQuit, Data: id(v.QuizID)},
			keyboard.InlineBtn{
				Text:   fmt.Sprintf(btnContinue, v.NextGroup.FileName),
				Unique: cbQuizNext,
				Data:   callbacks.JoinInt64(v.QuizID, v.NextGroup.ID),
			},
		)

	default:
		b.WriteString(txtComplete)
		return b.String(), nil
	}
}

func renderFeedback(fb service.Feedback) string {
	icon := "❌"
	if fb.IsCorrect {
		icon = "✅"
	}
	explanation := strings.TrimSpace(fb.Explanation)
	if explanation == "" {
		explanation = txtNoExplanation
	}
	return fmt.Sprintf(txtFeedback,
		format.MD(fb.Stem), icon, format.MD(fb.Choice), format.MD(fb.Correct), format.MD(explanation))
}

// subscribeMarkup offers the channel link when one is configured and visible.
func subscribeMarkup(link string) *tele.ReplyMarkup {
	if link == "" {
		return nil
	}
	return keyboard.InlineButtons(keyboard.InlineBtn{Text: btnJoinChannel, URL: link})
}

func quizListMarkup(quizzes []models.Quiz) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(quizzes))
	for _, q := range quizzes {
		btns = append(btns, keyboard.InlineBtn{Text: q.Name, Unique: cbQuizStart, Data: id(q.ID)})
	}
	return keyboard.InlineButtons(btns...)
}

func adminKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnCreateQuiz, btnManageQuizzes},
		[]string{btnChannelSettings, btnBotToggle},
		[]string{btnResetProgress, btnBroadcast},
	)
}

func capLabel(q models.Quiz) string {
	limit := "∞"
	if q.MaxUsers > 0 {
		limit = strconv.Itoa(q.MaxUsers)
	}
	return fmt.Sprintf("👥 %d/%s", q.UsedUsers, limit)
}

func quizCard(st models.QuizStats) (string, *tele.ReplyMarkup) {
	status := statusHidden
	if st.IsActive {
		status = statusActive
	}
	limit := capLabel(st.Quiz)
	text := fmt.Sprintf(txtQuizCard, format.MD(st.Name), st.Groups, st.Questions, st.Users, status, limit)

	qid := id(st.ID)
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: btnUpload, Unique: cbAdmUpload, Data: qid},
			{Text: btnFiles, Unique: cbAdmGroups, Data: qid},
		},
		[]keyboard.InlineBtn{
			{Text: fmt.Sprintf(btnStatus, status), Unique: cbAdmToggle, Data: qid},
			{Text: btnNewLink, Unique: cbAdmLink, Data: qid},
		},
		[]keyboard.InlineBtn{
			{Text: fmt.Sprintf(btnMax, limit), Unique: cbAdmMax, Data: qid},
			{Text: btnShowUsers, Unique: cbAdmUsers, Data: qid},
		},
		[]keyboard.InlineBtn{
			{Text: btnClearUsers, Unique: cbAdmClear, Data: qid},
			{Text: btnDeleteQuiz, Unique: cbAdmDel, Data: qid},
			{Text: btnRename, Unique: cbAdmRename, Data: qid},
		},
	)
	return text, markup
}

func privateUsersText(users []models.PrivateUser) string {
	if len(users) == 0 {
		return txtNoPrivateUsers
	}
	var b strings.Builder
	b.WriteString(txtPrivateUsers)
	for _, u := range users {
		name := u.FullName
		if name == "" {
			name = id(u.UserID)
		}
		username := "none"
		if u.Username != "" {
			username = "@" + u.Username
		}
		fmt.Fprintf(&b, "\n• %s (%s) - %s", name, username, u.AccessedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

func onOff(on bool) string {
	if on {
		return txtEnabled
	}
	return txtDisabled
}

func runningLabel(on bool) string {
	if on {
		return txtStatusRunning
	}
	return txtStatusStopped
}

func orNotSet(v string) string {
	if strings.TrimSpace(v) == "" {
		return txtNotSet
	}
	return format.MD(v)
}

func channelPanel(channel, link string, showLink bool) (string, *tele.ReplyMarkup) {
	text := fmt.Sprintf(txtChannelPanel, orNotSet(channel), orNotSet(link), onOff(showLink))
	markup := keyboard.InlineButtons(
		keyboard.InlineBtn{Text: btnSetChannelID, Unique: cbChSetID},
		keyboard.InlineBtn{Text: btnSetChannelLink, Unique: cbChSetLink},
		keyboard.InlineBtn{Text: btnClearChannel, Unique: cbChClear},
		keyboard.InlineBtn{Text: fmt.Sprintf(btnShowLink, onOff(showLink)), Unique: cbChToggleLink},
	)
	return text, markup
}

func botPanel(active bool) (string, *tele.ReplyMarkup) {
	return fmt.Sprintf(txtBotPanel, runningLabel(active)),
		keyboard.InlineButtons(keyboard.InlineBtn{Text: btnToggleBot, Unique: cbBotToggle})
}

func backMarkup(unique string) *tele.ReplyMarkup {
	return keyboard.InlineButtons(keyboard.InlineBtn{Text: btnBack, Unique: unique})
}

func confirmMarkup(yesText, yesUnique, noUnique, data string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: yesText, Unique: yesUnique, Data: data},
		{Text: btnCancel, Unique: noUnique},
	})
}

// groupList lists the files of a quiz with one delete button per file.
func groupList(groups []models.Group) (string, *tele.ReplyMarkup) {
	if len(groups) == 0 {
		return txtNoGroups, nil
	}
	lines := make([]string, 0, len(groups))
	rows := make([][]keyboard.InlineBtn, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf(txtGroupItem, format.MD(g.FileName)))
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf(btnDeleteGroup, g.FileName),
			Unique: cbAdmGroupDel,
			Data:   id(g.ID),
		}})
	}
	return strings.Join(lines, "\n"), keyboard.InlineButtonsRows(rows...)
}
