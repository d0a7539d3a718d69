package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/service"
)

func sampleQuestion() models.Question {
	return models.Question{ID: 7, QuizID: 3, Stem: "2+2?", A: "3", B: "4", C: "nan", D: "", Correct: "B"}
}

func TestRenderViewQuestionWithHeader(t *testing.T) {
	q := sampleQuestion()
	v := service.View{
		Kind:     service.ViewQuestion,
		QuizID:   3,
		Group:    models.Group{ID: 1, FileName: "week_1"},
		Index:    0,
		Total:    2,
		Question: q,
		Options:  service.VisibleOptions(q),
	}
	text, markup := renderView(v)
	if !strings.Contains(text, "Group: week\\_1") {
		t.Fatalf("missing escaped group header: %q", text)
	}
	if !strings.Contains(text, "Question 1/2") {
		t.Fatalf("missing counter: %q", text)
	}
	if markup == nil || len(markup.InlineKeyboard) != 2 {
		t.Fatalf("expected two option rows, got %+v", markup)
	}
	btn := markup.InlineKeyboard[1][0]
	if btn.Unique != cbQuizAns || btn.Data != "B|3|7" {
		t.Fatalf("option button = %+v", btn)
	}
}

func TestRenderViewSkipsHeaderAfterFirstQuestion(t *testing.T) {
	q := sampleQuestion()
	v := service.View{Kind: service.ViewQuestion, QuizID: 3, Index: 1, Total: 2, Question: q, Options: service.VisibleOptions(q)}
	text, _ := renderView(v)
	if strings.Contains(text, "Group:") {
		t.Fatalf("header repeated: %q", text)
	}
	if !strings.Contains(text, "Question 2/2") {
		t.Fatalf("counter: %q", text)
	}
}

func TestRenderViewFeedback(t *testing.T) {
	v := service.View{
		Kind:     service.ViewComplete,
		QuizID:   3,
		Feedback: &service.Feedback{Stem: "2+2?", Choice: "A", Correct: "B"},
	}
	text, markup := renderView(v)
	if markup != nil {
		t.Fatalf("complete view has no keyboard, got %+v", markup)
	}
	for _, want := range []string{"❌", "*Your answer:* A", "*Correct:* B", txtNoExplanation, "finished all questions"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in %q", want, text)
		}
	}

	v.Feedback = &service.Feedback{Stem: "2+2?", Choice: "B", Correct: "B", Explanation: "basic math", IsCorrect: true}
	text, _ = renderView(v)
	if !strings.Contains(text, "✅") || !strings.Contains(text, "basic math") {
		t.Fatalf("correct feedback: %q", text)
	}
}

func TestRenderViewBoundary(t *testing.T) {
	v := service.View{
		Kind:      service.ViewGroupBoundary,
		QuizID:    3,
		NextGroup: models.Group{ID: 9, FileName: "week_2"},
	}
	text, markup := renderView(v)
	if !strings.Contains(text, "finished") {
		t.Fatalf("boundary text: %q", text)
	}
	if markup == nil || len(markup.InlineKeyboard) != 2 {
		t.Fatalf("boundary keyboard: %+v", markup)
	}
	quit, next := markup.InlineKeyboard[0][0], markup.InlineKeyboard[1][0]
	if quit.Unique != cbQuizQuit || quit.Data != "3" {
		t.Fatalf("quit button = %+v", quit)
	}
	if next.Unique != cbQuizNext || next.Data != "3|9" || !strings.Contains(next.Text, "week_2") {
		t.Fatalf("continue button = %+v", next)
	}
}

func TestQuizCard(t *testing.T) {
	st := models.QuizStats{
		Quiz:      models.Quiz{ID: 5, Name: "Go_basics", IsActive: true, MaxUsers: 0, UsedUsers: 4},
		Groups:    2,
		Questions: 30,
		Users:     11,
	}
	text, markup := quizCard(st)
	for _, want := range []string{"Go\\_basics", "Files: 2", "Questions: 30", "Users: 11", statusActive, "4/∞"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in %q", want, text)
		}
	}
	if markup == nil || len(markup.InlineKeyboard) != 4 {
		t.Fatalf("card keyboard: %+v", markup)
	}
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.Data != "5" {
				t.Fatalf("button %q carries %q", btn.Unique, btn.Data)
			}
		}
	}

	st.IsActive = false
	st.MaxUsers = 10
	text, _ = quizCard(st)
	if !strings.Contains(text, statusHidden) || !strings.Contains(text, "4/10") {
		t.Fatalf("hidden capped card: %q", text)
	}
}

func TestPrivateUsersText(t *testing.T) {
	if got := privateUsersText(nil); got != txtNoPrivateUsers {
		t.Fatalf("empty list = %q", got)
	}
	at := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	got := privateUsersText([]models.PrivateUser{
		{UserID: 1, FullName: "Ann", Username: "ann", AccessedAt: at},
		{UserID: 2, AccessedAt: at},
	})
	if !strings.Contains(got, "Ann (@ann) - 2026-01-02 03:04") {
		t.Fatalf("named user: %q", got)
	}
	if !strings.Contains(got, "2 (none)") {
		t.Fatalf("anonymous user: %q", got)
	}
}

func TestChannelPanel(t *testing.T) {
	text, markup := channelPanel("", "", true)
	if strings.Count(text, txtNotSet) != 2 || !strings.Contains(text, txtEnabled) {
		t.Fatalf("unset panel: %q", text)
	}
	if markup == nil || len(markup.InlineKeyboard) != 4 {
		t.Fatalf("panel keyboard: %+v", markup)
	}

	text, _ = channelPanel("@my_channel", "https://t.me/my_channel", false)
	if !strings.Contains(text, "@my\\_channel") || !strings.Contains(text, txtDisabled) {
		t.Fatalf("set panel: %q", text)
	}
}

func TestSubscribeMarkup(t *testing.T) {
	if m := subscribeMarkup(""); m != nil {
		t.Fatalf("expected no markup without a link, got %+v", m)
	}
	m := subscribeMarkup("https://t.me/chan")
	if m == nil || m.InlineKeyboard[0][0].URL != "https://t.me/chan" {
		t.Fatalf("join button: %+v", m)
	}
}

func TestGroupList(t *testing.T) {
	if text, markup := groupList(nil); text != txtNoGroups || markup != nil {
		t.Fatalf("empty list = %q %+v", text, markup)
	}
	text, markup := groupList([]models.Group{{ID: 4, FileName: "a"}, {ID: 6, FileName: "b"}})
	if strings.Count(text, "\n") != 1 {
		t.Fatalf("lines: %q", text)
	}
	if markup.InlineKeyboard[1][0].Unique != cbAdmGroupDel || markup.InlineKeyboard[1][0].Data != "6" {
		t.Fatalf("delete button: %+v", markup.InlineKeyboard[1][0])
	}
}
