package handlers

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/service"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/bots/quiz/internal/testdb"
	"github.com/m3rciful/tgbots/core/telegram/callbacks"
	"github.com/m3rciful/tgbots/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

const ownerID = 1

// fakeContext records what handlers send; unused tele.Context methods panic.
type fakeContext struct {
	tele.Context
	user      *tele.User
	msg       *tele.Message
	cb        *tele.Callback
	store     map[string]any
	sent      []string
	responses []*tele.CallbackResponse
}

func message(userID int64, text string) *fakeContext {
	u := &tele.User{ID: userID, FirstName: "User"}
	return &fakeContext{
		user:  u,
		msg:   &tele.Message{Sender: u, Chat: &tele.Chat{ID: userID, Type: tele.ChatPrivate}, Text: text},
		store: map[string]any{},
	}
}

func callback(userID int64, unique, data string) *fakeContext {
	c := message(userID, "")
	c.cb = &tele.Callback{Sender: c.user, Message: c.msg, Unique: unique, Data: data}
	return c
}

func (f *fakeContext) Message() *tele.Message   { return f.msg }
func (f *fakeContext) Callback() *tele.Callback { return f.cb }
func (f *fakeContext) Sender() *tele.User       { return f.user }
func (f *fakeContext) Chat() *tele.Chat         { return f.msg.Chat }
func (f *fakeContext) Text() string             { return f.msg.Text }
func (f *fakeContext) Update() tele.Update      { return tele.Update{ID: 1, Message: f.msg, Callback: f.cb} }
func (f *fakeContext) Get(key string) any       { return f.store[key] }
func (f *fakeContext) Set(key string, v any)    { f.store[key] = v }
func (f *fakeContext) Delete() error            { return nil }

func (f *fakeContext) Send(what any, _ ...any) error {
	s, _ := what.(string)
	f.sent = append(f.sent, s)
	return nil
}

func (f *fakeContext) EditOrSend(what any, opts ...any) error {
	return f.Send(what, opts...)
}

func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	f.responses = append(f.responses, resp...)
	return nil
}

func (f *fakeContext) last(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("nothing sent")
	}
	return f.sent[len(f.sent)-1]
}

type fakeBot struct{}

func (fakeBot) SendText(context.Context, int64, string) error { return nil }
func (fakeBot) Username() string                              { return "quizbot" }
func (fakeBot) OpenFile(tele.File) (io.ReadCloser, error)     { return nil, io.EOF }

func newFlow(t *testing.T) (*Handlers, *store.Store) {
	t.Helper()
	st := testdb.Open(t)
	settings := service.NewSettings(st, ownerID)
	h := New(Deps{
		OwnerID:   ownerID,
		Users:     service.NewUsers(st, nil),
		Gate:      service.NewGate(st, settings, nil, nil),
		Navigator: service.NewNavigator(st, service.NewTracker(st)),
		Admin:     service.NewAdmin(st, nil),
		Settings:  settings,
		Bot:       fakeBot{},
		FSM:       state.NewMemoryManager(),
	})
	return h, st
}

func seedQuiz(t *testing.T, st *store.Store, active bool) models.Quiz {
	t.Helper()
	ctx := context.Background()
	id, err := st.CreateQuiz(ctx, "Capitals")
	if err != nil {
		t.Fatal(err)
	}
	_, err = st.CreateGroup(ctx, id, "europe", []models.Question{
		{Stem: "Capital of France?", A: "Paris", B: "Rome", Correct: "A"},
		{Stem: "Capital of Italy?", A: "Paris", B: "Rome", Correct: "B"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if active {
		if _, err := st.ToggleQuizActive(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	q, err := st.GetQuiz(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestStartListsActiveQuizzes(t *testing.T) {
	h, st := newFlow(t)
	c := message(5, "/start")
	if err := h.onStart(c); err != nil {
		t.Fatal(err)
	}
	if c.last(t) != txtNoActive {
		t.Fatalf("reply = %q", c.last(t))
	}

	seedQuiz(t, st, true)
	c = message(5, "/start")
	if err := h.onStart(c); err != nil {
		t.Fatal(err)
	}
	if c.last(t) != txtAvailable {
		t.Fatalf("reply = %q", c.last(t))
	}
	if n, _ := st.CountUsers(context.Background()); n != 1 {
		t.Fatalf("users = %d", n)
	}
}

func TestQuizWalkthroughAndStaleAnswer(t *testing.T) {
	h, st := newFlow(t)
	q := seedQuiz(t, st, true)
	qid := id(q.ID)

	c := callback(5, cbQuizStart, qid)
	if err := h.onQuizStart(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.last(t), "Question 1/2") {
		t.Fatalf("start view = %q", c.last(t))
	}

	qs, err := st.QuestionsByGroup(context.Background(), mustFirstGroup(t, st, q.ID))
	if err != nil {
		t.Fatal(err)
	}
	first := id(qs[0].ID)

	c = callback(5, cbQuizAns, callbacks.Join("A", qid, first))
	if err := h.onQuizAnswer(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.last(t), "✅") || !strings.Contains(c.last(t), "Question 2/2") {
		t.Fatalf("after answer = %q", c.last(t))
	}

	c = callback(5, cbQuizAns, callbacks.Join("A", qid, first))
	if err := h.onQuizAnswer(c); err != nil {
		t.Fatal(err)
	}
	if len(c.responses) != 1 || c.responses[0].Text != txtStale {
		t.Fatalf("stale answer responses = %+v", c.responses)
	}
}

func mustFirstGroup(t *testing.T, st *store.Store, quizID int64) int64 {
	t.Helper()
	g, err := st.FirstGroup(context.Background(), quizID)
	if err != nil {
		t.Fatal(err)
	}
	return g.ID
}

func TestHiddenQuizNeedsGrant(t *testing.T) {
	h, st := newFlow(t)
	q := seedQuiz(t, st, false)

	c := callback(5, cbQuizStart, id(q.ID))
	if err := h.onQuizStart(c); err != nil {
		t.Fatal(err)
	}
	if len(c.responses) != 1 || c.responses[0].Text != txtNotFound {
		t.Fatalf("hidden quiz responses = %+v", c.responses)
	}
}

func TestPrivateLinkCap(t *testing.T) {
	h, st := newFlow(t)
	ctx := context.Background()
	q := seedQuiz(t, st, false)
	if err := st.SetPrivateToken(ctx, q.ID, "tok"); err != nil {
		t.Fatal(err)
	}
	if err := st.SetMaxUsers(ctx, q.ID, 1); err != nil {
		t.Fatal(err)
	}

	start := func(userID int64, payload string) *fakeContext {
		c := message(userID, "/start "+payload)
		c.msg.Payload = payload
		if err := h.onStart(c); err != nil {
			t.Fatal(err)
		}
		return c
	}

	c := start(5, "tok")
	if !strings.Contains(strings.Join(c.sent, "\n"), "Question 1/2") {
		t.Fatalf("granted user sent %q", c.sent)
	}
	if c = start(6, "tok"); !strings.Contains(c.last(t), "maximum number of users") {
		t.Fatalf("second user reply = %q", c.last(t))
	}
	if c = start(5, "tok"); strings.Contains(c.last(t), "maximum number") {
		t.Fatalf("granted user blocked: %q", c.last(t))
	}
	if c = start(7, "nope"); c.last(t) != txtInvalidLink {
		t.Fatalf("bad token reply = %q", c.last(t))
	}
}

func TestMaintenanceGate(t *testing.T) {
	h, _ := newFlow(t)
	ctx := context.Background()
	if err := h.Settings.Set(ctx, models.SettingBotActive, "0"); err != nil {
		t.Fatal(err)
	}

	called := 0
	next := func(tele.Context) error { called++; return nil }
	gate := h.Maintenance().Use(next)

	c := message(5, "hi")
	if err := gate(c); err != nil {
		t.Fatal(err)
	}
	if called != 0 || c.last(t) != txtMaintenance {
		t.Fatalf("user passed maintenance: called=%d sent=%q", called, c.sent)
	}

	cb := callback(5, cbQuizStart, "1")
	if err := gate(cb); err != nil {
		t.Fatal(err)
	}
	if len(cb.responses) != 1 || !cb.responses[0].ShowAlert {
		t.Fatalf("callback not alerted: %+v", cb.responses)
	}

	if err := gate(message(ownerID, "hi")); err != nil {
		t.Fatal(err)
	}
	if called != 1 {
		t.Fatalf("owner blocked, called=%d", called)
	}
}

func TestMaxUsersDialog(t *testing.T) {
	h, st := newFlow(t)
	q := seedQuiz(t, st, true)

	c := callback(ownerID, cbAdmMax, id(q.ID))
	if err := h.onAdmMax(c); err != nil {
		t.Fatal(err)
	}
	if !h.FSM.InProgress(ownerID) {
		t.Fatal("dialog not opened")
	}

	c = message(ownerID, "-3")
	if err := h.FSM.ManagerHandler(c); err != nil {
		t.Fatal(err)
	}
	if c.last(t) != txtNotANumber || !h.FSM.InProgress(ownerID) {
		t.Fatalf("negative accepted: %q", c.last(t))
	}

	c = message(ownerID, "25")
	if err := h.FSM.ManagerHandler(c); err != nil {
		t.Fatal(err)
	}
	if h.FSM.InProgress(ownerID) {
		t.Fatal("dialog still open")
	}
	got, err := st.GetQuiz(context.Background(), q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MaxUsers != 25 {
		t.Fatalf("max users = %d", got.MaxUsers)
	}
}

func TestBroadcastConfirmation(t *testing.T) {
	h, _ := newFlow(t)

	if err := h.onBroadcast(message(ownerID, "/broadcast")); err != nil {
		t.Fatal(err)
	}
	c := message(ownerID, "hello *all*")
	if err := h.FSM.ManagerHandler(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.last(t), `hello \*all\*`) {
		t.Fatalf("preview = %q", c.last(t))
	}

	cb := callback(ownerID, cbBroadcastNo, "")
	if err := h.onBroadcastNo(cb); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.FSM.GetTempString(ownerID, tempBroadcast); ok {
		t.Fatal("broadcast text kept after cancel")
	}

	cb = callback(ownerID, cbBroadcastYes, "")
	if err := h.onBroadcastYes(cb); err != nil {
		t.Fatal(err)
	}
	if cb.last(t) != txtBroadcastMissing {
		t.Fatalf("confirm without text = %q", cb.last(t))
	}
}
