package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
	"github.com/m3rciful/tgbots/bots/quiz/internal/store"
	"github.com/m3rciful/tgbots/bots/quiz/internal/testdb"
)

func seedQuiz(t *testing.T, s *store.Store, groups ...int) (int64, []models.Group) {
	t.Helper()
	ctx := context.Background()
	quizID, err := s.CreateQuiz(ctx, "Geography")
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	var out []models.Group
	for i, n := range groups {
		qs := make([]models.Question, n)
		for j := range qs {
			qs[j] = models.Question{Stem: "Q", A: "a", B: "b", Correct: "A"}
		}
		g, err := s.CreateGroup(ctx, quizID, string(rune('a'+i)), qs)
		if err != nil {
			t.Fatalf("CreateGroup: %v", err)
		}
		out = append(out, g)
	}
	return quizID, out
}

func TestRegisterUser(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()

	created, err := s.RegisterUser(ctx, models.User{ID: 7, FullName: "Ann"})
	if err != nil || !created {
		t.Fatalf("first register = (%v, %v)", created, err)
	}
	created, err = s.RegisterUser(ctx, models.User{ID: 7, FullName: "Ann"})
	if err != nil || created {
		t.Fatalf("second register = (%v, %v)", created, err)
	}
	n, err := s.CountUsers(ctx)
	if err != nil || n != 1 {
		t.Fatalf("CountUsers = (%d, %v)", n, err)
	}
}

func TestMarkFailedCountsConsecutive(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()
	if _, err := s.RegisterUser(ctx, models.User{ID: 1}); err != nil {
		t.Fatal(err)
	}
	for want := 1; want <= 2; want++ {
		got, err := s.MarkFailed(ctx, 1)
		if err != nil || got != want {
			t.Fatalf("MarkFailed = (%d, %v), want %d", got, err, want)
		}
	}
	if err := s.MarkDelivered(ctx, 1); err != nil {
		t.Fatal(err)
	}
	u, err := s.GetUser(ctx, 1)
	if err != nil || u.FailCount != 0 {
		t.Fatalf("after delivery fail_count = %d (%v)", u.FailCount, err)
	}
	if _, err := s.MarkFailed(ctx, 404); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("MarkFailed unknown = %v", err)
	}
}

func TestGroupOrdering(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()
	quizID, groups := seedQuiz(t, s, 2, 1)

	first, err := s.FirstGroup(ctx, quizID)
	if err != nil || first.ID != groups[0].ID {
		t.Fatalf("FirstGroup = (%+v, %v)", first, err)
	}
	next, err := s.NextGroup(ctx, quizID, first.ID)
	if err != nil || next.ID != groups[1].ID {
		t.Fatalf("NextGroup = (%+v, %v)", next, err)
	}
	if _, err := s.NextGroup(ctx, quizID, next.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("NextGroup after last = %v", err)
	}
	qs, err := s.QuestionsByGroup(ctx, first.ID)
	if err != nil || len(qs) != 2 || qs[0].ID >= qs[1].ID {
		t.Fatalf("QuestionsByGroup = (%+v, %v)", qs, err)
	}
}

func TestCreateGroupUnknownQuiz(t *testing.T) {
	s := testdb.Open(t)
	_, err := s.CreateGroup(context.Background(), 99, "x", []models.Question{{Stem: "Q"}})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("CreateGroup = %v", err)
	}
}

func TestAdvanceFromRejectsStalePosition(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()
	quizID, groups := seedQuiz(t, s, 3)
	p := models.Progress{UserID: 1, QuizID: quizID, GroupID: groups[0].ID}
	if err := s.SaveProgress(ctx, p); err != nil {
		t.Fatal(err)
	}
	ok, err := s.AdvanceFrom(ctx, 1, quizID, groups[0].ID, 0)
	if err != nil || !ok {
		t.Fatalf("first advance = (%v, %v)", ok, err)
	}
	ok, err = s.AdvanceFrom(ctx, 1, quizID, groups[0].ID, 0)
	if err != nil || ok {
		t.Fatalf("repeated advance = (%v, %v)", ok, err)
	}
	got, err := s.GetProgress(ctx, 1, quizID)
	if err != nil || got.Index != 1 {
		t.Fatalf("progress = (%+v, %v)", got, err)
	}
}

func TestGrantPrivateAccessIsSticky(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()
	quizID, _ := seedQuiz(t, s)
	now := time.Now()

	for i := 0; i < 2; i++ {
		used, err := s.GrantPrivateAccess(ctx, 5, quizID, now)
		if err != nil || used != 1 {
			t.Fatalf("grant #%d = (%d, %v)", i+1, used, err)
		}
	}
	used, err := s.GrantPrivateAccess(ctx, 6, quizID, now)
	if err != nil || used != 2 {
		t.Fatalf("grant second user = (%d, %v)", used, err)
	}
	users, err := s.ListPrivateUsers(ctx, quizID)
	if err != nil || len(users) != 2 {
		t.Fatalf("ListPrivateUsers = (%d, %v)", len(users), err)
	}

	if err := s.ClearPrivateAccess(ctx, quizID); err != nil {
		t.Fatal(err)
	}
	q, err := s.GetQuiz(ctx, quizID)
	if err != nil || q.UsedUsers != 0 {
		t.Fatalf("after clear used = %d (%v)", q.UsedUsers, err)
	}
}

func TestDeleteQuizCascades(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()
	quizID, groups := seedQuiz(t, s, 1)
	if err := s.SaveProgress(ctx, models.Progress{UserID: 1, QuizID: quizID, GroupID: groups[0].ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GrantPrivateAccess(ctx, 1, quizID, time.Now()); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteQuiz(ctx, quizID); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}
	for _, table := range []string{"questions", "question_groups", "progress", "private_access", "quizzes"} {
		var n int
		if err := s.DB().Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("%s still has %d rows", table, n)
		}
	}
	if err := s.DeleteQuiz(ctx, quizID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second DeleteQuiz = %v", err)
	}
}

func TestDeleteGroupDropsProgressOnIt(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()
	quizID, groups := seedQuiz(t, s, 1, 1)
	if err := s.SaveProgress(ctx, models.Progress{UserID: 1, QuizID: quizID, GroupID: groups[0].ID}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveProgress(ctx, models.Progress{UserID: 2, QuizID: quizID, GroupID: groups[1].ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.DeleteGroup(ctx, groups[0].ID); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if _, err := s.GetProgress(ctx, 1, quizID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("progress on deleted group = %v", err)
	}
	if _, err := s.GetProgress(ctx, 2, quizID); err != nil {
		t.Fatalf("progress on other group = %v", err)
	}
}

func TestQuizStatsAndToggle(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()
	quizID, groups := seedQuiz(t, s, 2, 3)
	if err := s.SaveProgress(ctx, models.Progress{UserID: 1, QuizID: quizID, GroupID: groups[0].ID}); err != nil {
		t.Fatal(err)
	}

	active, err := s.ToggleQuizActive(ctx, quizID)
	if err != nil || !active {
		t.Fatalf("toggle = (%v, %v)", active, err)
	}
	list, err := s.ListActiveQuizzes(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListActiveQuizzes = (%d, %v)", len(list), err)
	}

	stats, err := s.ListQuizStats(ctx)
	if err != nil || len(stats) != 1 {
		t.Fatalf("ListQuizStats = (%d, %v)", len(stats), err)
	}
	st := stats[0]
	if st.Groups != 2 || st.Questions != 5 || st.Users != 1 || !st.IsActive {
		t.Fatalf("stats = %+v", st)
	}
}

func TestPrivateTokenLookup(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()
	quizID, _ := seedQuiz(t, s)
	if err := s.SetPrivateToken(ctx, quizID, "tok-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPrivateToken(ctx, quizID, "tok-2"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetQuizByToken(ctx, "tok-1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("old token still resolves: %v", err)
	}
	q, err := s.GetQuizByToken(ctx, "tok-2")
	if err != nil || q.ID != quizID || q.PrivateToken == nil || *q.PrivateToken != "tok-2" {
		t.Fatalf("GetQuizByToken = (%+v, %v)", q, err)
	}
}

func TestSettingsSeedAndSet(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()

	v, ok, err := s.GetSetting(ctx, models.SettingBotActive)
	if err != nil || !ok || v != "1" {
		t.Fatalf("seeded bot_active = (%q, %v, %v)", v, ok, err)
	}
	if err := s.SetSetting(ctx, models.SettingBotActive, "0"); err != nil {
		t.Fatal(err)
	}
	if err := store.SettingsSeeder().Seed(ctx, s.DB()); err != nil {
		t.Fatal(err)
	}
	v, _, _ = s.GetSetting(ctx, models.SettingBotActive)
	if v != "0" {
		t.Fatalf("reseed overwrote value: %q", v)
	}
	if _, ok, err := s.GetSetting(ctx, "unknown"); ok || err != nil {
		t.Fatalf("unknown key = (%v, %v)", ok, err)
	}
}
