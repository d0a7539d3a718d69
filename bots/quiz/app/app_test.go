package app

import (
	"testing"

	quizconfig "github.com/m3rciful/tgbots/bots/quiz/config"
	"github.com/m3rciful/tgbots/bots/quiz/internal/testdb"
	coreconfig "github.com/m3rciful/tgbots/core/config"
)

func TestTelegramRunOptions(t *testing.T) {
	st := testdb.Open(t)
	cfg := &quizconfig.Config{
		Config: coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "x", AdminID: 42}},
		Import: quizconfig.ImportConfig{MaxFileMB: 1, MaxRows: 10},
	}
	a := New(cfg, st.DB())

	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}
	if opts.Registry == nil || len(opts.Routes) == 0 {
		t.Fatalf("missing routes: %+v", opts)
	}
	if opts.OnStart == nil || opts.OnStop == nil || opts.OnError == nil {
		t.Fatal("lifecycle hooks not set")
	}
	last := opts.Middlewares[len(opts.Middlewares)-1]
	if last.Name != "maintenance" {
		t.Fatalf("last middleware = %q", last.Name)
	}
	if _, ok := opts.Registry.GetCallback("quiz_ans"); !ok {
		t.Fatal("quiz_ans not registered")
	}
}
