package app

import (
	"testing"

	pdfconfig "github.com/m3rciful/tgbots/bots/pdf/config"
	coreconfig "github.com/m3rciful/tgbots/core/config"

	tele "gopkg.in/telebot.v4"
)

func TestTelegramRunOptions(t *testing.T) {
	cfg := &pdfconfig.Config{
		Config: coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "x"}},
		PDF:    pdfconfig.PDFConfig{TempDir: t.TempDir(), MaxPhotos: 3, MaxSide: 100, JPEGQuality: 80},
	}
	a := New(cfg)
	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}

	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, want := range []any{"/start", "/pdf", "/cancel", tele.OnText, tele.OnDocument, tele.OnPhoto} {
		if !endpoints[want] {
			t.Fatalf("no route for %v", want)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
