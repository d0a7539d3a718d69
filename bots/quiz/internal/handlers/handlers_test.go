package handlers

import (
	"testing"

	coretelegram "github.com/m3rciful/tgbots/core/telegram"
	"github.com/m3rciful/tgbots/core/telegram/state"
)

func TestRegisterWiresCommandsAndCallbacks(t *testing.T) {
	reg := coretelegram.NewRegistry()
	h := New(Deps{OwnerID: 42, FSM: state.NewMemoryManager()})
	if err := h.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}

	for label, want := range map[string]string{
		btnCreateQuiz:      "/newquiz",
		btnManageQuizzes:   "/quizzes",
		btnChannelSettings: "/channel",
		btnBotToggle:       "/botstatus",
		btnResetProgress:   "/resetprogress",
		btnBroadcast:       "/broadcast",
	} {
		key, cmd, ok := reg.LookupCommand(label)
		if !ok || key != want {
			t.Fatalf("%q resolved to %q (ok=%v), want %q", label, key, ok, want)
		}
		if !cmd.AdminOnly {
			t.Fatalf("%s must be admin only", key)
		}
	}

	menu := reg.ListCommands(true)
	if len(menu) != 1 || menu[0].Text != "start" {
		t.Fatalf("public menu = %+v", menu)
	}

	for _, key := range []string{cbQuizStart, cbQuizAns, cbQuizQuit, cbQuizNext, cbAdmGroupDel, cbChToggleLink, cbBotToggle, cbBroadcastYes} {
		if _, ok := reg.GetCallback(key); !ok {
			t.Fatalf("callback %q not registered", key)
		}
	}
	if reg.TextFallback() == nil {
		t.Fatal("text fallback not set")
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := coretelegram.NewRegistry()
	h := New(Deps{})
	if err := h.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := h.Register(reg); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestIsWorkbook(t *testing.T) {
	cases := map[string]bool{
		"week1.xlsx": true,
		"WEEK1.XLSX": true,
		"macro.xlsm": true,
		"old.xls":    false,
		"notes.txt":  false,
		"":           false,
	}
	for name, want := range cases {
		if got := isWorkbook(name); got != want {
			t.Fatalf("isWorkbook(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestValidLink(t *testing.T) {
	for link, want := range map[string]bool{
		"https://t.me/chan": true,
		"http://t.me/chan":  true,
		"t.me/chan":         false,
		"ftp://t.me/chan":   false,
		"https://":          false,
	} {
		if got := validLink(link); got != want {
			t.Fatalf("validLink(%q) = %v, want %v", link, got, want)
		}
	}
}
