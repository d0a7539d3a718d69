package telegram

import (
	"testing"

	"github.com/m3rciful/tgbots/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryLookupCommand(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterCommand("/create_quiz", commands.Command{
		Handler: noop, Description: "Create quiz", AdminOnly: true, Hidden: true,
		Aliases: []string{"➕ Create quiz"},
	}); err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"/start":          "/start",
		"/start abc123":   "/start",
		"/start@quiz_bot": "/start",
		"➕ Create quiz":   "/create_quiz",
	}
	for text, want := range cases {
		key, _, ok := reg.LookupCommand(text)
		if !ok || key != want {
			t.Errorf("LookupCommand(%q) = %q, %v; want %q", text, key, ok, want)
		}
	}
	for _, text := range []string{"start", "Create quiz", "", "/unknown"} {
		if _, _, ok := reg.LookupCommand(text); ok {
			t.Errorf("LookupCommand(%q) unexpectedly matched", text)
		}
	}
}

func TestRegistryRejectsInvalidAndDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "x"}); err == nil {
		t.Fatal("expected error for missing slash")
	}
	if err := reg.RegisterCommand("/a", commands.Command{Handler: noop, Description: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterCommand("/a", commands.Command{Handler: noop, Description: "x"}); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.RegisterCallback("cb", noop); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterCallback("cb", noop); err == nil {
		t.Fatal("expected duplicate callback error")
	}
	if _, ok := reg.GetCallback("cb"); !ok {
		t.Fatal("callback not found")
	}
}

func TestRegistryListCommandsHidesAdmin(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"})
	_ = reg.RegisterCommand("/admin", commands.Command{Handler: noop, Description: "Admin", AdminOnly: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "start" {
		t.Fatalf("visible = %+v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 2 {
		t.Fatalf("all = %+v", all)
	}
}
