package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"raw with payload", &tele.Callback{Data: "\fquiz_ans|A|3|14"}, "quiz_ans", "A|3|14"},
		{"raw without payload", &tele.Callback{Data: "\fbc_no"}, "bc_no", ""},
		{"pre-split", &tele.Callback{Unique: "quiz_start", Data: "5"}, "quiz_start", "5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			if key != tc.key || payload != tc.payload {
				t.Fatalf("got (%q, %q), want (%q, %q)", key, payload, tc.key, tc.payload)
			}
		})
	}
}

func TestJoinInt64(t *testing.T) {
	if got := JoinInt64(3, 14); got != "3|14" {
		t.Fatalf("JoinInt64 = %q", got)
	}
	if got := Join("A", "3", "14"); got != "A|3|14" {
		t.Fatalf("Join = %q", got)
	}
}
