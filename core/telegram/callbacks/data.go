package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// PayloadSep separates fields inside a callback payload.
const PayloadSep = "|"

const answeredKey = "cb_answered"

// ParseCallbackData parses Telebot's "\f<unique>|<payload>" encoding.
// Callbacks already split by Telebot carry Unique and the bare payload in Data.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	unique, payload, _ := strings.Cut(raw, PayloadSep)
	return strings.TrimSpace(unique), payload
}

// CallbackKey returns the unique part of the current callback.
func CallbackKey(c tele.Context) string {
	k, _ := ParseCallbackData(c.Callback())
	return k
}

// CallbackPayload returns the payload part of the current callback.
func CallbackPayload(c tele.Context) string {
	_, p := ParseCallbackData(c.Callback())
	return p
}

// Answer responds to the current callback query and marks it answered,
// so routers do not send a second, empty response.
func Answer(c tele.Context, resp ...*tele.CallbackResponse) error {
	c.Set(answeredKey, true)
	return c.Respond(resp...)
}

// Alert answers the callback with a modal alert.
func Alert(c tele.Context, text string) error {
	return Answer(c, &tele.CallbackResponse{Text: text, ShowAlert: true})
}

// Toast answers the callback with a short notification.
func Toast(c tele.Context, text string) error {
	return Answer(c, &tele.CallbackResponse{Text: text})
}

// Answered reports whether a handler already responded to the callback.
func Answered(c tele.Context) bool {
	v, _ := c.Get(answeredKey).(bool)
	return v
}
