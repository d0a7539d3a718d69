package callbacks

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// PayloadInt64 parses the callback payload as int64.
func PayloadInt64(c tele.Context) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(CallbackPayload(c)), 10, 64)
}

// PayloadParts splits the callback payload into exactly n fields.
func PayloadParts(c tele.Context, n int) ([]string, error) {
	p := CallbackPayload(c)
	if p == "" {
		return nil, strconv.ErrSyntax
	}
	parts := strings.Split(p, PayloadSep)
	if len(parts) != n {
		return nil, strconv.ErrSyntax
	}
	return parts, nil
}

// PayloadTwoInt64 parses a payload like "123|456" into two int64 values.
func PayloadTwoInt64(c tele.Context) (int64, int64, error) {
	parts, err := PayloadParts(c, 2)
	if err != nil {
		return 0, 0, err
	}
	a, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Join builds a payload from its fields.
func Join(fields ...string) string {
	return strings.Join(fields, PayloadSep)
}

// JoinInt64 builds a payload from numeric fields.
func JoinInt64(ids ...int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return Join(parts...)
}
