package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
)

const tokenBytes = 8

// NewToken returns a URL-safe random invite token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// InviteLink builds the deep link that starts the bot with token.
func InviteLink(botUsername, token string) string {
	return "https://t.me/" + url.PathEscape(botUsername) + "?start=" + url.QueryEscape(token)
}
