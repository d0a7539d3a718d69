// Package models holds the quiz bot entities as stored in the database.
package models

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by repositories when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Settings keys. The set is fixed and seeded on first start.
const (
	SettingRequiredChannel = "required_channel"
	SettingChannelLink     = "channel_link"
	SettingBotActive       = "bot_active"
	SettingShowChannelLink = "show_channel_link"
)

// DefaultSettings are inserted once and never overwrite edited values.
var DefaultSettings = map[string]string{
	SettingRequiredChannel: "",
	SettingChannelLink:     "",
	SettingBotActive:       "1",
	SettingShowChannelLink: "1",
}

// User is a bot subscriber registered on /start.
type User struct {
	ID        int64     `db:"user_id"`
	FullName  string    `db:"full_name"`
	Username  string    `db:"username"`
	JoinedAt  time.Time `db:"joined_at"`
	FailCount int       `db:"fail_count"`
}

// Quiz is a named, ordered collection of question groups.
type Quiz struct {
	ID           int64   `db:"id"`
	Name         string  `db:"name"`
	IsActive     bool    `db:"is_active"`
	PrivateToken *string `db:"private_token"`
	// MaxUsers caps private access grants; 0 means unlimited.
	MaxUsers  int `db:"max_users"`
	UsedUsers int `db:"used_users"`
}

// QuizStats is a quiz with the counters shown on the admin card.
type QuizStats struct {
	Quiz
	Groups    int `db:"groups_count"`
	Questions int `db:"questions_count"`
	Users     int `db:"users_count"`
}

// Group is one imported batch of questions. Ascending IDs define the order.
type Group struct {
	ID       int64  `db:"id"`
	QuizID   int64  `db:"quiz_id"`
	FileName string `db:"file_name"`
}

// Question is a multiple-choice item with up to four labelled options.
type Question struct {
	ID          int64  `db:"id"`
	QuizID      int64  `db:"quiz_id"`
	GroupID     int64  `db:"group_id"`
	Stem        string `db:"stem"`
	A           string `db:"a"`
	B           string `db:"b"`
	C           string `db:"c"`
	D           string `db:"d"`
	Correct     string `db:"correct"`
	Explanation string `db:"explanation"`
}

// Option is one labelled answer.
type Option struct {
	Label string
	Text  string
}

// Options returns the four options in label order, blanks included.
func (q Question) Options() []Option {
	return []Option{
		{Label: "A", Text: q.A},
		{Label: "B", Text: q.B},
		{Label: "C", Text: q.C},
		{Label: "D", Text: q.D},
	}
}

// IsBlankOption reports whether an option cell carries no usable text.
// Spreadsheets export empty numeric cells as "nan".
func IsBlankOption(text string) bool {
	t := strings.TrimSpace(text)
	return t == "" || strings.EqualFold(t, "nan")
}

// Progress is the position of one user inside one quiz.
type Progress struct {
	UserID  int64 `db:"user_id"`
	QuizID  int64 `db:"quiz_id"`
	GroupID int64 `db:"current_grp_id"`
	Index   int   `db:"current_q_idx"`
}

// PrivateUser is a user granted access through a private link.
type PrivateUser struct {
	UserID     int64     `db:"user_id"`
	FullName   string    `db:"full_name"`
	Username   string    `db:"username"`
	AccessedAt time.Time `db:"accessed_at"`
}
