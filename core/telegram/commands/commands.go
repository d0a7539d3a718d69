package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly restricts the command and its aliases to the bot owner.
	AdminOnly bool
	// Hidden keeps the command out of the Telegram command menu.
	Hidden bool
	// Aliases are exact message texts, such as reply keyboard labels, that trigger the command.
	Aliases []string
}
