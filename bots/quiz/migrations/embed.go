// Package migrations embeds the quiz bot schema, one directory per database driver.
package migrations

import "embed"

// FS holds sqlite3/ and postgres/ versioned migration files.
//
//go:embed sqlite3/*.sql postgres/*.sql
var FS embed.FS
