// Package migrations embeds the SQLite schema for the command history.
package migrations

import "embed"

// FS holds the *.sql migration files, passed to database.DB.Migrate.
//
//go:embed *.sql
var FS embed.FS
