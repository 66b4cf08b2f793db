// Package migrations holds the SQLite schema.
package migrations

import "embed"

// FS contains every NNN_name.sql migration
//
//go:embed *.sql
var FS embed.FS
