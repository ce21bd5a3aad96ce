// Package migrations embeds the SQL schema for the SQL-backed slots.
package migrations

import "embed"

// FS holds one directory of goose migrations per dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
