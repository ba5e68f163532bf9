package migrations

import "embed"

// FS holds the listing schema migration files.
//
//go:embed *.sql
var FS embed.FS
