package migrations

import "embed"

// FS holds the billing schema migration files.
//
//go:embed *.sql
var FS embed.FS
