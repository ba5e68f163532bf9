package migrations

import "embed"

// FS holds the auth schema migration files.
//
//go:embed *.sql
var FS embed.FS
