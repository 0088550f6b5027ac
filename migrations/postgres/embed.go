// Package migrations embeds the postgres schema migrations.
package migrations

import "embed"

// FS contains the *_up.sql and *_down.sql files, applied in name order.
//
//go:embed *.sql
var FS embed.FS
