// Package migrations embeds the postsapi Postgres schema.
package migrations

import _ "embed"

// Schema creates the post tables when missing.
//
//go:embed schema.sql
var Schema string
