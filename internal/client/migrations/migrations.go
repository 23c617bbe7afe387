// Package migrations embeds the goose migrations of the SQL cache backings.
package migrations

import "embed"

// SQLite holds the migrations for the on-device SQLite cache, under "sqlite".
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the migrations for the shared Postgres cache, under "postgres".
//
//go:embed postgres/*.sql
var Postgres embed.FS
