// Package migrations embeds the SQL schema of every supported backend.
package migrations

import "embed"

// SQLite holds migrations applied to the embedded SQLite store
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds migrations applied to PostgreSQL
//
//go:embed postgres/*.sql
var Postgres embed.FS
