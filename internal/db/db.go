// Package db carries the embedded schema migrations.
package db

import "embed"

// Migrations holds the goose migration files applied at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS
