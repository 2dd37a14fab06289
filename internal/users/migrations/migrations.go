// Package migrations embeds the goose migrations for the remote-backend
// users table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
