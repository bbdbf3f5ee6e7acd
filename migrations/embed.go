// Package migrations embeds the SQL migration files run at startup.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
