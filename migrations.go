// Package chatdigest holds the assets embedded into the binaries.
package chatdigest

import "embed"

//go:embed migrations/*.sql
var MigrationsFS embed.FS
