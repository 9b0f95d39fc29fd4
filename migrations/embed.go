// Package migrations holds the goose schema migrations for every supported
// SQL dialect, one subdirectory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS
