package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// For returns the migration set for a database dialect.
func For(dialect string) (fs.FS, error) {
	return fs.Sub(files, dialect)
}
