// Package assets embeds the default puzzle set and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed puzzles.json
var Puzzles []byte

//go:embed sql/*.sql
var sqlFS embed.FS

// Migrations returns the migration files rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(sqlFS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
