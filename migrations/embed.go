// Package migrations embeds the ProjectHub schema migrations into the binary.
//
// Importing this package for its side effect registers the files with the
// database package:
//
//	import _ "github.com/nerrad567/projecthub/migrations"
package migrations

import (
	"embed"

	"github.com/nerrad567/projecthub/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.MigrationsFS = files
	database.MigrationsDir = "."
}
