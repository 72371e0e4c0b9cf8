package icons

import "github.com/nhath/litequery/internal/db"

const (
	IconPostgres = ""
	IconMySQL    = ""
	IconSQLite   = "\U000f01bc"

	IconFolder    = "\U000f024b"
	IconFile      = "\U000f01bc"
	IconProfile   = "\U000f0004"
	IconTable     = "\U000f04eb"
	IconError     = "⚠"
	IconSuccess   = "✓"
	IconSelect    = "▸"
)

func DatabaseIcon(kind db.DriverType) string {
	switch kind {
	case db.Postgres:
		return IconPostgres
	case db.MySQL:
		return IconMySQL
	default:
		return IconSQLite
	}
}
