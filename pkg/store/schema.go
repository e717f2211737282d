package store

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS entries (
	token TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	target TEXT NOT NULL DEFAULT '',
	status INTEGER NOT NULL DEFAULT 0,
	margin INTEGER NOT NULL DEFAULT 0,
	tag TEXT NOT NULL DEFAULT '',
	occurrences TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS locutions (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	components TEXT NOT NULL,
	positions TEXT NOT NULL,
	target TEXT NOT NULL DEFAULT '',
	seq INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_locutions_seq ON locutions(seq);
`

// Init runs migrations on the given DB connection using the embedded SQL.
func Init(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
