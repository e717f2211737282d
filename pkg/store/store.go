// Package store persists the glossary between sessions in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/glossary"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

// Save writes the full glossary state inside one transaction, replacing
// whatever was stored before. Either everything commits or nothing does.
func Save(db *sql.DB, g *glossary.Glossary) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("save glossary: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("save glossary: clear entries: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM locutions`); err != nil {
		return fmt.Errorf("save glossary: clear locutions: %w", err)
	}

	entryStmt, err := tx.Prepare(`INSERT INTO entries (token, category, target, status, margin, tag, occurrences)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save glossary: prepare: %w", err)
	}
	defer entryStmt.Close()

	for _, e := range g.Entries() {
		occ, err := json.Marshal(e.Occurrences)
		if err != nil {
			return fmt.Errorf("save glossary: marshal occurrences for %s: %w", e.Source, err)
		}
		if _, err := entryStmt.Exec(e.Source, e.Category.String(), e.Target, int(e.Status), int(e.Margin), string(e.Tag), string(occ)); err != nil {
			return fmt.Errorf("save glossary: insert %s: %w", e.Source, err)
		}
	}

	for i, l := range g.Locutions() {
		comps, err := json.Marshal(l.Components)
		if err != nil {
			return fmt.Errorf("save glossary: marshal components: %w", err)
		}
		positions, err := json.Marshal(l.Positions)
		if err != nil {
			return fmt.Errorf("save glossary: marshal positions: %w", err)
		}
		if _, err := tx.Exec(`INSERT INTO locutions (id, source, components, positions, target, seq) VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, l.Source, string(comps), string(positions), l.Target, i); err != nil {
			return fmt.Errorf("save glossary: insert locution %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save glossary: commit: %w", err)
	}
	return nil
}

// Load rebuilds a glossary from the stored state. An empty database yields
// an empty glossary.
func Load(db *sql.DB) (*glossary.Glossary, error) {
	g := glossary.New()

	rows, err := db.Query(`SELECT token, category, target, status, margin, tag, occurrences FROM entries ORDER BY token`)
	if err != nil {
		return nil, fmt.Errorf("load glossary: query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e glossary.Entry
		var category, tag, occJSON string
		var status, margin int
		if err := rows.Scan(&e.Source, &category, &e.Target, &status, &margin, &tag, &occJSON); err != nil {
			return nil, fmt.Errorf("load glossary: scan entry: %w", err)
		}
		if category == token.Particula.String() {
			e.Category = token.Particula
		}
		e.Status = glossary.Status(status)
		e.Margin = glossary.Margin(margin)
		e.Tag = glossary.Tag(tag)
		if err := json.Unmarshal([]byte(occJSON), &e.Occurrences); err != nil {
			return nil, fmt.Errorf("load glossary: occurrences for %s: %w", e.Source, err)
		}
		if err := g.RestoreEntry(e); err != nil {
			return nil, fmt.Errorf("load glossary: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load glossary: rows: %w", err)
	}

	locRows, err := db.Query(`SELECT id, source, components, positions, target FROM locutions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load glossary: query locutions: %w", err)
	}
	defer locRows.Close()

	for locRows.Next() {
		var l glossary.Locution
		var compJSON, posJSON string
		if err := locRows.Scan(&l.ID, &l.Source, &compJSON, &posJSON, &l.Target); err != nil {
			return nil, fmt.Errorf("load glossary: scan locution: %w", err)
		}
		if err := json.Unmarshal([]byte(compJSON), &l.Components); err != nil {
			return nil, fmt.Errorf("load glossary: components for %s: %w", l.Source, err)
		}
		if err := json.Unmarshal([]byte(posJSON), &l.Positions); err != nil {
			return nil, fmt.Errorf("load glossary: positions for %s: %w", l.Source, err)
		}
		if err := g.RestoreLocution(l); err != nil {
			return nil, fmt.Errorf("load glossary: %w", err)
		}
	}
	if err := locRows.Err(); err != nil {
		return nil, fmt.Errorf("load glossary: locution rows: %w", err)
	}

	return g, nil
}
