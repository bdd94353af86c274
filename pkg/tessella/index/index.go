// Package index is the persistent per-language inverted index: lemma →
// corpus locations, backed by SQLite. One physical store per language.
//
// Writes happen at ingestion time only; searches treat the index as
// read-only. Latin queries are expanded to their u/v and i/j orthographic
// variants on the query side, with results mapped back to the lemma as
// queried.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

// Index is an open handle on one language's posting store.
type Index struct {
	db   *sql.DB
	lang unit.Language
	log  *zap.Logger
}

// TextInfo describes one indexed text.
type TextInfo struct {
	ID        int64
	Filename  string
	Author    string
	Title     string
	LineCount int
}

// Posting is one location of a lemma.
type Posting struct {
	// Lemma is the canonical queried form, not the stored variant that
	// matched.
	Lemma     string
	TextID    int64
	Filename  string
	Ref       string
	Positions []int
}

// Location is one unit where several queried lemmas co-occur.
type Location struct {
	TextID    int64
	Filename  string
	Ref       string
	Lemmas    []string
	Positions []int
	Span      int
}

// Open opens (creating if necessary) the posting store at path with WAL
// mode enabled. log may be nil.
func Open(ctx context.Context, path string, lang unit.Language, log *zap.Logger) (*Index, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Index{db: db, lang: lang, log: log}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS texts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT UNIQUE NOT NULL,
	author TEXT,
	title TEXT,
	line_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS postings (
	lemma TEXT NOT NULL,
	text_id INTEGER NOT NULL,
	ref TEXT NOT NULL,
	positions TEXT NOT NULL,
	PRIMARY KEY(lemma, text_id, ref),
	FOREIGN KEY(text_id) REFERENCES texts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS postings_by_lemma ON postings(lemma);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Indexed reports whether a text file is already present.
func (ix *Index) Indexed(ctx context.Context, filename string) (bool, error) {
	var id int64
	err := ix.db.QueryRowContext(ctx, `SELECT id FROM texts WHERE filename = ?`, filename).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IndexText adds one text's postings. Re-indexing an already-indexed
// filename is a no-op, so incremental corpus ingestion can always submit
// everything it sees.
func (ix *Index) IndexText(ctx context.Context, filename string, text unit.Text) error {
	done, err := ix.Indexed(ctx, filename)
	if err != nil {
		return err
	}
	if done {
		ix.log.Debug("text already indexed", zap.String("filename", filename))
		return nil
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var textID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO texts (filename, author, title, line_count) VALUES (?, ?, ?, ?) RETURNING id`,
		filename, text.Author, text.Title, len(text.Units),
	).Scan(&textID)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO postings (lemma, text_id, ref, positions) VALUES (?, ?, ?, ?)
		 ON CONFLICT(lemma, text_id, ref) DO UPDATE SET positions = excluded.positions`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range text.Units {
		if !u.Valid() {
			ix.log.Warn("skipping malformed unit",
				zap.String("filename", filename),
				zap.String("ref", u.Ref))
			continue
		}
		for lemma, positions := range lemmaPositions(u, ix.lang) {
			enc, err := json.Marshal(positions)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, lemma, textID, u.Ref, string(enc)); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	ix.log.Info("indexed text",
		zap.String("filename", filename),
		zap.String("title", text.Title),
		zap.Int("units", len(text.Units)))
	return nil
}

// lemmaPositions groups a unit's normalized lemmas by position.
func lemmaPositions(u unit.TextUnit, lang unit.Language) map[string][]int {
	out := make(map[string][]int)
	for pos, f := range u.Features(lang, false) {
		if f == "" {
			continue
		}
		out[f] = append(out[f], pos)
	}
	return out
}

// Texts lists all indexed texts in filename order.
func (ix *Index) Texts(ctx context.Context) ([]TextInfo, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT id, filename, author, title, line_count FROM texts ORDER BY filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TextInfo
	for rows.Next() {
		var t TextInfo
		if err := rows.Scan(&t.ID, &t.Filename, &t.Author, &t.Title, &t.LineCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Lookup returns every location of a lemma, including its orthographic
// variants, with each hit reported under the queried lemma.
func (ix *Index) Lookup(ctx context.Context, lemma string) ([]Posting, error) {
	canonical := unit.Normalize(lemma, ix.lang)
	variants := unit.VariantSpellings(canonical, ix.lang)

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(variants)), ",")
	args := make([]any, 0, len(variants))
	for _, v := range variants {
		args = append(args, v)
	}

	query := fmt.Sprintf(`
SELECT p.text_id, t.filename, p.ref, p.positions
FROM postings p JOIN texts t ON t.id = p.text_id
WHERE p.lemma IN (%s)
ORDER BY t.filename, p.ref`, placeholders)

	rows, err := ix.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Posting
	for rows.Next() {
		p := Posting{Lemma: canonical}
		var enc string
		if err := rows.Scan(&p.TextID, &p.Filename, &p.Ref, &enc); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(enc), &p.Positions); err != nil {
			return nil, fmt.Errorf("decode positions for %q at %s: %w", canonical, p.Ref, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CoOccurrences finds units where at least minMatches distinct queried
// lemmas appear together. maxSpan, when positive, additionally bounds the
// position range covering all matched lemmas in the unit.
func (ix *Index) CoOccurrences(ctx context.Context, lemmas []string, minMatches, maxSpan int) ([]Location, error) {
	if minMatches < 1 {
		minMatches = 1
	}

	type cell struct {
		filename  string
		lemmas    map[string]struct{}
		positions []int
	}
	type key struct {
		textID int64
		ref    string
	}
	cells := make(map[key]*cell)

	for _, lemma := range lemmas {
		postings, err := ix.Lookup(ctx, lemma)
		if err != nil {
			return nil, err
		}
		for _, p := range postings {
			k := key{textID: p.TextID, ref: p.Ref}
			c := cells[k]
			if c == nil {
				c = &cell{filename: p.Filename, lemmas: make(map[string]struct{})}
				cells[k] = c
			}
			c.lemmas[p.Lemma] = struct{}{}
			c.positions = append(c.positions, p.Positions...)
		}
	}

	var out []Location
	for k, c := range cells {
		if len(c.lemmas) < minMatches {
			continue
		}
		span := positionSpan(c.positions)
		if maxSpan > 0 && span > maxSpan {
			continue
		}
		matched := make([]string, 0, len(c.lemmas))
		for l := range c.lemmas {
			matched = append(matched, l)
		}
		sort.Strings(matched)
		sort.Ints(c.positions)
		out = append(out, Location{
			TextID:    k.textID,
			Filename:  c.filename,
			Ref:       k.ref,
			Lemmas:    matched,
			Positions: c.positions,
			Span:      span,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Filename != out[j].Filename {
			return out[i].Filename < out[j].Filename
		}
		return out[i].Ref < out[j].Ref
	})
	return out, nil
}

func positionSpan(positions []int) int {
	if len(positions) < 2 {
		return 1
	}
	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	if hi-lo < 1 {
		return 1
	}
	return hi - lo
}
