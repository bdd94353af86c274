package freq

import (
	"context"
	"database/sql"
	"time"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

// SQLite persistence for the frequency and bigram tables. One database per
// language; the schema lives beside the inverted index tables.

// InitSchema creates the frequency tables if they don't exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS freq_meta (
	language TEXT PRIMARY KEY,
	total_tokens INTEGER NOT NULL,
	checksum TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS freq_counts (
	language TEXT NOT NULL,
	feature TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(language, feature)
);

CREATE TABLE IF NOT EXISTS bigram_meta (
	language TEXT PRIMARY KEY,
	total_docs INTEGER NOT NULL,
	checksum TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bigram_counts (
	language TEXT NOT NULL,
	a TEXT NOT NULL,
	b TEXT NOT NULL,
	count INTEGER NOT NULL,
	doc_freq INTEGER NOT NULL,
	PRIMARY KEY(language, a, b)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveFrequencyTable replaces the persisted table for its language in a
// single transaction.
func SaveFrequencyTable(ctx context.Context, db *sql.DB, t *FrequencyTable) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lang := string(t.Language)
	if _, err := tx.ExecContext(ctx, `DELETE FROM freq_counts WHERE language=?`, lang); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO freq_counts (language, feature, count) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for feature, count := range t.Counts {
		if _, err := stmt.ExecContext(ctx, lang, feature, count); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO freq_meta (language, total_tokens, checksum, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(language) DO UPDATE SET
	total_tokens=excluded.total_tokens,
	checksum=excluded.checksum,
	updated_at=excluded.updated_at;
`, lang, t.TotalTokens, t.Checksum, t.UpdatedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadFrequencyTable reads the persisted table for a language. Returns
// ok=false on a missing record; malformed rows surface as errors for the
// caller to treat as a miss.
func LoadFrequencyTable(ctx context.Context, db *sql.DB, lang unit.Language) (*FrequencyTable, bool, error) {
	t := NewFrequencyTable(lang)

	var updated string
	err := db.QueryRowContext(ctx, `
SELECT total_tokens, checksum, updated_at FROM freq_meta WHERE language=?`, string(lang)).
		Scan(&t.TotalTokens, &t.Checksum, &updated)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if parsed, perr := time.Parse(time.RFC3339, updated); perr == nil {
		t.UpdatedAt = parsed
	}

	rows, err := db.QueryContext(ctx, `SELECT feature, count FROM freq_counts WHERE language=?`, string(lang))
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var feature string
		var count int64
		if err := rows.Scan(&feature, &count); err != nil {
			return nil, false, err
		}
		t.Counts[feature] = count
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// SaveBigramTable replaces the persisted bigram table for its language.
func SaveBigramTable(ctx context.Context, db *sql.DB, t *BigramTable) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lang := string(t.Language)
	if _, err := tx.ExecContext(ctx, `DELETE FROM bigram_counts WHERE language=?`, lang); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bigram_counts (language, a, b, count, doc_freq) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for key, count := range t.Counts {
		if _, err := stmt.ExecContext(ctx, lang, key.A, key.B, count, t.DocFreq[key]); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO bigram_meta (language, total_docs, checksum, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(language) DO UPDATE SET
	total_docs=excluded.total_docs,
	checksum=excluded.checksum,
	updated_at=excluded.updated_at;
`, lang, t.TotalDocs, t.Checksum, t.UpdatedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadBigramTable reads the persisted bigram table for a language.
func LoadBigramTable(ctx context.Context, db *sql.DB, lang unit.Language) (*BigramTable, bool, error) {
	t := NewBigramTable(lang)

	var updated string
	err := db.QueryRowContext(ctx, `
SELECT total_docs, checksum, updated_at FROM bigram_meta WHERE language=?`, string(lang)).
		Scan(&t.TotalDocs, &t.Checksum, &updated)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if parsed, perr := time.Parse(time.RFC3339, updated); perr == nil {
		t.UpdatedAt = parsed
	}

	rows, err := db.QueryContext(ctx, `SELECT a, b, count, doc_freq FROM bigram_counts WHERE language=?`, string(lang))
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var key BigramKey
		var count, df int64
		if err := rows.Scan(&key.A, &key.B, &count, &df); err != nil {
			return nil, false, err
		}
		t.Counts[key] = count
		t.DocFreq[key] = df
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return t, true, nil
}
