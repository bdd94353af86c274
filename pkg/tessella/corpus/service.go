// Package corpus owns the on-disk reference corpus: per-language text
// directories, the SQLite stores derived from them, and the lifecycle of
// every open handle.
//
// The service replaces ad-hoc global state: it is constructed once, passed
// by reference into the components that need corpus data, and closed when
// the process is done. Layout under the corpus root:
//
//	<root>/<language>/          annotated text files
//	<root>/<language>.db        frequency tables + inverted index
package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/intertext/tessella/pkg/tessella/freq"
	"github.com/intertext/tessella/pkg/tessella/index"
	"github.com/intertext/tessella/pkg/tessella/internalerr"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

// Service is the constructed-once owner of all per-language corpus state.
// Safe for concurrent use.
type Service struct {
	root string
	log  *zap.Logger

	mu      sync.Mutex
	dbs     map[unit.Language]*sql.DB
	indexes map[unit.Language]*index.Index
	closed  bool
}

// NewService creates a service over a corpus root directory. log may be
// nil.
func NewService(root string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		root:    root,
		log:     log,
		dbs:     make(map[unit.Language]*sql.DB),
		indexes: make(map[unit.Language]*index.Index),
	}
}

// Root returns the corpus root directory.
func (s *Service) Root() string {
	return s.root
}

func (s *Service) textDir(lang unit.Language) string {
	return filepath.Join(s.root, string(lang))
}

func (s *Service) dbPath(lang unit.Language) string {
	return filepath.Join(s.root, string(lang)+".db")
}

// Checksum fingerprints the current corpus file set for a language. A
// missing language directory yields the empty-corpus checksum rather than
// an error, so caches over an absent corpus stay well-defined.
func (s *Service) Checksum(lang unit.Language) (string, error) {
	dir := s.textDir(lang)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", nil
	}
	return freq.DirChecksum(dir)
}

// Texts loads every annotated text of a language's corpus, in filename
// order. A file that fails to parse is skipped with a warning; one corrupt
// text must not take down everything built on the rest.
func (s *Service) Texts(lang unit.Language) ([]unit.Text, error) {
	dir := s.textDir(lang)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	texts := make([]unit.Text, 0, len(names))
	for _, name := range names {
		t, err := unit.LoadText(filepath.Join(dir, name))
		if err != nil {
			s.log.Warn("skipping unparsable corpus text",
				zap.String("language", string(lang)),
				zap.String("file", name),
				zap.Error(err))
			continue
		}
		texts = append(texts, t)
	}
	return texts, nil
}

// DB returns the lazily opened per-language database, creating the
// frequency schema on first open.
func (s *Service) DB(ctx context.Context, lang unit.Language) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, internalerr.ErrClosed
	}
	if db, ok := s.dbs[lang]; ok {
		return db, nil
	}

	db, err := sql.Open("sqlite", s.dbPath(lang))
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := freq.InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	s.dbs[lang] = db
	return db, nil
}

// Index returns the lazily opened inverted index for a language. The index
// shares the language's database file.
func (s *Service) Index(ctx context.Context, lang unit.Language) (*index.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, internalerr.ErrClosed
	}
	if ix, ok := s.indexes[lang]; ok {
		return ix, nil
	}

	ix, err := index.Open(ctx, s.dbPath(lang), lang, s.log)
	if err != nil {
		return nil, err
	}
	s.indexes[lang] = ix
	return ix, nil
}

// IndexAll submits every corpus text of a language to the inverted index.
// Indexing is idempotent per file, so this is safe to run after each
// corpus addition and only pays for the new texts.
func (s *Service) IndexAll(ctx context.Context, lang unit.Language) error {
	ix, err := s.Index(ctx, lang)
	if err != nil {
		return err
	}

	dir := s.textDir(lang)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		done, err := ix.Indexed(ctx, name)
		if err != nil {
			return err
		}
		if done {
			continue
		}
		t, err := unit.LoadText(filepath.Join(dir, name))
		if err != nil {
			s.log.Warn("skipping unparsable corpus text",
				zap.String("language", string(lang)),
				zap.String("file", name),
				zap.Error(err))
			continue
		}
		if err := ix.IndexText(ctx, name, t); err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}
	}
	return nil
}

// Close releases every open handle. The service is unusable afterwards.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for lang, ix := range s.indexes {
		if err := ix.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.indexes, lang)
	}
	for lang, db := range s.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.dbs, lang)
	}
	return firstErr
}
