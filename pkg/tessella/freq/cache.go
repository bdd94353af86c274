package freq

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

// Tables bundles the unigram and bigram tables for one language.
type Tables struct {
	Freq   *FrequencyTable
	Bigram *BigramTable
}

// Source supplies the corpus state a cache rebuild needs.
type Source interface {
	// Checksum fingerprints the current corpus file set for a language.
	Checksum(lang unit.Language) (string, error)

	// Texts loads every annotated text of a language's corpus.
	Texts(lang unit.Language) ([]unit.Text, error)
}

// DBProvider hands out the per-language database handle the tables persist
// into.
type DBProvider interface {
	DB(ctx context.Context, lang unit.Language) (*sql.DB, error)
}

// Cache is the read-mostly frequency cache: an LRU of in-memory tables per
// language backed by the persisted SQLite records. Staleness is detected by
// corpus checksum; a mismatch or a malformed record silently triggers a
// full recompute.
type Cache struct {
	source Source
	dbs    DBProvider
	log    *zap.Logger

	mu  sync.Mutex
	hot *lru.Cache[unit.Language, *Tables]
}

// NewCache builds a cache holding up to size languages hot. log may be nil.
func NewCache(source Source, dbs DBProvider, size int, log *zap.Logger) (*Cache, error) {
	if size <= 0 {
		size = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	hot, err := lru.New[unit.Language, *Tables](size)
	if err != nil {
		return nil, err
	}
	return &Cache{source: source, dbs: dbs, log: log, hot: hot}, nil
}

// Tables returns the current tables for a language, rebuilding from the
// corpus when the persisted record is missing, malformed, or stale.
func (c *Cache) Tables(ctx context.Context, lang unit.Language) (*Tables, error) {
	sum, err := c.source.Checksum(lang)
	if err != nil {
		return nil, err
	}

	if t, ok := c.hot.Get(lang); ok && t.Freq.Checksum == sum {
		return t, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under the lock: another caller may have just rebuilt.
	if t, ok := c.hot.Get(lang); ok && t.Freq.Checksum == sum {
		return t, nil
	}

	db, err := c.dbs.DB(ctx, lang)
	if err != nil {
		return nil, err
	}

	if t := c.loadPersisted(ctx, db, lang, sum); t != nil {
		c.hot.Add(lang, t)
		return t, nil
	}

	t, err := c.rebuild(ctx, db, lang, sum)
	if err != nil {
		return nil, err
	}
	c.hot.Add(lang, t)
	return t, nil
}

// Invalidate drops the hot entry for a language.
func (c *Cache) Invalidate(lang unit.Language) {
	c.hot.Remove(lang)
}

// Rebuild forces a recompute and re-persist for a language.
func (c *Cache) Rebuild(ctx context.Context, lang unit.Language) (*Tables, error) {
	sum, err := c.source.Checksum(lang)
	if err != nil {
		return nil, err
	}
	db, err := c.dbs.DB(ctx, lang)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.rebuild(ctx, db, lang, sum)
	if err != nil {
		return nil, err
	}
	c.hot.Add(lang, t)
	return t, nil
}

// loadPersisted returns the stored tables when present and current.
// Any load failure is a cache miss, never an error.
func (c *Cache) loadPersisted(ctx context.Context, db *sql.DB, lang unit.Language, sum string) *Tables {
	ft, ok, err := LoadFrequencyTable(ctx, db, lang)
	if err != nil || !ok {
		if err != nil {
			c.log.Warn("frequency table load failed, recomputing",
				zap.String("language", string(lang)), zap.Error(err))
		}
		return nil
	}
	bt, ok, err := LoadBigramTable(ctx, db, lang)
	if err != nil || !ok {
		if err != nil {
			c.log.Warn("bigram table load failed, recomputing",
				zap.String("language", string(lang)), zap.Error(err))
		}
		return nil
	}
	if ft.Checksum != sum || bt.Checksum != sum {
		c.log.Info("frequency cache stale",
			zap.String("language", string(lang)),
			zap.String("stored", ft.Checksum),
			zap.String("current", sum))
		return nil
	}
	return &Tables{Freq: ft, Bigram: bt}
}

func (c *Cache) rebuild(ctx context.Context, db *sql.DB, lang unit.Language, sum string) (*Tables, error) {
	texts, err := c.source.Texts(lang)
	if err != nil {
		return nil, err
	}

	ft := BuildFrequencyTable(lang, texts, false)
	ft.Checksum = sum
	bt := BuildBigramTable(lang, texts)
	bt.Checksum = sum

	if err := SaveFrequencyTable(ctx, db, ft); err != nil {
		c.log.Warn("frequency table save failed", zap.String("language", string(lang)), zap.Error(err))
	}
	if err := SaveBigramTable(ctx, db, bt); err != nil {
		c.log.Warn("bigram table save failed", zap.String("language", string(lang)), zap.Error(err))
	}

	c.log.Info("frequency tables rebuilt",
		zap.String("language", string(lang)),
		zap.Int("features", len(ft.Counts)),
		zap.Int64("total_tokens", ft.TotalTokens),
		zap.Int64("units", bt.TotalDocs))

	return &Tables{Freq: ft, Bigram: bt}, nil
}
