// Package tessella is the intertextual parallel engine facade: it wires
// stoplist construction, candidate matching, frequency-driven scoring, and
// multi-signal correlation behind two entry points, Search and Correlate.
package tessella

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/intertext/tessella/pkg/tessella/composite"
	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/corpus"
	"github.com/intertext/tessella/pkg/tessella/freq"
	"github.com/intertext/tessella/pkg/tessella/internalerr"
	"github.com/intertext/tessella/pkg/tessella/match"
	"github.com/intertext/tessella/pkg/tessella/score"
	"github.com/intertext/tessella/pkg/tessella/stoplist"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

// Engine is the constructed-once search engine. Safe for concurrent use;
// all request state lives on the stack of each call.
type Engine struct {
	corpus     *corpus.Service
	cache      *freq.Cache
	synonyms   config.SynonymDict
	embedder   match.Embedder
	thresholds config.CompositeThresholds
	boosts     config.BoostWeights
	meter      score.ExternalScorer
	syntax     score.ExternalScorer
	stopwords  []string
	log        *zap.Logger
}

// Options configures an Engine. Corpus and Cache may be nil for purely
// request-local operation; corpus-backed settings then fail validation at
// search time. Zero-valued Thresholds and Boosts fall back to the
// calibrated defaults.
type Options struct {
	Corpus   *corpus.Service
	Cache    *freq.Cache
	Synonyms config.SynonymDict

	// Embedder enables the semantic basis.
	Embedder match.Embedder

	Thresholds config.CompositeThresholds
	Boosts     config.BoostWeights

	// Meter and Syntax are optional external signal providers consumed by
	// the feature boost.
	Meter  score.ExternalScorer
	Syntax score.ExternalScorer

	// Stopwords overrides the built-in per-language base list.
	Stopwords []string

	Logger *zap.Logger
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Thresholds == (config.CompositeThresholds{}) {
		opts.Thresholds = config.DefaultCompositeThresholds()
	}
	if opts.Boosts == (config.BoostWeights{}) {
		opts.Boosts = config.DefaultBoostWeights()
	}
	return &Engine{
		corpus:     opts.Corpus,
		cache:      opts.Cache,
		synonyms:   opts.Synonyms,
		embedder:   opts.Embedder,
		thresholds: opts.Thresholds,
		boosts:     opts.Boosts,
		meter:      opts.Meter,
		syntax:     opts.Syntax,
		stopwords:  opts.Stopwords,
		log:        log,
	}
}

// Close releases the corpus handles, if the engine owns any.
func (e *Engine) Close() error {
	if e.corpus == nil {
		return nil
	}
	return e.corpus.Close()
}

// SearchRequest is one source/target comparison.
type SearchRequest struct {
	Settings config.Settings
	Source   []unit.TextUnit
	Target   []unit.TextUnit
}

// Search runs the full pipeline for one request: validate, build the
// stoplist, generate candidates under the configured match basis, score,
// and return results ordered by overall score descending, truncated to
// max_results.
func (e *Engine) Search(ctx context.Context, req SearchRequest) ([]score.Result, error) {
	settings, err := req.Settings.Validate()
	if err != nil {
		return nil, err
	}

	reqID := ulid.Make().String()
	start := time.Now()
	log := e.log.With(zap.String("request_id", reqID))
	log.Debug("search started",
		zap.String("match_type", string(settings.MatchType)),
		zap.Int("source_units", len(req.Source)),
		zap.Int("target_units", len(req.Target)))

	tables, err := e.corpusTables(ctx, settings)
	if err != nil {
		return nil, err
	}

	exact := settings.MatchType == config.BasisExact
	var corpusFreq *freq.FrequencyTable
	if tables != nil {
		corpusFreq = tables.Freq
	}
	sl := stoplist.NewBuilder(settings.Language, e.stopwords, exact).
		Build(settings, req.Source, req.Target, corpusFreq)

	matcher, err := match.For(settings.MatchType)
	if err != nil {
		return nil, err
	}
	cands, err := matcher(ctx, match.Request{
		Settings: settings,
		Source:   req.Source,
		Target:   req.Target,
		Stoplist: sl,
		Synonyms: e.synonyms,
		Embedder: e.embedder,
	})
	if err != nil {
		return nil, err
	}

	table := e.scoringTable(settings, tables, req)
	var bigrams *freq.BigramTable
	if tables != nil {
		bigrams = tables.Bigram
	}
	scorer := score.NewScorer(settings, table,
		bigrams, score.NewFeatureScorer(e.boosts, e.meter, e.syntax, log), log)

	results := make([]score.Result, 0, len(cands))
	for _, c := range cands {
		results = append(results, scorer.Score(c, req.Source[c.SourceIdx], req.Target[c.TargetIdx]))
	}
	results = score.Sort(results, settings.MaxResults)

	log.Info("search finished",
		zap.String("match_type", string(settings.MatchType)),
		zap.Int("candidates", len(cands)),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}

// corpusTables fetches the corpus frequency tables when any enabled
// setting depends on them.
func (e *Engine) corpusTables(ctx context.Context, s config.Settings) (*freq.Tables, error) {
	needed := s.FrequencyBasis == config.FreqCorpus ||
		s.StoplistBasis == config.StoplistCorpus ||
		s.BigramBoost
	if !needed {
		return nil, nil
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: corpus-backed settings require a corpus cache", internalerr.ErrInvalidConfig)
	}
	return e.cache.Tables(ctx, s.Language)
}

// scoringTable picks the IDF source: the corpus-wide table, or a table
// built from just the two texts under comparison.
func (e *Engine) scoringTable(s config.Settings, tables *freq.Tables, req SearchRequest) *freq.FrequencyTable {
	if s.FrequencyBasis == config.FreqCorpus && tables != nil {
		return tables.Freq
	}
	exact := s.MatchType == config.BasisExact
	return freq.BuildFrequencyTable(s.Language, []unit.Text{
		{ID: "source", Units: req.Source},
		{ID: "target", Units: req.Target},
	}, exact)
}

// CompositeRequest runs several independent signals over the same text
// pair and merges them.
type CompositeRequest struct {
	// Settings supplies everything except the match basis, which is set
	// per signal.
	Settings config.Settings
	Source   []unit.TextUnit
	Target   []unit.TextUnit

	// Signals selects which bases to run. Empty means lemma, sound, and
	// edit distance, plus semantic when an embedder is configured.
	Signals []config.MatchBasis
}

// Correlate runs each requested signal as its own search and merges the
// scored sets into tiered composite matches. Any signal failure aborts the
// request; the caller re-scopes and retries.
func (e *Engine) Correlate(ctx context.Context, req CompositeRequest) ([]composite.Match, error) {
	signals := req.Signals
	if len(signals) == 0 {
		signals = []config.MatchBasis{config.BasisLemma, config.BasisSound, config.BasisEditDistance}
		if e.embedder != nil {
			signals = append(signals, config.BasisSemantic)
		}
	}

	var in composite.Input
	for _, basis := range signals {
		settings := req.Settings
		settings.MatchType = basis
		results, err := e.Search(ctx, SearchRequest{Settings: settings, Source: req.Source, Target: req.Target})
		if err != nil {
			return nil, fmt.Errorf("signal %s: %w", basis, err)
		}
		switch basis {
		case config.BasisLemma, config.BasisExact, config.BasisSynonym:
			in.Lemma = append(in.Lemma, results...)
		case config.BasisSemantic:
			in.Semantic = append(in.Semantic, results...)
		case config.BasisSound:
			in.Sound = append(in.Sound, results...)
		case config.BasisEditDistance:
			in.EditDistance = append(in.EditDistance, results...)
		}
	}

	return composite.NewCorrelator(e.thresholds, e.log).Correlate(in), nil
}
