// tessella-search compares two annotated texts and prints the ranked
// parallels, either per match basis or as composite multi-signal verdicts.
//
// Usage:
//
//	tessella-search -source aeneid.tess -target punica.tess -lang latin
//	tessella-search -config engine.yaml -source a.tess -target b.tess -composite
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/intertext/tessella/internal/embed"
	"github.com/intertext/tessella/pkg/tessella"
	"github.com/intertext/tessella/pkg/tessella/config"
	"github.com/intertext/tessella/pkg/tessella/corpus"
	"github.com/intertext/tessella/pkg/tessella/freq"
	"github.com/intertext/tessella/pkg/tessella/internalerr"
	"github.com/intertext/tessella/pkg/tessella/match"
	"github.com/intertext/tessella/pkg/tessella/semantic"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

func main() {
	var (
		configPath = flag.String("config", "", "Engine config YAML (optional)")
		sourcePath = flag.String("source", "", "Annotated source text (required)")
		targetPath = flag.String("target", "", "Annotated target text (required)")
		lang       = flag.String("lang", "latin", "Corpus language")
		matchType  = flag.String("match", "", "Match basis: lemma, exact, sound, edit_distance, semantic, synonym")
		synPath    = flag.String("synonyms", "", "Synonym dictionary file (pipe format)")
		composite  = flag.Bool("composite", false, "Run multi-signal correlation instead of a single basis")
		embedURL   = flag.String("embed-url", "", "OpenAI-compatible embeddings endpoint for the semantic basis")
		embedModel = flag.String("embed-model", "", "Embeddings model name")
		asJSON     = flag.Bool("json", false, "Emit JSON instead of a table")
		verbose    = flag.Bool("v", false, "Verbose engine logging")
	)
	flag.Parse()

	if *sourcePath == "" {
		log.Fatal("-source required")
	}
	if *targetPath == "" {
		log.Fatal("-target required")
	}

	settings := config.Defaults(unit.Language(*lang))
	var (
		service *corpus.Service
		cache   *freq.Cache
	)
	if *configPath != "" {
		f, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("load config: ", err)
		}
		settings = f.Settings
		settings.Language = unit.Language(*lang)
		if f.CorpusDir != "" {
			service = corpus.NewService(f.CorpusDir, logger(*verbose))
			cache, err = freq.NewCache(service, service, 4, logger(*verbose))
			if err != nil {
				log.Fatal("corpus cache: ", err)
			}
		}
	}
	if *matchType != "" {
		settings.MatchType = config.MatchBasis(*matchType)
	}

	var synonyms config.SynonymDict
	if *synPath != "" {
		var err error
		synonyms, err = config.LoadSynonyms(*synPath, settings.Language)
		if err != nil {
			log.Fatal("load synonyms: ", err)
		}
	}

	source, err := unit.LoadText(*sourcePath)
	if err != nil {
		log.Fatal("load source: ", err)
	}
	target, err := unit.LoadText(*targetPath)
	if err != nil {
		log.Fatal("load target: ", err)
	}

	var embedder match.Embedder
	if *embedURL != "" {
		if *embedModel == "" {
			log.Fatal("-embed-model required with -embed-url")
		}
		embedder = &embed.Client{
			BaseURL: *embedURL,
			Model:   *embedModel,
			APIKey:  os.Getenv("TESSELLA_API_KEY"),
		}
	} else if settings.MatchType == config.BasisSemantic || *composite {
		// Deterministic fallback so the semantic basis works offline.
		embedder = semantic.NewHashEmbedder(0)
	}

	engine := tessella.New(tessella.Options{
		Corpus:   service,
		Cache:    cache,
		Synonyms: synonyms,
		Embedder: embedder,
		Logger:   logger(*verbose),
	})
	defer engine.Close()

	ctx := context.Background()
	if *composite {
		runComposite(ctx, engine, settings, source, target, *asJSON)
		return
	}
	runSearch(ctx, engine, settings, source, target, *asJSON)
}

func runSearch(ctx context.Context, engine *tessella.Engine, settings config.Settings, source, target unit.Text, asJSON bool) {
	results, err := engine.Search(ctx, tessella.SearchRequest{
		Settings: settings,
		Source:   source.Units,
		Target:   target.Units,
	})
	if err != nil {
		if limit, ok := internalerr.IsComparisonLimit(err); ok {
			log.Fatalf("comparison ceiling exceeded (%d > %d): narrow the texts and retry", limit.Actual, limit.Max)
		}
		log.Fatal("search: ", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Printf("%-10s %-10s %-7s %s\n", "SOURCE", "TARGET", "SCORE", "MATCHED")
	for _, r := range results {
		words := make([]string, 0, len(r.MatchedWords))
		for w := range r.MatchedWords {
			words = append(words, w)
		}
		fmt.Printf("%-10s %-10s %-7.3f %s\n", r.SourceRef, r.TargetRef, r.OverallScore, strings.Join(words, " "))
	}
	fmt.Printf("\n%d parallels (%s → %s, basis %s)\n", len(results), source.Title, target.Title, settings.MatchType)
}

func runComposite(ctx context.Context, engine *tessella.Engine, settings config.Settings, source, target unit.Text, asJSON bool) {
	matches, err := engine.Correlate(ctx, tessella.CompositeRequest{
		Settings: settings,
		Source:   source.Units,
		Target:   target.Units,
	})
	if err != nil {
		log.Fatal("correlate: ", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(matches); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Printf("%-8s %-10s %-10s %-9s %s\n", "TIER", "SOURCE", "TARGET", "COMPOSITE", "SIGNALS")
	for _, m := range matches {
		fmt.Printf("%-8s %-10s %-10s %-9.3f %d\n", strings.ToUpper(string(m.Tier)), m.SourceRef, m.TargetRef, m.CompositeScore, m.Signals())
	}
}

func logger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	return l
}
