// corpus-index maintains the per-language corpus stores: it indexes new
// annotated texts into the inverted index and rebuilds the frequency and
// bigram tables. Indexing is incremental; already-indexed files are
// skipped.
//
// Usage:
//
//	corpus-index -corpus ./corpus -lang latin
//	corpus-index -corpus ./corpus -lang latin -lookup arma
//	corpus-index -corpus ./corpus -lang latin -cooccur arma,uir -min 2 -span 10
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"

	"github.com/intertext/tessella/pkg/tessella/corpus"
	"github.com/intertext/tessella/pkg/tessella/freq"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

func main() {
	var (
		corpusDir = flag.String("corpus", "", "Corpus root directory (required)")
		lang      = flag.String("lang", "latin", "Corpus language")
		lookup    = flag.String("lookup", "", "Print postings for one lemma instead of indexing")
		cooccur   = flag.String("cooccur", "", "Comma-separated lemmas for a co-occurrence query")
		minMatch  = flag.Int("min", 2, "Minimum distinct lemmas for -cooccur")
		maxSpan   = flag.Int("span", 0, "Maximum position span for -cooccur (0 = unbounded)")
		skipFreq  = flag.Bool("skip-freq", false, "Skip the frequency table rebuild")
	)
	flag.Parse()

	if *corpusDir == "" {
		log.Fatal("-corpus required")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	language := unit.Language(*lang)
	service := corpus.NewService(*corpusDir, logger)
	defer service.Close()

	switch {
	case *lookup != "":
		runLookup(ctx, service, language, *lookup)
	case *cooccur != "":
		runCoOccur(ctx, service, language, strings.Split(*cooccur, ","), *minMatch, *maxSpan)
	default:
		runIndex(ctx, service, language, *skipFreq, logger)
	}
}

func runIndex(ctx context.Context, service *corpus.Service, lang unit.Language, skipFreq bool, logger *zap.Logger) {
	if err := service.IndexAll(ctx, lang); err != nil {
		log.Fatal("index: ", err)
	}

	if !skipFreq {
		cache, err := freq.NewCache(service, service, 4, logger)
		if err != nil {
			log.Fatal("cache: ", err)
		}
		tables, err := cache.Rebuild(ctx, lang)
		if err != nil {
			log.Fatal("rebuild frequency tables: ", err)
		}
		fmt.Printf("frequency table: %d features, %d tokens\n", len(tables.Freq.Counts), tables.Freq.TotalTokens)
		fmt.Printf("bigram table: %d pairs over %d documents\n", len(tables.Bigram.DocFreq), tables.Bigram.TotalDocs)
	}

	ix, err := service.Index(ctx, lang)
	if err != nil {
		log.Fatal(err)
	}
	texts, err := ix.Texts(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("inverted index: %d texts\n", len(texts))
	for _, t := range texts {
		fmt.Printf("  %-30s %-20s %d lines\n", t.Filename, t.Title, t.LineCount)
	}
}

func runLookup(ctx context.Context, service *corpus.Service, lang unit.Language, lemma string) {
	ix, err := service.Index(ctx, lang)
	if err != nil {
		log.Fatal(err)
	}
	postings, err := ix.Lookup(ctx, lemma)
	if err != nil {
		log.Fatal("lookup: ", err)
	}
	for _, p := range postings {
		fmt.Printf("%-30s %-10s positions %v\n", p.Filename, p.Ref, p.Positions)
	}
	fmt.Printf("%d postings for %q\n", len(postings), lemma)
}

func runCoOccur(ctx context.Context, service *corpus.Service, lang unit.Language, lemmas []string, minMatch, maxSpan int) {
	for i := range lemmas {
		lemmas[i] = strings.TrimSpace(lemmas[i])
	}
	ix, err := service.Index(ctx, lang)
	if err != nil {
		log.Fatal(err)
	}
	locs, err := ix.CoOccurrences(ctx, lemmas, minMatch, maxSpan)
	if err != nil {
		log.Fatal("cooccur: ", err)
	}
	for _, l := range locs {
		fmt.Printf("%-30s %-10s %v span %d\n", l.Filename, l.Ref, l.Lemmas, l.Span)
	}
	fmt.Printf("%d locations\n", len(locs))
}
