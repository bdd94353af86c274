// Package config defines the engine's typed settings and their defaults.
//
// Settings are validated once at the boundary; the engine itself never
// re-checks or defaults individual fields.
package config

import (
	"fmt"

	"github.com/intertext/tessella/pkg/tessella/internalerr"
	"github.com/intertext/tessella/pkg/tessella/unit"
)

// MatchBasis is the closed set of candidate-generation strategies.
type MatchBasis string

const (
	BasisLemma        MatchBasis = "lemma"
	BasisExact        MatchBasis = "exact"
	BasisSound        MatchBasis = "sound"
	BasisEditDistance MatchBasis = "edit_distance"
	BasisSemantic     MatchBasis = "semantic"
	BasisSynonym      MatchBasis = "synonym"
)

// StoplistBasis selects which units feed the automatic stoplist.
type StoplistBasis string

const (
	StoplistSource       StoplistBasis = "source"
	StoplistTarget       StoplistBasis = "target"
	StoplistSourceTarget StoplistBasis = "source_target"
	StoplistCorpus       StoplistBasis = "corpus"
)

// FrequencyBasis selects where IDF frequencies come from.
type FrequencyBasis string

const (
	FreqCorpus FrequencyBasis = "corpus"
	FreqTexts  FrequencyBasis = "texts"
)

// Settings is the immutable per-request configuration.
type Settings struct {
	MatchType   MatchBasis    `yaml:"match_type"`
	Language    unit.Language `yaml:"language"`
	MinMatches  int           `yaml:"min_matches"`
	MaxDistance int           `yaml:"max_distance"`
	MaxResults  int           `yaml:"max_results"`

	StoplistBasis   StoplistBasis `yaml:"stoplist_basis"`
	StoplistSize    int           `yaml:"stoplist_size"` // 0 automatic, -1 disabled
	CustomStopwords []string      `yaml:"custom_stopwords"`

	FrequencyBasis FrequencyBasis `yaml:"frequency_basis"`

	// Auxiliary signal gates and weights.
	UsePOS          bool    `yaml:"use_pos"`
	UseEditDistance bool    `yaml:"use_edit_distance"`
	UseSound        bool    `yaml:"use_sound"`
	UseMeter        bool    `yaml:"use_meter"`
	UseSyntax       bool    `yaml:"use_syntax"`
	BigramBoost     bool    `yaml:"bigram_boost"`
	BigramWeight    float64 `yaml:"bigram_weight"`
	BigramWindow    int     `yaml:"bigram_window"`

	// Sound-basis bounds.
	SoundFloor float64 `yaml:"sound_floor"`
	SoundTopN  int     `yaml:"sound_top_n"`

	// Edit-distance basis.
	FuzzyRatio     float64 `yaml:"fuzzy_ratio"`
	MaxComparisons int64   `yaml:"max_comparisons"`

	// Semantic basis.
	SemanticFloor float64 `yaml:"semantic_floor"`
}

// Defaults returns the documented default settings for a language.
func Defaults(lang unit.Language) Settings {
	return Settings{
		MatchType:      BasisLemma,
		Language:       lang,
		MinMatches:     2,
		MaxDistance:    999,
		MaxResults:     500,
		StoplistBasis:  StoplistSourceTarget,
		StoplistSize:   0,
		FrequencyBasis: FreqTexts,
		BigramWeight:   0.5,
		BigramWindow:   2,
		SoundFloor:     0.3,
		SoundTopN:      10,
		FuzzyRatio:     0.7,
		MaxComparisons: 5_000_000,
		SemanticFloor:  0.5,
	}
}

// Validate checks a Settings value and fills zero fields with defaults.
// It is the single place where option values are inspected.
func (s Settings) Validate() (Settings, error) {
	switch s.MatchType {
	case BasisLemma, BasisExact, BasisSound, BasisEditDistance, BasisSemantic, BasisSynonym:
	case "":
		s.MatchType = BasisLemma
	default:
		return s, fmt.Errorf("%w: unknown match_type %q", internalerr.ErrInvalidConfig, s.MatchType)
	}

	switch s.StoplistBasis {
	case StoplistSource, StoplistTarget, StoplistSourceTarget, StoplistCorpus:
	case "":
		s.StoplistBasis = StoplistSourceTarget
	default:
		return s, fmt.Errorf("%w: unknown stoplist_basis %q", internalerr.ErrInvalidConfig, s.StoplistBasis)
	}

	switch s.FrequencyBasis {
	case FreqCorpus, FreqTexts:
	case "":
		s.FrequencyBasis = FreqTexts
	default:
		return s, fmt.Errorf("%w: unknown frequency_basis %q", internalerr.ErrInvalidConfig, s.FrequencyBasis)
	}

	if s.Language == "" {
		return s, fmt.Errorf("%w: language is required", internalerr.ErrInvalidConfig)
	}
	if s.StoplistSize < -1 {
		return s, fmt.Errorf("%w: stoplist_size %d", internalerr.ErrInvalidConfig, s.StoplistSize)
	}

	def := Defaults(s.Language)
	if s.MinMatches <= 0 {
		s.MinMatches = def.MinMatches
	}
	if s.MaxDistance <= 0 {
		s.MaxDistance = def.MaxDistance
	}
	if s.MaxResults <= 0 {
		s.MaxResults = def.MaxResults
	}
	if s.BigramWeight <= 0 {
		s.BigramWeight = def.BigramWeight
	}
	if s.BigramWindow <= 0 {
		s.BigramWindow = def.BigramWindow
	}
	if s.SoundFloor <= 0 {
		s.SoundFloor = def.SoundFloor
	}
	if s.SoundTopN <= 0 {
		s.SoundTopN = def.SoundTopN
	}
	if s.FuzzyRatio <= 0 || s.FuzzyRatio > 1 {
		s.FuzzyRatio = def.FuzzyRatio
	}
	if s.MaxComparisons <= 0 {
		s.MaxComparisons = def.MaxComparisons
	}
	if s.SemanticFloor <= 0 || s.SemanticFloor > 1 {
		s.SemanticFloor = def.SemanticFloor
	}
	return s, nil
}

// CompositeThresholds gates each signal before correlation.
type CompositeThresholds struct {
	LemmaScore      float64 `yaml:"lemma_score"`
	LemmaMinMatches int     `yaml:"lemma_min_matches"`
	Semantic        float64 `yaml:"semantic"`
	Sound           float64 `yaml:"sound"`
	EditDistance    float64 `yaml:"edit_distance"`
}

// DefaultCompositeThresholds returns the calibrated defaults.
func DefaultCompositeThresholds() CompositeThresholds {
	return CompositeThresholds{
		LemmaScore:      7.0,
		LemmaMinMatches: 2,
		Semantic:        0.7,
		Sound:           0.6,
		EditDistance:    0.5,
	}
}

// BoostWeights control how much each auxiliary signal contributes to the
// multiplicative feature boost, and the floor each must clear to contribute.
type BoostWeights struct {
	POS         float64 `yaml:"pos"`
	POSMin      float64 `yaml:"pos_min"`
	EditDist    float64 `yaml:"edit_distance"`
	EditDistMin float64 `yaml:"edit_distance_min"`
	Sound       float64 `yaml:"sound"`
	SoundMin    float64 `yaml:"sound_min"`
	Meter       float64 `yaml:"meter"`
	MeterMin    float64 `yaml:"meter_min"`
	Syntax      float64 `yaml:"syntax"`
	SyntaxMin   float64 `yaml:"syntax_min"`
}

// DefaultBoostWeights returns the stock boost weighting.
func DefaultBoostWeights() BoostWeights {
	return BoostWeights{
		POS:         0.2,
		POSMin:      0.5,
		EditDist:    0.15,
		EditDistMin: 0.5,
		Sound:       0.15,
		SoundMin:    0.4,
		Meter:       0.25,
		MeterMin:    0.5,
		Syntax:      0.25,
		SyntaxMin:   0.5,
	}
}
