package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

// File is the on-disk engine configuration.
type File struct {
	CorpusDir  string              `yaml:"corpus_dir"`
	Settings   Settings            `yaml:"settings"`
	Thresholds CompositeThresholds `yaml:"thresholds"`
	Boost      BoostWeights        `yaml:"boost"`
}

// Load reads a YAML config file, validates settings, and applies defaults
// to unset threshold and boost sections.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	f.Settings, err = f.Settings.Validate()
	if err != nil {
		return nil, err
	}
	if f.Thresholds == (CompositeThresholds{}) {
		f.Thresholds = DefaultCompositeThresholds()
	}
	if f.Boost == (BoostWeights{}) {
		f.Boost = DefaultBoostWeights()
	}
	return &f, nil
}

// Stoplist represents a per-language base stopword file.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads base stopwords from a YAML file, normalized for the
// given language.
func LoadStoplist(path string, lang unit.Language) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}
	return unit.NormalizeAll(sl.Terms, lang), nil
}

// SynonymDict maps a normalized lemma to its synonym lemmas.
type SynonymDict map[string][]string

// LoadSynonyms loads a synonym dictionary.
// Format: one group per line, headword and variants pipe-separated:
//
//	canonical|variant1|variant2
//
// Lines starting with '#' are comments. Every member of a group becomes a
// synonym of every other member.
func LoadSynonyms(path string, lang unit.Language) (SynonymDict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dict := make(SynonymDict)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		group := make([]string, 0, len(parts))
		for _, p := range parts {
			p = unit.Normalize(p, lang)
			if p != "" {
				group = append(group, p)
			}
		}
		for _, member := range group {
			for _, other := range group {
				if other != member {
					dict[member] = append(dict[member], other)
				}
			}
		}
	}
	return dict, nil
}

// Expand returns the lemma plus its synonyms, nil-safe.
func (d SynonymDict) Expand(lemma string) []string {
	if d == nil {
		return []string{lemma}
	}
	return append([]string{lemma}, d[lemma]...)
}
