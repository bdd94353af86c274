package freq

import (
	"regexp"
	"strings"

	"github.com/intertext/tessella/pkg/tessella/unit"
)

// Segmented corpora ship a text both whole ("aeneid") and in parts
// ("aeneid.part.1", "aeneid.part.2"). Counting both double-weights the
// text, so part files are dropped whenever their whole-text counterpart is
// present in the same set.

var segmentPattern = regexp.MustCompile(`(?i)[._ -]part[._ -]?\d+$`)

// SegmentParent returns the whole-text ID a segmented text ID belongs to,
// and whether the ID is a segment at all.
func SegmentParent(id string) (string, bool) {
	loc := segmentPattern.FindStringIndex(id)
	if loc == nil {
		return "", false
	}
	parent := strings.TrimRight(id[:loc[0]], "._ -")
	if parent == "" {
		return "", false
	}
	return parent, true
}

// DedupeSegments filters out segmented texts whose whole-text counterpart
// is also present. Segments without a counterpart are kept so partial
// corpora still count.
func DedupeSegments(texts []unit.Text) []unit.Text {
	whole := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		if _, seg := SegmentParent(t.ID); !seg {
			whole[t.ID] = struct{}{}
		}
	}

	out := make([]unit.Text, 0, len(texts))
	for _, t := range texts {
		if parent, seg := SegmentParent(t.ID); seg {
			if _, ok := whole[parent]; ok {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
