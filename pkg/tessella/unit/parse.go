package unit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// The annotated corpus format is one unit per line:
//
//	ref<TAB>token/lemma[/pos] token/lemma[/pos] ...
//
// An empty lemma field keeps its slot ("token//pos" or a bare "token/").
// Lines starting with '#' are comments; "# author:" and "# title:" set text
// metadata.

// ParseText reads an annotated text from r. id is the caller-chosen text
// identifier, normally the file stem.
func ParseText(r io.Reader, id string) (Text, error) {
	text := Text{ID: id}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			applyHeader(&text, line)
			continue
		}

		ref, rest, ok := strings.Cut(line, "\t")
		if !ok {
			return Text{}, fmt.Errorf("parse %s line %d: missing ref field", id, lineNo)
		}

		u := TextUnit{Ref: strings.TrimSpace(ref)}
		hasPOS := false
		for _, ann := range strings.Fields(rest) {
			parts := strings.SplitN(ann, "/", 3)
			u.Tokens = append(u.Tokens, parts[0])
			if len(parts) > 1 {
				u.Lemmas = append(u.Lemmas, parts[1])
			} else {
				u.Lemmas = append(u.Lemmas, "")
			}
			if len(parts) > 2 {
				u.POSTags = append(u.POSTags, parts[2])
				hasPOS = true
			} else {
				u.POSTags = append(u.POSTags, "")
			}
		}
		if !hasPOS {
			u.POSTags = nil
		}
		if len(u.Tokens) == 0 {
			continue
		}
		text.Units = append(text.Units, u)
	}
	if err := scanner.Err(); err != nil {
		return Text{}, fmt.Errorf("parse %s: %w", id, err)
	}
	return text, nil
}

// LoadText reads an annotated text file. The text ID is the file name
// without its extension.
func LoadText(path string) (Text, error) {
	f, err := os.Open(path)
	if err != nil {
		return Text{}, err
	}
	defer f.Close()

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	return ParseText(f, id)
}

func applyHeader(t *Text, line string) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	key, val, ok := strings.Cut(body, ":")
	if !ok {
		return
	}
	val = strings.TrimSpace(val)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "author":
		t.Author = val
	case "title":
		t.Title = val
	}
}
