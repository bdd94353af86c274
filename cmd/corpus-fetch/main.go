// corpus-fetch downloads a public-domain text from a URL and converts it
// into the annotated corpus format. Without a real lemmatizer the lemma
// column is filled with the lowercased surface form; replace the file with
// properly lemmatized output when one is available.
//
// Usage:
//
//	corpus-fetch -url https://example.org/aeneid.html -out corpus/latin/aeneid.tess \
//	    -author Vergil -title Aeneid
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

func main() {
	var (
		url    = flag.String("url", "", "Source URL (required)")
		out    = flag.String("out", "", "Output corpus file (required)")
		author = flag.String("author", "", "Text author header")
		title  = flag.String("title", "", "Text title header")
		book   = flag.Int("book", 1, "Book number used in line references")
	)
	flag.Parse()

	if *url == "" {
		log.Fatal("-url required")
	}
	if *out == "" {
		log.Fatal("-out required")
	}

	body, err := fetch(*url)
	if err != nil {
		log.Fatal("fetch: ", err)
	}

	text := body
	if strings.Contains(http.DetectContentType([]byte(body)), "html") || strings.Contains(body, "<html") {
		text = stripHTML(body)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if *author != "" {
		fmt.Fprintf(w, "# author: %s\n", *author)
	}
	if *title != "" {
		fmt.Fprintf(w, "# title: %s\n", *title)
	}

	lineNo := 0
	for _, line := range strings.Split(text, "\n") {
		tokens := tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		lineNo++
		fmt.Fprintf(w, "%d.%d\t", *book, lineNo)
		for i, tok := range tokens {
			if i > 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "%s/%s", tok, strings.ToLower(tok))
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}

	log.Printf("wrote %d lines to %s", lineNo, *out)
}

func fetch(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// tokenize splits a line into word tokens, dropping punctuation and
// numerals.
func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
