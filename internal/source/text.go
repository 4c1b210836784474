package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// blockSelector matches the elements whose text becomes one paragraph each.
const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, blockquote, td, dd, dt, figcaption"

// Options control how HTML is reduced to text.
type Options struct {
	// Selector restricts extraction to matching elements, skipping readability.
	Selector string
	// IncludeAll skips readability and keeps the whole body.
	IncludeAll bool
}

// Paragraphs reads source and returns its text split into paragraphs.
// HTML is detected from the Content-Type, the file extension, or a leading tag.
func Paragraphs(ctx context.Context, src string, opts Options) ([]string, error) {
	rc, contentType, err := Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", src, err)
	}

	if !isHTML(src, contentType, data) {
		return PlainParagraphs(string(data)), nil
	}

	var base *url.URL
	if Classify(src) == KindURL {
		base, _ = url.Parse(src)
	}
	return HTMLParagraphs(bytes.NewReader(data), opts, base)
}

func isHTML(src, contentType string, data []byte) bool {
	if strings.Contains(contentType, "html") {
		return true
	}
	switch strings.ToLower(filepath.Ext(src)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// PlainParagraphs splits text on blank lines and joins wrapped lines.
func PlainParagraphs(text string) []string {
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}

// HTMLParagraphs extracts paragraphs from an HTML page; by default only the
// main content found by readability is kept, minus boilerplate paragraphs.
func HTMLParagraphs(r io.Reader, opts Options, base *url.URL) ([]string, error) {
	switch {
	case opts.Selector != "":
		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		selection := doc.Find(opts.Selector)
		if selection.Length() == 0 {
			return nil, fmt.Errorf("no elements found matching selector: %s", opts.Selector)
		}
		return blocks(selection), nil

	case opts.IncludeAll:
		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		doc.Find("script, style, noscript").Remove()
		return blocks(doc.Find("body")), nil

	default:
		if base == nil {
			base = &url.URL{}
		}
		article, err := readability.FromReader(r, base)
		if err != nil {
			return nil, fmt.Errorf("failed to extract main content: %w", err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse article: %w", err)
		}
		paragraphs := blocks(doc.Selection)
		if len(paragraphs) == 0 {
			paragraphs = PlainParagraphs(article.TextContent)
		}
		return DropBoilerplate(paragraphs), nil
	}
}

// blocks collects the text of block elements under selection; a selection
// without block descendants contributes its own text.
func blocks(selection *goquery.Selection) []string {
	var paragraphs []string
	selection.Each(func(_ int, s *goquery.Selection) {
		found := s.Find(blockSelector).FilterFunction(func(_ int, b *goquery.Selection) bool {
			// nested blocks are reached through their innermost element
			return b.Find(blockSelector).Length() == 0
		})
		if found.Length() == 0 {
			if text := collapse(s.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
			return
		}
		found.Each(func(_ int, b *goquery.Selection) {
			if text := collapse(b.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
	})
	return paragraphs
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
