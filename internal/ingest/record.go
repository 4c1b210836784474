// Package ingest reads corpus records: XML documents with abstract,
// description, and claims fields, stored loose in a folder or inside
// gzip-compressed tar archives.
package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrNoContent is returned for a record without any known text field.
var ErrNoContent = errors.New("record has no text fields")

// Field tags understood by ParseRecord.
const (
	TagAbstract    = "abstract"
	TagDescription = "description"
	TagClaims      = "claims"
)

// DefaultTags are the fields read from every record, in order.
var DefaultTags = []string{TagAbstract, TagDescription, TagClaims}

// DefaultLanguage is assumed for fields without a lang attribute.
const DefaultLanguage = "en"

// Field is the text of one record field.
type Field struct {
	Language string
	// Text holds the stripped, non-empty text nodes of the field in document order.
	Text []string
}

// Record is one parsed corpus document.
type Record struct {
	Name   string
	Fields map[string]Field
}

// Field returns the named field and whether the record has it.
func (r *Record) Field(tag string) (Field, bool) {
	f, ok := r.Fields[tag]
	return f, ok
}

// Language returns the abstract language, falling back to the description
// language, or "" when the record has neither.
func (r *Record) Language() string {
	if f, ok := r.Fields[TagAbstract]; ok {
		return f.Language
	}
	if f, ok := r.Fields[TagDescription]; ok {
		return f.Language
	}
	return ""
}

// ParseRecord reads an XML record. Only direct children of the root element
// are fields; the first child of each known tag is kept. CDATA sections count
// as text. ErrNoContent is returned when no known field is present.
func ParseRecord(r io.Reader, name string) (*Record, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	rec := &Record{Name: name, Fields: make(map[string]Field)}
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse record %q: %w", name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth != 2 || !slices.Contains(DefaultTags, t.Name.Local) {
				continue
			}
			text, err := fieldText(dec)
			if err != nil {
				return nil, fmt.Errorf("failed to parse record %q: %w", name, err)
			}
			depth--
			if _, seen := rec.Fields[t.Name.Local]; seen {
				continue
			}
			rec.Fields[t.Name.Local] = Field{Language: fieldLanguage(t), Text: text}
		case xml.EndElement:
			depth--
		}
	}

	if len(rec.Fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, name)
	}
	return rec, nil
}

func fieldLanguage(start xml.StartElement) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == "lang" {
			if lang := strings.TrimSpace(attr.Value); lang != "" {
				return lang
			}
		}
	}
	return DefaultLanguage
}

// fieldText consumes the element just opened and returns its stripped,
// non-empty text runs in document order. Adjacent character data and CDATA
// form one run; element boundaries end a run.
func fieldText(dec *xml.Decoder) ([]string, error) {
	var pieces []string
	var run strings.Builder
	flush := func() {
		if text := strings.TrimSpace(run.String()); text != "" {
			pieces = append(pieces, text)
		}
		run.Reset()
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			run.Write(t)
		case xml.StartElement:
			flush()
			depth++
		case xml.EndElement:
			flush()
			depth--
		}
	}
	return pieces, nil
}
