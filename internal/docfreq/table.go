// Package docfreq accumulates and persists corpus document frequencies.
//
// A Table counts, for every normalized term, how many documents contain it
// at least once, together with the total number of documents. Tables keep
// insertion order so that persisted files are reproducible.
//
// The persisted format is a plain text table: the first line is the document
// count, followed by one "term<TAB>count" line per term in insertion order.
//
// Usage Example:
//
//	acc := docfreq.NewAccumulator()
//	for _, doc := range docs {
//		acc.Process(doc)
//	}
//	err := docfreq.WriteFile("docfreq_en.tsv", acc.Table())
package docfreq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedTable is returned when a persisted table cannot be parsed.
var ErrMalformedTable = errors.New("malformed document frequency table")

// ErrInvalidTerm is returned when writing a term the text format cannot hold.
var ErrInvalidTerm = errors.New("term contains a tab or line break")

// Table maps normalized terms to document frequencies.
// Terms must not contain tabs or line breaks; WriteTo rejects them.
type Table struct {
	TotalDocuments int            // number of documents counted
	DocFrequencies map[string]int // documents containing each term
	order          []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{DocFrequencies: make(map[string]int)}
}

// Freq returns the document frequency of term, 0 when absent.
func (t *Table) Freq(term string) int {
	return t.DocFrequencies[term]
}

// Len returns the number of distinct terms.
func (t *Table) Len() int {
	return len(t.order)
}

// Terms returns the terms in insertion order.
func (t *Table) Terms() []string {
	return append([]string(nil), t.order...)
}

// Add increments the frequency of term by delta.
func (t *Table) Add(term string, delta int) {
	if _, ok := t.DocFrequencies[term]; !ok {
		t.order = append(t.order, term)
	}
	t.DocFrequencies[term] += delta
}

// Set assigns the frequency of term.
func (t *Table) Set(term string, df int) {
	if _, ok := t.DocFrequencies[term]; !ok {
		t.order = append(t.order, term)
	}
	t.DocFrequencies[term] = df
}

// Merge adds the counts and document total of other into t.
// New terms from other are appended in other's order.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for _, term := range other.order {
		t.Add(term, other.DocFrequencies[term])
	}
	t.TotalDocuments += other.TotalDocuments
}

// Equal reports whether both tables hold the same count and the same term frequencies.
func (t *Table) Equal(other *Table) bool {
	if t.TotalDocuments != other.TotalDocuments || len(t.DocFrequencies) != len(other.DocFrequencies) {
		return false
	}
	for term, df := range t.DocFrequencies {
		if odf, ok := other.DocFrequencies[term]; !ok || odf != df {
			return false
		}
	}
	return true
}

// WriteTo writes the table in the persisted format. Nothing is written when
// a term contains a tab or line break.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	for _, term := range t.order {
		if strings.ContainsAny(term, "\t\n\r") {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTerm, term)
		}
	}

	bw := bufio.NewWriter(w)
	var written int64

	n, err := fmt.Fprintf(bw, "%d\n", t.TotalDocuments)
	written += int64(n)
	if err != nil {
		return written, err
	}
	for _, term := range t.order {
		n, err = fmt.Fprintf(bw, "%s\t%d\n", term, t.DocFrequencies[term])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// ReadTable parses a table in the persisted format.
func ReadTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read document count: %w", err)
		}
		return nil, fmt.Errorf("%w: missing document count", ErrMalformedTable)
	}
	total, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || total < 0 {
		return nil, fmt.Errorf("%w: invalid document count %q", ErrMalformedTable, scanner.Text())
	}

	table := NewTable()
	table.TotalDocuments = total

	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		term, count, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("%w: line %d has no tab separator", ErrMalformedTable, line)
		}
		df, err := strconv.Atoi(strings.TrimRight(count, "\r"))
		if err != nil || df < 0 {
			return nil, fmt.Errorf("%w: line %d has invalid count %q", ErrMalformedTable, line, count)
		}
		table.Set(term, df)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", line+1, err)
	}

	slog.Debug("Read document frequency table", "documents", table.TotalDocuments, "terms", table.Len())
	return table, nil
}

// ReadFile reads a persisted table from path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %q: %w", path, err)
	}
	defer f.Close()

	table, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table %q: %w", path, err)
	}
	return table, nil
}

// WriteFile writes t to path, replacing any existing file. A failed write
// removes the file.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table %q: %w", path, err)
	}
	if _, err := t.WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write table %q: %w", path, err)
	}
	return f.Close()
}
