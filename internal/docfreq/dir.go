package docfreq

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	filePrefix = "docfreq_"
	fileSuffix = ".tsv"
)

// FileName returns the model file name for a language, e.g. docfreq_en.tsv.
func FileName(language string) string {
	return filePrefix + language + fileSuffix
}

// Path returns the model file path for a language inside dir.
func Path(dir, language string) string {
	return filepath.Join(dir, FileName(language))
}

// Languages lists the languages with a model file in dir, in directory order.
func Languages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list model directory %q: %w", dir, err)
	}

	var languages []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		lang := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if lang != "" {
			languages = append(languages, lang)
		}
	}
	return languages, nil
}

// WriteDir writes one model file per language into dir, creating it if needed.
func WriteDir(dir string, tables map[string]*Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory %q: %w", dir, err)
	}
	for lang, table := range tables {
		if err := WriteFile(Path(dir, lang), table); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir reads every model file in dir, keyed by language.
func LoadDir(dir string) (map[string]*Table, error) {
	languages, err := Languages(dir)
	if err != nil {
		return nil, err
	}
	tables := make(map[string]*Table, len(languages))
	for _, lang := range languages {
		table, err := ReadFile(Path(dir, lang))
		if err != nil {
			return nil, err
		}
		tables[lang] = table
	}
	return tables, nil
}
