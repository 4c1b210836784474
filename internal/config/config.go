// Package config loads extraction settings from a YAML file, a .env file, and
// KPE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chriscorrea/kpe/internal/document"
	"github.com/chriscorrea/kpe/internal/ingest"
	"github.com/chriscorrea/kpe/internal/textrank"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Extraction methods.
const (
	MethodTFIDF    = "tfidf"
	MethodTextRank = "textrank"
)

// TextRank holds graph scorer settings.
type TextRank struct {
	POS    []string `yaml:"pos"`
	Window int      `yaml:"window"`
	Top    string   `yaml:"top"`
}

// Config holds every setting shared by the kpe commands.
type Config struct {
	Language          string   `yaml:"language"`
	Normalization     string   `yaml:"normalization"`
	N                 int      `yaml:"n"`
	K                 int      `yaml:"k"`
	Stopwords         bool     `yaml:"stopwords"`
	Stoplist          []string `yaml:"stoplist"`
	RedundancyRemoval bool     `yaml:"redundancy_removal"`
	Method            string   `yaml:"method"`
	TextRank          TextRank `yaml:"textrank"`
	Tags              []string `yaml:"tags"`
	Languages         []string `yaml:"languages"`
	Workers           int      `yaml:"workers"`
	Truncate          int      `yaml:"truncate"`
	LogLevel          string   `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Language:      "en",
		Normalization: document.Stemming.String(),
		N:             3,
		K:             30,
		Method:        MethodTFIDF,
		TextRank: TextRank{
			POS:    append([]string(nil), textrank.DefaultTags...),
			Window: 2,
			Top:    "0.33",
		},
		Tags:     append([]string(nil), ingest.DefaultTags...),
		Workers:  defaultWorkers(),
		Truncate: 100,
		LogLevel: "warn",
	}
}

// Load builds a Config from defaults, the YAML file at path, and the
// environment. An empty path falls back to KPE_CONFIG; no file is read when
// both are empty. The result is not validated.
func Load(path string) (*Config, error) {
	return LoadOver(Default(), path)
}

// LoadOver is Load with base in place of the built-in defaults. base is modified.
func LoadOver(base *Config, path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := base
	if path == "" {
		path = os.Getenv("KPE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("KPE_LOG_LEVEL", c.LogLevel)
	c.Language = getEnv("KPE_LANGUAGE", c.Language)
	c.Method = getEnv("KPE_METHOD", c.Method)
	c.Workers = getEnvInt("KPE_WORKERS", c.Workers)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.N < 1 {
		return fmt.Errorf("%w: n must be at least 1, got %d", ErrInvalidConfig, c.N)
	}
	if c.K < 0 {
		return fmt.Errorf("%w: k must not be negative, got %d", ErrInvalidConfig, c.K)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Truncate < 0 {
		return fmt.Errorf("%w: truncate must not be negative, got %d", ErrInvalidConfig, c.Truncate)
	}
	if _, err := document.ParseNormalization(c.Normalization); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Method {
	case MethodTFIDF, MethodTextRank:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, c.Method)
	}
	if c.TextRank.Window < 2 {
		return fmt.Errorf("%w: textrank window must be at least 2, got %d", ErrInvalidConfig, c.TextRank.Window)
	}
	if _, err := textrank.ParseTop(c.TextRank.Top); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(c.Tags) == 0 {
		return fmt.Errorf("%w: at least one tag is required", ErrInvalidConfig)
	}
	for _, tag := range c.Tags {
		if !slices.Contains(ingest.DefaultTags, tag) {
			return fmt.Errorf("%w: unknown tag %q, want one of %v", ErrInvalidConfig, tag, ingest.DefaultTags)
		}
	}
	return nil
}

// NormalizationMode returns the parsed normalization, stemming when invalid.
func (c *Config) NormalizationMode() document.Normalization {
	n, err := document.ParseNormalization(c.Normalization)
	if err != nil {
		return document.Stemming
	}
	return n
}

// TextRankTop returns the parsed vertex limit, keeping every vertex when invalid.
func (c *Config) TextRankTop() textrank.Top {
	top, err := textrank.ParseTop(c.TextRank.Top)
	if err != nil {
		return textrank.Top{}
	}
	return top
}

// AllowsLanguage reports whether documents in language should be processed.
func (c *Config) AllowsLanguage(language string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	for _, l := range c.Languages {
		if strings.EqualFold(l, language) {
			return true
		}
	}
	return false
}

// HasTag reports whether tag is one of the configured fields.
func (c *Config) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EffectiveWorkers returns Workers, or the default when Workers is 0.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return defaultWorkers()
}

func defaultWorkers() int {
	return min(max(runtime.NumCPU(), 1), 8)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
