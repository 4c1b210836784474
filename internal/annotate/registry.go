package annotate

import (
	"log/slog"
	"sync"
)

// Factory builds an annotator for a language.
type Factory func(language string) (Annotator, error)

// ProseFactory returns a Factory building Prose annotators with extra stopwords.
func ProseFactory(extraStopwords []string) Factory {
	return func(language string) (Annotator, error) {
		return NewProse(language, extraStopwords)
	}
}

// Registry lazily builds and caches one annotator per language.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	factory    Factory
	annotators map[string]Annotator
}

// NewRegistry returns a registry that builds annotators with factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory:    factory,
		annotators: make(map[string]Annotator),
	}
}

// Get returns the cached annotator for language, building it on first use.
// Failed builds are not cached.
func (r *Registry) Get(language string) (Annotator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.annotators[language]; ok {
		return a, nil
	}

	a, err := r.factory(language)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded annotator", "language", language)
	r.annotators[language] = a
	return a, nil
}

// Reset drops every cached annotator.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.annotators = make(map[string]Annotator)
}

// Supported reports whether a built-in annotator exists for language.
func Supported(language string) bool {
	_, ok := snowballLanguages[language]
	return ok
}
