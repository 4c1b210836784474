package annotate

import (
	"errors"
	"sync"
	"testing"

	"github.com/chriscorrea/kpe/internal/document"
)

type stubAnnotator struct{ language string }

func (s stubAnnotator) Annotate(paragraphs ...string) (*document.Document, error) {
	return &document.Document{Language: s.language}, nil
}

func TestRegistryCaches(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}
	r := NewRegistry(func(language string) (Annotator, error) {
		mu.Lock()
		calls[language]++
		mu.Unlock()
		if language == "xx" {
			return nil, ErrUnsupportedLanguage
		}
		return stubAnnotator{language}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Get("en"); err != nil {
				t.Errorf("Get(en): %v", err)
			}
		}()
	}
	wg.Wait()

	if calls["en"] != 1 {
		t.Errorf("factory called %d times for en, want 1", calls["en"])
	}

	for i := 0; i < 2; i++ {
		if _, err := r.Get("xx"); !errors.Is(err, ErrUnsupportedLanguage) {
			t.Errorf("Get(xx) error = %v", err)
		}
	}
	if calls["xx"] != 2 {
		t.Errorf("failed build cached: %d calls, want 2", calls["xx"])
	}

	r.Reset()
	if _, err := r.Get("en"); err != nil {
		t.Fatalf("Get after Reset: %v", err)
	}
	if calls["en"] != 2 {
		t.Errorf("factory called %d times after Reset, want 2", calls["en"])
	}
}

func TestSupported(t *testing.T) {
	for _, lang := range []string{"en", "fr", "es", "ru", "sv", "no", "hu"} {
		if !Supported(lang) {
			t.Errorf("Supported(%q) = false", lang)
		}
	}
	if Supported("de") {
		t.Errorf("Supported(de) = true")
	}
}

func TestProseFactory(t *testing.T) {
	a, err := ProseFactory(nil)("en")
	if err != nil {
		t.Fatalf("ProseFactory: %v", err)
	}
	if p, ok := a.(*Prose); !ok || p.Language() != "en" {
		t.Errorf("ProseFactory built %T", a)
	}
}
