package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/chriscorrea/kpe/internal/source"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Test Article</title>
    <script>var tracking = "ignore me";</script>
</head>
<body>
    <header>
        <h1>Site Header</h1>
        <nav>Navigation</nav>
    </header>
    <main>
        <article>
            <h1>Main Article Title</h1>
            <p>This is the main content of the article. It contains important information about keyphrase extraction.</p>
            <p>This is a second paragraph with <strong>bold text</strong> and <em>italic text</em>, describing graph ranking methods.</p>
            <ul>
                <li>First list item</li>
                <li>Second list item</li>
            </ul>
        </article>
    </main>
    <aside>
        <p>This is sidebar content that should be filtered out.</p>
    </aside>
    <footer>
        <p>Footer content</p>
    </footer>
</body>
</html>`

func TestClassify(t *testing.T) {
	tests := []struct {
		source string
		want   source.Kind
	}{
		{"-", source.KindStdin},
		{"http://example.com", source.KindURL},
		{"https://example.com/page", source.KindURL},
		{"/path/to/file.txt", source.KindFile},
		{"file.txt", source.KindFile},
		{"httpfile.txt", source.KindFile},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := source.Classify(tt.source); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("content over http"))
	}))
	defer server.Close()

	dir := t.TempDir()
	file := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(file, []byte("content from file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name        string
		source      string
		expectError bool
		expectData  string
		expectType  string
	}{
		{name: "http success", source: server.URL + "/doc", expectData: "content over http", expectType: "text/plain"},
		{name: "http error status", source: server.URL + "/missing", expectError: true},
		{name: "local file", source: file, expectData: "content from file"},
		{name: "missing file", source: filepath.Join(dir, "nope.txt"), expectError: true},
		{name: "directory", source: dir, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, contentType, err := source.Open(context.Background(), tt.source)
			if tt.expectError {
				if err == nil {
					rc.Close()
					t.Fatalf("Open(%q) expected error", tt.source)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q) error = %v", tt.source, err)
			}
			defer rc.Close()

			var sb strings.Builder
			buf := make([]byte, 64)
			for {
				n, err := rc.Read(buf)
				sb.Write(buf[:n])
				if err != nil {
					break
				}
			}
			if sb.String() != tt.expectData {
				t.Errorf("data = %q, want %q", sb.String(), tt.expectData)
			}
			if contentType != tt.expectType {
				t.Errorf("content type = %q, want %q", contentType, tt.expectType)
			}
		})
	}

	if gotAgent != source.UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotAgent, source.UserAgent)
	}
}

func TestPlainParagraphs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "single line", text: "one line", want: []string{"one line"}},
		{name: "wrapped lines join", text: "first\nsecond\r\n\nthird", want: []string{"first second", "third"}},
		{name: "extra blank lines", text: "\n\n  a  \n\n\n b \n", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := source.PlainParagraphs(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlainParagraphs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLParagraphs(t *testing.T) {
	tests := []struct {
		name        string
		opts        source.Options
		expectError bool
		contains    []string
		notContains []string
	}{
		{
			name:        "main content",
			contains:    []string{"main content of the article", "bold text and italic text", "First list item"},
			notContains: []string{"Site Header", "Navigation", "sidebar content", "Footer content"},
		},
		{
			name:        "selector",
			opts:        source.Options{Selector: "aside"},
			contains:    []string{"sidebar content"},
			notContains: []string{"main content"},
		},
		{
			name:        "selector without matches",
			opts:        source.Options{Selector: ".missing"},
			expectError: true,
		},
		{
			name:        "include all",
			opts:        source.Options{IncludeAll: true},
			contains:    []string{"Site Header", "main content", "Footer content"},
			notContains: []string{"tracking"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := source.HTMLParagraphs(strings.NewReader(articleHTML), tt.opts, nil)
			if tt.expectError {
				if err == nil {
					t.Fatalf("HTMLParagraphs() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("HTMLParagraphs() error = %v", err)
			}

			joined := strings.Join(got, "\n")
			for _, want := range tt.contains {
				if !strings.Contains(joined, want) {
					t.Errorf("result should contain %q:\n%s", want, joined)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(joined, unwanted) {
					t.Errorf("result should not contain %q:\n%s", unwanted, joined)
				}
			}
		})
	}
}

func TestParagraphsDetectsHTML(t *testing.T) {
	dir := t.TempDir()
	htmlFile := filepath.Join(dir, "page.html")
	textFile := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(htmlFile, []byte(articleHTML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(textFile, []byte("<b>not markup</b>\n\nsecond"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := source.Paragraphs(context.Background(), htmlFile, source.Options{Selector: "li"})
	if err != nil {
		t.Fatalf("Paragraphs(html) error = %v", err)
	}
	if want := []string{"First list item", "Second list item"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs(html) = %q, want %q", got, want)
	}

	got, err = source.Paragraphs(context.Background(), textFile, source.Options{})
	if err != nil {
		t.Fatalf("Paragraphs(text) error = %v", err)
	}
	if want := []string{"<b>not markup</b>", "second"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs(text) = %q, want %q", got, want)
	}
}
