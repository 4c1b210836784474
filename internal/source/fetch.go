// Package source retrieves text to run keyphrase extraction on;
// handles stdin, local files, and HTTP URLs, and reduces HTML to paragraphs of plain text.
package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// size limits to prevent memory overload
const (
	MaxFileSizeBytes = 50 * 1024 * 1024  // 50MB limit for files and stdin
	MaxHTTPSizeBytes = 100 * 1024 * 1024 // 100MB limit for HTTP content (may not have Content-Length)
)

// HTTPRequestTimeout bounds a whole HTTP fetch.
const HTTPRequestTimeout = 30 * time.Second

// phase timeouts derived from HTTPRequestTimeout
var (
	HTTPDialTimeout           = HTTPRequestTimeout / 6
	HTTPTLSTimeout            = HTTPRequestTimeout / 6
	HTTPResponseHeaderTimeout = HTTPRequestTimeout / 2
)

// UserAgent is sent with every HTTP request.
const UserAgent = "kpe/0.1"

// limitedReadCloser fails reads once N bytes have been consumed
type limitedReadCloser struct {
	io.ReadCloser
	N      int64
	source string
}

func (l *limitedReadCloser) Read(p []byte) (int, error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[:l.N]
	}
	n, err := l.ReadCloser.Read(p)
	l.N -= int64(n)
	return n, err
}

// httpClient is shared across goroutines.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: HTTPDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   HTTPTLSTimeout,
		ResponseHeaderTimeout: HTTPResponseHeaderTimeout,
		DisableKeepAlives:     true,
	},
}

// Kind classifies a source string.
type Kind int

const (
	KindFile Kind = iota
	KindStdin
	KindURL
)

// Classify reports how Open will treat source.
func Classify(source string) Kind {
	switch {
	case source == "-":
		return KindStdin
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return KindURL
	default:
		return KindFile
	}
}

// Open returns a size-limited reader for source:
//   - "-" reads from standard input
//   - http:// and https:// URLs are fetched with GET
//   - anything else is a local file path
//
// The second return value is the response Content-Type for URLs, empty otherwise.
func Open(ctx context.Context, source string) (io.ReadCloser, string, error) {
	switch Classify(source) {
	case KindStdin:
		return &limitedReadCloser{ReadCloser: os.Stdin, N: MaxFileSizeBytes, source: "stdin"}, "", nil
	case KindURL:
		return openURL(ctx, source)
	default:
		rc, err := openFile(source)
		return rc, "", err
	}
}

func openURL(ctx context.Context, url string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("HTTP request failed for URL %q: status %s", url, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, "", fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, MaxHTTPSizeBytes)
		}
	}

	return &limitedReadCloser{ReadCloser: resp.Body, N: MaxHTTPSizeBytes, source: url}, resp.Header.Get("Content-Type"), nil
}

func openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	if info.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)", path, info.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	return file, nil
}
