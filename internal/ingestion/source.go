package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Source delivers the raw delimited series text. The fetch is one-shot
// with no retry policy: a failing primary source fails ingestion.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)

	// Name returns the source identifier for logging.
	Name() string
}

// HTTPSource fetches the series over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTP series source.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSource) Name() string { return "http:" + s.URL }

// Fetch downloads the series body. Non-2xx responses are errors; the
// body is still read so the status message can carry a snippet.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read series body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("series source: status %d, body: %s", resp.StatusCode, snippet(body))
	}
	return body, nil
}

// FileSource reads the series from a local file.
type FileSource struct {
	Path string
}

// NewFileSource creates a file series source.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read series file: %w", err)
	}
	return data, nil
}

// snippet truncates a body for error messages.
func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
