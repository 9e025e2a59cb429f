// Package datasource fetches the exported dataset files from a directory,
// a web server or a blob store, and loads them once into a dataset.Store.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/updatelens/updatelens/pkg/config"
)

// ErrNotFound is returned by a Source when the named file does not exist.
var ErrNotFound = errors.New("dataset file not found")

// Source abstracts where the dataset files are read from.
type Source interface {
	// Fetch returns the contents of the named file, e.g. "state_summary.json".
	Fetch(ctx context.Context, name string) ([]byte, error)
	// String describes the source for logs.
	String() string
}

// NewSource selects a Source by the scheme of cfg.Source: s3://bucket/prefix,
// gs://bucket/prefix, http(s)://host/path, file:///dir or a plain path.
func NewSource(ctx context.Context, cfg config.DataConfig) (Source, error) {
	raw := cfg.Source
	if raw == "" {
		return nil, fmt.Errorf("data source not configured")
	}
	if !strings.Contains(raw, "://") {
		return NewLocalSource(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse data source %q: %w", raw, err)
	}
	prefix := strings.Trim(u.Path, "/")
	switch u.Scheme {
	case "file":
		return NewLocalSource(u.Path), nil
	case "http", "https":
		return NewHTTPSource(raw, nil), nil
	case "s3":
		return NewS3Source(ctx, S3Config{
			Bucket:    u.Host,
			Prefix:    prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	case "gs":
		return NewGCSSource(ctx, u.Host, prefix)
	}
	return nil, fmt.Errorf("unsupported data source scheme %q", u.Scheme)
}

// objectKey joins a blob prefix and a file name.
func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// LocalSource reads dataset files from a directory.
type LocalSource struct {
	Dir string
}

// NewLocalSource creates a LocalSource rooted at the given directory.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{Dir: dir}
}

func (s *LocalSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

func (s *LocalSource) String() string { return s.Dir }

// HTTPSource fetches dataset files with plain GET requests under a base URL,
// the way the static dashboard serves its /data/ directory.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client uses http.DefaultClient;
// requests are bounded only by the caller's context.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/"+name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("http get %s: status %d", name, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *HTTPSource) String() string { return s.BaseURL }
