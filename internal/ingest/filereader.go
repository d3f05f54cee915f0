// Package ingest implements C1, the input readers: sitemap XML,
// analytics CSV, and redirect-map CSV parsing into normalized records.
// File access goes through the FileReader interface so the pipeline
// core never touches a concrete filesystem or HTTP client directly —
// per the spec, the upload-staging area is an external collaborator.
package ingest

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// FileReader opens an uploaded input by its stored handle, which may be
// a local filesystem path or an http(s) URL (sitemap indices commonly
// reference further sitemaps by URL).
type FileReader interface {
	Open(ctx context.Context, handle string) (io.ReadCloser, error)
}

// LocalFileReader reads local paths and, for convenience during local
// development and testing, also fetches http(s) URLs directly. This
// mirrors the teacher's xml_parser.go, which accepts "a local path or
// a URL" for sitemap locations.
type LocalFileReader struct {
	httpClient *http.Client
}

// NewLocalFileReader builds a FileReader with a bounded-timeout HTTP
// client for URL handles, matching the teacher's 30s sitemap-fetch
// timeout (pkg/parser/xml_parser.go).
func NewLocalFileReader() *LocalFileReader {
	return &LocalFileReader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *LocalFileReader) Open(ctx context.Context, handle string) (io.ReadCloser, error) {
	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, handle, nil)
		if err != nil {
			return nil, err
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &HTTPStatusError{URL: handle, StatusCode: resp.StatusCode}
		}
		return resp.Body, nil
	}

	return os.Open(handle)
}

// HTTPStatusError reports a non-200 response while fetching a remote
// input handle.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return "unexpected status fetching " + e.URL
}
