package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"

	"migaudit/pkg/logger"
)

// URLListReader is the heuristic CSV URL extractor (spec §4.1), used
// when an input is a plain list rather than an analytics- or
// redirect-shaped export: per row, the first cell that parses as an
// absolute http(s) URL is taken and the rest of the row is ignored.
type URLListReader struct {
	files FileReader
	log   *logger.Logger
}

func NewURLListReader(files FileReader) *URLListReader {
	return &URLListReader{
		files: files,
		log:   logger.GetLogger().WithField("component", "urllist_reader"),
	}
}

func (r *URLListReader) Parse(ctx context.Context, handle string) ([]string, error) {
	body, err := r.files.Open(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1

	var urls []string
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		for _, cell := range row {
			if u := firstAbsoluteHTTPURL(cell); u != "" {
				urls = append(urls, u)
				break
			}
		}
	}

	r.log.WithField("count", len(urls)).Info("Extracted URLs from plain list")
	return urls, nil
}

func firstAbsoluteHTTPURL(cell string) string {
	trimmed := strings.TrimSpace(cell)
	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return trimmed
}
