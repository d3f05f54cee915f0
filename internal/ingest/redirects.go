package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"migaudit/internal/errkind"
	"migaudit/internal/model"
	"migaudit/pkg/logger"
)

var oldURLColumnNames = []string{"oldurl", "old url", "old_url", "from"}
var newURLColumnNames = []string{"newurl", "new url", "new_url", "to"}

// RedirectReader parses a redirect-map CSV into a model.RedirectMap.
type RedirectReader struct {
	files FileReader
	log   *logger.Logger
}

func NewRedirectReader(files FileReader) *RedirectReader {
	return &RedirectReader{
		files: files,
		log:   logger.GetLogger().WithField("component", "redirect_reader"),
	}
}

// Parse reads the redirect-map CSV at handle. On duplicate source URL,
// the last row wins. Whitespace around both columns is trimmed.
func (r *RedirectReader) Parse(ctx context.Context, handle string) (model.RedirectMap, error) {
	body, err := r.files.Open(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to open redirect map: %w", err)
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errkind.Tag(errkind.InputFormat, fmt.Errorf("failed to read redirect map header: %w", err))
	}

	cols := indexColumns(header)
	oldIdx, ok1 := firstMatch(cols, oldURLColumnNames)
	newIdx, ok2 := firstMatch(cols, newURLColumnNames)
	if !ok1 || !ok2 {
		return nil, errkind.Tag(errkind.InputFormat, fmt.Errorf("redirect map missing old/new URL columns"))
	}

	out := make(model.RedirectMap)
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		if oldIdx >= len(row) || newIdx >= len(row) {
			continue
		}
		oldURL := strings.TrimSpace(row[oldIdx])
		newURL := strings.TrimSpace(row[newIdx])
		if oldURL == "" || newURL == "" {
			continue
		}
		out[oldURL] = newURL
	}

	r.log.WithField("count", len(out)).Info("Parsed redirect map")
	return out, nil
}
