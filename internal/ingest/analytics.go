package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"migaudit/internal/errkind"
	"migaudit/internal/model"
	"migaudit/pkg/logger"
)

var urlColumnNames = []string{"url", "page"}

var clicksColumnNames = []string{"clicks"}
var impressionsColumnNames = []string{"impressions"}
var ctrColumnNames = []string{"ctr"}
var positionColumnNames = []string{"position", "avg. position"}

// AnalyticsReader streams an analytics export CSV into AnalyticsEntry
// records. Column-name detection is case-insensitive and tolerant of
// the common Search-Console-style variants (spec §4.1).
type AnalyticsReader struct {
	files FileReader
	log   *logger.Logger
}

func NewAnalyticsReader(files FileReader) *AnalyticsReader {
	return &AnalyticsReader{
		files: files,
		log:   logger.GetLogger().WithField("component", "analytics_reader"),
	}
}

// Parse reads the analytics CSV at handle. Duplicate rows by raw URL
// string are suppressed; the first occurrence wins. Missing numeric
// fields default to 0.
func (r *AnalyticsReader) Parse(ctx context.Context, handle string) ([]model.AnalyticsEntry, error) {
	body, err := r.files.Open(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics export: %w", err)
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errkind.Tag(errkind.InputFormat, fmt.Errorf("failed to read analytics header: %w", err))
	}

	cols := indexColumns(header)
	urlIdx, ok := firstMatch(cols, urlColumnNames)
	if !ok {
		return nil, errkind.Tag(errkind.InputFormat, fmt.Errorf("analytics export missing a URL/Page column"))
	}
	clicksIdx, _ := firstMatch(cols, clicksColumnNames)
	impressionsIdx, _ := firstMatch(cols, impressionsColumnNames)
	ctrIdx, _ := firstMatch(cols, ctrColumnNames)
	positionIdx, _ := firstMatch(cols, positionColumnNames)

	seen := make(map[string]bool)
	var entries []model.AnalyticsEntry

	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		if urlIdx >= len(row) {
			continue
		}
		rawURL := strings.TrimSpace(row[urlIdx])
		if rawURL == "" || seen[rawURL] {
			continue
		}
		seen[rawURL] = true

		entries = append(entries, model.AnalyticsEntry{
			URL:         rawURL,
			Clicks:      intAt(row, clicksIdx),
			Impressions: intAt(row, impressionsIdx),
			CTR:         floatAt(row, ctrIdx),
			Position:    floatAt(row, positionIdx),
		})
	}

	r.log.WithField("count", len(entries)).Info("Parsed analytics export")
	return entries, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func firstMatch(cols map[string]int, candidates []string) (int, bool) {
	for _, c := range candidates {
		if idx, ok := cols[c]; ok {
			return idx, true
		}
	}
	return -1, false
}

func intAt(row []string, idx int) int {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(row[idx]))
	if err != nil {
		return 0
	}
	return v
}

func floatAt(row []string, idx int) float64 {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	s := strings.TrimSuffix(strings.TrimSpace(row[idx]), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
