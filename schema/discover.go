package schema

import (
	"encoding/csv"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/spektr-org/turnover/table"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic Column Classification
// ============================================================================
// Inspects raw rows and generates a schema.Config.
//
// Classification pipeline per column:
//   1. Collect non-missing values → unique count, samples
//   2. Detect kind: numeric iff every non-missing value parses as a number
//   3. Kind + cardinality → role hint (identifier, dimension, measure)
// ============================================================================

// missingTokens are cell values treated as absent.
var missingTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true,
	"null": true, "NULL": true,
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	return missingTokens[strings.TrimSpace(cell)]
}

// IsNumber reports whether a raw cell parses as a finite or infinite float.
func IsNumber(cell string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	return err == nil
}

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	Name       string // dataset name (defaults to "dataset")
	Source     string // where the data came from, recorded as DiscoveredFrom
	MaxSamples int    // sample values kept per column (default 10)
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		Name:       "dataset",
		Source:     "CSV",
		MaxSamples: 10,
	}
}

// Discover classifies every column of an already split dataset.
// Rows shorter than the header count their trailing cells as missing.
func Discover(header []string, rows [][]string, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
		if opt.MaxSamples <= 0 {
			opt.MaxSamples = 10
		}
	}
	if len(header) == 0 {
		return nil, errors.New("dataset has no columns")
	}

	cfg := &Config{
		Name:           opt.Name,
		Rows:           len(rows),
		DiscoveredFrom: opt.Source,
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}
	if cfg.Name == "" {
		cfg.Name = "dataset"
	}

	for i, h := range header {
		col := analyzeColumn(h, i, rows, opt.MaxSamples)
		cfg.Columns = append(cfg.Columns, col.meta())
	}
	return cfg, nil
}

// DiscoverFromCSV splits comma-separated bytes and classifies the columns.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV")
	}
	if len(records) == 0 {
		return nil, errors.New("CSV has no header")
	}
	return Discover(records[0], records[1:], opts...)
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnAnalysis struct {
	header string
	kind   table.Kind
	role   Role

	uniqueCount  int
	nonMissing   int
	missingCount int
	hasDecimals  bool
	sampleVals   []string
}

func analyzeColumn(header string, index int, rows [][]string, maxSamples int) columnAnalysis {
	col := columnAnalysis{header: header}

	uniqueSet := make(map[string]bool)
	numeric := true

	for _, row := range rows {
		if index >= len(row) || IsMissing(row[index]) {
			col.missingCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		col.nonMissing++
		uniqueSet[val] = true

		if numeric && !IsNumber(val) {
			numeric = false
		}
		if strings.ContainsAny(val, ".eE") {
			col.hasDecimals = true
		}
	}

	col.uniqueCount = len(uniqueSet)
	col.sampleVals = collectSamples(uniqueSet, maxSamples)

	if col.nonMissing == 0 {
		col.kind = table.Categorical
		col.role = RoleEmpty
		return col
	}

	if numeric {
		col.kind = table.Numeric
	} else {
		col.kind = table.Categorical
	}
	col.classifyRole()
	return col
}

// classifyRole picks identifier vs dimension vs measure.
func (col *columnAnalysis) classifyRole() {
	n := col.nonMissing
	uniquePerRow := col.uniqueCount == n && n > 10

	switch col.kind {
	case table.Numeric:
		if uniquePerRow && !col.hasDecimals {
			col.role = RoleIdentifier
			return
		}
		if col.hasDecimals {
			col.role = RoleMeasure
			return
		}
		// Few distinct integers relative to rows: a coded level (e.g. education 1-5).
		// The ratio guard keeps small datasets from looking coded.
		ratio := float64(col.uniqueCount) / float64(n)
		if col.uniqueCount < 20 && ratio < 0.3 {
			col.role = RoleDimension
			return
		}
		col.role = RoleMeasure

	default:
		if uniquePerRow {
			col.role = RoleIdentifier
			return
		}
		col.role = RoleDimension
	}
}

func (col *columnAnalysis) meta() ColumnMeta {
	m := ColumnMeta{
		Name:         col.header,
		Key:          toSnakeCase(col.header),
		DisplayName:  toDisplayName(col.header),
		Kind:         col.kind,
		Role:         col.role,
		UniqueCount:  col.uniqueCount,
		MissingCount: col.missingCount,
		SampleValues: col.sampleVals,
	}
	switch {
	case col.uniqueCount == 0:
	case col.uniqueCount <= 10:
		m.CardinalityHint = "low"
	case col.uniqueCount <= 100:
		m.CardinalityHint = "medium"
	default:
		m.CardinalityHint = "high"
	}
	return m
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(s[:i])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "job_satisfaction" → "Job Satisfaction", "BusinessTravel" → "Business Travel"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	words := strings.Fields(strings.ReplaceAll(toSnakeCase(s), "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values in sorted order.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
