package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/turnover/schema"
	"github.com/spektr-org/turnover/table"
)

// ============================================================================
// LOADER — Delimited text (URL or path) → table.Table
// ============================================================================
// One attempt per location; no retries. Any failure surfaces immediately:
//   *SourceUnavailableError — location cannot be opened or read
//   *FormatError            — no header row, ragged rows, bad quoting
//
// Column kinds come from schema.Discover over the full set of rows.
// ============================================================================

// Option configures a Loader via the functional options pattern.
type Option func(*config)

type config struct {
	comma   rune
	client  *http.Client
	logger  logrus.FieldLogger
	timeout time.Duration
}

// WithComma sets the field delimiter (default ',').
func WithComma(r rune) Option {
	return func(c *config) { c.comma = r }
}

// WithHTTPClient replaces the client used for http(s) locations.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.client = client }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.logger = l }
}

// WithTimeout bounds a remote fetch. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		comma:  ',',
		client: http.DefaultClient,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Loader reads tables from URLs, paths or readers.
type Loader struct {
	cfg *config
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	return &Loader{cfg: applyOptions(opts)}
}

// Load is a convenience wrapper around New(opts...).Load.
func Load(ctx context.Context, location string, opts ...Option) (*table.Table, error) {
	return New(opts...).Load(ctx, location)
}

// Load fetches location and parses it into a Table.
func (l *Loader) Load(ctx context.Context, location string) (*table.Table, error) {
	t, _, err := l.LoadWithSchema(ctx, location)
	return t, err
}

// LoadWithSchema is Load that also returns the discovered column schema.
func (l *Loader) LoadWithSchema(ctx context.Context, location string) (*table.Table, *schema.Config, error) {
	rc, err := l.open(ctx, location)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	return l.LoadReader(rc, location)
}

// LoadReader parses delimited text from r. name is used in errors and as the
// table name.
func (l *Loader) LoadReader(r io.Reader, name string) (*table.Table, *schema.Config, error) {
	header, rows, err := l.read(r, name)
	if err != nil {
		return nil, nil, err
	}

	sch, err := schema.Discover(header, rows, schema.DiscoverOptions{Name: name, Source: name})
	if err != nil {
		return nil, nil, &FormatError{Location: name, Reason: err.Error(), Err: err}
	}

	cols := make([]table.Column, len(header))
	for i, meta := range sch.Columns {
		cells := make([]string, len(rows))
		for j, row := range rows {
			if !schema.IsMissing(row[i]) {
				cells[j] = strings.TrimSpace(row[i])
			}
		}
		cols[i] = table.Column{Name: meta.Name, Kind: meta.Kind, Cells: cells}
	}

	t, err := table.New(name, cols...)
	if err != nil {
		return nil, nil, &FormatError{Location: name, Reason: err.Error(), Err: err}
	}

	rowsN, colsN := t.Shape()
	l.cfg.logger.WithFields(logrus.Fields{
		"location": name,
		"rows":     rowsN,
		"columns":  colsN,
	}).Info("📥 Loaded table")

	return t, sch, nil
}

// ============================================================================
// SOURCE ACCESS
// ============================================================================

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

type cancelCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelCloser) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.TrimSpace(location) == "" {
		return nil, &SourceUnavailableError{Location: location, Err: errors.New("empty location")}
	}

	if !isURL(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, &SourceUnavailableError{Location: location, Err: err}
		}
		return f, nil
	}

	cancel := context.CancelFunc(func() {})
	if l.cfg.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.cfg.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		cancel()
		return nil, &SourceUnavailableError{Location: location, Err: err}
	}

	l.cfg.logger.WithField("location", location).Debug("fetching remote table")
	resp, err := l.cfg.client.Do(req)
	if err != nil {
		cancel()
		return nil, &SourceUnavailableError{Location: location, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, &SourceUnavailableError{
			Location: location,
			Err:      fmt.Errorf("unexpected HTTP status %s", resp.Status),
		}
	}
	return cancelCloser{ReadCloser: resp.Body, cancel: cancel}, nil
}

// ============================================================================
// PARSING
// ============================================================================

// read splits the source into a validated header and rows of equal width.
func (l *Loader) read(r io.Reader, name string) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.cfg.comma
	reader.FieldsPerRecord = 0 // header fixes the width

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, &FormatError{Location: name, Reason: "empty input: header row absent"}
	}
	if err != nil {
		return nil, nil, classifyReadError(name, err)
	}

	if err := validateHeader(name, header); err != nil {
		return nil, nil, err
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, classifyReadError(name, err)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// validateHeader trims header names in place and rejects headers that are
// absent or ambiguous.
func validateHeader(name string, header []string) error {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	seen := make(map[string]bool, len(header))
	allNumeric := true
	for i, h := range header {
		h = strings.TrimSpace(h)
		header[i] = h
		if h == "" {
			return &FormatError{Location: name, Line: 1, Reason: fmt.Sprintf("header row absent: column %d has no name", i+1)}
		}
		if seen[h] {
			return &FormatError{Location: name, Line: 1, Reason: fmt.Sprintf("duplicate column name %q", h)}
		}
		seen[h] = true
		if !schema.IsNumber(h) {
			allNumeric = false
		}
	}
	if allNumeric {
		return &FormatError{Location: name, Line: 1, Reason: "header row absent: first row holds only numbers"}
	}
	return nil
}

func classifyReadError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		reason := pe.Err.Error()
		if errors.Is(pe.Err, csv.ErrFieldCount) {
			reason = "row has a different number of columns than the header"
		}
		return &FormatError{Location: name, Line: pe.Line, Reason: reason, Err: err}
	}
	return &SourceUnavailableError{Location: name, Err: err}
}
