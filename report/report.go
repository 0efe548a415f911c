// Package report writes summary tables as aligned text, JSON or YAML.
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/turnover/engine"
)

// Format selects the encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// ParseFormat accepts text, json, yaml or csv (case-insensitive; "" is text).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", Text:
		return Text, nil
	case JSON, YAML, CSV:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", errors.Errorf("unknown output format %q", s)
	}
}

// Write encodes one table. JSON is one object per line so a whole run can be
// read as JSON lines; YAML documents are separated by "---"; CSV tables are
// separated by a blank line and carry no title.
func Write(w io.Writer, format Format, td *engine.TableData) error {
	switch format {
	case Text, "":
		return writeText(w, td)
	case JSON:
		return errors.Wrap(json.NewEncoder(w).Encode(td), "encode json")
	case YAML:
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(td); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")
	case CSV:
		return writeCSV(w, td)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, td *engine.TableData) error {
	var b strings.Builder
	if td.Title != "" {
		b.WriteString(td.Title + "\n")
		b.WriteString(strings.Repeat("=", utf8.RuneCountInString(td.Title)) + "\n")
	}

	lines := make([][]string, 0, len(td.Rows)+2)
	if len(td.Columns) > 0 {
		labels := make([]string, len(td.Columns))
		for i, c := range td.Columns {
			labels[i] = c.Label
		}
		lines = append(lines, labels)
	}
	lines = append(lines, td.Rows...)
	if td.Summary != nil && len(td.Columns) > 0 {
		cells := make([]string, len(td.Columns))
		cells[0] = td.Summary.Label
		for i, c := range td.Columns[1:] {
			cells[i+1] = td.Summary.Values[c.Key]
		}
		lines = append(lines, cells)
	}

	widths := make([]int, len(td.Columns))
	for _, line := range lines {
		for i, cell := range line {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	for _, line := range lines {
		out := make([]string, len(line))
		for i, cell := range line {
			if i >= len(widths) {
				out[i] = cell
				continue
			}
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
			if td.Columns[i].Align == "right" {
				out[i] = pad + cell
			} else {
				out[i] = cell + pad
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(out, "  "), " ") + "\n")
	}

	if td.Note != "" {
		b.WriteString(td.Note + "\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// writeCSV emits labels then rows, ready for a spreadsheet.
func writeCSV(w io.Writer, td *engine.TableData) error {
	cw := csv.NewWriter(w)
	if len(td.Columns) > 0 {
		labels := make([]string, len(td.Columns))
		for i, c := range td.Columns {
			labels[i] = c.Label
		}
		if err := cw.Write(labels); err != nil {
			return errors.Wrap(err, "write csv")
		}
	}
	if err := cw.WriteAll(td.Rows); err != nil {
		return errors.Wrap(err, "write csv")
	}
	_, err := io.WriteString(w, "\n")
	return err
}
