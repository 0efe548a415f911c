package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// TEXT BUILDER — Resolves step note templates
// ============================================================================
// A step note is a short sentence with {placeholders} filled from the step's
// result, e.g. "Most frequent: {top} ({top_count} of {total})".
// Unknown placeholders are removed rather than printed raw.
// ============================================================================

// Placeholders maps placeholder names (without braces) to values.
type Placeholders map[string]string

// ResolvePlaceholders fills a template. An empty template yields "".
func ResolvePlaceholders(template string, vars Placeholders) string {
	if template == "" {
		return ""
	}
	result := template
	for name, value := range vars {
		result = strings.ReplaceAll(result, "{"+name+"}", value)
	}
	return stripUnresolvedPlaceholders(result)
}

var placeholderRegex = regexp.MustCompile(`\{[a-z_]+\}`)

func stripUnresolvedPlaceholders(text string) string {
	cleaned := placeholderRegex.ReplaceAllString(text, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}

// ============================================================================
// PLACEHOLDER SOURCES
// ============================================================================

func shapePlaceholders(rows, cols int) Placeholders {
	return Placeholders{"rows": strconv.Itoa(rows), "columns": strconv.Itoa(cols)}
}

func frequencyPlaceholders(f *Frequency, digits int) Placeholders {
	vars := Placeholders{
		"column":   f.Column,
		"total":    strconv.Itoa(f.Total),
		"distinct": strconv.Itoa(len(f.Entries)),
	}
	if len(f.Entries) > 0 {
		top := f.Entries[0]
		vars["top"] = top.Value
		vars["top_count"] = strconv.Itoa(top.Count)
		vars["top_percent"] = FormatFloat(top.Percent, digits)
	}
	return vars
}

func pivotPlaceholders(p *PivotTable, digits int) Placeholders {
	vars := Placeholders{
		"values": p.Spec.Values,
		"agg":    p.Spec.Agg,
		"groups": strconv.Itoa(len(p.RowKeys) * len(p.ColKeys)),
	}
	var hiKey, loKey string
	var hi, lo float64
	found := false
	for i, rk := range p.RowKeys {
		for j, ck := range p.ColKeys {
			c := p.Cells[i][j]
			if c == nil {
				continue
			}
			key := ck
			if len(p.RowKeys) > 1 {
				key = rk + "/" + ck
			}
			if !found || *c > hi {
				hi, hiKey = *c, key
			}
			if !found || *c < lo {
				lo, loKey = *c, key
			}
			found = true
		}
	}
	if found {
		vars["highest"], vars["highest_value"] = hiKey, FormatFloat(hi, digits)
		vars["lowest"], vars["lowest_value"] = loKey, FormatFloat(lo, digits)
	}
	return vars
}

func correlationPlaceholders(m *CorrelationMatrix, digits int) Placeholders {
	vars := Placeholders{"columns": strconv.Itoa(len(m.Columns))}
	best, bestPair := 0.0, ""
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			if bestPair == "" || math.Abs(r) > math.Abs(best) {
				best, bestPair = r, m.Columns[i]+"~"+m.Columns[j]
			}
		}
	}
	if bestPair != "" {
		vars["strongest"], vars["strongest_value"] = bestPair, FormatFloat(best, digits)
	}
	return vars
}

func chartPlaceholders(cfg *ChartConfig) Placeholders {
	n := len(cfg.Bars)
	if cfg.Kind == ChartScatter {
		n = len(cfg.Points)
	}
	return Placeholders{"title": cfg.Title, "n": strconv.Itoa(n), "caption": cfg.Caption}
}
