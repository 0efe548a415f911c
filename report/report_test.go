package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
	"gotest.tools/v3/assert"

	"github.com/spektr-org/turnover/engine"
)

func frequency() *engine.TableData {
	return &engine.TableData{
		Title: "Department",
		Columns: []engine.Column{
			{Key: "value", Label: "Department", Type: "text", Align: "left"},
			{Key: "count", Label: "Count", Type: "number", Align: "right"},
		},
		Rows: [][]string{{"Sales", "3"}, {"IT", "3"}, {"HR", "1"}},
		Summary: &engine.Summary{Label: "Total", Values: map[string]string{"count": "7"}},
		Note:    "Most frequent: Sales (3 of 7)",
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, Write(&buf, Text, frequency()))

	want := strings.Join([]string{
		"Department",
		"==========",
		"Department  Count",
		"Sales           3",
		"IT              3",
		"HR              1",
		"Total           7",
		"Most frequent: Sales (3 of 7)",
		"",
		"",
	}, "\n")
	assert.Equal(t, buf.String(), want)
}

func TestWriteJSONLines(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, Write(&buf, JSON, frequency()))
	assert.NilError(t, Write(&buf, JSON, frequency()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 2)

	var got engine.TableData
	assert.NilError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, got.Title, "Department")
	assert.DeepEqual(t, got.Rows[2], []string{"HR", "1"})
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, Write(&buf, YAML, frequency()))
	assert.Assert(t, strings.HasPrefix(buf.String(), "---\n"))

	var got engine.TableData
	assert.NilError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, got.Summary.Values["count"], "7")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, Write(&buf, CSV, frequency()))
	assert.Equal(t, buf.String(), "Department,Count\nSales,3\nIT,3\nHR,1\n\n")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Text, "TEXT": Text, "json": JSON, "yml": YAML, "yaml": YAML, "csv": CSV} {
		got, err := ParseFormat(in)
		assert.NilError(t, err)
		assert.Equal(t, got, want, in)
	}
	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "unknown output format")
}
