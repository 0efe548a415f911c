package schema

import "github.com/spektr-org/turnover/table"

// ============================================================================
// SCHEMA — Describes the shape of a delimited dataset
// ============================================================================
// Auto-discovered from the header and rows of a delimited file.
// The loader uses Kind to type each column; the CLI prints the whole Config.
// ============================================================================

// Role is a hint about how a column is typically used.
type Role string

const (
	RoleIdentifier Role = "identifier" // unique per row
	RoleDimension  Role = "dimension"  // grouping / counting
	RoleMeasure    Role = "measure"    // aggregation / statistics
	RoleEmpty      Role = "empty"      // no values at all
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name           string       `json:"name" yaml:"name"`
	Rows           int          `json:"rows" yaml:"rows"`
	Columns        []ColumnMeta `json:"columns" yaml:"columns"`
	DiscoveredFrom string       `json:"discoveredFrom,omitempty" yaml:"discoveredFrom,omitempty"`
	DiscoveredAt   string       `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`
}

// ColumnMeta describes one column.
type ColumnMeta struct {
	Name            string     `json:"name" yaml:"name"`
	Key             string     `json:"key" yaml:"key"`
	DisplayName     string     `json:"displayName" yaml:"displayName"`
	Kind            table.Kind `json:"kind" yaml:"kind"`
	Role            Role       `json:"role" yaml:"role"`
	UniqueCount     int        `json:"uniqueCount" yaml:"uniqueCount"`
	MissingCount    int        `json:"missingCount" yaml:"missingCount"`
	SampleValues    []string   `json:"sampleValues" yaml:"sampleValues"`
	CardinalityHint string     `json:"cardinalityHint,omitempty" yaml:"cardinalityHint,omitempty"`
}

// Column returns the metadata for a column by its header name.
func (c Config) Column(name string) (ColumnMeta, bool) {
	for _, col := range c.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnMeta{}, false
}

// NamesByRole returns the header names of columns with the given role.
func (c Config) NamesByRole(role Role) []string {
	var out []string
	for _, col := range c.Columns {
		if col.Role == role {
			out = append(out, col.Name)
		}
	}
	return out
}

// NumericNames returns the header names of numeric columns.
func (c Config) NumericNames() []string {
	var out []string
	for _, col := range c.Columns {
		if col.Kind == table.Numeric {
			out = append(out, col.Name)
		}
	}
	return out
}
