// Package catalog loads the CSV reference databases that ship inside skill
// directories (for example data/ideas.csv) and answers keyword searches,
// field filters and category listings over them.
package catalog

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Record is one CSV row keyed by column name.
type Record map[string]string

// Get returns the value of field, or "" when the column does not exist.
func (r Record) Get(field string) string {
	return r[field]
}

// Catalog is an in-memory CSV table.
type Catalog struct {
	Path    string
	Columns []string
	Records []Record
}

// Load reads and parses the CSV file at path.
func Load(fs afero.Fs, path string) (*Catalog, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open catalog %s", path)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog %s", path)
	}
	c.Path = path
	return c, nil
}

// Parse reads a CSV stream whose first row names the columns. Short rows
// leave the missing columns empty.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("catalog is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	c := &Catalog{Columns: columns}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d", len(c.Records)+2)
		}

		record := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		c.Records = append(c.Records, record)
	}

	return c, nil
}

// HasColumn reports whether field is one of the catalog's columns.
func (c *Catalog) HasColumn(field string) bool {
	for _, col := range c.Columns {
		if col == field {
			return true
		}
	}
	return false
}

// Search returns records where query appears, case-insensitively, in any of
// fields. With no fields every column is searched. An empty query matches
// everything.
func (c *Catalog) Search(records []Record, query string, fields ...string) []Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}
	if len(fields) == 0 {
		fields = c.Columns
	}

	var results []Record
	for _, record := range records {
		values := make([]string, 0, len(fields))
		for _, field := range fields {
			values = append(values, record.Get(field))
		}
		if strings.Contains(strings.ToLower(strings.Join(values, " ")), query) {
			results = append(results, record)
		}
	}
	return results
}

// Filter selects records whose field matches value case-insensitively.
type Filter struct {
	Field string
	Value string
	// Exact requires the whole value to match instead of a substring.
	Exact bool
}

// ParseFilter parses "field=value".
func ParseFilter(s string, exact bool) (Filter, error) {
	field, value, ok := strings.Cut(s, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return Filter{}, errors.Errorf("invalid filter %q, expected field=value", s)
	}
	return Filter{Field: field, Value: strings.TrimSpace(value), Exact: exact}, nil
}

// Matches reports whether record satisfies the filter.
func (f Filter) Matches(record Record) bool {
	got := strings.ToLower(record.Get(f.Field))
	want := strings.ToLower(f.Value)
	if f.Exact {
		return got == want
	}
	return strings.Contains(got, want)
}

// Apply keeps the records that satisfy every filter. Filters on unknown
// columns are rejected.
func (c *Catalog) Apply(records []Record, filters ...Filter) ([]Record, error) {
	for _, f := range filters {
		if !c.HasColumn(f.Field) {
			return nil, errors.Errorf("unknown field %q, available: %s", f.Field, strings.Join(c.Columns, ", "))
		}
	}

	results := records
	for _, f := range filters {
		kept := make([]Record, 0, len(results))
		for _, record := range results {
			if f.Matches(record) {
				kept = append(kept, record)
			}
		}
		results = kept
	}
	return results, nil
}

// Count is one distinct value of a field and how many records carry it.
type Count struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Counts returns the distinct non-empty values of field, most frequent first
// and alphabetical within equal counts.
func (c *Catalog) Counts(field string) []Count {
	seen := make(map[string]int)
	for _, record := range c.Records {
		value := strings.TrimSpace(record.Get(field))
		if value == "" {
			continue
		}
		seen[value]++
	}

	counts := make([]Count, 0, len(seen))
	for value, n := range seen {
		counts = append(counts, Count{Value: value, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
	return counts
}

// Stats summarizes a catalog.
type Stats struct {
	Total         int                `json:"total" yaml:"total"`
	Distributions map[string][]Count `json:"distributions" yaml:"distributions"`
}

// Stats returns the record count and the value distribution of each field.
// With no fields every column is included.
func (c *Catalog) Stats(fields ...string) Stats {
	if len(fields) == 0 {
		fields = c.Columns
	}

	stats := Stats{
		Total:         len(c.Records),
		Distributions: make(map[string][]Count, len(fields)),
	}
	for _, field := range fields {
		stats.Distributions[field] = c.Counts(field)
	}
	return stats
}
