package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jingkaihe/skilljudge/pkg/catalog"
	"github.com/jingkaihe/skilljudge/pkg/logger"
	"github.com/jingkaihe/skilljudge/pkg/report"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SearchConfig holds configuration for the search command
type SearchConfig struct {
	Filters []string
	Exact   []string
	Fields  []string
	List    string
	Stats   bool
	Detail  bool
	Format  string
}

// NewSearchConfig creates a new SearchConfig with default values
func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		Format: string(report.FormatText),
	}
}

var searchCmd = &cobra.Command{
	Use:   "search <csv-or-skill-dir> [query]",
	Short: "Search a skill's CSV reference data",
	Long: `Search the CSV databases that ship with skills. The first argument is a CSV
file, or a skill directory holding exactly one data/*.csv file.

Examples:
  skilljudge search .agents/skills/marketing-ideas SEO
  skilljudge search ideas.csv --filter category=content --exact effort=low
  skilljudge search ideas.csv --list category
  skilljudge search ideas.csv --stats --format json
  skilljudge search ideas.csv email --fields name,description --detail`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		searchConfig := getSearchConfigFromFlags(cmd)
		searchConfig.Format = cfg.Format

		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		return runSearch(cmd.Context(), osFs, os.Stdout, args[0], query, searchConfig)
	},
}

func init() {
	defaults := NewSearchConfig()
	searchCmd.Flags().StringArray("filter", defaults.Filters, "Partial match filter as field=value (repeatable)")
	searchCmd.Flags().StringArray("exact", defaults.Exact, "Exact match filter as field=value (repeatable)")
	searchCmd.Flags().StringSlice("fields", defaults.Fields, "Fields searched by the query and shown in the table (default: all)")
	searchCmd.Flags().String("list", defaults.List, "List distinct values of a field with counts")
	searchCmd.Flags().Bool("stats", defaults.Stats, "Show record count and value distributions")
	searchCmd.Flags().BoolP("detail", "d", defaults.Detail, "Show every field of each result")
	searchCmd.Flags().StringP("format", "f", defaults.Format, "Output format (text, json, yaml)")
}

func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	config := NewSearchConfig()
	if filters, err := cmd.Flags().GetStringArray("filter"); err == nil {
		config.Filters = filters
	}
	if exact, err := cmd.Flags().GetStringArray("exact"); err == nil {
		config.Exact = exact
	}
	if fields, err := cmd.Flags().GetStringSlice("fields"); err == nil {
		config.Fields = fields
	}
	if list, err := cmd.Flags().GetString("list"); err == nil {
		config.List = list
	}
	if stats, err := cmd.Flags().GetBool("stats"); err == nil {
		config.Stats = stats
	}
	if detail, err := cmd.Flags().GetBool("detail"); err == nil {
		config.Detail = detail
	}
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	return config
}

func runSearch(ctx context.Context, fs afero.Fs, out io.Writer, target, query string, config *SearchConfig) error {
	format, err := report.ParseFormat(config.Format)
	if err != nil {
		return err
	}

	csvPath, err := resolveCatalogPath(fs, target)
	if err != nil {
		return err
	}

	c, err := catalog.Load(fs, csvPath)
	if err != nil {
		return err
	}
	logger.G(ctx).WithField("catalog", csvPath).WithField("records", len(c.Records)).Debug("catalog loaded")

	for _, field := range config.Fields {
		if !c.HasColumn(field) {
			return errors.Errorf("unknown field %q, available: %s", field, strings.Join(c.Columns, ", "))
		}
	}

	if config.List != "" {
		if !c.HasColumn(config.List) {
			return errors.Errorf("unknown field %q, available: %s", config.List, strings.Join(c.Columns, ", "))
		}
		counts := c.Counts(config.List)
		if format != report.FormatText {
			return encode(out, format, counts)
		}
		return writeCounts(out, config.List, counts)
	}

	if config.Stats {
		stats := c.Stats(config.Fields...)
		if format != report.FormatText {
			return encode(out, format, stats)
		}
		return writeStats(out, c, stats, config.Fields)
	}

	filters, err := parseFilters(config.Filters, config.Exact)
	if err != nil {
		return err
	}

	results := c.Search(c.Records, query, config.Fields...)
	results, err = c.Apply(results, filters...)
	if err != nil {
		return err
	}

	if format != report.FormatText {
		if results == nil {
			results = []catalog.Record{}
		}
		return encode(out, format, results)
	}

	columns := c.Columns
	if len(config.Fields) > 0 {
		columns = config.Fields
	}
	return writeRecords(out, results, columns, c.Columns, config.Detail)
}

// resolveCatalogPath accepts a CSV file, or a skill directory with a single
// CSV file under data/.
func resolveCatalogPath(fs afero.Fs, target string) (string, error) {
	info, err := fs.Stat(target)
	if err != nil {
		return "", errors.Wrapf(err, "failed to access %s", target)
	}
	if !info.IsDir() {
		return target, nil
	}

	base, err := filepath.Abs(target)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", target)
	}
	matches, err := doublestar.Glob(afero.NewIOFS(afero.NewBasePathFs(fs, base)), path.Join("data", "*.csv"))
	if err != nil {
		return "", errors.Wrapf(err, "failed to search %s for CSV data", target)
	}
	switch len(matches) {
	case 0:
		return "", errors.Errorf("no data/*.csv file found in %s", target)
	case 1:
		return filepath.Join(target, filepath.FromSlash(matches[0])), nil
	default:
		return "", errors.Errorf("multiple CSV files found in %s, pick one of: %s", target, strings.Join(matches, ", "))
	}
}

func parseFilters(partial, exact []string) ([]catalog.Filter, error) {
	filters := make([]catalog.Filter, 0, len(partial)+len(exact))
	for _, raw := range partial {
		f, err := catalog.ParseFilter(raw, false)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	for _, raw := range exact {
		f, err := catalog.ParseFilter(raw, true)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func writeRecords(out io.Writer, records []catalog.Record, columns, allColumns []string, detail bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No records found matching your criteria.")
		return err
	}

	fmt.Fprintf(out, "\nFound %d record(s):\n\n", len(records))

	if detail {
		for i, record := range records {
			fmt.Fprintf(out, "  [%d]\n", i+1)
			for _, col := range allColumns {
				fmt.Fprintf(out, "    %s: %s\n", col, record.Get(col))
			}
			fmt.Fprintln(out)
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for _, record := range records {
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = truncate(record.Get(col), maxDescriptionWidth)
		}
		fmt.Fprintln(tw, strings.Join(values, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out)
	return err
}

func writeCounts(out io.Writer, field string, counts []catalog.Count) error {
	fmt.Fprintf(out, "\n%d distinct %s value(s):\n\n", len(counts), field)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, count := range counts {
		fmt.Fprintf(tw, "  %s\t(%d)\n", count.Value, count.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out)
	return err
}

func writeStats(out io.Writer, c *catalog.Catalog, stats catalog.Stats, fields []string) error {
	if len(fields) == 0 {
		fields = c.Columns
	}

	fmt.Fprintf(out, "\nTotal records: %d\n", stats.Total)
	for _, field := range fields {
		counts := stats.Distributions[field]
		fmt.Fprintf(out, "\n%s (%d distinct):\n", field, len(counts))
		for _, count := range counts {
			fmt.Fprintf(out, "  %-30s %d\n", count.Value, count.Count)
		}
	}
	_, err := fmt.Fprintln(out)
	return err
}

func encode(out io.Writer, format report.Format, v any) error {
	switch format {
	case report.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode YAML")
		}
		return errors.Wrap(encoder.Close(), "failed to flush YAML")
	default:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(v), "failed to encode JSON")
	}
}
