package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazykit/internal/config"
	"github.com/rebeliceyang/lazykit/internal/datasource"
	"github.com/rebeliceyang/lazykit/internal/export"
	"github.com/rebeliceyang/lazykit/internal/filter"
	"github.com/rebeliceyang/lazykit/internal/models"
	"github.com/rebeliceyang/lazykit/internal/presets"
	"github.com/rebeliceyang/lazykit/internal/table"
	"github.com/spf13/cobra"
)

var (
	exportFormat  string
	exportOut     string
	exportFilters []string
	exportSort    string
	exportLimit   int
	exportPreset  string

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export filtered rows without starting the UI",
		Long: `Export filtered rows without starting the UI.

Filters use field=OP:value, for example:
  lazykit export --out adults.csv --filter 'age=>=:18' --filter 'city=IN:Oslo,Bergen'
  lazykit export --out missing.json --format json --filter 'email=IS NULL'`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
)

var knownOperators = []models.FilterOperator{
	models.OpEqual, models.OpNotEqual,
	models.OpGreaterThan, models.OpGreaterOrEqual,
	models.OpLessThan, models.OpLessOrEqual,
	models.OpLike, models.OpILike, models.OpNotLike,
	models.OpIn, models.OpNotIn,
	models.OpIsNull, models.OpIsNotNull,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file")
	exportCmd.Flags().StringArrayVar(&exportFilters, "filter", nil, "filter condition field=OP:value, repeatable")
	exportCmd.Flags().StringVar(&exportSort, "sort", "", "sort column, append :desc for descending")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum rows, 0 for all")
	exportCmd.Flags().StringVar(&exportPreset, "preset", "", "apply a saved preset before --filter")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer := newLogger(cfg, cmd.ErrOrStderr())
	defer func() { _ = closer.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, cols, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	sortField, sortOrder, err := parseSortFlag(exportSort)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	coll := table.New(
		table.WithLogger(logger),
		table.WithFilterHook(func(ctx context.Context, filters []models.FilterCondition) error {
			page, err := src.Fetch(ctx, datasource.Request{
				Table:     cfg.Data.Table,
				Filters:   filters,
				SortField: sortField,
				SortOrder: sortOrder,
				Limit:     exportLimit,
			})
			if err != nil {
				return err
			}
			if err := export.Export(exportFormat, page.Columns, page.Rows, exportOut); err != nil {
				return err
			}
			logger.Info("export complete", "query", page.Query, "rows", len(page.Rows), "duration", page.Duration)
			fmt.Fprintf(out, "Exported %d of %d rows to %s\n", len(page.Rows), page.TotalRows, exportOut)
			return nil
		}),
	)
	for _, col := range cols {
		coll.Declare(col)
	}

	if exportPreset != "" {
		if err := applyPreset(cfg, exportPreset, coll); err != nil {
			return err
		}
	}

	grouped, order, err := parseFilterFlags(exportFilters, coll)
	if err != nil {
		return err
	}
	for _, field := range order {
		if err := coll.AddFilters(field, grouped[field]); err != nil {
			return err
		}
	}

	return coll.Filter(ctx)
}

func applyPreset(cfg *config.Config, ref string, coll *table.Collection) error {
	path, err := config.ResolvePath(cfg.Presets.Path, "presets.yaml")
	if err != nil {
		return err
	}
	mgr, err := presets.NewManager(path)
	if err != nil {
		return err
	}
	p, err := mgr.Find(ref)
	if err != nil {
		return err
	}
	if p.Table != cfg.Data.Table {
		return fmt.Errorf("preset %q belongs to table %s, not %s", p.Name, p.Table, cfg.Data.Table)
	}
	return mgr.Apply(p.ID, coll)
}

// parseFilterFlags groups --filter values by field, keeping the order in
// which fields first appear.
func parseFilterFlags(raw []string, coll *table.Collection) (map[string][]models.FilterCondition, []string, error) {
	grouped := make(map[string][]models.FilterCondition)
	var order []string
	for _, r := range raw {
		cond, err := parseFilterFlag(r, coll)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := grouped[cond.Column]; !seen {
			order = append(order, cond.Column)
		}
		grouped[cond.Column] = append(grouped[cond.Column], cond)
	}
	return grouped, order, nil
}

// parseFilterFlag parses field=OP:value. Operators without a value may
// omit the colon.
func parseFilterFlag(raw string, coll *table.Collection) (models.FilterCondition, error) {
	field, rest, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(field) == "" {
		return models.FilterCondition{}, fmt.Errorf("invalid filter %q, expected field=OP:value", raw)
	}
	field = strings.TrimSpace(field)

	col, ok := coll.Column(field)
	if !ok {
		return models.FilterCondition{}, fmt.Errorf("%w: %s", datasource.ErrUnknownColumn, field)
	}

	opText, value, _ := strings.Cut(rest, ":")
	op := models.FilterOperator(strings.ToUpper(strings.TrimSpace(opText)))
	if !isKnownOperator(op) {
		return models.FilterCondition{}, fmt.Errorf("unsupported operator %q in filter %q", opText, raw)
	}
	if !col.Filterable {
		return models.FilterCondition{}, fmt.Errorf("column %s is not filterable", field)
	}
	if !filter.ValidOperator(col.FilterKind, op) {
		return models.FilterCondition{}, fmt.Errorf("operator %s is not offered for %s column %s", op, col.FilterKind, field)
	}

	cond := models.NewCondition(field, op, nil)
	cond.Type = col.DataType
	if op.NeedsValue() {
		v, err := filter.ParseValue(col, op, value)
		if err != nil {
			return models.FilterCondition{}, fmt.Errorf("filter %q: %w", raw, err)
		}
		cond.Value = v
	}
	return cond, nil
}

func isKnownOperator(op models.FilterOperator) bool {
	for _, known := range knownOperators {
		if op == known {
			return true
		}
	}
	return false
}

// parseSortFlag parses field or field:asc|desc
func parseSortFlag(raw string) (string, models.SortOrder, error) {
	if raw == "" {
		return "", models.SortNone, nil
	}
	field, dir, _ := strings.Cut(raw, ":")
	switch strings.ToLower(dir) {
	case "", "asc":
		return field, models.SortAscending, nil
	case "desc":
		return field, models.SortDescending, nil
	default:
		return "", models.SortNone, fmt.Errorf("invalid sort direction %q", dir)
	}
}
