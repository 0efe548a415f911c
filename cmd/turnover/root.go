package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/turnover/engine"
	"github.com/spektr-org/turnover/internal/config"
	"github.com/spektr-org/turnover/report"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "turnover",
		Short: "Load, summarize and plot a tabular employee dataset",
		Long: `turnover loads a delimited file (local path or http(s) URL), prints
summary tables and writes figures.

Configuration is read from embedded defaults, then config.json (./, ./configs/,
/etc/turnover/) or --config, then TURNOVER_* environment variables, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New()
			if err != nil {
				return err
			}
			a.v = v
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (json or yaml)")
	pf.String("source", "", "CSV path or http(s) URL")
	pf.Int("precision", 2, "decimals shown in tables")
	pf.String("format", "text", "table output: text, json, yaml, csv")
	pf.String("log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	pf.StringArrayVar(&a.filters, "filter", nil, "keep rows where Column=value[,value] (repeatable)")

	root.AddCommand(
		newRunCmd(a),
		newInfoCmd(a),
		newDescribeCmd(a),
		newCountsCmd(a),
		newCrossTabCmd(a),
		newPivotCmd(a),
		newCorrCmd(a),
		newPlotCmd(a),
		newSchemaCmd(a),
		newVersionCmd(),
	)
	return root
}

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a plan (the turnover walkthrough by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan := engine.DefaultPlan()
			if a.cfg.Plan != "" {
				p, err := engine.LoadPlan(a.cfg.Plan)
				if err != nil {
					return err
				}
				plan = p
			}
			return a.execute(cmd, plan)
		},
	}
	cmd.Flags().String("plan", "", "YAML plan file")
	addFigureFlags(cmd)
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show shape, column kinds and the first rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.execute(cmd, engine.Plan{Name: "info", Steps: []engine.Step{
				{Op: engine.OpShape, Title: "Shape"},
				{Op: engine.OpInfo, Title: "Columns"},
				{Op: engine.OpHead, Title: "First rows", Rows: rows},
			}})
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "rows to show")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [COLUMN...]",
		Short: "Count, mean, std, min, quartiles and max of numeric columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, single(engine.Step{Op: engine.OpDescribe, Title: "Numeric summary", Columns: args}))
		},
	}
}

func newCountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "counts COLUMN",
		Short: "Frequency of each distinct value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, single(engine.Step{Op: engine.OpCounts, Title: args[0], Column: args[0]}))
		},
	}
}

func newCrossTabCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "crosstab ROW_COLUMN COLUMN",
		Short: "Co-occurrence counts of two columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, single(engine.Step{
				Op:     engine.OpCrossTab,
				Title:  args[0] + " by " + args[1],
				Index:  args[0],
				Column: args[1],
			}))
		},
	}
}

func newPivotCmd(a *app) *cobra.Command {
	var step engine.Step
	cmd := &cobra.Command{
		Use:   "pivot --values COL (--columns COL | --index COL | both) [--agg mean]",
		Short: "Aggregate a value column per group combination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			step.Op = engine.OpPivot
			if step.Title == "" {
				by := step.Column
				if by == "" {
					by = step.Index
				}
				step.Title = fmt.Sprintf("%s %s by %s", engine.LabelForAggregation(step.Agg), step.Values, by)
			}
			return a.execute(cmd, single(step))
		},
	}
	f := cmd.Flags()
	f.StringVar(&step.Index, "index", "", "row grouping column (optional)")
	f.StringVar(&step.Column, "columns", "", "column grouping column")
	f.StringVar(&step.Values, "values", "", "numeric column to aggregate")
	f.StringVar(&step.Agg, "agg", "mean", "mean, sum, count, min, max, median, std")
	f.StringVar(&step.Title, "title", "", "table title")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func newCorrCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "corr [COLUMN...]",
		Short: "Pearson correlation matrix of numeric columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, single(engine.Step{Op: engine.OpCorr, Title: "Correlation", Columns: args}))
		},
	}
}

func newPlotCmd(a *app) *cobra.Command {
	var style engine.ChartStyle
	var values, agg string
	var bins int

	plot := &cobra.Command{
		Use:   "plot",
		Short: "Draw a bar chart, histogram or scatter plot",
	}
	pf := plot.PersistentFlags()
	pf.StringVar(&style.Title, "title", "", "figure title")
	pf.StringVar(&style.XLabel, "xlabel", "", "x axis label")
	pf.StringVar(&style.YLabel, "ylabel", "", "y axis label")
	pf.StringVar(&style.Color, "color", "", `gray level ("0.7") or hex ("#4F46E5")`)
	pf.IntVar(&style.Width, "width", 0, "width in pixels")
	pf.IntVar(&style.Height, "height", 0, "height in pixels")
	addFigureFlags(plot)

	bar := &cobra.Command{
		Use:   "bar COLUMN",
		Short: "Bars per value of COLUMN: counts, or --values aggregated with --agg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, single(engine.Step{Op: engine.OpBar, Column: args[0], Values: values, Agg: agg, Style: style}))
		},
	}
	bar.Flags().StringVar(&values, "values", "", "numeric column to aggregate per bar")
	bar.Flags().StringVar(&agg, "agg", "mean", "aggregation for --values")

	hist := &cobra.Command{
		Use:   "hist COLUMN",
		Short: "Histogram of a numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, single(engine.Step{Op: engine.OpHist, Column: args[0], Bins: bins, Style: style}))
		},
	}
	hist.Flags().IntVar(&bins, "bins", 0, "number of bins")

	scatter := &cobra.Command{
		Use:   "scatter X Y",
		Short: "Scatter plot of two numeric columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, single(engine.Step{Op: engine.OpScatter, X: args[0], Y: args[1], Style: style}))
		},
	}
	scatter.Flags().Float64Var(&style.PointSize, "point-size", 0, "dot size in pixels")

	plot.AddCommand(bar, hist, scatter)
	return plot
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print detected column kinds, roles and samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, sch, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if f, _ := report.ParseFormat(a.cfg.Format); f == report.YAML {
				return yaml.NewEncoder(out).Encode(sch)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return errors.Wrap(enc.Encode(sch), "encode schema")
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "turnover %s\n", version)
		},
	}
}

func addFigureFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("out-dir", "", "directory figures are written to (- streams them to stdout)")
	cmd.PersistentFlags().String("image-format", "", "figure format: png or svg")
}

func single(step engine.Step) engine.Plan {
	return engine.Plan{Name: string(step.Op), Steps: []engine.Step{step}}
}
