package main

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spektr-org/turnover/engine"
	"github.com/spektr-org/turnover/internal/config"
	"github.com/spektr-org/turnover/internal/log"
	"github.com/spektr-org/turnover/loader"
	"github.com/spektr-org/turnover/render"
	"github.com/spektr-org/turnover/report"
	"github.com/spektr-org/turnover/schema"
	"github.com/spektr-org/turnover/table"
)

// app carries what every command needs once flags and config are resolved.
type app struct {
	v          *viper.Viper
	configPath string
	filters    []string

	cfg config.Cfg
	log *logrus.Logger
}

// setup loads configuration (defaults < file < env < flags) and builds the
// logger. Runs before every command.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"source":       "source",
		"precision":    "precision",
		"format":       "format",
		"logger.level": "log-level",
		"out_dir":      "out-dir",
		"image_format": "image-format",
		"plan":         "plan",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "bind --%s", flag)
			}
		}
	}

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.NewLogger(cfg.Logger)
	return nil
}

// load reads the configured source.
func (a *app) load(ctx context.Context) (*table.Table, *schema.Config, error) {
	l := loader.New(
		loader.WithComma(a.cfg.Comma()),
		loader.WithTimeout(a.cfg.Timeout),
		loader.WithLogger(a.log),
	)
	return l.LoadWithSchema(ctx, a.cfg.Source)
}

// execute loads the source and runs plan, writing tables to out and charts
// to the configured figure directory.
func (a *app) execute(cmd *cobra.Command, plan engine.Plan) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	filters, err := parseFilters(a.filters)
	if err != nil {
		return err
	}
	if !filters.IsEmpty() {
		for i := range plan.Steps {
			plan.Steps[i].Filters = mergeFilters(plan.Steps[i].Filters, filters)
		}
	}

	t, _, err := a.load(ctx)
	if err != nil {
		return err
	}

	sink, err := a.newSink(ctx, cmd.OutOrStdout(), plan)
	if err != nil {
		return err
	}

	_, err = engine.Execute(ctx, plan, t, sink,
		engine.WithLogger(a.log),
		engine.WithPrecision(a.cfg.Precision),
		engine.WithBins(a.cfg.Bins),
		engine.WithChartDefaults(a.cfg.Chart.Style()),
	)
	return err
}

// stdoutDir as the figure directory streams images to the command output
// instead of writing files.
const stdoutDir = "-"

func (a *app) newSink(ctx context.Context, out io.Writer, plan engine.Plan) (*pipelineSink, error) {
	format, err := report.ParseFormat(a.cfg.Format)
	if err != nil {
		return nil, err
	}
	s := &pipelineSink{ctx: ctx, out: out, format: format, image: render.Format(a.cfg.ImageFormat)}

	for _, step := range plan.Steps {
		if step.Op.IsChart() {
			if a.cfg.OutDir == stdoutDir {
				s.display = render.WriterDisplay{W: out}
				break
			}
			d, err := render.NewDirDisplay(a.cfg.OutDir, a.log)
			if err != nil {
				return nil, err
			}
			s.display = d
			break
		}
	}
	return s, nil
}

// pipelineSink writes tables with the report package and shows charts.
type pipelineSink struct {
	ctx     context.Context
	out     io.Writer
	format  report.Format
	display render.Display
	image   render.Format
}

func (s *pipelineSink) Table(td *engine.TableData) error {
	return report.Write(s.out, s.format, td)
}

func (s *pipelineSink) Chart(cfg *engine.ChartConfig) error {
	if s.display == nil {
		return errors.New("no display configured for charts")
	}
	return render.Show(s.ctx, s.display, cfg, s.image)
}

// parseFilters reads "Column=v1,v2" flags.
func parseFilters(raw []string) (engine.Filters, error) {
	f := engine.Filters{Columns: map[string][]string{}}
	for _, r := range raw {
		col, vals, ok := strings.Cut(r, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" || vals == "" {
			return f, errors.Errorf("invalid filter %q, want Column=value[,value]", r)
		}
		f.Columns[col] = append(f.Columns[col], strings.Split(vals, ",")...)
	}
	return f, nil
}

// mergeFilters adds b's constraints to a; b wins on shared columns.
func mergeFilters(a, b engine.Filters) engine.Filters {
	out := engine.Filters{Columns: map[string][]string{}}
	for k, v := range a.Columns {
		out.Columns[k] = v
	}
	for k, v := range b.Columns {
		out.Columns[k] = v
	}
	return out
}
