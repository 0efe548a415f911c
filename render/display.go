package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/turnover/engine"
)

// Display is where a rendered chart ends up.
type Display interface {
	Show(ctx context.Context, name string, format Format, data []byte) error
}

// Show renders cfg and hands the image to d. The chart is discarded after.
func Show(ctx context.Context, d Display, cfg *engine.ChartConfig, format Format) error {
	if format == "" {
		format = PNG
	}
	data, err := Render(cfg, format)
	if err != nil {
		return err
	}
	name := cfg.Title
	if name == "" {
		name = string(cfg.Kind)
	}
	return d.Show(ctx, name, format, data)
}

// ============================================================================
// DIRECTORY DISPLAY
// ============================================================================

// DirDisplay writes each chart to its own file in Dir, numbered in the order
// shown: "01-figure-1-barplot.png".
type DirDisplay struct {
	Dir    string
	Logger logrus.FieldLogger

	shown int
	paths []string
}

// NewDirDisplay creates dir if needed.
func NewDirDisplay(dir string, logger logrus.FieldLogger) (*DirDisplay, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create figure dir %s", dir)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DirDisplay{Dir: dir, Logger: logger}, nil
}

func (d *DirDisplay) Show(ctx context.Context, name string, format Format, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.shown++
	path := filepath.Join(d.Dir, fmt.Sprintf("%02d-%s%s", d.shown, Slug(name), format.Ext()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write figure %s", path)
	}
	d.paths = append(d.paths, path)
	d.Logger.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Info("🖼️ Figure written")
	return nil
}

// Paths lists the files written so far.
func (d *DirDisplay) Paths() []string { return append([]string(nil), d.paths...) }

// ============================================================================
// WRITER DISPLAY
// ============================================================================

// WriterDisplay streams image bytes to W, e.g. stdout piped into a viewer.
type WriterDisplay struct {
	W io.Writer
}

func (d WriterDisplay) Show(ctx context.Context, _ string, _ Format, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.W.Write(data)
	return errors.Wrap(err, "write figure")
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a chart title into a file-name stem.
func Slug(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "figure"
	}
	return s
}
