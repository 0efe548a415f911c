package config

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/spektr-org/turnover/engine"
	"github.com/spektr-org/turnover/internal/log"
)

//go:embed defaults.json
var defaultConfig []byte

// EnvPrefix prefixes environment overrides: TURNOVER_SOURCE,
// TURNOVER_CHART_COLOR, TURNOVER_LOGGER_LEVEL, ...
const EnvPrefix = "TURNOVER"

type Cfg struct {
	Source      string        `mapstructure:"source"`
	Delimiter   string        `mapstructure:"delimiter"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Plan        string        `mapstructure:"plan"`
	Precision   int           `mapstructure:"precision"`
	Bins        int           `mapstructure:"bins"`
	Format      string        `mapstructure:"format"`
	OutDir      string        `mapstructure:"out_dir"`
	ImageFormat string        `mapstructure:"image_format"`
	Chart       Chart         `mapstructure:"chart"`
	Logger      log.Config    `mapstructure:"logger"`
}

// Chart holds the display defaults every figure starts from.
type Chart struct {
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	Color     string  `mapstructure:"color"`
	PointSize float64 `mapstructure:"point_size"`
}

// Style converts the chart defaults for the engine.
func (c Chart) Style() engine.ChartStyle {
	return engine.ChartStyle{Width: c.Width, Height: c.Height, Color: c.Color, PointSize: c.PointSize}
}

// Comma returns the delimiter as a rune, ',' when unset.
func (c Cfg) Comma() rune {
	if c.Delimiter == "" {
		return ','
	}
	if c.Delimiter == `\t` {
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}

// New returns a viper instance primed with the embedded defaults and
// environment overrides. Flags are bound by the caller.
func New() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.MergeConfig(bytes.NewReader(defaultConfig)); err != nil {
		return nil, errors.Wrap(err, "load default config")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Load merges a config file over the defaults and decodes the result.
// With path empty, "config.json" is looked up in ./, ./configs/ and
// /etc/turnover/; not finding one is not an error.
func Load(v *viper.Viper, path string) (Cfg, error) {
	var configs Cfg

	if path != "" {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			v.SetConfigType(ext)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs/")
		v.AddConfigPath("/etc/turnover/")
	}

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return configs, errors.Wrap(err, "read config")
		}
	}

	if err := v.Unmarshal(&configs); err != nil {
		return configs, errors.Wrap(err, "decode config")
	}
	if err := configs.validate(); err != nil {
		return configs, err
	}
	return configs, nil
}

func (c Cfg) validate() error {
	if c.Source == "" {
		return errors.New("config: source is empty")
	}
	if c.Precision < 0 {
		return errors.Errorf("config: precision %d is negative", c.Precision)
	}
	if c.Bins < 1 {
		return errors.Errorf("config: bins %d must be at least 1", c.Bins)
	}
	if len([]rune(c.Delimiter)) > 1 && c.Delimiter != `\t` {
		return errors.Errorf("config: delimiter %q must be one character", c.Delimiter)
	}
	return nil
}
