package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"

	"honnef.co/go/curvefit"
)

// config holds the settings of a run. Values are taken from defaultConfig,
// then from the config file, then from flags that were set explicitly.
type config struct {
	MaxError  float64 `toml:"max_error"`
	Linearize float64 `toml:"linearize"` // resampling distance, 0 to disable
	RDP       float64 `toml:"rdp"`       // simplification tolerance, 0 to disable
	KeepLast  bool    `toml:"keep_last"`

	Fit fitConfig `toml:"fit"`

	Output outputConfig `toml:"output"`
}

type fitConfig struct {
	MaxIterations    int `toml:"max_iterations"`
	EndTangentPoints int `toml:"end_tangent_points"`
	MidTangentPoints int `toml:"mid_tangent_points"`
}

type outputConfig struct {
	Precision   int     `toml:"precision"`
	Size        int     `toml:"size"`
	StrokeWidth float64 `toml:"stroke_width"`
	FlipY       bool    `toml:"flip_y"`
}

func defaultConfig() config {
	return config{
		MaxError: 4,
		Fit: fitConfig{
			MaxIterations:    curvefit.DefaultFitOptions.MaxIterations,
			EndTangentPoints: curvefit.DefaultFitOptions.EndTangentPoints,
			MidTangentPoints: curvefit.DefaultFitOptions.MidTangentPoints,
		},
		Output: outputConfig{
			Precision:   1,
			Size:        512,
			StrokeWidth: 2,
		},
	}
}

// loadConfig reads a TOML config file on top of the defaults. Unknown keys
// are an error, to catch typos.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return cfg, fmt.Errorf("%s: %s", path, sme.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return cfg, fmt.Errorf("%s:%d:%d: %s", path, row, col, de.Error())
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// configFromContext loads the config named by --config and applies the
// flags the user set.
func configFromContext(c *cli.Context) (config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("max-error") {
		cfg.MaxError = c.Float64("max-error")
	}
	if c.IsSet("linearize") {
		cfg.Linearize = c.Float64("linearize")
	}
	if c.IsSet("rdp") {
		cfg.RDP = c.Float64("rdp")
	}
	if c.IsSet("keep-last") {
		cfg.KeepLast = c.Bool("keep-last")
	}
	if c.IsSet("precision") {
		cfg.Output.Precision = c.Int("precision")
	}
	if c.IsSet("size") {
		cfg.Output.Size = c.Int("size")
	}
	if c.IsSet("flip-y") {
		cfg.Output.FlipY = c.Bool("flip-y")
	}
	return cfg, nil
}

func (cfg config) fitOptions() curvefit.FitOptions {
	return curvefit.FitOptions{
		MaxIterations:    cfg.Fit.MaxIterations,
		EndTangentPoints: cfg.Fit.EndTangentPoints,
		MidTangentPoints: cfg.Fit.MidTangentPoints,
	}
}
