// Command curvefit fits cubic Bézier curves to a sequence of points and
// prints them as SVG path data.
//
// Points are read as a JSON array from the file named on the command line,
// or from standard input. Each point is either an [x, y] pair or an object
// with x and y fields.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"honnef.co/go/curvefit"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "curvefit"
	app.Usage = "Fit cubic Bézier curves to sequences of points"
	app.Commands = []*cli.Command{
		{
			Name:      "fit",
			Usage:     "Fit curves and print them as SVG path data",
			ArgsUsage: "[INPUT]",
			Flags: append(preprocessFlags(),
				&cli.Float64Flag{
					Name:    "max-error",
					Aliases: []string{"e"},
					Usage:   "Maximum distance between an input point and the fitted curves",
				},
				&cli.IntFlag{
					Name:  "precision",
					Usage: "Maximum number of decimals in the output, 0 for full precision",
				},
				&cli.BoolFlag{
					Name:  "svg-doc",
					Usage: "Print a complete SVG document instead of path data",
				},
				&cli.StringFlag{
					Name:  "png",
					Usage: "Also render a preview of the curves and points to this PNG `FILE`",
				},
				&cli.IntFlag{
					Name:  "size",
					Usage: "Width and height of the PNG preview in pixels",
				},
				&cli.BoolFlag{
					Name:  "flip-y",
					Usage: "Treat input as y-up when rendering the preview",
				},
				&cli.BoolFlag{
					Name:    "verbose",
					Aliases: []string{"v"},
					Usage:   "Log fitting details to standard error",
				},
			),
			Action: runFit,
		},
		{
			Name:      "simplify",
			Usage:     "Preprocess points and print them as JSON",
			ArgsUsage: "[INPUT]",
			Flags:     preprocessFlags(),
			Action:    runSimplify,
		},
	}
	return app
}

func preprocessFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Read settings from TOML `FILE`",
		},
		&cli.Float64Flag{
			Name:  "linearize",
			Usage: "Resample the input at this spacing first, 0 to disable",
		},
		&cli.Float64Flag{
			Name:  "rdp",
			Usage: "Simplify the input with this tolerance first, 0 to disable",
		},
		&cli.BoolFlag{
			Name:  "keep-last",
			Usage: "Always keep the last input point when resampling",
		},
	}
}

// openInput returns the file named by the first argument, or the app's
// standard input if there is none or it is "-".
func openInput(c *cli.Context) (io.ReadCloser, error) {
	name := c.Args().First()
	if name == "" || name == "-" {
		r := c.App.Reader
		if r == nil {
			r = os.Stdin
		}
		return io.NopCloser(r), nil
	}
	return os.Open(name)
}

func loadPoints(c *cli.Context, cfg config) ([]curvefit.Point, error) {
	in, err := openInput(c)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	pts, err := readPoints(in)
	if err != nil {
		return nil, err
	}
	return preprocess(pts, cfg)
}

// preprocess applies the resampling and simplification steps enabled in
// cfg, in that order.
func preprocess(pts []curvefit.Point, cfg config) ([]curvefit.Point, error) {
	var err error
	if cfg.Linearize > 0 {
		opts := curvefit.DefaultLinearizeOptions
		opts.KeepLast = cfg.KeepLast
		pts, err = curvefit.Linearize(pts, cfg.Linearize, opts)
		if err != nil {
			return nil, err
		}
	}
	if cfg.RDP > 0 {
		pts, err = curvefit.RDPReduce(pts, cfg.RDP)
		if err != nil {
			return nil, err
		}
	}
	return pts, nil
}

func runSimplify(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	pts, err := loadPoints(c, cfg)
	if err != nil {
		return err
	}
	return writePoints(c.App.Writer, pts)
}

func runFit(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	if c.Bool("verbose") {
		curvefit.SetLogger(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer curvefit.SetLogger(nil)
	}
	log := curvefit.Logger()

	pts, err := loadPoints(c, cfg)
	if err != nil {
		return err
	}
	curves, err := curvefit.FitOpt(c.Context, pts, cfg.MaxError, cfg.fitOptions())
	if err != nil {
		return err
	}
	log.Info("fitted curves", "points", len(pts), "curves", len(curves), "max_error", cfg.MaxError)

	path := curvefit.CurvesToPath(curves)
	svgOpts := curvefit.SVGOptions{MaxPrecision: cfg.Output.Precision}
	if c.Bool("svg-doc") {
		err = writeSVGDocument(c.App.Writer, path, cfg.Output.StrokeWidth, svgOpts)
	} else {
		err = path.WriteSVG(c.App.Writer, svgOpts)
		if err == nil {
			_, err = fmt.Fprintln(c.App.Writer)
		}
	}
	if err != nil {
		return err
	}

	if name := c.String("png"); name != "" {
		if cfg.Output.Size <= 0 {
			return fmt.Errorf("invalid preview size %d", cfg.Output.Size)
		}
		img := renderPreview(curves, pts, previewOptions{
			Size:        cfg.Output.Size,
			StrokeWidth: cfg.Output.StrokeWidth,
			FlipY:       cfg.Output.FlipY,
		})
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := writePNG(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info("wrote preview", "file", name, "size", cfg.Output.Size)
	}
	return nil
}

// writeSVGDocument writes a standalone SVG document whose view box encloses
// the path.
func writeSVGDocument(w io.Writer, path curvefit.BezPath, strokeWidth float64, opts curvefit.SVGOptions) error {
	box, ok := path.ControlBox()
	if !ok {
		box = curvefit.Rect{}
	}
	box = box.Inflate(strokeWidth, strokeWidth)
	_, err := fmt.Fprintf(w,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"%g %g %g %g\">\n<path fill=\"none\" stroke=\"black\" stroke-width=\"%g\" d=\"",
		box.X0, box.Y0, box.Width(), box.Height(), strokeWidth)
	if err != nil {
		return err
	}
	if err := path.WriteSVG(w, opts); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\"/>\n</svg>\n")
	return err
}
