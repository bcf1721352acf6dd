package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newCLI(runGrid).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI(run runFunc) *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "gridflash"
	app.Usage = "draw a grid of randomly colored rectangles with WebGPU"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a YAML file",
		},
	}
	gridFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "rows",
			Usage: "number of grid rows",
		},
		cli.IntFlag{
			Name:  "cols",
			Usage: "number of grid columns",
		},
		cli.Float64Flag{
			Name:  "rect-width",
			Usage: "rectangle width in clip space",
		},
		cli.Float64Flag{
			Name:  "spacing",
			Usage: "horizontal and vertical spacing between rectangles",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open a window and recolor the grid on a timer",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Usage: "window width",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "window height",
				},
				cli.DurationFlag{
					Name:  "interval",
					Usage: "time between color updates",
				},
				cli.StringFlag{
					Name:  "background",
					Usage: "clear color as a CSS name or #rrggbb",
				},
				cli.BoolFlag{
					Name:  "low-power",
					Usage: "prefer an integrated GPU",
				},
			}, gridFlags...),
			Action: func(ctx *cli.Context) error {
				cfg, err := configFromContext(ctx)
				if err != nil {
					return err
				}
				return run(cfg)
			},
		},
		{
			Name:   "grid",
			Usage:  "print the grid layout and buffer sizes without opening a window",
			Flags:  gridFlags,
			Action: describeGrid,
		},
	}
	return app
}
