package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/gekko3d/gekko-grid"
	"github.com/gekko3d/gekko-grid/grid"
)

type runFunc func(cfg gekko.Config) error

// configFromContext loads the config file, if any, and applies flag
// overrides on top of it.
func configFromContext(ctx *cli.Context) (gekko.Config, error) {
	cfg := gekko.DefaultConfig()
	if path := ctx.GlobalString("config"); path != "" {
		loaded, err := gekko.LoadConfig(path)
		if err != nil {
			return gekko.Config{}, err
		}
		cfg = loaded
	}

	if ctx.GlobalBool("v") {
		cfg.Debug = true
	}
	if ctx.IsSet("rows") {
		cfg.Grid.Rows = ctx.Int("rows")
	}
	if ctx.IsSet("cols") {
		cfg.Grid.Cols = ctx.Int("cols")
	}
	if ctx.IsSet("rect-width") {
		cfg.Grid.RectWidth = float32(ctx.Float64("rect-width"))
	}
	if ctx.IsSet("spacing") {
		cfg.Grid.HSpacing = float32(ctx.Float64("spacing"))
		cfg.Grid.VSpacing = cfg.Grid.HSpacing
	}
	if ctx.IsSet("width") {
		cfg.Window.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Window.Height = ctx.Int("height")
	}
	if ctx.IsSet("interval") {
		cfg.ColorInterval = gekko.Duration(ctx.Duration("interval"))
	}
	if ctx.IsSet("background") {
		cfg.Background = ctx.String("background")
	}
	if ctx.IsSet("low-power") {
		cfg.LowPower = ctx.Bool("low-power")
	}

	if err := cfg.Validate(); err != nil {
		return gekko.Config{}, err
	}
	return cfg, nil
}

func runGrid(cfg gekko.Config) error {
	gekko.NewAppBuilder().
		UseModule(
			gekko.LoggingModule{Prefix: "gridflash", Debug: cfg.Debug},
			gekko.TimeModule{},
			gekko.GridRendererModule{Config: cfg},
		).
		Build().
		Run()
	return nil
}

func describeGrid(ctx *cli.Context) error {
	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}
	spec := cfg.Grid
	origin := spec.Origin()

	w := ctx.App.Writer
	fmt.Fprintf(w, "grid:      %d x %d (%d cells)\n", spec.Rows, spec.Cols, spec.Cells())
	fmt.Fprintf(w, "rect:      width %g, spacing %g/%g\n", spec.RectWidth, spec.HSpacing, spec.VSpacing)
	fmt.Fprintf(w, "origin:    (%g, %g)\n", origin.X(), origin.Y())
	fmt.Fprintf(w, "vertices:  %d\n", spec.VertexCount())
	fmt.Fprintf(w, "buffers:   %d floats each (%d bytes)\n", spec.BufferLen(), spec.BufferLen()*4)
	fmt.Fprintf(w, "per cell:  %d floats\n", grid.FloatsPerCell)
	return nil
}
