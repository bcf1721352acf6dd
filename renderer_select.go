package gekko

import (
	"github.com/gekko3d/gekko-grid/frame"
	"github.com/gekko3d/gekko-grid/shaders"
)

const RendererWGPU = "wgpu"

// GridRendererModule opens the shared window, finds a WebGPU adapter and
// installs GridFrameModule on top of the wgpu capabilities.
type GridRendererModule struct {
	Config Config
}

func (mod GridRendererModule) Install(app *App, cmd *Commands) {
	if !ensureSingleRenderer(app, RendererWGPU) {
		return
	}
	cfg := mod.Config
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	app.UseModules(NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title))
	ws, _ := Resource[WindowState](app)

	gpu := createGpuState(ws, cfg.LowPower)
	status := gpu.StatusMessage()
	if gpu.Available() {
		app.Logger().Infof("%s", status)
	} else {
		app.Logger().Warnf("%s", status)
	}
	ws.SetStatus(status)

	pipelines := newPipelineCache()
	cmd.AddResources(gpu)
	// registered before the frame module so it runs after the scheduler stops
	cmd.OnStop(func() {
		pipelines.release()
		gpu.release()
	})

	app.UseSystem(
		System(surfaceResizeSystem).
			InStage(PreRender),
	)
	app.UseModules(GridFrameModule{
		Spec:       cfg.Grid,
		Background: cfg.BackgroundColor(),
		Interval:   cfg.ColorInterval.Duration(),
		Caps: frame.Capabilities{
			Devices:   gpu,
			Surface:   gpu,
			Pipelines: pipelines,
			Buffers:   gpu,
			Shader:    shaders.GridWGSL,
		},
	})
}

func surfaceResizeSystem(ws *WindowState, gpu *GpuState) {
	if w, h, changed := ws.framebufferSize(); changed {
		gpu.resize(w, h)
	}
}
