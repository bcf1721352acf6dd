package gekko

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-grid/frame"
	"github.com/gekko3d/gekko-grid/grid"
)

// countingGPU satisfies the frame capabilities and only counts work.
type countingGPU struct {
	available  bool
	acquireErr error
	uploads    int
	draws      []uint32
	clears     []frame.Color
	presents   int
}

type noopHandle struct{}

func (noopHandle) Release() {}

func (g *countingGPU) Available() bool { return g.available }
func (g *countingGPU) AcquireDevice(ctx context.Context) (frame.Device, error) {
	if g.acquireErr != nil {
		return nil, g.acquireErr
	}
	return g, nil
}
func (g *countingGPU) CreateCommandEncoder() (frame.CommandEncoder, error) { return g, nil }
func (g *countingGPU) Submit(cmd frame.CommandBuffer)                       {}
func (g *countingGPU) BeginRenderPass(view frame.TextureView, clear frame.Color) frame.RenderPass {
	g.clears = append(g.clears, clear)
	return g
}
func (g *countingGPU) Finish() (frame.CommandBuffer, error)        { return noopHandle{}, nil }
func (g *countingGPU) Release()                                    {}
func (g *countingGPU) SetPipeline(p frame.Pipeline)                {}
func (g *countingGPU) SetVertexBuffer(slot uint32, b frame.Buffer) {}
func (g *countingGPU) Draw(vertexCount, instanceCount uint32)      { g.draws = append(g.draws, vertexCount) }
func (g *countingGPU) End() error                                  { return nil }
func (g *countingGPU) Format() frame.TextureFormat                 { return 0 }
func (g *countingGPU) CurrentView() (frame.TextureView, error)     { return noopHandle{}, nil }
func (g *countingGPU) Present()                                    { g.presents++ }
func (g *countingGPU) Pipeline(frame.Device, frame.TextureFormat, string) (frame.Pipeline, error) {
	return "grid", nil
}
func (g *countingGPU) Buffer(dev frame.Device, label string, data []float32) (frame.Buffer, error) {
	g.uploads++
	return noopHandle{}, nil
}

func (g *countingGPU) caps() frame.Capabilities {
	return frame.Capabilities{Devices: g, Surface: g, Pipelines: g, Buffers: g}
}

func newGridApp(t *testing.T, gpu *countingGPU, log *bytes.Buffer) *App {
	t.Helper()
	app := NewAppBuilder().
		UseModule(
			LoggingModule{Debug: true, Out: log, ErrOut: log},
			GridFrameModule{
				Spec:       grid.GridSpec{Rows: 2, Cols: 2, RectWidth: 0.05},
				Background: frame.Color{R: 1, A: 1},
				Interval:   time.Hour,
				Caps:       gpu.caps(),
			},
		).
		Build()
	t.Cleanup(func() {
		app.Commands().Stop()
		app.Run()
	})
	return app
}

func TestGridFrameModule_DrawsInitialFrame(t *testing.T) {
	gpu := &countingGPU{available: true}
	var log bytes.Buffer
	app := newGridApp(t, gpu, &log)

	app.Step()
	assert.Equal(t, []uint32{24}, gpu.draws)
	assert.Equal(t, 2, gpu.uploads)
	assert.Equal(t, 1, gpu.presents)
	assert.Equal(t, []frame.Color{{R: 1, A: 1}}, gpu.clears)

	r, ok := Resource[GridRenderer](app)
	require.True(t, ok)
	assert.Equal(t, uint64(1), r.LastSeq())
	assert.Contains(t, log.String(), "Frame 1 (")

	// nothing new posted within the hour-long interval
	app.Step()
	assert.Len(t, gpu.draws, 1)
}

func TestGridFrameModule_UnavailableSkips(t *testing.T) {
	gpu := &countingGPU{available: false}
	var log bytes.Buffer
	app := newGridApp(t, gpu, &log)

	app.Step()
	assert.Empty(t, gpu.draws)
	assert.Zero(t, gpu.uploads)
	assert.Contains(t, log.String(), "Frame 1 skipped: device unavailable")

	r, _ := Resource[GridRenderer](app)
	assert.Equal(t, uint64(1), r.Stats().Skipped)
	assert.Zero(t, r.LastSeq())
}

func TestGridFrameModule_AcquireFailurePanics(t *testing.T) {
	gpu := &countingGPU{available: true, acquireErr: errors.New("no adapter")}
	var log bytes.Buffer
	app := newGridApp(t, gpu, &log)

	assert.Panics(t, app.Step)
	assert.Contains(t, log.String(), "no adapter")
}

func TestGridRenderer_LatestRequestWins(t *testing.T) {
	gpu := &countingGPU{available: true}
	mailbox := frame.NewMailbox()
	spec := grid.GridSpec{Rows: 1, Cols: 3, RectWidth: 0.05}
	r := NewGridRenderer(context.Background(), spec, frame.Background, gpu.caps(), mailbox)

	for seq := uint64(1); seq <= 3; seq++ {
		mailbox.Offer(frame.Request{Seq: seq, Colors: grid.GenerateColors(1, 3, nil)})
	}

	req, drawn, err := r.RenderLatest(context.Background())
	require.NoError(t, err)
	assert.True(t, drawn)
	assert.Equal(t, uint64(3), req.Seq)
	assert.Equal(t, uint64(2), r.Dropped())
	assert.Equal(t, []uint32{18}, gpu.draws)

	_, drawn, err = r.RenderLatest(context.Background())
	require.NoError(t, err)
	assert.False(t, drawn)
}

func TestGridRenderer_ColorSizeMismatch(t *testing.T) {
	gpu := &countingGPU{available: true}
	mailbox := frame.NewMailbox()
	r := NewGridRenderer(context.Background(), grid.GridSpec{Rows: 2, Cols: 2, RectWidth: 0.05}, frame.Background, gpu.caps(), mailbox)

	mailbox.Offer(frame.Request{Seq: 1, Colors: grid.GenerateColors(1, 1, nil)})
	_, _, err := r.RenderLatest(context.Background())
	assert.ErrorIs(t, err, frame.ErrBufferMismatch)
	assert.Empty(t, gpu.draws)
}

func TestEnsureSingleRenderer(t *testing.T) {
	app := newApp()
	assert.True(t, ensureSingleRenderer(app, RendererWGPU))
	assert.False(t, ensureSingleRenderer(app, RendererWGPU))
	assert.PanicsWithValue(t, "Multiple renderers installed: wgpu and other", func() {
		ensureSingleRenderer(app, "other")
	})
}
