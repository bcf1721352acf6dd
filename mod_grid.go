package gekko

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/gekko3d/gekko-grid/frame"
	"github.com/gekko3d/gekko-grid/grid"
)

// GridRenderer draws the newest color table posted to its mailbox.
type GridRenderer struct {
	Spec       grid.GridSpec
	Background frame.Color

	ctx       context.Context
	mailbox   *frame.Mailbox
	submitter *frame.Submitter
	lastSeq   uint64
}

func NewGridRenderer(ctx context.Context, spec grid.GridSpec, background frame.Color, caps frame.Capabilities, mailbox *frame.Mailbox) *GridRenderer {
	return &GridRenderer{
		Spec:       spec,
		Background: background,
		ctx:        ctx,
		mailbox:    mailbox,
		submitter:  frame.NewSubmitter(caps),
	}
}

// RenderLatest takes the pending request, if any, rebuilds the grid geometry
// and submits one frame. The bool is false when there was nothing to draw
// or the device was unavailable.
func (r *GridRenderer) RenderLatest(ctx context.Context) (frame.Request, bool, error) {
	req, ok := r.mailbox.Take()
	if !ok {
		return frame.Request{}, false, nil
	}

	vertices, err := grid.BuildGeometry(r.Spec)
	if err != nil {
		return req, false, err
	}

	before := r.submitter.Stats().Submitted
	if err := r.submitter.Submit(ctx, vertices, req.Colors, r.Background); err != nil {
		return req, false, err
	}
	if r.submitter.Stats().Submitted == before {
		return req, false, nil
	}
	r.lastSeq = req.Seq
	return req, true, nil
}

func (r *GridRenderer) LastSeq() uint64 {
	return r.lastSeq
}

func (r *GridRenderer) Stats() frame.Stats {
	return r.submitter.Stats()
}

func (r *GridRenderer) Dropped() uint64 {
	return r.mailbox.Dropped()
}

// GridFrameModule wires the color scheduler and the render system to a set
// of frame capabilities. It does not create a window or a GPU device.
type GridFrameModule struct {
	Spec       grid.GridSpec
	Background frame.Color
	Interval   time.Duration
	Caps       frame.Capabilities
}

func (mod GridFrameModule) Install(app *App, cmd *Commands) {
	if err := mod.Spec.Validate(); err != nil {
		panic(err)
	}
	if !app.hasResource(reflect.TypeOf((*Time)(nil)).Elem()) {
		app.UseModules(TimeModule{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	mailbox := frame.NewMailbox()
	renderer := NewGridRenderer(ctx, mod.Spec, mod.Background, mod.Caps, mailbox)

	scheduler := &frame.ColorScheduler{
		Rows:     mod.Spec.Rows,
		Cols:     mod.Spec.Cols,
		Interval: mod.Interval,
		Mailbox:  mailbox,
	}
	handle := scheduler.Start(ctx)

	cmd.AddResources(renderer)
	cmd.OnStop(func() {
		cancel()
		handle.Stop()
		app.Logger().Infof("Grid renderer stopped: %d frames submitted, %d skipped, %d superseded",
			renderer.Stats().Submitted, renderer.Stats().Skipped, renderer.Dropped())
	})
	app.UseSystem(
		System(gridRenderSystem).
			InStage(Render),
	)
	app.Logger().Infof("Grid %dx%d, colors every %s", mod.Spec.Rows, mod.Spec.Cols, mod.Interval)
}

func gridRenderSystem(r *GridRenderer, t *Time, cmd *Commands) {
	req, drawn, err := r.RenderLatest(r.ctx)
	if err != nil {
		if errors.Is(err, frame.ErrDeviceAcquisition) {
			cmd.Logger().Errorf("Frame %d: %v", req.Seq, err)
			panic(err)
		}
		cmd.Logger().Warnf("Frame %d dropped: %v", req.Seq, err)
		return
	}
	if req.Seq == 0 {
		return
	}
	if !drawn {
		cmd.Logger().Debugf("Frame %d skipped: device unavailable", req.Seq)
		return
	}
	cmd.Logger().Debugf("Frame %d (%s) submitted %s after request", req.Seq, req.ID, t.Time.Sub(req.Issued))
}
