package gekko

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"

	"github.com/gekko3d/gekko-grid/frame"
)

var ErrGpuUnavailable = errors.New("WebGPU is not supported")

// GpuState owns the wgpu surface, adapter and (once acquired) device. It
// implements the frame capability interfaces on top of wgpu.
type GpuState struct {
	window        *WindowState
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
	format        wgpu.TextureFormat
	status        error
}

// createGpuState finds an adapter for the window's surface. A missing
// adapter is recorded as the status instead of failing, so frames are
// skipped rather than the program aborting.
func createGpuState(s *WindowState, lowPower bool) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))

	power := wgpu.PowerPreferenceHighPerformance
	if lowPower {
		power = wgpu.PowerPreferenceLowPower
	}
	state := &GpuState{window: s, surface: surface}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   power,
	})
	if err != nil {
		state.status = fmt.Errorf("%w: %w", ErrGpuUnavailable, err)
		return state
	}
	state.adapter = adapter

	caps := surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 {
		state.status = fmt.Errorf("%w: surface reports no formats", ErrGpuUnavailable)
		return state
	}
	state.format = caps.Formats[0]
	state.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      state.format,
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	return state
}

// StatusMessage is the one-line status shown once at startup.
func (g *GpuState) StatusMessage() string {
	if g.status != nil {
		return g.status.Error()
	}
	return "WebGPU is available"
}

func (g *GpuState) Available() bool {
	return g.status == nil && g.adapter != nil
}

// AcquireDevice requests the device on first use and configures the surface
// for it. Later calls return the same device.
func (g *GpuState) AcquireDevice(ctx context.Context) (frame.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.device == nil {
		device, err := g.adapter.RequestDevice(&wgpu.DeviceDescriptor{
			Label: "Main Device",
		})
		if err != nil {
			return nil, err
		}
		g.device = device
		g.queue = device.GetQueue()
		g.surfaceConfig.Width = uint32(g.window.WindowWidth)
		g.surfaceConfig.Height = uint32(g.window.WindowHeight)
		g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
	}
	return &wgpuDevice{device: g.device, queue: g.queue}, nil
}

// resize reconfigures the surface after the framebuffer size changed.
func (g *GpuState) resize(width, height int) {
	if g.device == nil || width <= 0 || height <= 0 {
		return
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
}

func (g *GpuState) Format() frame.TextureFormat {
	return frame.TextureFormat(g.format)
}

func (g *GpuState) CurrentView() (frame.TextureView, error) {
	nextTexture, err := g.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		nextTexture.Release()
		return nil, err
	}
	return &surfaceView{view: view, texture: nextTexture}, nil
}

type releaser interface {
	Release()
}

// surfaceView keeps the surface texture alive for as long as its view and
// releases both together.
type surfaceView struct {
	view    *wgpu.TextureView
	texture releaser
}

func (v *surfaceView) Release() {
	if v.view != nil {
		v.view.Release()
	}
	if v.texture != nil {
		v.texture.Release()
	}
}

func (g *GpuState) Present() {
	g.surface.Present()
}

func (g *GpuState) Buffer(dev frame.Device, label string, data []float32) (frame.Buffer, error) {
	d, ok := dev.(*wgpuDevice)
	if !ok {
		return nil, fmt.Errorf("unexpected device type %T", dev)
	}
	return d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(data),
		Usage:    wgpu.BufferUsageVertex,
	})
}

func (g *GpuState) release() {
	if g.device != nil {
		g.device.Release()
	}
	if g.adapter != nil {
		g.adapter.Release()
	}
	g.surface.Release()
}

type wgpuDevice struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

func (d *wgpuDevice) CreateCommandEncoder() (frame.CommandEncoder, error) {
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	return &wgpuEncoder{encoder: encoder}, nil
}

func (d *wgpuDevice) Submit(cmd frame.CommandBuffer) {
	d.queue.Submit(cmd.(*wgpu.CommandBuffer))
}

type wgpuEncoder struct {
	encoder *wgpu.CommandEncoder
}

func (e *wgpuEncoder) BeginRenderPass(view frame.TextureView, clear frame.Color) frame.RenderPass {
	pass := e.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view.(*surfaceView).view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A},
			},
		},
	})
	return &wgpuRenderPass{pass: pass}
}

func (e *wgpuEncoder) Finish() (frame.CommandBuffer, error) {
	return e.encoder.Finish(nil)
}

func (e *wgpuEncoder) Release() {
	e.encoder.Release()
}

type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *wgpuRenderPass) SetPipeline(pipeline frame.Pipeline) {
	p.pass.SetPipeline(pipeline.(*wgpu.RenderPipeline))
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, b frame.Buffer) {
	p.pass.SetVertexBuffer(slot, b.(*wgpu.Buffer), 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) Draw(vertexCount, instanceCount uint32) {
	p.pass.Draw(vertexCount, instanceCount, 0, 0)
}

func (p *wgpuRenderPass) End() error {
	defer p.pass.Release()
	return p.pass.End()
}

// gridPosition and gridColor describe the two vertex streams of the grid
// shader, one buffer per stream.
type gridPosition struct {
	Pos [3]float32 `gekko:"layout" location:"0" format:"float3"`
}

type gridColor struct {
	Color [3]float32 `gekko:"layout" location:"1" format:"float3"`
}

// pipelineCache compiles the grid pipeline once per surface format.
type pipelineCache struct {
	pipelines map[frame.TextureFormat]*wgpu.RenderPipeline
}

func newPipelineCache() *pipelineCache {
	return &pipelineCache{pipelines: make(map[frame.TextureFormat]*wgpu.RenderPipeline)}
}

func (c *pipelineCache) Pipeline(dev frame.Device, format frame.TextureFormat, shaderCode string) (frame.Pipeline, error) {
	if p, ok := c.pipelines[format]; ok {
		return p, nil
	}
	d, ok := dev.(*wgpuDevice)
	if !ok {
		return nil, fmt.Errorf("unexpected device type %T", dev)
	}
	p, err := createRenderPipeline("grid", shaderCode, wgpu.TextureFormat(format), d.device, gridPosition{}, gridColor{})
	if err != nil {
		return nil, err
	}
	c.pipelines[format] = p
	return p, nil
}

func (c *pipelineCache) release() {
	for format, p := range c.pipelines {
		p.Release()
		delete(c.pipelines, format)
	}
}

func createRenderPipeline(name string, shaderCode string, format wgpu.TextureFormat, device *wgpu.Device, vertexTypes ...any) (*wgpu.RenderPipeline, error) {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderCode},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", name, err)
	}
	defer shader.Release()

	layouts := make([]wgpu.VertexBufferLayout, 0, len(vertexTypes))
	for _, vt := range vertexTypes {
		layouts = append(layouts, createVertexBufferLayout(vt))
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: name,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    layouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", name, err)
	}
	return pipeline, nil
}

func createVertexBufferLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("Vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if "layout" == field.Tag.Get("gekko") {
			format := parseFormat(field.Tag.Get("format"))
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if nil != err {
				panic(err)
			}

			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

func parseFormat(name string) wgpu.VertexFormat {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2
	case "float3":
		return wgpu.VertexFormatFloat32x3
	case "float4":
		return wgpu.VertexFormatFloat32x4
	default:
		panic("unsupported vertex layout format: " + name)
	}
}
