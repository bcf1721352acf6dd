package frame

import "context"

// TextureFormat mirrors the numeric values of wgpu.TextureFormat.
type TextureFormat uint32

type Color struct {
	R, G, B, A float64
}

// Background is the clear color used when none is configured.
var Background = Color{R: 0.25, G: 0.25, B: 0.3, A: 1.0}

// Opaque device handles. Concrete types come from the GPU backend.
type (
	Buffer interface {
		Release()
	}
	Pipeline      any
	TextureView   interface{ Release() }
	CommandBuffer interface{ Release() }
)

type DeviceProvider interface {
	// Available reports whether a GPU device can be acquired at all.
	Available() bool
	// AcquireDevice blocks until the platform grants a device or fails.
	AcquireDevice(ctx context.Context) (Device, error)
}

type Device interface {
	CreateCommandEncoder() (CommandEncoder, error)
	Submit(cmd CommandBuffer)
}

type CommandEncoder interface {
	BeginRenderPass(view TextureView, clear Color) RenderPass
	Finish() (CommandBuffer, error)
	Release()
}

type RenderPass interface {
	SetPipeline(p Pipeline)
	SetVertexBuffer(slot uint32, b Buffer)
	Draw(vertexCount, instanceCount uint32)
	End() error
}

type SurfaceProvider interface {
	Format() TextureFormat
	CurrentView() (TextureView, error)
	Present()
}

type PipelineProvider interface {
	Pipeline(dev Device, format TextureFormat, shader string) (Pipeline, error)
}

type BufferProvider interface {
	Buffer(dev Device, label string, data []float32) (Buffer, error)
}

// Capabilities bundles the providers a Submitter draws with.
type Capabilities struct {
	Devices   DeviceProvider
	Surface   SurfaceProvider
	Pipelines PipelineProvider
	Buffers   BufferProvider
	Shader    string
}
