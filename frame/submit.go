package frame

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrBufferMismatch    = errors.New("vertex and color buffers differ in length")
	ErrDeviceAcquisition = errors.New("device acquisition failed")
)

// Slots the grid shader reads positions and colors from.
const (
	PositionSlot uint32 = 0
	ColorSlot    uint32 = 1
)

// Stats counts what a Submitter has done since it was created.
type Stats struct {
	Submitted uint64
	Skipped   uint64
	Vertices  uint64
}

type Submitter struct {
	caps  Capabilities
	stats Stats
}

func NewSubmitter(caps Capabilities) *Submitter {
	return &Submitter{caps: caps}
}

func (s *Submitter) Stats() Stats {
	return s.stats
}

// Submit uploads both buffers and records a single non-indexed draw over all
// vertices into one render pass cleared to background. When no device is
// available the frame is skipped and Submit returns nil.
func (s *Submitter) Submit(ctx context.Context, vertices, colors []float32, background Color) error {
	if len(vertices) != len(colors) || len(vertices)%3 != 0 {
		return fmt.Errorf("%w: %d vs %d floats", ErrBufferMismatch, len(vertices), len(colors))
	}
	if !s.caps.Devices.Available() {
		s.stats.Skipped++
		return nil
	}

	device, err := s.caps.Devices.AcquireDevice(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceAcquisition, err)
	}

	vertexBuf, err := s.caps.Buffers.Buffer(device, "Grid Vertices", vertices)
	if err != nil {
		return fmt.Errorf("upload vertices: %w", err)
	}
	defer vertexBuf.Release()
	colorBuf, err := s.caps.Buffers.Buffer(device, "Grid Colors", colors)
	if err != nil {
		return fmt.Errorf("upload colors: %w", err)
	}
	defer colorBuf.Release()

	pipeline, err := s.caps.Pipelines.Pipeline(device, s.caps.Surface.Format(), s.caps.Shader)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	view, err := s.caps.Surface.CurrentView()
	if err != nil {
		return fmt.Errorf("acquire surface view: %w", err)
	}
	defer view.Release()

	encoder, err := device.CreateCommandEncoder()
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	vertexCount := uint32(len(vertices) / 3)
	pass := encoder.BeginRenderPass(view, background)
	pass.SetPipeline(pipeline)
	pass.SetVertexBuffer(PositionSlot, vertexBuf)
	pass.SetVertexBuffer(ColorSlot, colorBuf)
	pass.Draw(vertexCount, 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmd, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	defer cmd.Release()

	device.Submit(cmd)
	s.caps.Surface.Present()

	s.stats.Submitted++
	s.stats.Vertices += uint64(vertexCount)
	return nil
}
