package grid

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	VerticesPerCell = 6
	FloatsPerVertex = 3
	FloatsPerCell   = VerticesPerCell * FloatsPerVertex
)

var ErrInvalidGrid = errors.New("invalid grid")

// GridSpec describes the logical layout of the rectangle grid.
type GridSpec struct {
	Rows      int     `yaml:"rows"`
	Cols      int     `yaml:"cols"`
	RectWidth float32 `yaml:"rect_width"`
	HSpacing  float32 `yaml:"horizontal_spacing"`
	VSpacing  float32 `yaml:"vertical_spacing"`
}

// DefaultSpec is the 50x50 layout the program ships with.
func DefaultSpec() GridSpec {
	return GridSpec{
		Rows:      50,
		Cols:      50,
		RectWidth: 0.05,
		HSpacing:  0.005,
		VSpacing:  0.005,
	}
}

func (s GridSpec) Validate() error {
	switch {
	case s.Rows <= 0:
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidGrid, s.Rows)
	case s.Cols <= 0:
		return fmt.Errorf("%w: cols must be positive, got %d", ErrInvalidGrid, s.Cols)
	case s.RectWidth <= 0:
		return fmt.Errorf("%w: rect width must be positive, got %g", ErrInvalidGrid, s.RectWidth)
	case s.HSpacing < 0 || s.VSpacing < 0:
		return fmt.Errorf("%w: spacing must not be negative, got %g/%g", ErrInvalidGrid, s.HSpacing, s.VSpacing)
	}
	return nil
}

func (s GridSpec) Cells() int {
	return s.Rows * s.Cols
}

// BufferLen is the number of floats in both the vertex and color buffers.
func (s GridSpec) BufferLen() int {
	return s.Cells() * FloatsPerCell
}

func (s GridSpec) VertexCount() int {
	return s.Cells() * VerticesPerCell
}

// CellOffset returns the index of the first float of cell (row, col).
func (s GridSpec) CellOffset(row, col int) int {
	return (row*s.Cols + col) * FloatsPerCell
}

// Origin is the bottom-left offset that centers the grid on (0,0).
func (s GridSpec) Origin() mgl32.Vec2 {
	totalWidth := float32(s.Cols)*(s.RectWidth+s.HSpacing) - s.HSpacing
	totalHeight := float32(s.Rows)*(s.RectWidth+s.VSpacing) - s.VSpacing
	return mgl32.Vec2{-totalWidth / 2, -totalHeight / 2}
}

// Quad corners in cell-local space. The x extent is [-0.20, 0.0] and the y
// extent is [-0.10, 0.10] regardless of RectWidth.
var (
	cornerA = mgl32.Vec3{-0.20, -0.10, 0}
	cornerB = mgl32.Vec3{0.0, -0.10, 0}
	cornerC = mgl32.Vec3{0.0, 0.10, 0}
	cornerD = mgl32.Vec3{-0.20, 0.10, 0}

	// two CCW triangles sharing the B-D diagonal
	quadCorners = [VerticesPerCell]mgl32.Vec3{cornerA, cornerB, cornerD, cornerD, cornerB, cornerC}
)

// BuildGeometry emits six vertices per cell, row-major, into a fresh buffer.
func BuildGeometry(spec GridSpec) ([]float32, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	origin := spec.Origin()
	stepX := spec.RectWidth + spec.HSpacing
	stepY := spec.RectWidth + spec.VSpacing

	vertices := make([]float32, spec.BufferLen())
	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < spec.Cols; col++ {
			offset := mgl32.Vec3{
				origin.X() + float32(col)*stepX,
				origin.Y() + float32(row)*stepY,
				0,
			}
			base := spec.CellOffset(row, col)
			for i, corner := range quadCorners {
				v := corner.Add(offset)
				copy(vertices[base+i*FloatsPerVertex:], v[:])
			}
		}
	}
	return vertices, nil
}

func MustBuildGeometry(spec GridSpec) []float32 {
	vertices, err := BuildGeometry(spec)
	if err != nil {
		panic(err)
	}
	return vertices
}
