package grid

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGeometry_Length(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 7}, {3, 2}, {50, 50}} {
		spec := DefaultSpec()
		spec.Rows, spec.Cols = dims[0], dims[1]

		vertices, err := BuildGeometry(spec)
		require.NoError(t, err)
		assert.Len(t, vertices, dims[0]*dims[1]*6*3, "grid %dx%d", dims[0], dims[1])
		assert.Equal(t, len(vertices)/3, spec.VertexCount())
	}
}

func TestBuildGeometry_SingleCell(t *testing.T) {
	spec := GridSpec{Rows: 1, Cols: 1, RectWidth: 0.05, HSpacing: 0.005, VSpacing: 0.005}
	vertices, err := BuildGeometry(spec)
	require.NoError(t, err)
	require.Len(t, vertices, 18)

	origin := spec.Origin()
	assert.InDelta(t, -0.025, origin.X(), 1e-6)
	assert.InDelta(t, -0.025, origin.Y(), 1e-6)

	// Subtract the centering offset to recover the local corners.
	expected := [][2]float32{
		{-0.20, -0.10},
		{0.0, -0.10},
		{-0.20, 0.10},
		{-0.20, 0.10},
		{0.0, -0.10},
		{0.0, 0.10},
	}
	for i, e := range expected {
		x := vertices[i*3] - origin.X()
		y := vertices[i*3+1] - origin.Y()
		assert.InDelta(t, e[0], x, 1e-6, "vertex %d x", i)
		assert.InDelta(t, e[1], y, 1e-6, "vertex %d y", i)
		assert.Zero(t, vertices[i*3+2], "vertex %d z", i)
	}
}

func TestBuildGeometry_Centered(t *testing.T) {
	// Cell offsets are the lower-left corners of RectWidth-sized slots, so
	// the slots (offset + RectWidth/2) average to the origin.
	for _, dims := range [][2]int{{1, 1}, {2, 3}, {5, 4}, {50, 50}} {
		spec := DefaultSpec()
		spec.Rows, spec.Cols = dims[0], dims[1]
		spec.VSpacing = 0.01
		vertices := MustBuildGeometry(spec)

		var sumX, sumY float64
		for cell := 0; cell < spec.Cells(); cell++ {
			a := cell * FloatsPerCell
			sumX += float64(vertices[a]+0.20) + float64(spec.RectWidth)/2
			sumY += float64(vertices[a+1]+0.10) + float64(spec.RectWidth)/2
		}
		assert.InDelta(t, 0.0, sumX/float64(spec.Cells()), 1e-4, "grid %v mean x", dims)
		assert.InDelta(t, 0.0, sumY/float64(spec.Cells()), 1e-4, "grid %v mean y", dims)
	}
}

func TestBuildGeometry_CellBlocks(t *testing.T) {
	spec := GridSpec{Rows: 3, Cols: 4, RectWidth: 0.1, HSpacing: 0.02, VSpacing: 0.03}
	vertices := MustBuildGeometry(spec)
	origin := spec.Origin()

	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < spec.Cols; col++ {
			base := spec.CellOffset(row, col)
			// vertex A sits at the cell offset plus (-0.20, -0.10)
			wantX := origin.X() + float32(col)*0.12 - 0.20
			wantY := origin.Y() + float32(row)*0.13 - 0.10
			assert.InDelta(t, wantX, vertices[base], 1e-5)
			assert.InDelta(t, wantY, vertices[base+1], 1e-5)
		}
	}
}

func TestBuildGeometry_Deterministic(t *testing.T) {
	spec := DefaultSpec()
	a := MustBuildGeometry(spec)
	b := MustBuildGeometry(spec)
	require.Equal(t, len(a), len(b))
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			t.Fatalf("float %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBuildGeometry_TrianglesAreCCW(t *testing.T) {
	vertices := MustBuildGeometry(GridSpec{Rows: 1, Cols: 1, RectWidth: 0.05})
	for tri := 0; tri < 2; tri++ {
		p := func(i int) mgl32.Vec3 {
			o := (tri*3 + i) * 3
			return mgl32.Vec3{vertices[o], vertices[o+1], vertices[o+2]}
		}
		n := p(1).Sub(p(0)).Cross(p(2).Sub(p(0)))
		assert.Greater(t, n.Z(), float32(0), "triangle %d", tri)
	}
}

func TestBuildGeometry_InvalidSpec(t *testing.T) {
	cases := map[string]GridSpec{
		"zero rows":        {Rows: 0, Cols: 1, RectWidth: 0.1},
		"negative cols":    {Rows: 1, Cols: -2, RectWidth: 0.1},
		"zero width":       {Rows: 1, Cols: 1},
		"negative spacing": {Rows: 1, Cols: 1, RectWidth: 0.1, VSpacing: -0.01},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			vertices, err := BuildGeometry(spec)
			assert.ErrorIs(t, err, ErrInvalidGrid)
			assert.Nil(t, vertices)
			assert.Panics(t, func() { MustBuildGeometry(spec) })
		})
	}
}
