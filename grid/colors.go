package grid

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// ColorTable holds one RGB triple per vertex, laid out like the vertex buffer.
type ColorTable []float32

// GenerateColors draws one random color per cell and repeats it over the
// cell's six vertices. A nil rng uses the global source.
func GenerateColors(rows, cols int, rng *rand.Rand) ColorTable {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("GenerateColors: non-positive grid %dx%d", rows, cols))
	}
	float := rand.Float32
	if rng != nil {
		float = rng.Float32
	}

	colors := make(ColorTable, rows*cols*FloatsPerCell)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			color := mgl32.Vec3{float(), float(), float()}
			base := (row*cols + col) * FloatsPerCell
			for i := 0; i < VerticesPerCell; i++ {
				copy(colors[base+i*FloatsPerVertex:], color[:])
			}
		}
	}
	return colors
}

// Cell returns the color of cell (row, col), read from its first vertex.
func (t ColorTable) Cell(cols, row, col int) mgl32.Vec3 {
	base := (row*cols + col) * FloatsPerCell
	return mgl32.Vec3{t[base], t[base+1], t[base+2]}
}
