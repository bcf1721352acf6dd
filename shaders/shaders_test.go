package shaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridWGSL_EntryPoints(t *testing.T) {
	assert.Contains(t, GridWGSL, "fn vs_main(")
	assert.Contains(t, GridWGSL, "fn fs_main(")
	assert.Contains(t, GridWGSL, "@location(0) pos: vec3<f32>")
	assert.Contains(t, GridWGSL, "@location(1) color: vec3<f32>")
}
