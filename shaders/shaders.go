package shaders

import (
	_ "embed"
)

//go:embed grid.wgsl
var GridWGSL string
