package tiler

import "strings"

// ContentType selects the binary format used for leaf tile content. The
// choice is made once at configuration time; each writer keeps its byte
// layout to itself.
type ContentType string

const (
	// ContentTypePnts emits 3D Tiles 1.0 point cloud tiles.
	ContentTypePnts ContentType = "PNTS"
	// ContentTypeGlb emits binary glTF tiles, which on the tileset side
	// requires the 3DTILES_content_gltf extension.
	ContentTypeGlb ContentType = "GLB"
)

// Extension returns the file extension for content of this type.
func (c ContentType) Extension() string {
	if c == ContentTypeGlb {
		return "glb"
	}
	return "pnts"
}

// ParseContentType normalizes a user supplied format name. Returns "" for
// unrecognized input.
func ParseContentType(value string) ContentType {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "PNTS":
		return ContentTypePnts
	case "GLB":
		return ContentTypeGlb
	}
	return ""
}

// TilerOptions contains the options needed by one tiling run.
type TilerOptions struct {
	Input        string      // Input fractal parameters JSON file
	Output       string      // Output tileset folder
	ContentType  ContentType // Leaf content format
	Radius       float32     // Half-width of the octree root cube
	NodeCapacity int         // Maximum number of points per leaf
	MaxDepth     int         // Maximum subdivision depth of the octree
	Seed         int64       // RNG seed for the generator, 0 = use the params file value
	PlyExport    bool        // Also dump the root-level points as ASCII PLY
}

// Copy returns an independent copy of the options.
func (opt *TilerOptions) Copy() *TilerOptions {
	newOpt := *opt
	return &newOpt
}
