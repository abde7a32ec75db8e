package io

// JSON layer of the tileset manifest, following the subset of the 3D Tiles
// schema this tiler emits.
// See https://github.com/CesiumGS/3d-tiles/tree/main/specification#reference-tileset

// The geometric error declared at the tileset document root: the coarsest
// acceptable error for the whole set.
const rootGeometricError = 1e7

type Asset struct {
	Version string `json:"version"`
}

type BoundingVolume struct {
	Box [12]float32 `json:"box"`
}

type Content struct {
	URI string `json:"uri"`
}

// Tile is one node of the recursive manifest tree. Leaves carry content,
// internal tiles carry children; empty leaves are pruned and appear nowhere.
type Tile struct {
	BoundingVolume BoundingVolume `json:"boundingVolume"`
	GeometricError float32        `json:"geometricError"`
	Refine         string         `json:"refine"`
	Content        *Content       `json:"content,omitempty"`
	Children       []*Tile        `json:"children,omitempty"`
}

type Tileset struct {
	Asset              Asset                  `json:"asset"`
	GeometricError     float64                `json:"geometricError"`
	Root               *Tile                  `json:"root"`
	ExtensionsRequired []string               `json:"extensionsRequired,omitempty"`
	ExtensionsUsed     []string               `json:"extensionsUsed,omitempty"`
	Extensions         map[string]interface{} `json:"extensions,omitempty"`
}
