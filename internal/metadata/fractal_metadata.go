package metadata

// FractalMetadata captures the parameters of one plotting run. When the glb
// content type is selected it is embedded in the tileset through the
// 3DTILES_metadata extension so viewers can display provenance alongside the
// points.
type FractalMetadata struct {
	Algorithm            string
	Iterations           uint64
	InitialSetPointCount uint16
	InitialSetCopies     uint16
	IfsXformCount        uint8
	ColorIfsXformCount   uint8
	NodeCapacity         uint16

	// Filled in by the box-counting estimator after plotting.
	FractalDimension       float64
	FractalDimensionLevels uint8
	BoxSizes               []float64
	BoxCounts              []uint64
}

type propertyType struct {
	Type          string `json:"type"`
	ComponentType string `json:"componentType,omitempty"`
	Array         bool   `json:"array,omitempty"`
}

// TilesetExtension builds the JSON value of the 3DTILES_metadata tileset
// extension: a typed schema describing the run properties plus their values.
func (m *FractalMetadata) TilesetExtension() map[string]interface{} {
	properties := map[string]propertyType{
		"algorithm":                {Type: "STRING"},
		"iterations":               {Type: "SCALAR", ComponentType: "UINT64"},
		"initial_set_point_count":  {Type: "SCALAR", ComponentType: "UINT16"},
		"initial_set_copies":       {Type: "SCALAR", ComponentType: "UINT16"},
		"ifs_xform_count":          {Type: "SCALAR", ComponentType: "UINT8"},
		"color_ifs_xform_count":    {Type: "SCALAR", ComponentType: "UINT8"},
		"node_capacity":            {Type: "SCALAR", ComponentType: "UINT16"},
		"fractal_dimension":        {Type: "SCALAR", ComponentType: "FLOAT64"},
		"fractal_dimension_levels": {Type: "SCALAR", ComponentType: "UINT8"},
		"box_sizes":                {Type: "SCALAR", ComponentType: "FLOAT64", Array: true},
		"box_counts":               {Type: "SCALAR", ComponentType: "UINT64", Array: true},
	}

	return map[string]interface{}{
		"schema": map[string]interface{}{
			"classes": map[string]interface{}{
				"tileset": map[string]interface{}{
					"properties": properties,
				},
			},
		},
		"tileset": map[string]interface{}{
			"class": "tileset",
			"properties": map[string]interface{}{
				"algorithm":                m.Algorithm,
				"iterations":               m.Iterations,
				"initial_set_point_count":  m.InitialSetPointCount,
				"initial_set_copies":       m.InitialSetCopies,
				"ifs_xform_count":          m.IfsXformCount,
				"color_ifs_xform_count":    m.ColorIfsXformCount,
				"node_capacity":            m.NodeCapacity,
				"fractal_dimension":        m.FractalDimension,
				"fractal_dimension_levels": m.FractalDimensionLevels,
				"box_sizes":                m.BoxSizes,
				"box_counts":               m.BoxCounts,
			},
		},
	}
}
