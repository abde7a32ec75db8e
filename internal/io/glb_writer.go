package io

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/geometry"
)

// glTF version number. 2.0 is the current major version.
const gltfVersion = 2

// glTF primitive mode for point clouds.
const gltfModePoints = 0

// glTF component type constants.
const (
	gltfFloat        = 5126
	gltfUnsignedByte = 5121
)

// Lengths of the GLB header and of one chunk header (length + type tag).
const (
	glbHeaderLength      = 12
	glbChunkHeaderLength = 8
)

// Byte sizes of the packed streams. Colors carry one byte of padding per
// point and are read with a stride of 4; every other integer field is
// widened to float32 so the GPU can read all metadata streams uniformly.
const (
	sizeVec3   = 12
	sizeColor  = 4
	sizeScalar = 4
)

// The nine buffer regions of the BIN chunk, in file order.
const (
	regionPosition = iota
	regionColor
	regionClusterCoord
	regionIteration
	regionClusterCopy
	regionClusterID
	regionPointID
	regionLastXform
	regionLastColorXform
	regionCount
)

// bufferRegion tracks the layout of one independently aligned region of the
// BIN chunk.
type bufferRegion struct {
	byteOffset uint32
	byteLength uint32
	padding    uint32
}

// afterOffset is the offset of the byte following this region and its
// padding.
func (r bufferRegion) afterOffset() uint32 {
	return r.byteOffset + r.byteLength + r.padding
}

// GlbWriter encodes a leaf point buffer as a binary glTF point cloud with
// per-point fractal metadata exposed through EXT_mesh_features and
// EXT_structural_metadata.
type GlbWriter struct {
	pointCount uint32
	regions    [regionCount]bufferRegion
	posMin     geometry.Vec3
	posMax     geometry.Vec3
	// Number of distinct cluster copies in the buffer, reported as the
	// feature count of FEATURE_ID_0.
	featureCount uint32
}

func NewGlbWriter() *GlbWriter {
	return &GlbWriter{}
}

// Write encodes the points and writes them to the given path.
func (w *GlbWriter) Write(path string, points []*data.Point) error {
	content, err := w.Encode(points)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, "cannot write glb file %s", path)
	}
	return nil
}

// Encode packs the points into the GLB byte layout: 12-byte header, JSON
// chunk, BIN chunk.
func (w *GlbWriter) Encode(points []*data.Point) ([]byte, error) {
	w.computeLayout(points)

	jsonBytes, err := json.Marshal(w.makeDocument())
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal glTF JSON")
	}
	jsonLength := uint32(len(jsonBytes))
	jsonPadding := paddingLength(jsonLength)

	binaryLength := w.regions[regionLastColorXform].afterOffset()

	totalLength := uint32(glbHeaderLength) +
		glbChunkHeaderLength + jsonLength + jsonPadding +
		glbChunkHeaderLength + binaryLength

	out := bytes.NewBuffer(make([]byte, 0, totalLength))

	// Header.
	out.WriteString("glTF")
	writeUint32(out, gltfVersion)
	writeUint32(out, totalLength)

	// JSON chunk. The declared chunk length includes the space padding.
	writeUint32(out, jsonLength+jsonPadding)
	out.WriteString("JSON")
	out.Write(jsonBytes)
	out.Write(makePadding(jsonPadding, paddingJSON))

	// BIN chunk. The regions are already individually aligned, so the chunk
	// itself needs no trailing padding.
	writeUint32(out, binaryLength)
	out.Write([]byte{'B', 'I', 'N', 0})
	w.writeBinaryChunk(out, points)

	return out.Bytes(), nil
}

// computeLayout fixes the byte offsets and lengths of all nine BIN regions
// and records the position extent of the buffer.
func (w *GlbWriter) computeLayout(points []*data.Point) {
	pointCount := uint32(len(points))
	w.pointCount = pointCount

	layout := func(region int, stride uint32) {
		if region > 0 {
			w.regions[region].byteOffset = w.regions[region-1].afterOffset()
		}
		w.regions[region].byteLength = pointCount * stride
		w.regions[region].padding = paddingLength(pointCount * stride)
	}

	layout(regionPosition, sizeVec3)
	layout(regionColor, sizeColor)
	layout(regionClusterCoord, sizeVec3)
	layout(regionIteration, sizeScalar)
	layout(regionClusterCopy, sizeScalar)
	layout(regionClusterID, sizeScalar)
	layout(regionPointID, sizeScalar)
	layout(regionLastXform, sizeScalar)
	layout(regionLastColorXform, sizeScalar)

	// The position accessor must carry the min/max of its components.
	min := geometry.MaxVec3
	max := geometry.MinVec3
	copies := make(map[uint16]struct{})
	for _, point := range points {
		min = min.Min(point.Position)
		max = max.Max(point.Position)
		copies[point.ClusterCopy] = struct{}{}
	}
	if pointCount == 0 {
		min = geometry.Vec3{}
		max = geometry.Vec3{}
	}
	w.posMin = min
	w.posMax = max
	w.featureCount = uint32(len(copies))
}

type gltfAsset struct {
	Version string `json:"version"`
}

type gltfScene struct {
	Nodes []int `json:"nodes"`
}

type gltfNode struct {
	Mesh   int         `json:"mesh"`
	Matrix [16]float32 `json:"matrix"`
}

type gltfPrimitive struct {
	Attributes map[string]int         `json:"attributes"`
	Mode       int                    `json:"mode"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

type gltfMesh struct {
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfAccessor struct {
	Name          string    `json:"name,omitempty"`
	BufferView    int       `json:"bufferView"`
	ComponentType int       `json:"componentType"`
	Count         uint32    `json:"count"`
	Type          string    `json:"type"`
	Normalized    bool      `json:"normalized,omitempty"`
	Min           []float32 `json:"min,omitempty"`
	Max           []float32 `json:"max,omitempty"`
}

type gltfBufferView struct {
	Name       string `json:"name,omitempty"`
	Buffer     int    `json:"buffer"`
	ByteOffset uint32 `json:"byteOffset"`
	ByteLength uint32 `json:"byteLength"`
	ByteStride int    `json:"byteStride,omitempty"`
}

type gltfBuffer struct {
	ByteLength uint32 `json:"byteLength"`
}

type gltfDocument struct {
	Asset          gltfAsset              `json:"asset"`
	ExtensionsUsed []string               `json:"extensionsUsed"`
	Extensions     map[string]interface{} `json:"extensions"`
	Scene          int                    `json:"scene"`
	Scenes         []gltfScene            `json:"scenes"`
	Nodes          []gltfNode             `json:"nodes"`
	Meshes         []gltfMesh             `json:"meshes"`
	Accessors      []gltfAccessor         `json:"accessors"`
	BufferViews    []gltfBufferView       `json:"bufferViews"`
	Buffers        []gltfBuffer           `json:"buffers"`
}

// metadataProperties lists the six per-point metadata streams in region
// order, with the custom attribute name each one is bound to.
var metadataProperties = []struct {
	property  string
	attribute string
	region    int
}{
	{"iteration", "_ITERATION", regionIteration},
	{"cluster_copy", "_CLUSTER_COPY", regionClusterCopy},
	{"cluster_id", "_CLUSTER_ID", regionClusterID},
	{"point_id", "_POINT_ID", regionPointID},
	{"last_xform", "_LAST_XFORM", regionLastXform},
	{"last_color_xform", "_LAST_COLOR_XFORM", regionLastColorXform},
}

// makeDocument builds the glTF JSON for the JSON chunk: one mesh primitive
// in points mode, one accessor and buffer view per region, and the two
// metadata extension blocks.
func (w *GlbWriter) makeDocument() gltfDocument {
	attributes := map[string]int{
		"POSITION":             regionPosition,
		"COLOR_0":              regionColor,
		"_CLUSTER_COORDINATES": regionClusterCoord,
		// FEATURE_ID_0 aliases the cluster copy stream for EXT_mesh_features.
		"FEATURE_ID_0": regionClusterCopy,
	}
	for _, p := range metadataProperties {
		attributes[p.attribute] = p.region
	}

	schemaProperties := make(map[string]interface{}, len(metadataProperties))
	attributeBindings := make(map[string]interface{}, len(metadataProperties))
	for _, p := range metadataProperties {
		// Source values are integers, but the streams are widened to
		// float32, so the schema declares them as FLOAT32 scalars.
		schemaProperties[p.property] = map[string]interface{}{
			"type":          "SCALAR",
			"componentType": "FLOAT32",
			"required":      true,
		}
		attributeBindings[p.property] = map[string]interface{}{
			"attribute": p.attribute,
		}
	}

	accessors := []gltfAccessor{
		{
			Name:          "Positions",
			BufferView:    regionPosition,
			ComponentType: gltfFloat,
			Count:         w.pointCount,
			Type:          "VEC3",
			Min:           []float32{w.posMin.X, w.posMin.Y, w.posMin.Z},
			Max:           []float32{w.posMax.X, w.posMax.Y, w.posMax.Z},
		},
		{
			Name:          "Colors",
			BufferView:    regionColor,
			ComponentType: gltfUnsignedByte,
			Count:         w.pointCount,
			Type:          "VEC3",
			Normalized:    true,
		},
		{
			Name:          "Cluster Coordinates",
			BufferView:    regionClusterCoord,
			ComponentType: gltfFloat,
			Count:         w.pointCount,
			Type:          "VEC3",
		},
	}
	for _, p := range metadataProperties {
		accessors = append(accessors, gltfAccessor{
			Name:          p.property,
			BufferView:    p.region,
			ComponentType: gltfFloat,
			Count:         w.pointCount,
			Type:          "SCALAR",
		})
	}

	bufferViews := make([]gltfBufferView, regionCount)
	names := [regionCount]string{
		"Positions", "Colors", "Cluster Coordinates", "Iteration",
		"Cluster Copy", "Cluster ID", "Point ID", "Last Xform",
		"Last Color Xform",
	}
	for region := 0; region < regionCount; region++ {
		bufferViews[region] = gltfBufferView{
			Name:       names[region],
			Buffer:     0,
			ByteOffset: w.regions[region].byteOffset,
			ByteLength: w.regions[region].byteLength,
		}
	}
	bufferViews[regionColor].ByteStride = 4

	return gltfDocument{
		Asset:          gltfAsset{Version: "2.0"},
		ExtensionsUsed: []string{"EXT_mesh_features", "EXT_structural_metadata"},
		Extensions: map[string]interface{}{
			"EXT_structural_metadata": map[string]interface{}{
				"schema": map[string]interface{}{
					"id": "fractal",
					"classes": map[string]interface{}{
						"fractal_point": map[string]interface{}{
							"name":       "Fractal point",
							"properties": schemaProperties,
						},
					},
				},
				"propertyAttributes": []interface{}{
					map[string]interface{}{
						"class":      "fractal_point",
						"properties": attributeBindings,
					},
				},
			},
		},
		Scene:  0,
		Scenes: []gltfScene{{Nodes: []int{0}}},
		Nodes: []gltfNode{
			{
				Mesh: 0,
				// Rotate the z-up fractal space into glTF's y-up convention.
				Matrix: [16]float32{
					1, 0, 0, 0,
					0, 0, -1, 0,
					0, 1, 0, 0,
					0, 0, 0, 1,
				},
			},
		},
		Meshes: []gltfMesh{
			{
				Primitives: []gltfPrimitive{
					{
						Attributes: attributes,
						Mode:       gltfModePoints,
						Extensions: map[string]interface{}{
							"EXT_mesh_features": map[string]interface{}{
								"featureIds": []interface{}{
									map[string]interface{}{
										"featureCount": w.featureCount,
										"attribute":    0,
										"label":        "cluster_copy",
									},
								},
							},
							"EXT_structural_metadata": map[string]interface{}{
								"propertyAttributes": []interface{}{0},
							},
						},
					},
				},
			},
		},
		Accessors:   accessors,
		BufferViews: bufferViews,
		Buffers:     []gltfBuffer{{ByteLength: w.regions[regionLastColorXform].afterOffset()}},
	}
}

// writeBinaryChunk packs the nine streams in region order, padding each one
// to its 8-byte boundary.
func (w *GlbWriter) writeBinaryChunk(out *bytes.Buffer, points []*data.Point) {
	writeRegionPadding := func(region int) {
		out.Write(makePadding(w.regions[region].padding, paddingBinary))
	}

	for _, point := range points {
		packed := point.Position.Pack()
		out.Write(packed[:])
	}
	writeRegionPadding(regionPosition)

	for _, point := range points {
		out.Write([]byte{point.R, point.G, point.B, 0x00})
	}
	writeRegionPadding(regionColor)

	for _, point := range points {
		packed := point.ClusterCoord.Pack()
		out.Write(packed[:])
	}
	writeRegionPadding(regionClusterCoord)

	scalarStreams := []struct {
		region int
		value  func(*data.Point) float32
	}{
		{regionIteration, func(p *data.Point) float32 { return float32(p.Iteration) }},
		{regionClusterCopy, func(p *data.Point) float32 { return float32(p.ClusterCopy) }},
		{regionClusterID, func(p *data.Point) float32 { return float32(p.ClusterID) }},
		{regionPointID, func(p *data.Point) float32 { return float32(p.PointID) }},
		{regionLastXform, func(p *data.Point) float32 { return float32(p.LastXform) }},
		{regionLastColorXform, func(p *data.Point) float32 { return float32(p.LastColorXform) }},
	}
	var buf [4]byte
	for _, stream := range scalarStreams {
		for _, point := range points {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(stream.value(point)))
			out.Write(buf[:])
		}
		writeRegionPadding(stream.region)
	}
}
