package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/chaosgame/gochaostiler/internal/data"
)

// Cesium Point Cloud format version.
const pntsVersion = 1

// The .pnts header is always 28 bytes: magic plus six uint32 fields.
const pntsHeaderLength = 28

// A position is three little-endian float32 values.
const pntsPositionSize = 12

// Colors are stored as three bytes, r, g, b.
const pntsColorSize = 3

// This tiler does not use the batch table, so both of its lengths are zero.
const (
	pntsBatchTableJSONLength   = 0
	pntsBatchTableBinaryLength = 0
)

// PntsWriter encodes a leaf point buffer as a Cesium 3D Tiles 1.0 .pnts
// file: a 28-byte header, a space-padded feature table JSON, and a binary
// body of packed positions followed by packed colors.
//
// See https://github.com/CesiumGS/3d-tiles/tree/main/specification/TileFormats/PointCloud
type PntsWriter struct{}

func NewPntsWriter() *PntsWriter {
	return &PntsWriter{}
}

// Write encodes the points and writes them to the given path.
func (w *PntsWriter) Write(path string, points []*data.Point) error {
	content := w.Encode(points)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, "cannot write pnts file %s", path)
	}
	return nil
}

// Encode packs the points into the .pnts byte layout.
func (w *PntsWriter) Encode(points []*data.Point) []byte {
	numPoints := uint32(len(points))

	// The feature table binary stores all positions contiguously, then all
	// colors, so the RGB stream starts right after the positions.
	positionsLength := numPoints * pntsPositionSize
	colorsLength := numPoints * pntsColorSize

	featureTableJSON := fmt.Sprintf(
		`{"POINTS_LENGTH":%d,"POSITION":{"byteOffset":0},"RGB":{"byteOffset":%d}}`,
		numPoints, positionsLength)

	// The feature table JSON is padded so that the binary section starts on
	// an 8-byte boundary measured from the start of the file.
	jsonLength := uint32(len(featureTableJSON))
	jsonPadding := paddingLength(pntsHeaderLength + jsonLength)
	totalJSONLength := jsonLength + jsonPadding

	binaryLength := positionsLength + colorsLength
	binaryPadding := paddingLength(binaryLength)
	totalBinaryLength := binaryLength + binaryPadding

	totalLength := uint32(pntsHeaderLength) + totalJSONLength + totalBinaryLength +
		pntsBatchTableJSONLength + pntsBatchTableBinaryLength

	out := bytes.NewBuffer(make([]byte, 0, totalLength))

	// Header: all fields little-endian uint32 after the 4-byte magic.
	out.WriteString("pnts")
	writeUint32(out, pntsVersion)
	writeUint32(out, totalLength)
	writeUint32(out, totalJSONLength)
	writeUint32(out, totalBinaryLength)
	writeUint32(out, pntsBatchTableJSONLength)
	writeUint32(out, pntsBatchTableBinaryLength)

	out.WriteString(featureTableJSON)
	out.Write(makePadding(jsonPadding, paddingJSON))

	for _, point := range points {
		packed := point.Position.Pack()
		out.Write(packed[:])
	}
	for _, point := range points {
		out.Write([]byte{point.R, point.G, point.B})
	}
	out.Write(makePadding(binaryPadding, paddingBinary))

	return out.Bytes()
}

func writeUint32(out *bytes.Buffer, value uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	out.Write(buf[:])
}
