package io

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/geometry"
)

type featureTable struct {
	PointsLength uint32 `json:"POINTS_LENGTH"`
	Position     struct {
		ByteOffset uint32 `json:"byteOffset"`
	} `json:"POSITION"`
	RGB struct {
		ByteOffset uint32 `json:"byteOffset"`
	} `json:"RGB"`
}

// parsePnts splits an encoded .pnts byte slice into its header fields,
// feature table JSON and feature table binary.
func parsePnts(t *testing.T, content []byte) (featureTable, []byte) {
	t.Helper()
	require.GreaterOrEqual(t, len(content), pntsHeaderLength)

	require.Equal(t, "pnts", string(content[0:4]))
	require.EqualValues(t, pntsVersion, binary.LittleEndian.Uint32(content[4:8]))

	totalLength := binary.LittleEndian.Uint32(content[8:12])
	require.EqualValues(t, len(content), totalLength, "declared total length must match the file size")

	jsonLength := binary.LittleEndian.Uint32(content[12:16])
	binaryLength := binary.LittleEndian.Uint32(content[16:20])
	require.EqualValues(t, 0, binary.LittleEndian.Uint32(content[20:24]), "batch table JSON length")
	require.EqualValues(t, 0, binary.LittleEndian.Uint32(content[24:28]), "batch table binary length")

	require.EqualValues(t, 0, (pntsHeaderLength+jsonLength)%8, "binary body must start 8-byte aligned")
	require.EqualValues(t, 0, totalLength%8)

	jsonBytes := content[pntsHeaderLength : pntsHeaderLength+jsonLength]
	var table featureTable
	require.NoError(t, json.Unmarshal(jsonBytes, &table), "padded feature table must still parse")

	body := content[pntsHeaderLength+jsonLength : pntsHeaderLength+jsonLength+binaryLength]
	return table, body
}

func TestPntsEncodeRoundTrip(t *testing.T) {
	points := []*data.Point{
		data.NewPoint(geometry.Vec3{X: 1.5, Y: -2.25, Z: 0.125}, 255, 0, 10),
		data.NewPoint(geometry.Vec3{X: 0, Y: 0, Z: 0}, 1, 2, 3),
		data.NewPoint(geometry.Vec3{X: -9.75, Y: 4, Z: 7.5}, 100, 200, 50),
	}

	content := NewPntsWriter().Encode(points)
	table, body := parsePnts(t, content)

	require.EqualValues(t, len(points), table.PointsLength)
	require.EqualValues(t, 0, table.Position.ByteOffset)
	require.EqualValues(t, len(points)*pntsPositionSize, table.RGB.ByteOffset)

	for i, point := range points {
		offset := table.Position.ByteOffset + uint32(i*pntsPositionSize)
		x := math.Float32frombits(binary.LittleEndian.Uint32(body[offset:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(body[offset+4:]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(body[offset+8:]))
		require.Equal(t, point.Position, geometry.Vec3{X: x, Y: y, Z: z}, "position %d", i)

		colorOffset := table.RGB.ByteOffset + uint32(i*pntsColorSize)
		require.Equal(t, []byte{point.R, point.G, point.B}, body[colorOffset:colorOffset+3], "color %d", i)
	}
}

func TestPntsEncodeZeroPoints(t *testing.T) {
	content := NewPntsWriter().Encode(nil)
	table, body := parsePnts(t, content)

	require.EqualValues(t, 0, table.PointsLength)
	require.EqualValues(t, 0, table.Position.ByteOffset)
	require.EqualValues(t, 0, table.RGB.ByteOffset)
	require.Empty(t, body)
}

func TestPntsJSONPaddingIsSpaces(t *testing.T) {
	content := NewPntsWriter().Encode(nil)
	jsonLength := binary.LittleEndian.Uint32(content[12:16])
	padded := string(content[pntsHeaderLength : pntsHeaderLength+jsonLength])

	trimmed := strings.TrimRight(padded, " ")
	require.True(t, strings.HasSuffix(trimmed, "}"), "only spaces may follow the JSON payload")
}

func TestPntsWriteToDisk(t *testing.T) {
	dir := t.TempDir()
	fname := path.Join(dir, "content.pnts")

	points := []*data.Point{data.NewPoint(geometry.Vec3{X: 1, Y: 2, Z: 3}, 9, 8, 7)}
	require.NoError(t, NewPntsWriter().Write(fname, points))

	content, err := os.ReadFile(fname)
	require.NoError(t, err)
	require.Equal(t, NewPntsWriter().Encode(points), content)
}
