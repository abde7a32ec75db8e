package io

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/geometry"
	"github.com/chaosgame/gochaostiler/internal/metadata"
	"github.com/chaosgame/gochaostiler/internal/octree"
	"github.com/chaosgame/gochaostiler/internal/tiler"
)

func testMetadata() *metadata.FractalMetadata {
	return &metadata.FractalMetadata{
		Algorithm:            "chaos_game",
		Iterations:           1000,
		InitialSetPointCount: 10,
		InitialSetCopies:     1,
		IfsXformCount:        4,
		ColorIfsXformCount:   1,
		NodeCapacity:         2,
	}
}

// buildThreePointTree builds a two-level tree: two points near the origin
// and one near the upper corner, with capacity 2 and max depth 3.
func buildThreePointTree() *octree.OctTree {
	tree := octree.NewOctTree(10, 2, 3)
	tree.AddPoint(data.NewPoint(geometry.Vec3{}, 255, 255, 255))
	tree.AddPoint(data.NewPoint(geometry.Vec3{Z: 0.1}, 255, 255, 255))
	tree.AddPoint(data.NewPoint(geometry.Vec3{X: 9, Y: 9, Z: 9}, 255, 255, 255))
	return tree
}

func readTileset(t *testing.T, dirname string) *Tileset {
	t.Helper()
	content, err := os.ReadFile(path.Join(dirname, "tileset.json"))
	require.NoError(t, err)
	var tileset Tileset
	require.NoError(t, json.Unmarshal(content, &tileset))
	return &tileset
}

func TestSaveWritesManifestAndContents(t *testing.T) {
	dir := t.TempDir()
	tree := buildThreePointTree()

	writer := NewTilesetWriter(tiler.ContentTypePnts, testMetadata())
	require.NoError(t, writer.Save(dir, tree.RootNode()))

	tileset := readTileset(t, dir)
	require.Equal(t, "1.0", tileset.Asset.Version)
	require.EqualValues(t, 1e7, tileset.GeometricError)
	require.Nil(t, tileset.Extensions, "pnts output declares no tileset extensions")

	root := tileset.Root
	require.NotNil(t, root)
	require.Equal(t, "ADD", root.Refine)
	require.Nil(t, root.Content, "internal tiles carry no content")
	require.InDelta(t, float64(tree.RootNode().GeometricError()), float64(root.GeometricError), 1e-3)

	// Only octant 7 of the root is occupied, and inside it only octants 0
	// and 7 are; empty leaves are pruned from the manifest.
	require.Len(t, root.Children, 1)
	middle := root.Children[0]
	require.Len(t, middle.Children, 2)

	for _, leaf := range middle.Children {
		require.NotNil(t, leaf.Content)
		require.Zero(t, leaf.GeometricError, "leaves are full resolution")
		_, err := os.Stat(path.Join(dir, leaf.Content.URI))
		require.NoError(t, err, "content URI %s must exist on disk", leaf.Content.URI)
	}

	require.Equal(t, "0/7/0.pnts", middle.Children[0].Content.URI)
	require.Equal(t, "0/7/7.pnts", middle.Children[1].Content.URI)
}

func TestSaveChildVolumesNestInParent(t *testing.T) {
	dir := t.TempDir()
	tree := buildThreePointTree()

	writer := NewTilesetWriter(tiler.ContentTypePnts, testMetadata())
	require.NoError(t, writer.Save(dir, tree.RootNode()))

	tileset := readTileset(t, dir)
	var check func(tile *Tile)
	check = func(tile *Tile) {
		for _, child := range tile.Children {
			for axis := 0; axis < 3; axis++ {
				parentCenter := tile.BoundingVolume.Box[axis]
				parentHalf := tile.BoundingVolume.Box[3+4*axis]
				childCenter := child.BoundingVolume.Box[axis]
				childHalf := child.BoundingVolume.Box[3+4*axis]
				require.GreaterOrEqual(t, childCenter-childHalf, parentCenter-parentHalf,
					"child min must not fall below parent min on axis %d", axis)
				require.LessOrEqual(t, childCenter+childHalf, parentCenter+parentHalf,
					"child max must not exceed parent max on axis %d", axis)
			}
			require.Less(t, child.GeometricError, tile.GeometricError)
			check(child)
		}
	}
	check(tileset.Root)
}

func TestSaveEmptyTree(t *testing.T) {
	dir := t.TempDir()
	tree := octree.NewOctTree(5, 10, 2)

	writer := NewTilesetWriter(tiler.ContentTypePnts, testMetadata())
	require.NoError(t, writer.Save(dir, tree.RootNode()))

	tileset := readTileset(t, dir)
	require.NotNil(t, tileset.Root)
	require.Nil(t, tileset.Root.Content)
	require.Empty(t, tileset.Root.Children)
	require.Zero(t, tileset.Root.GeometricError)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "an empty tree produces only tileset.json")
}

func TestSaveSinglePointTree(t *testing.T) {
	dir := t.TempDir()
	tree := octree.NewOctTree(5, 10, 2)
	tree.AddPoint(data.NewPoint(geometry.Vec3{X: 1, Y: 1, Z: 1}, 1, 2, 3))

	writer := NewTilesetWriter(tiler.ContentTypePnts, testMetadata())
	require.NoError(t, writer.Save(dir, tree.RootNode()))

	tileset := readTileset(t, dir)
	require.NotNil(t, tileset.Root.Content)
	require.Equal(t, "0.pnts", tileset.Root.Content.URI)
	require.Empty(t, tileset.Root.Children)

	_, err := os.Stat(path.Join(dir, "0.pnts"))
	require.NoError(t, err)
}

func TestSaveGlbDeclaresExtensions(t *testing.T) {
	dir := t.TempDir()
	tree := buildThreePointTree()

	writer := NewTilesetWriter(tiler.ContentTypeGlb, testMetadata())
	require.NoError(t, writer.Save(dir, tree.RootNode()))

	tileset := readTileset(t, dir)
	require.Equal(t, []string{"3DTILES_content_gltf"}, tileset.ExtensionsRequired)
	require.Contains(t, tileset.ExtensionsUsed, "3DTILES_metadata")
	require.Contains(t, tileset.Extensions, "3DTILES_content_gltf")

	metadataExtension, ok := tileset.Extensions["3DTILES_metadata"].(map[string]interface{})
	require.True(t, ok)
	values := metadataExtension["tileset"].(map[string]interface{})
	properties := values["properties"].(map[string]interface{})
	require.Equal(t, "chaos_game", properties["algorithm"])
	require.EqualValues(t, 1000, properties["iterations"])

	middle := tileset.Root.Children[0]
	require.Equal(t, "0/7/0.glb", middle.Children[0].Content.URI)
	content, err := os.ReadFile(path.Join(dir, "0/7/0.glb"))
	require.NoError(t, err)
	require.Equal(t, "glTF", string(content[0:4]))
}
