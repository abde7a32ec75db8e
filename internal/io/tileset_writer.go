package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/metadata"
	"github.com/chaosgame/gochaostiler/internal/octree"
	"github.com/chaosgame/gochaostiler/internal/tiler"
	"github.com/chaosgame/gochaostiler/tools"
)

// The path token of the root tile. Every descent appends /<octant index>.
const rootPathToken = "0"

// TilesetWriter walks a built octree depth-first and produces the complete
// tileset: one tileset.json manifest at the root plus one binary content
// file per non-empty leaf, laid out in a directory tree mirroring the tree
// topology.
type TilesetWriter struct {
	contentType tiler.ContentType
	meta        *metadata.FractalMetadata
}

func NewTilesetWriter(contentType tiler.ContentType, meta *metadata.FractalMetadata) *TilesetWriter {
	return &TilesetWriter{
		contentType: contentType,
		meta:        meta,
	}
}

// Save writes the whole tileset under dirname. The traversal is synchronous
// and depth-first; the manifest is assembled fully in memory and serialized
// once, after all content files have been written.
func (w *TilesetWriter) Save(dirname string, root *octree.OctNode) error {
	if err := tools.CreateDirectoryIfDoesNotExist(dirname); err != nil {
		return errors.Wrapf(err, "cannot create tileset directory %s", dirname)
	}

	glog.Infoln("generating point cloud files...")
	if err := w.writeContents(root, path.Join(dirname, rootPathToken)); err != nil {
		return err
	}

	glog.Infoln("generating tileset JSON...")
	if err := w.writeTilesetJSON(dirname, root); err != nil {
		return err
	}

	return nil
}

// writeTilesetJSON assembles the manifest tree and writes it to
// <dirname>/tileset.json.
func (w *TilesetWriter) writeTilesetJSON(dirname string, root *octree.OctNode) error {
	rootTile := w.makeTile(root, rootPathToken)
	if rootTile == nil {
		// The whole tree is empty: emit a manifest with a bare root tile so
		// the output is still a valid tileset.
		rootTile = &Tile{
			BoundingVolume: BoundingVolume{Box: root.Bounds().BoundingVolume()},
			GeometricError: 0,
			Refine:         "ADD",
		}
	}

	tileset := Tileset{
		Asset:          Asset{Version: "1.0"},
		GeometricError: rootGeometricError,
		Root:           rootTile,
	}

	// Binary glTF content needs a few extension declarations on the tileset,
	// and this is also where the fractal run metadata is recorded.
	if w.contentType == tiler.ContentTypeGlb {
		tileset.ExtensionsRequired = []string{"3DTILES_content_gltf"}
		tileset.ExtensionsUsed = []string{"3DTILES_content_gltf", "3DTILES_metadata"}
		tileset.Extensions = map[string]interface{}{
			"3DTILES_content_gltf": map[string]interface{}{
				"extensionsUsed": []string{"EXT_mesh_features", "EXT_structural_metadata"},
			},
			"3DTILES_metadata": w.meta.TilesetExtension(),
		}
	}

	jsonData, err := json.MarshalIndent(tileset, "", "\t")
	if err != nil {
		return errors.Wrap(err, "cannot marshal tileset")
	}

	fname := path.Join(dirname, "tileset.json")
	if err := os.WriteFile(fname, jsonData, 0644); err != nil {
		return errors.Wrapf(err, "cannot write %s", fname)
	}
	return nil
}

// makeTile builds the manifest fragment for one node. Empty leaves return
// nil and are pruned from their parent's children list.
func (w *TilesetWriter) makeTile(node *octree.OctNode, prefix string) *Tile {
	if node.IsLeaf() && node.IsEmpty() {
		return nil
	}

	bounds := BoundingVolume{Box: node.Bounds().BoundingVolume()}

	if node.IsLeaf() {
		return &Tile{
			BoundingVolume: bounds,
			GeometricError: 0,
			Refine:         "ADD",
			Content: &Content{
				URI: fmt.Sprintf("%s.%s", prefix, w.contentType.Extension()),
			},
		}
	}

	var children []*Tile
	for _, labeled := range node.LabeledChildren() {
		childPrefix := fmt.Sprintf("%s/%d", prefix, labeled.Octant)
		if child := w.makeTile(labeled.Node, childPrefix); child != nil {
			children = append(children, child)
		}
	}

	return &Tile{
		BoundingVolume: bounds,
		GeometricError: node.GeometricError(),
		Refine:         "ADD",
		Children:       children,
	}
}

// writeContents walks the tree writing one content file per non-empty leaf.
// Internal nodes become directories named after their path from the root.
func (w *TilesetWriter) writeContents(node *octree.OctNode, prefix string) error {
	if node.IsLeaf() {
		if node.IsEmpty() {
			return nil
		}
		return w.writeContent(node.GetPoints(), prefix)
	}

	if err := tools.CreateDirectoryIfDoesNotExist(prefix); err != nil {
		return errors.Wrapf(err, "cannot create directory %s", prefix)
	}
	for _, labeled := range node.LabeledChildren() {
		childPrefix := fmt.Sprintf("%s/%d", prefix, labeled.Octant)
		if err := w.writeContents(labeled.Node, childPrefix); err != nil {
			return err
		}
	}
	return nil
}

// writeContent encodes one leaf buffer with the configured format.
func (w *TilesetWriter) writeContent(points []*data.Point, prefix string) error {
	fname := fmt.Sprintf("%s.%s", prefix, w.contentType.Extension())
	switch w.contentType {
	case tiler.ContentTypeGlb:
		return NewGlbWriter().Write(fname, points)
	default:
		return NewPntsWriter().Write(fname, points)
	}
}
