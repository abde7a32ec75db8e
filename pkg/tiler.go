package pkg

import (
	"path"

	"github.com/golang/glog"

	"github.com/chaosgame/gochaostiler/internal/analysis"
	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/fractal"
	"github.com/chaosgame/gochaostiler/internal/io"
	"github.com/chaosgame/gochaostiler/internal/octree"
	"github.com/chaosgame/gochaostiler/internal/tiler"
	"github.com/chaosgame/gochaostiler/tools"
)

type ITiler interface {
	RunTiler(opts *tiler.TilerOptions) error
}

// TilerPlot runs a full plotting pass: it plays the chaos game described by
// the input params file, indexes the points in an octree and exports the
// tree as a 3D Tiles tileset.
type TilerPlot struct{}

func NewTilerPlot() ITiler {
	return &TilerPlot{}
}

// Starts the plotting process
func (tilerPlot *TilerPlot) RunTiler(opts *tiler.TilerOptions) error {
	tools.LogOutput("> reading params file...", opts.Input)
	params, err := fractal.LoadParams(opts.Input)
	if err != nil {
		return err
	}
	applyOverrides(params, opts)

	game, err := params.BuildGame()
	if err != nil {
		return err
	}
	glog.Infoln("estimated complexity:", game.Complexity(), "points")

	tree, estimator := tilerPlot.generatePoints(game, params)

	meta := params.Metadata()
	estimator.UpdateMetadata(meta)
	glog.Infoln("estimated fractal dimension:", meta.FractalDimension)

	tools.LogOutput("> exporting data...", opts.Output)
	if err := tools.CreateDirectoryIfDoesNotExist(opts.Output); err != nil {
		return err
	}
	writer := io.NewTilesetWriter(opts.ContentType, meta)
	if err := writer.Save(opts.Output, tree.RootNode()); err != nil {
		return err
	}

	if opts.PlyExport {
		if err := tilerPlot.exportRootNodePly(tree, opts); err != nil {
			return err
		}
	}

	tools.LogOutput("> done plotting", path.Base(opts.Input))
	return nil
}

func (tilerPlot *TilerPlot) generatePoints(game *fractal.ChaosGame, params *fractal.Params) (*octree.OctTree, *analysis.BoxCountingEstimator) {
	tools.LogOutput("> building data structure...")

	plotter := params.Plotter
	tree := octree.NewOctTree(plotter.Radius, plotter.NodeCapacity, plotter.MaxDepth)

	levels := plotter.MaxDepth + 1
	if levels < 2 {
		levels = 2
	}
	estimator := analysis.NewBoxCountingEstimator(float64(plotter.Radius), levels)

	game.Run(func(point *data.Point) {
		estimator.AddPoint(point.Position)
		tree.AddPoint(point)
	})

	glog.Infoln("root_node num_of_points:", tree.NumberOfPoints(),
		", discarded out_of_bounds:", tree.DiscardedOutOfBounds(),
		", discarded max_depth:", tree.DiscardedMaxDepth())

	return tree, estimator
}

// exportRootNodePly dumps the points retained by the root node as ASCII PLY
// next to the tileset, for quick inspection in a point cloud viewer.
func (tilerPlot *TilerPlot) exportRootNodePly(tree *octree.OctTree, opts *tiler.TilerOptions) error {
	rootNode := tree.RootNode()
	points := rootNode.GetPoints()
	glog.Infoln("root_node ply export, points.len:", len(points))

	fileName := path.Join(opts.Output, "content.ply")
	if err := io.WritePlyFile(fileName, points); err != nil {
		return err
	}
	tools.LogOutput("> wrote ply file", fileName)
	return nil
}

// applyOverrides lets command line flags win over the params document for
// the plotting parameters, so runs can be tweaked without editing JSON.
func applyOverrides(params *fractal.Params, opts *tiler.TilerOptions) {
	if opts.Radius > 0 {
		params.Plotter.Radius = opts.Radius
	}
	if opts.NodeCapacity > 0 {
		params.Plotter.NodeCapacity = opts.NodeCapacity
	}
	if opts.MaxDepth > 0 {
		params.Plotter.MaxDepth = opts.MaxDepth
	}
	if opts.Seed != 0 {
		params.Seed = opts.Seed
	}
}
