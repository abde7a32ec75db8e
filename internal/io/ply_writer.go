package io

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/chaosgame/gochaostiler/internal/data"
)

// WritePlyFile dumps points as an ASCII PLY file with xyz positions and rgb
// colors. This is a diagnostic export: most point cloud tools open PLY
// directly, which makes it handy for inspecting a run without a 3D Tiles
// viewer.
func WritePlyFile(path string, points []*data.Point) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create ply file %s", path)
	}
	defer file.Close()

	out := bufio.NewWriter(file)
	fmt.Fprintln(out, "ply")
	fmt.Fprintln(out, "format ascii 1.0")
	fmt.Fprintf(out, "element vertex %d\n", len(points))
	fmt.Fprintln(out, "property float x")
	fmt.Fprintln(out, "property float y")
	fmt.Fprintln(out, "property float z")
	fmt.Fprintln(out, "property uchar red")
	fmt.Fprintln(out, "property uchar green")
	fmt.Fprintln(out, "property uchar blue")
	fmt.Fprintln(out, "end_header")

	for _, point := range points {
		_, err := fmt.Fprintf(out, "%g %g %g %d %d %d\n",
			point.Position.X, point.Position.Y, point.Position.Z,
			point.R, point.G, point.B)
		if err != nil {
			return errors.Wrapf(err, "cannot write ply vertex to %s", path)
		}
	}

	if err := out.Flush(); err != nil {
		return errors.Wrapf(err, "cannot flush ply file %s", path)
	}
	return nil
}
