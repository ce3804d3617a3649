// Package spatial provides the nearest-neighbor index over placed stars.
//
// An [Index] is built once from the star field's accepted positions and is
// read-only afterwards, so one index can serve concurrent readers. It is
// backed by a k-d tree from gonum.
package spatial

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
)

// ErrEmpty is returned when an index is built from no points.
var ErrEmpty = errors.New("spatial: no points to index")

// Index answers nearest-neighbor and radius queries over a fixed point set.
type Index struct {
	tree *kdtree.Tree
}

// New builds an index over points. The points are copied into the tree; the
// caller may reuse the slice.
func New(points []galaxy.Point) (*Index, error) {
	if len(points) == 0 {
		return nil, ErrEmpty
	}

	kp := make(kdtree.Points, len(points))
	for i, p := range points {
		kp[i] = kdtree.Point{float64(p.X), float64(p.Y)}
	}

	return &Index{
		tree: kdtree.New(kp, false),
	}, nil
}

// Nearest returns the indexed point closest to (x, y) and its euclidean
// distance. The query may lie anywhere, including off canvas.
func (ix *Index) Nearest(x, y float64) (galaxy.Point, float64) {
	c, d2 := ix.tree.Nearest(kdtree.Point{x, y})
	return toPoint(c), math.Sqrt(d2)
}

// Within returns every indexed point whose distance to p is at most r. The
// order of the result is unspecified.
func (ix *Index) Within(p galaxy.Point, r float64) []galaxy.Point {
	keep := kdtree.NewDistKeeper(r * r)
	ix.tree.NearestSet(keep, kdtree.Point{float64(p.X), float64(p.Y)})

	out := make([]galaxy.Point, 0, len(keep.Heap))
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		out = append(out, toPoint(cd.Comparable))
	}
	return out
}

func toPoint(c kdtree.Comparable) galaxy.Point {
	kp := c.(kdtree.Point)
	return galaxy.Point{X: int(kp[0]), Y: int(kp[1])}
}
