package supercluster

import "github.com/MadAppGang/kdbush"

// treeWithData is one layer of the zoom ladder: a static KD index over its
// data vector. Query results are positions in data (insertion ids), in the
// tree's traversal order rather than sorted.
type treeWithData struct {
	tree *kdbush.KDBush
	data []clusterData
}

func newTreeWithData(data []clusterData, nodeSize int) *treeWithData {
	points := make([]kdbush.Point, len(data))
	for i := range data {
		points[i] = &data[i]
	}
	return &treeWithData{
		tree: kdbush.NewBush(points, nodeSize),
		data: data,
	}
}

// within returns positions of all records with euclidean distance <= r from (x, y)
func (t *treeWithData) within(x, y, r float64) []int {
	return t.tree.Within(&kdbush.SimplePoint{X: x, Y: y}, r)
}

// search returns positions of all records inside the closed box
func (t *treeWithData) search(minX, minY, maxX, maxY float64) []int {
	return t.tree.Range(minX, minY, maxX, maxY)
}
