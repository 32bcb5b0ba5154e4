package supercluster

import (
	"errors"
	"math"
)

// ErrNoClusterFound is returned by the drill down queries when the supplied
// id does not resolve to a known cluster.
var ErrNoClusterFound = errors.New("supercluster: no cluster with the specified id")

// Supercluster is the immutable result of Builder.Finish: a KD indexed layer
// per zoom level plus the original input points. It is safe to share across
// goroutines, all queries are read only.
type Supercluster struct {
	options *Options

	//one KD indexed layer per zoom in [MinZoom, MaxZoom+1]
	trees map[int]*treeWithData

	//points in the caller's original coordinate system (lon, lat)
	points [][2]float64
}

// GetClusters returns the clusters and points inside the given bounding box
// at the given zoom. Longitudes are normalized into [-180, 180], latitudes
// clamped; a viewport straddling the antimeridian is split into two queries,
// eastern segment first.
func (sc *Supercluster) GetClusters(minLng, minLat, maxLng, maxLat float64, zoom int) []ClusterInfo {
	nMinLng := normalizeLng(minLng)
	nMinLat := clampLat(minLat)
	nMaxLng := 180.0
	if maxLng != 180 {
		nMaxLng = normalizeLng(maxLng)
	}
	nMaxLat := clampLat(maxLat)

	if maxLng-minLng >= 360 {
		nMinLng, nMaxLng = -180, 180
	} else if nMinLng > nMaxLng {
		eastern := sc.GetClusters(nMinLng, nMinLat, 180, nMaxLat, zoom)
		western := sc.GetClusters(-180, nMinLat, nMaxLng, nMaxLat, zoom)
		return append(eastern, western...)
	}

	tree := sc.trees[sc.clampZoom(zoom)]

	//mercator y grows southward, so max_lat maps to the low corner
	ids := tree.search(
		lngToX(nMinLng), latToY(nMaxLat),
		lngToX(nMaxLng), latToY(nMinLat),
	)

	clusters := make([]ClusterInfo, 0, len(ids))
	for _, id := range ids {
		clusters = append(clusters, sc.info(&tree.data[id]))
	}
	return clusters
}

// GetChildren returns the children of a cluster on the next zoom level,
// or ErrNoClusterFound.
func (sc *Supercluster) GetChildren(clusterID ClusterID) ([]ClusterInfo, error) {
	n := len(sc.points)
	if int(clusterID) < n {
		//original points have no children
		return nil, ErrNoClusterFound
	}

	originZoom := clusterID.originZoom(n)
	tree, ok := sc.trees[originZoom]
	if !ok {
		return nil, ErrNoClusterFound
	}
	originIdx := clusterID.originIdx(n)
	if originIdx >= len(tree.data) {
		return nil, ErrNoClusterFound
	}

	//the radius the cluster was built with, one zoom below its origin layer
	r := sc.options.zoomRadius(originZoom - 1)
	origin := &tree.data[originIdx]

	var children []ClusterInfo
	for _, id := range tree.within(origin.X, origin.Y, r) {
		d := &tree.data[id]
		if d.parentID == clusterID {
			children = append(children, sc.info(d))
		}
	}

	if len(children) == 0 {
		return nil, ErrNoClusterFound
	}
	return children, nil
}

// GetLeaves returns the original points of a cluster, paginated. A limit of
// zero or below means the default of 10; offset leaves are skipped first.
func (sc *Supercluster) GetLeaves(clusterID ClusterID, limit, offset int) ([]ClusterInfo, error) {
	if limit <= 0 {
		limit = 10
	}
	var leaves []ClusterInfo
	if _, err := sc.appendLeaves(&leaves, clusterID, limit, offset, 0); err != nil {
		return nil, err
	}
	return leaves, nil
}

// GetClusterExpansionZoom returns the zoom on which the cluster expands into
// several children (useful for "click to zoom" feature).
func (sc *Supercluster) GetClusterExpansionZoom(clusterID ClusterID) (int, error) {
	expansionZoom := clusterID.originZoom(len(sc.points)) - 1
	for expansionZoom <= sc.options.MaxZoom {
		children, err := sc.GetChildren(clusterID)
		if err != nil {
			return 0, err
		}
		expansionZoom++
		if len(children) != 1 {
			break
		}
		clusterID = children[0].ID
	}
	return expansionZoom, nil
}

func (sc *Supercluster) appendLeaves(result *[]ClusterInfo, clusterID ClusterID, limit, offset, skipped int) (int, error) {
	children, err := sc.GetChildren(clusterID)
	if err != nil {
		return 0, err
	}

	for _, child := range children {
		if child.IsCluster {
			if skipped+child.Count <= offset {
				//skip the whole cluster without descending
				skipped += child.Count
			} else {
				skipped, err = sc.appendLeaves(result, child.ID, limit, offset, skipped)
				if err != nil {
					return 0, err
				}
			}
		} else if skipped < offset {
			skipped++
		} else {
			*result = append(*result, child)
		}
		if len(*result) == limit {
			break
		}
	}

	return skipped, nil
}

// info converts a layer record to its public form: clusters carry the
// weighted center unprojected, leaves the exact original input coordinates.
func (sc *Supercluster) info(d *clusterData) ClusterInfo {
	if d.numPoints > 1 {
		return newClusterInfo(d)
	}
	p := sc.points[d.sourceID]
	return newLeafInfo(d.sourceID, p[0], p[1])
}

func (sc *Supercluster) clampZoom(zoom int) int {
	if zoom < sc.options.MinZoom {
		return sc.options.MinZoom
	}
	if zoom > sc.options.MaxZoom+1 {
		return sc.options.MaxZoom + 1
	}
	return zoom
}

func normalizeLng(lng float64) float64 {
	return math.Mod(math.Mod(lng+180, 360)+360, 360) - 180
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}
