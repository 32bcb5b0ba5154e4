package supercluster

// ClusterID identifies a node of the cluster hierarchy with a single integer.
// Ids below the input length are original points; everything else encodes both
// the zoom and the index on which the cluster originated, offset by the total
// number of input points.
type ClusterID int

const (
	noZoom   = -1
	noParent = ClusterID(-1)
)

func newClusterID(idx, zoom, length int) ClusterID {
	return ClusterID((idx << 5) + (zoom + 1) + length)
}

// originIdx returns the index of the point from which the cluster originated,
// within its origin zoom's data vector.
func (c ClusterID) originIdx(length int) int {
	return (int(c) - length) >> 5
}

// originZoom returns the zoom of the point from which the cluster originated.
func (c ClusterID) originZoom(length int) int {
	return (int(c) - length) % 32
}

//per node record of the zoom ladder, indexed by kdbush position
type clusterData struct {
	X, Y float64 //projected point

	//the last zoom the point was processed at, noZoom if never
	zoom int

	//index of the source feature in the original input array, or the
	//cluster id if this record was produced by aggregation
	sourceID ClusterID

	//cluster this record was folded into, noParent if none
	parentID ClusterID

	//number of points represented by this record
	numPoints int
}

// Coordinates implements kdbush.Point
func (d *clusterData) Coordinates() (float64, float64) {
	return d.X, d.Y
}

func newPointData(lng, lat float64, sourceID ClusterID) clusterData {
	return clusterData{
		X:         lngToX(lng),
		Y:         latToY(lat),
		zoom:      noZoom,
		sourceID:  sourceID,
		parentID:  noParent,
		numPoints: 1,
	}
}

// ClusterInfo is a single query result: either an aggregated cluster located
// at the weighted center of its points, or a leaf carrying the original input
// coordinates.
type ClusterInfo struct {
	ID ClusterID `json:"id"`

	// X is the longitude, Y the latitude
	X float64 `json:"x"`
	Y float64 `json:"y"`

	IsCluster bool `json:"is_cluster"`

	// Count is the number of points in the cluster, 1 for leaves
	Count int `json:"count"`
}

func newClusterInfo(d *clusterData) ClusterInfo {
	return ClusterInfo{
		ID:        d.sourceID,
		X:         xToLng(d.X),
		Y:         yToLat(d.Y),
		IsCluster: true,
		Count:     d.numPoints,
	}
}

func newLeafInfo(id ClusterID, lng, lat float64) ClusterInfo {
	return ClusterInfo{
		ID:    id,
		X:     lng,
		Y:     lat,
		Count: 1,
	}
}
