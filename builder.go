package supercluster

import (
	"fmt"
	"time"

	"github.com/apex/log"
)

// GeoCoordinates represent position in the Earth
type GeoCoordinates struct {
	Lon float64
	Lat float64
}

// objects clustered through LoadPoints should implement this protocol
type GeoPoint interface {
	GetCoordinates() GeoCoordinates
}

// Builder accumulates input points and produces an immutable Supercluster.
// It is single writer: Add must be called exactly numItems times before
// Finish, from one goroutine.
type Builder struct {
	options  *Options
	numItems int
	points   [][2]float64
}

// New creates a Builder for numItems points. A nil options uses the defaults.
// Invalid options are programmer errors and panic.
func New(numItems int, options *Options) *Builder {
	if options == nil {
		options = DefaultOptions()
	} else {
		copied := *options
		options = &copied
	}
	options.validate()
	return &Builder{
		options:  options,
		numItems: numItems,
		points:   make([][2]float64, 0, numItems),
	}
}

// Add registers one point and returns its insertion index, 0, 1, 2, ... in
// call order.
func (b *Builder) Add(lng, lat float64) int {
	idx := len(b.points)
	b.points = append(b.points, [2]float64{lng, lat})
	return idx
}

// Load bulk adds parallel longitude/latitude slices.
func (b *Builder) Load(lngs, lats []float64) {
	if len(lngs) != len(lats) {
		panic(fmt.Sprintf("supercluster: Load got %d longitudes and %d latitudes", len(lngs), len(lats)))
	}
	for i := range lngs {
		b.Add(lngs[i], lats[i])
	}
}

// LoadPoints bulk adds geo objects. GetCoordinates is called only once for
// each object, so you could calc it on the fly, if you need.
func (b *Builder) LoadPoints(points []GeoPoint) {
	for _, p := range points {
		c := p.GetCoordinates()
		b.Add(c.Lon, c.Lat)
	}
}

// Finish builds the zoom ladder and returns the immutable index. It panics
// if Add was not called exactly numItems times.
func (b *Builder) Finish() *Supercluster {
	if len(b.points) != b.numItems {
		panic(fmt.Sprintf("supercluster: expected %d added points, got %d", b.numItems, len(b.points)))
	}

	minZoom := b.options.MinZoom
	maxZoom := b.options.MaxZoom

	//full resolution layer, one record per input point
	data := make([]clusterData, 0, len(b.points))
	for i, p := range b.points {
		data = append(data, newPointData(p[0], p[1], ClusterID(i)))
	}

	trees := make(map[int]*treeWithData, maxZoom-minZoom+2)
	tree := newTreeWithData(data, b.options.NodeSize)
	trees[maxZoom+1] = tree

	//cluster points on max zoom, then cluster the results on previous zoom, etc.
	for z := maxZoom; z >= minZoom; z-- {
		start := time.Now()
		next := b.clusterZoom(tree, z)
		tree = newTreeWithData(next, b.options.NodeSize)
		trees[z] = tree
		if b.options.Log {
			log.WithFields(log.Fields{
				"zoom":    z,
				"records": len(next),
				"elapsed": time.Since(start),
			}).Info("built cluster layer")
		}
	}

	return &Supercluster{
		options: b.options,
		trees:   trees,
		points:  b.points,
	}
}

// clusterZoom produces the layer for zoom z by agglomerating the layer above
// it. prev's records are scanned in insertion order and marked in place, the
// first seed to reach a point wins it.
func (b *Builder) clusterZoom(prev *treeWithData, z int) []clusterData {
	r := b.options.zoomRadius(z)
	data := prev.data
	var next []clusterData

	for i := range data {
		p := &data[i]
		//skip points we have already clustered at this zoom
		if p.zoom != noZoom && p.zoom <= z {
			continue
		}
		p.zoom = z

		//find all nearby points
		neighborIDs := prev.within(p.X, p.Y, r)

		numPointsOrigin := p.numPoints
		numPoints := numPointsOrigin

		//count how many points a potential cluster would hold; the seed
		//itself was just marked so the zoom check filters it out here
		for _, nid := range neighborIDs {
			n := &data[nid]
			if n.zoom == noZoom || n.zoom > z {
				numPoints += n.numPoints
			}
		}

		if numPoints > numPointsOrigin && numPoints >= b.options.MinPoints {
			//enough neighbors, fold them into a new cluster
			wx := p.X * float64(numPointsOrigin)
			wy := p.Y * float64(numPointsOrigin)

			id := newClusterID(i, z, len(b.points))

			for _, nid := range neighborIDs {
				n := &data[nid]
				if n.zoom != noZoom && n.zoom <= z {
					continue
				}
				//set the zoom to skip in other iterations
				n.zoom = z

				//accumulate coordinates for calculating weighted center
				n.parentID = id
				wx += n.X * float64(n.numPoints)
				wy += n.Y * float64(n.numPoints)
			}

			p.parentID = id
			next = append(next, clusterData{
				X:         wx / float64(numPoints),
				Y:         wy / float64(numPoints),
				zoom:      noZoom,
				sourceID:  id,
				parentID:  noParent,
				numPoints: numPoints,
			})
		} else {
			//no cluster forms, the seed passes through as is
			next = append(next, *p)

			//and so does every neighbor not consumed yet
			if numPoints > 1 {
				for _, nid := range neighborIDs {
					n := &data[nid]
					if n.zoom != noZoom && n.zoom <= z {
						continue
					}
					n.zoom = z
					next = append(next, *n)
				}
			}
		}
	}

	return next
}
