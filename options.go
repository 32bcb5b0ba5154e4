package supercluster

import (
	"fmt"
	"math"
)

// Options control how the cluster hierarchy is generated.
type Options struct {
	// MinZoom is the lowest zoom to generate clusters on
	MinZoom int

	// MaxZoom is the highest zoom to cluster the points on; the
	// full resolution layer lives at MaxZoom+1
	MaxZoom int

	// MinPoints is the minimum accumulated count to form a cluster
	MinPoints int

	// Radius is the cluster radius in pixels, relative to Extent
	Radius float64

	// Extent is the tile extent in pixels
	Extent float64

	// NodeSize is size of the KD-tree node, 64 by default. Higher means
	// faster indexing but slower search, and vise versa.
	NodeSize int

	// Log emits one build log entry per zoom level
	Log bool
}

// DefaultOptions returns the canonical supercluster parameters.
func DefaultOptions() *Options {
	return &Options{
		MinZoom:   0,
		MaxZoom:   16,
		MinPoints: 2,
		Radius:    40,
		Extent:    512,
		NodeSize:  64,
	}
}

// the 5 bit zoom field of ClusterID caps MaxZoom
const maxZoomLimit = 30

func (o *Options) validate() {
	if o.MinZoom < 0 || o.MinZoom > o.MaxZoom {
		panic(fmt.Sprintf("supercluster: MinZoom %d must be in [0, MaxZoom=%d]", o.MinZoom, o.MaxZoom))
	}
	if o.MaxZoom > maxZoomLimit {
		panic(fmt.Sprintf("supercluster: MaxZoom %d exceeds limit %d", o.MaxZoom, maxZoomLimit))
	}
	if o.MinPoints < 2 {
		panic(fmt.Sprintf("supercluster: MinPoints %d must be at least 2", o.MinPoints))
	}
	if o.Radius <= 0 || o.Extent <= 0 {
		panic(fmt.Sprintf("supercluster: Radius %v and Extent %v must be positive", o.Radius, o.Extent))
	}
	if o.NodeSize <= 0 {
		panic(fmt.Sprintf("supercluster: NodeSize %d must be positive", o.NodeSize))
	}
}

// zoomRadius is the clustering radius at zoom z in projected units.
func (o *Options) zoomRadius(z int) float64 {
	return o.Radius / (o.Extent * math.Pow(2, float64(z)))
}
