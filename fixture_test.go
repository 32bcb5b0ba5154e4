package supercluster

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type placeFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

func loadPlaces(t *testing.T) [][2]float64 {
	t.Helper()
	raw, err := os.ReadFile("testdata/places.json")
	require.NoError(t, err)

	var fc struct {
		Features []placeFeature `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &fc))

	coords := make([][2]float64, 0, len(fc.Features))
	for _, f := range fc.Features {
		require.Len(t, f.Geometry.Coordinates, 2)
		coords = append(coords, [2]float64{f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]})
	}
	require.NotEmpty(t, coords)
	return coords
}

func buildPlaces(t *testing.T, opts *Options) (*Supercluster, int) {
	t.Helper()
	coords := loadPlaces(t)
	b := New(len(coords), opts)
	for _, c := range coords {
		b.Add(c[0], c[1])
	}
	return b.Finish(), len(coords)
}
