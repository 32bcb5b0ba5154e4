package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iahmedov/supercluster"
)

var (
	inputPath  string
	configPath string
	bbox       string
	zoom       int
	dump       bool
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "play",
	Short: "Cluster a GeoJSON point set and query a viewport",
	Long: "play loads a GeoJSON FeatureCollection of points, builds a supercluster\n" +
		"index and prints the clusters visible in the given viewport as JSON.",
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "testdata/places.json", "GeoJSON FeatureCollection to load")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML file with clustering options")
	rootCmd.Flags().StringVar(&bbox, "bbox", "-180,-90,180,90", "viewport as minLng,minLat,maxLng,maxLat")
	rootCmd.Flags().IntVarP(&zoom, "zoom", "z", 0, "zoom level to query")
	rootCmd.Flags().BoolVar(&dump, "dump", false, "spew the results instead of JSON")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per zoom build progress")
}

// optionsFile is the YAML shape of --config; absent fields keep defaults
type optionsFile struct {
	MinZoom   *int     `yaml:"min_zoom"`
	MaxZoom   *int     `yaml:"max_zoom"`
	MinPoints *int     `yaml:"min_points"`
	Radius    *float64 `yaml:"radius"`
	Extent    *float64 `yaml:"extent"`
	NodeSize  *int     `yaml:"node_size"`
}

type feature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

type featureCollection struct {
	Features []feature `json:"features"`
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(configPath)
	if err != nil {
		return err
	}
	opts.Log = verbose

	coords, err := importData(inputPath)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"points": len(coords), "input": inputPath}).Info("loaded")

	builder := supercluster.New(len(coords), opts)
	for _, c := range coords {
		builder.Add(c[0], c[1])
	}
	index := builder.Finish()

	box, err := parseBBox(bbox)
	if err != nil {
		return err
	}
	result := index.GetClusters(box[0], box[1], box[2], box[3], zoom)

	if dump {
		spew.Dump(result)
		return nil
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func loadOptions(path string) (*supercluster.Options, error) {
	opts := supercluster.DefaultOptions()
	if path == "" {
		return opts, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var f optionsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if f.MinZoom != nil {
		opts.MinZoom = *f.MinZoom
	}
	if f.MaxZoom != nil {
		opts.MaxZoom = *f.MaxZoom
	}
	if f.MinPoints != nil {
		opts.MinPoints = *f.MinPoints
	}
	if f.Radius != nil {
		opts.Radius = *f.Radius
	}
	if f.Extent != nil {
		opts.Extent = *f.Extent
	}
	if f.NodeSize != nil {
		opts.NodeSize = *f.NodeSize
	}
	return opts, nil
}

func importData(path string) ([][2]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	coords := make([][2]float64, 0, len(fc.Features))
	for _, f := range fc.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		coords = append(coords, [2]float64{f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]})
	}
	return coords, nil
}

func parseBBox(s string) ([4]float64, error) {
	var box [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return box, fmt.Errorf("bbox needs 4 comma separated numbers, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return box, fmt.Errorf("bbox component %d: %w", i, err)
		}
		box[i] = v
	}
	return box, nil
}
