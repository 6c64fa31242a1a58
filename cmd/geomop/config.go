package main

import (
	"image/color"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/geometry"
	"github.com/tdewolff/geometry/rtree"
)

// Config holds the defaults read from a TOML file. Command line flags override them.
//
//	coordinate_system = "cartesian"
//	no_throw = false
//
//	[index]
//	min_entries = 4
//	max_entries = 16
//	split = "rstar"
//
//	[render]
//	width = 200.0
//	stroke_width = 0.5
//	epsg = 3857
type Config struct {
	CoordinateSystem string `toml:"coordinate_system"`
	NoThrow          bool   `toml:"no_throw"`

	Index struct {
		MinEntries int    `toml:"min_entries"`
		MaxEntries int    `toml:"max_entries"`
		Split      string `toml:"split"`
	} `toml:"index"`

	Render struct {
		Width       float64 `toml:"width"`
		StrokeWidth float64 `toml:"stroke_width"`
		Resolution  float64 `toml:"resolution"` // dots per mm for raster output
		EPSG        int     `toml:"epsg"`       // projection of spherical and geographic coordinates
	} `toml:"render"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() Config {
	c := Config{CoordinateSystem: geometry.Cartesian.String()}
	c.Index.MinEntries = rtree.DefaultOptions.MinEntries
	c.Index.MaxEntries = rtree.DefaultOptions.MaxEntries
	c.Index.Split = rtree.DefaultOptions.Split.String()
	c.Render.Width = 200.0
	c.Render.StrokeWidth = 0.5
	c.Render.Resolution = 5.0
	c.Render.EPSG = 3857
	return c
}

// LoadConfig reads a TOML file on top of the defaults. An empty filename returns the defaults.
func LoadConfig(filename string) (Config, error) {
	c := DefaultConfig()
	if filename == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(filename, &c); err != nil {
		return c, errors.Wrapf(err, "config %s", filename)
	}
	return c, nil
}

// IndexOptions returns the R-tree parameters.
func (c Config) IndexOptions() (rtree.Options, error) {
	split, err := rtree.ParseSplitPolicy(c.Index.Split)
	if err != nil {
		return rtree.Options{}, err
	}
	opts := rtree.Options{
		MinEntries: c.Index.MinEntries,
		MaxEntries: c.Index.MaxEntries,
		Split:      split,
	}
	return opts, opts.Validate()
}

// Options returns the overlay options.
func (c Config) Options() (geometry.Options, error) {
	cs, err := geometry.ParseCoordinateSystem(c.CoordinateSystem)
	if err != nil {
		return geometry.Options{}, err
	}
	indexOpts, err := c.IndexOptions()
	if err != nil {
		return geometry.Options{}, err
	}
	return geometry.Options{
		CoordinateSystem: cs,
		NoThrow:          c.NoThrow,
		IndexOptions:     indexOpts,
	}, nil
}

var (
	colorA      = color.RGBA{0, 94, 184, 96}
	colorB      = color.RGBA{220, 50, 32, 96}
	colorResult = canvas.Seagreen
)
