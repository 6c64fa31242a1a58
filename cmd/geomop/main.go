package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/geometry"
	"github.com/tdewolff/geometry/rtree"
)

var logger = logrus.New()

type Main struct{}

type Overlay struct {
	Config  string `short:"c" desc:"TOML configuration file"`
	System  string `short:"s" desc:"Coordinate system: cartesian, spherical or geographic"`
	NoThrow bool   `desc:"Write partial results instead of failing on invalid input"`
	Format  string `short:"f" default:"wkt" desc:"Output format: wkt or geojson"`
	Render  string `short:"r" desc:"Also render operands and result to an SVG, PDF or PNG file"`
	Output  string `short:"o" desc:"Output file"`
	Verbose bool   `short:"v" desc:"Log turn and fragment counts"`
	Op      string `index:"0" desc:"Operation: union, intersection or difference"`
	A       string `index:"1" desc:"First geometry file (WKT or GeoJSON)"`
	B       string `index:"2" desc:"Second geometry file (WKT or GeoJSON)"`
}

type Validate struct {
	Config  string `short:"c" desc:"TOML configuration file"`
	System  string `short:"s" desc:"Coordinate system: cartesian, spherical or geographic"`
	Verbose bool   `short:"v" desc:"Verbose logging"`
	Input   string `index:"0" desc:"Geometry file (WKT or GeoJSON)"`
}

type Query struct {
	Config  string `short:"c" desc:"TOML configuration file"`
	Split   string `desc:"Split policy: linear, quadratic or rstar"`
	Bulk    bool   `short:"b" desc:"Bulk load the index instead of inserting one by one"`
	Box     string `desc:"Return geometries intersecting the box x0,y0,x1,y1"`
	Near    string `desc:"Return the geometries nearest to the point x,y"`
	Count   int    `short:"k" default:"1" desc:"Number of nearest geometries"`
	Verbose bool   `short:"v" desc:"Verbose logging"`
	Input   string `index:"0" desc:"File with one WKT geometry per line"`
}

func main() {
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	root := argp.NewCmd(&Main{}, "Boolean operations, validity checks and spatial queries for polygons and lines")
	root.AddCmd(&Overlay{}, "overlay", "Union, intersection or difference of two geometries")
	root.AddCmd(&Validate{}, "validate", "Check a geometry for validity")
	root.AddCmd(&Query{}, "query", "Query an R-tree of geometries")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Main) Run() error {
	return argp.ShowUsage
}

func setup(configFile, system string, verbose bool) (Config, error) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		geometry.SetLogger(logger)
	}
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return cfg, err
	}
	if system != "" {
		cfg.CoordinateSystem = system
	}
	logger.WithField("config", configFile).WithField("system", cfg.CoordinateSystem).Debug("loaded configuration")
	return cfg, nil
}

func (cmd *Overlay) Run() error {
	if cmd.Op == "" || cmd.A == "" || cmd.B == "" {
		return argp.ShowUsage
	}
	cfg, err := setup(cmd.Config, cmd.System, cmd.Verbose)
	if err != nil {
		return err
	}
	if cmd.NoThrow {
		cfg.NoThrow = true
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	op, err := geometry.ParseOverlayOp(cmd.Op)
	if err != nil {
		return err
	}

	a, err := readGeometry(cmd.A)
	if err != nil {
		return err
	}
	b, err := readGeometry(cmd.B)
	if err != nil {
		return err
	}

	result, overlayErr := geometry.Overlay(op, a, b, opts)
	if overlayErr != nil && result.Empty() {
		return overlayErr
	}

	w, err := output(cmd.Output)
	if err != nil {
		return err
	}
	if err := writeGeometry(w, result.Geometry(), cmd.Format); err != nil {
		w.Close()
		return err
	} else if err := w.Close(); err != nil {
		return err
	}
	logger.WithField("area", result.Area()).Info(op)

	if cmd.Render != "" {
		if err := render(cmd.Render, cfg, layer{a, colorA}, layer{b, colorB}, layer{result, colorResult}); err != nil {
			return err
		}
	}
	// partial results have been written
	return overlayErr
}

func (cmd *Validate) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	cfg, err := setup(cmd.Config, cmd.System, cmd.Verbose)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	g, err := readGeometry(cmd.Input)
	if err != nil {
		return err
	}

	if err := geometry.Validate(g, opts); err != nil {
		fmt.Printf("invalid: %v (%v)\n", geometry.KindOf(err), err)
		os.Exit(2)
	}
	fmt.Println("valid")
	return nil
}

func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, errors.Newf("expected %d comma separated numbers, got %q", n, s)
	}
	fs := make([]float64, n)
	for i, field := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

func (cmd *Query) Run() error {
	if cmd.Input == "" || cmd.Box == "" && cmd.Near == "" {
		return argp.ShowUsage
	}
	cfg, err := setup(cmd.Config, "", cmd.Verbose)
	if err != nil {
		return err
	}
	if cmd.Split != "" {
		cfg.Index.Split = cmd.Split
	}
	indexOpts, err := cfg.IndexOptions()
	if err != nil {
		return err
	}
	gs, err := readGeometries(cmd.Input)
	if err != nil {
		return err
	}

	items := make([]rtree.Item[int], len(gs))
	for i, g := range gs {
		b := g.Bounds()
		items[i] = rtree.Item[int]{Box: rtree.Box{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}, Value: i}
	}
	index, err := rtree.New[int](indexOpts)
	if err != nil {
		return err
	}
	if cmd.Bulk {
		index.Load(items)
	} else {
		for _, item := range items {
			index.Insert(item.Box, item.Value)
		}
	}
	logger.WithFields(logrus.Fields{
		"size":   index.Len(),
		"height": index.Height(),
		"split":  indexOpts.Split,
	}).Debug("built index")

	var found []int
	if cmd.Box != "" {
		fs, err := parseFloats(cmd.Box, 4)
		if err != nil {
			return err
		}
		found = index.Query(rtree.Intersects(rtree.Box{
			MinX: min(fs[0], fs[2]),
			MinY: min(fs[1], fs[3]),
			MaxX: max(fs[0], fs[2]),
			MaxY: max(fs[1], fs[3]),
		}))
	} else {
		fs, err := parseFloats(cmd.Near, 2)
		if err != nil {
			return err
		}
		found = index.NearestK(fs[0], fs[1], cmd.Count)
	}
	for _, i := range found {
		fmt.Printf("%d\t%s\n", i, geometry.WKT(gs[i]))
	}
	return nil
}
