package main

import (
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/geometry"
	"github.com/wroge/wgs84/v2"
)

// asCollection splits any geometry into its areal, linear and punctual parts.
func asCollection(g geometry.Geometry) geometry.Collection {
	switch g := g.(type) {
	case geometry.Collection:
		return g
	case geometry.Point:
		return geometry.Collection{Points: geometry.MultiPoint{g}}
	case geometry.MultiPoint:
		return geometry.Collection{Points: g}
	case geometry.LineString:
		return geometry.Collection{Lines: geometry.MultiLineString{g}}
	case geometry.MultiLineString:
		return geometry.Collection{Lines: g}
	case geometry.Ring:
		return geometry.Collection{Polygons: geometry.MultiPolygon{{g}}}
	case geometry.Box:
		return geometry.Collection{Polygons: geometry.MultiPolygon{{g.Ring()}}}
	case geometry.Polygon:
		return geometry.Collection{Polygons: geometry.MultiPolygon{g}}
	case geometry.MultiPolygon:
		return geometry.Collection{Polygons: g}
	}
	return geometry.Collection{}
}

type layer struct {
	g    geometry.Geometry
	fill color.Color
}

// projection returns the transform from geometry coordinates to drawing coordinates. Longitude and latitude in degrees are projected to the configured EPSG coordinate reference system, Cartesian coordinates are drawn as is.
func projection(cfg Config) (func(geometry.Point) geometry.Point, error) {
	cs, err := geometry.ParseCoordinateSystem(cfg.CoordinateSystem)
	if err != nil {
		return nil, err
	} else if cs == geometry.Cartesian || cfg.Render.EPSG == 0 || cfg.Render.EPSG == 4326 {
		return func(p geometry.Point) geometry.Point { return p }, nil
	}
	transform := wgs84.Transform(wgs84.EPSG(4326), wgs84.EPSG(cfg.Render.EPSG))
	return func(p geometry.Point) geometry.Point {
		x, y, _ := transform(p.X, p.Y, 0.0)
		return geometry.Point{X: x, Y: y}
	}, nil
}

func projectPoints(ps []geometry.Point, f func(geometry.Point) geometry.Point) []geometry.Point {
	q := make([]geometry.Point, len(ps))
	for i, p := range ps {
		q[i] = f(p)
	}
	return q
}

// project transforms all points of the collection.
func project(c geometry.Collection, f func(geometry.Point) geometry.Point) geometry.Collection {
	var d geometry.Collection
	for _, polygon := range c.Polygons {
		q := make(geometry.Polygon, len(polygon))
		for i, ring := range polygon {
			q[i] = geometry.Ring(projectPoints(ring, f))
		}
		d.Polygons = append(d.Polygons, q)
	}
	for _, line := range c.Lines {
		d.Lines = append(d.Lines, geometry.LineString(projectPoints(line, f)))
	}
	if c.Points != nil {
		d.Points = geometry.MultiPoint(projectPoints(c.Points, f))
	}
	return d
}

// render draws the layers on top of each other, scaled to the configured width in millimeters. The output format follows from the file extension.
func render(filename string, cfg Config, layers ...layer) error {
	f, err := projection(cfg)
	if err != nil {
		return err
	}
	parts := make([]geometry.Collection, len(layers))
	bounds := geometry.EmptyBox()
	for i, l := range layers {
		parts[i] = project(asCollection(l.g), f)
		bounds = bounds.Extend(parts[i].Bounds())
	}
	if bounds.IsEmpty() {
		bounds = geometry.Box{Max: geometry.Point{X: 1.0, Y: 1.0}}
	}
	size := math.Max(bounds.Max.X-bounds.Min.X, bounds.Max.Y-bounds.Min.Y)
	if size == 0.0 {
		size = 1.0
	}
	scale := cfg.Render.Width / size
	m := geometry.Identity.Scale(scale, scale).Translate(-bounds.Min.X, -bounds.Min.Y)

	c := canvas.New(scale*(bounds.Max.X-bounds.Min.X), scale*(bounds.Max.Y-bounds.Min.Y))
	ctx := canvas.NewContext(c)
	ctx.SetStrokeWidth(cfg.Render.StrokeWidth)
	ctx.SetStrokeColor(canvas.Black)
	for i, l := range layers {
		area := &canvas.Path{}
		for _, polygon := range parts[i].Polygons {
			for _, ring := range polygon {
				for i, p := range ring {
					p = m.Dot(p)
					if i == 0 {
						area.MoveTo(p.X, p.Y)
					} else {
						area.LineTo(p.X, p.Y)
					}
				}
				area.Close()
			}
		}
		ctx.SetFillColor(l.fill)
		ctx.DrawPath(0.0, 0.0, area)

		lines := &canvas.Path{}
		for _, line := range parts[i].Lines {
			for i, p := range line {
				p = m.Dot(p)
				if i == 0 {
					lines.MoveTo(p.X, p.Y)
				} else {
					lines.LineTo(p.X, p.Y)
				}
			}
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.DrawPath(0.0, 0.0, lines)

		ctx.SetFillColor(l.fill)
		for _, p := range parts[i].Points {
			p = m.Dot(p)
			ctx.DrawPath(p.X, p.Y, canvas.Circle(2.0*cfg.Render.StrokeWidth))
		}
	}
	c.Fit(2.0 * cfg.Render.StrokeWidth)
	if isRaster(filename) {
		return renderers.Write(filename, c, canvas.DPMM(cfg.Render.Resolution))
	}
	return renderers.Write(filename, c)
}

// isRaster returns true for output formats that accept a resolution.
func isRaster(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff":
		return true
	}
	return false
}
