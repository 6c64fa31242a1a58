package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/geometry"
	"github.com/tdewolff/geometry/adapter"
)

func isGeoJSON(filename string, b []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".geojson":
		return true
	}
	b = bytes.TrimSpace(b)
	return 0 < len(b) && b[0] == '{'
}

// parseGeometry parses WKT or a GeoJSON geometry.
func parseGeometry(filename string, b []byte) (geometry.Geometry, error) {
	if isGeoJSON(filename, b) {
		g, err := geojson.UnmarshalGeometry(b)
		if err != nil {
			return nil, errors.Wrapf(err, "geojson %s", filename)
		}
		return adapter.FromOrb(g.Geometry())
	}
	g, err := geometry.ParseWKT(string(b))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	return g, nil
}

func readGeometry(filename string) (geometry.Geometry, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseGeometry(filename, b)
}

// readGeometries reads one WKT geometry per line, skipping empty lines and lines starting with #.
func readGeometries(filename string) ([]geometry.Geometry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var gs []geometry.Geometry
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		g, err := geometry.ParseWKT(text)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", filename, line)
		}
		gs = append(gs, g)
	}
	return gs, scanner.Err()
}

func writeGeometry(w io.Writer, g geometry.Geometry, format string) error {
	switch format {
	case "wkt":
		_, err := fmt.Fprintln(w, geometry.WKT(g))
		return err
	case "geojson":
		b, err := geojson.NewGeometry(adapter.ToOrb(g)).MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}
	return errors.Newf("unknown output format %q", format)
}

// output returns the file to write to, or standard output for an empty filename or "-".
func output(filename string) (io.WriteCloser, error) {
	if filename == "" || filename == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(filename)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
