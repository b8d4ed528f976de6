// Package geo converts vehicle trails into geometry values for storage
// and export. Trails use column as X and row as Y on a unitless plane.
package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/rescuesim/simulator/pkg/core"
)

// TrailToLineString converts a vehicle trail to a geom.LineString.
func TrailToLineString(trail []core.Position) geom.LineString {
	if len(trail) == 0 {
		return geom.LineString{}
	}
	coords := make([]float64, 0, len(trail)*2)
	for _, p := range trail {
		coords = append(coords, float64(p.Col), float64(p.Row))
	}
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq)
}

// TrailWKT returns the WKT encoding of a trail. A trail with fewer than
// two points has no extent and encodes as the empty string.
func TrailWKT(trail []core.Position) string {
	if len(trail) < 2 {
		return ""
	}
	return TrailToLineString(trail).AsText()
}

// FootprintMultiPoint converts hazard footprint cells to a MultiPoint for
// the presentation layer.
func FootprintMultiPoint(cells []core.Position) geom.MultiPoint {
	points := make([]geom.Point, 0, len(cells))
	for _, c := range cells {
		points = append(points, geom.NewPoint(geom.Coordinates{
			XY: geom.XY{X: float64(c.Col), Y: float64(c.Row)},
		}))
	}
	return geom.NewMultiPoint(points)
}

// FootprintWKT returns the WKT encoding of a hazard footprint.
func FootprintWKT(cells []core.Position) string {
	if len(cells) == 0 {
		return ""
	}
	return FootprintMultiPoint(cells).AsText()
}

// TrailFromWKT decodes a stored WKT route back to grid positions.
func TrailFromWKT(wkt string) ([]core.Position, error) {
	if wkt == "" {
		return nil, nil
	}
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse route WKT: %w", err)
	}
	ls, ok := g.AsLineString()
	if !ok {
		return nil, fmt.Errorf("route WKT is not a line string: %s", g.Type())
	}
	return LineStringToTrail(ls), nil
}

// LineStringToTrail converts a stored line string back to grid positions.
func LineStringToTrail(ls geom.LineString) []core.Position {
	seq := ls.Coordinates()
	out := make([]core.Position, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		out = append(out, core.Position{Row: int(xy.Y), Col: int(xy.X)})
	}
	return out
}
