package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Stats summarizes a generated feature collection.
type Stats struct {
	Bound       *orb.Bound `json:"bound,omitempty" yaml:"bound,omitempty"`
	Features    int        `json:"features" yaml:"features"`
	Points      int        `json:"points" yaml:"points"`
	LineStrings int        `json:"line_strings" yaml:"line_strings"`
	Polygons    int        `json:"polygons" yaml:"polygons"`
	Vertices    int        `json:"vertices" yaml:"vertices"`
	Area        float64    `json:"area" yaml:"area"` // planar, square degrees
}

// Summarize counts geometries and vertices and computes the overall bound.
func Summarize(fc *geojson.FeatureCollection) Stats {
	var s Stats
	if fc == nil {
		return s
	}

	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		s.Features++

		switch g := f.Geometry.(type) {
		case orb.Point:
			s.Points++
			s.Vertices++
		case orb.LineString:
			s.LineStrings++
			s.Vertices += len(g)
		case orb.Polygon:
			s.Polygons++
			for _, r := range g {
				s.Vertices += len(r)
			}
			s.Area += planar.Area(g)
		}

		b := f.Geometry.Bound()
		if s.Bound == nil {
			s.Bound = &b
		} else {
			u := s.Bound.Union(b)
			s.Bound = &u
		}
	}

	return s
}
