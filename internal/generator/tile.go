package generator

import (
	"math"

	"github.com/woozymasta/synthgeo/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	tileVertices       = 5
	tileCurvePoints    = 2
	tilePeriods        = 6
	tileAmplitudeRatio = 20.0
)

// TileCounts splits a total feature budget across points, polygons and lines.
func TileCounts(total int) (points, polygons, lines int) {
	if total <= 0 {
		return 0, 0, 0
	}
	points = total / 3
	polygons = total / 3
	lines = total - points - polygons
	return points, polygons, lines
}

// Tile generates mixed geometry scoped to bound: polygons in the lower left
// quadrant, points in the lower right one, sinusoid lines in the upper half
// and one line tracing the bound itself. The grid spacing is derived from
// the point share of total, so the polygon and point counts are approximate.
func (g *Generator) Tile(bound orb.Bound, total, vertices int) *geojson.FeatureCollection {
	points, _, lines := TileCounts(total)
	if vertices <= 0 {
		vertices = tileVertices
	}

	width := bound.Max[0] - bound.Min[0]
	height := bound.Max[1] - bound.Min[1]
	center := bound.Center()
	spacing := (width + height) / 4 / (math.Ceil(math.Sqrt(float64(points))) + 1)

	fc := geojson.NewFeatureCollection()

	if spacing > 0 {
		for lon := bound.Min[0] + spacing; lon < center[0]; lon += spacing {
			for lat := bound.Min[1] + spacing; lat < center[1]; lat += spacing {
				radius := (0.3 + g.rng.Float64()*0.2) * spacing
				f := geojson.NewFeature(orb.Polygon{geo.RegularRing(orb.Point{lon, lat}, radius, vertices, nil)})
				f.Properties["color"] = g.pick(CasePalette)
				fc.Append(f)
			}
		}
	}

	outline := geojson.NewFeature(orb.LineString{
		{bound.Min[0], bound.Min[1]},
		{bound.Max[0], bound.Min[1]},
		{bound.Max[0], bound.Max[1]},
		{bound.Min[0], bound.Max[1]},
		{bound.Min[0], bound.Min[1]},
	})
	outline.Properties["color"] = g.pick(CasePalette)
	fc.Append(outline)

	if spacing > 0 {
		for lon := center[0] + spacing; lon < bound.Max[0]; lon += spacing {
			for lat := bound.Min[1] + spacing; lat < center[1]; lat += spacing {
				f := geojson.NewFeature(orb.Point{lon, lat})
				f.Properties["color"] = g.pick(CasePalette)
				fc.Append(f)
			}
		}
	}

	if lines > 0 {
		periodWidth := (width - spacing*2) / tilePeriods
		periodHeight := height / tileAmplitudeRatio
		latitudeSpacing := (height/2 - periodHeight*2) / float64(lines)

		for j := 0; j < lines; j++ {
			startLat := center[1] + periodHeight + float64(j)*latitudeSpacing
			line := sinusoid(bound.Min[0]+spacing, startLat, periodWidth, periodHeight, tilePeriods, tileCurvePoints)

			f := geojson.NewFeature(line)
			f.Properties["color"] = g.pick(CasePalette)
			fc.Append(f)
		}
	}

	return fc
}
