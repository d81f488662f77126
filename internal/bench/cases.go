package bench

import (
	"github.com/woozymasta/synthgeo/internal/generator"
	"github.com/woozymasta/synthgeo/internal/params"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Builtin returns fresh copies of the built-in cases.
func Builtin() []*Case {
	return []*Case{
		polygonsCase(),
		pointsCase(),
		linesCase(),
		filteringCase(),
		vectorCase(),
		tilesCase(),
	}
}

func polygonsCase() *Case {
	return &Case{
		Name:  "polygons",
		Title: "Polygon rendering",
		Params: []ParamSpec{
			{ID: ParamCount, Label: "Feature count", Domain: params.Range(100000, 500000, 1), Default: params.Number(200000), Reload: true},
			{ID: "vertices", Label: "Vertices", Domain: params.Range(3, 20, 1), Default: params.Number(4), Reload: true},
			{ID: "outline", Label: "Outline", Domain: params.Toggle("yes", "no"), Default: params.Bool(true)},
		},
		Style: func(v Values) Style {
			s := Style{"fill-color": []any{"get", "color"}}
			if v.Value("outline").Flag {
				s["stroke-color"] = "gray"
				s["stroke-width"] = 0.5
			}
			return s
		},
		Check: func(v Values) error {
			return generator.ValidatePolygons(v.Value(ParamCount).Int(), v.Value("vertices").Int())
		},
		Load: func(g *generator.Generator, v Values) *geojson.FeatureCollection {
			return g.Polygons(v.Value(ParamCount).Int(), v.Value("vertices").Int())
		},
	}
}

func pointsCase() *Case {
	return &Case{
		Name:  "points",
		Title: "Point rendering",
		Params: []ParamSpec{
			{ID: ParamCount, Label: "Feature count", Domain: params.Range(100000, 500000, 1), Default: params.Number(200000), Reload: true},
			{ID: "radius", Label: "Radius", Domain: params.Range(4, 40, 1), Default: params.Number(4), Reload: true},
		},
		Style: func(Values) Style {
			return Style{
				"circle-radius":       []any{"get", "radius"},
				"circle-fill-color":   []any{"get", "color"},
				"circle-stroke-color": "gray",
				"circle-stroke-width": 0.5,
			}
		},
		Check: func(v Values) error {
			return generator.ValidatePoints(v.Value(ParamCount).Int(), v.Value("radius").Number)
		},
		Load: func(g *generator.Generator, v Values) *geojson.FeatureCollection {
			return g.Points(v.Value(ParamCount).Int(), v.Value("radius").Number)
		},
	}
}

func linesCase() *Case {
	return &Case{
		Name:  "lines",
		Title: "Line rendering",
		Params: []ParamSpec{
			{ID: ParamCount, Label: "Line count", Domain: params.Range(2, 100, 1), Default: params.Number(2), Reload: true},
			{ID: "curveComplexity", Label: "Curve Complexity", Domain: params.Range(2, 1000, 1), Default: params.Number(2), Reload: true},
			{ID: "width", Label: "Width", Domain: params.Range(1, 20, 1), Default: params.Number(2), Reload: true},
			{ID: "dash", Label: "Dashes", Domain: params.Toggle("yes", "no"), Default: params.Bool(false)},
		},
		Style: func(v Values) Style {
			s := Style{
				"stroke-width": []any{"get", "width"},
				"stroke-color": []any{"get", "color"},
			}
			if v.Value("dash").Flag {
				s["stroke-line-dash"] = []float64{15, 15}
			}
			return s
		},
		Check: func(v Values) error {
			return generator.ValidateLines(v.Value(ParamCount).Int(), v.Value("curveComplexity").Int(), v.Value("width").Number)
		},
		Load: func(g *generator.Generator, v Values) *geojson.FeatureCollection {
			return g.Lines(v.Value(ParamCount).Int(), v.Value("curveComplexity").Int(), v.Value("width").Number)
		},
	}
}

func filteringCase() *Case {
	return &Case{
		Name:  "filtering",
		Title: "Filtering shapes",
		Params: []ParamSpec{
			{ID: ParamCount, Label: "Feature count", Domain: params.Range(100000, 500000, 1), Default: params.Number(200000), Reload: true},
			{ID: "filterValue", Label: "Filter Value", Domain: params.Range(0, 10, 1), Default: params.Number(0)},
		},
		Style: func(v Values) Style {
			return Style{
				"fill-color":   []any{"get", "color"},
				"stroke-color": "gray",
				"stroke-width": 0.5,
				"filter":       []any{">", []any{"get", "number"}, v.Value("filterValue").Int()},
			}
		},
		Load: func(g *generator.Generator, v Values) *geojson.FeatureCollection {
			return g.FilterShapes(v.Value(ParamCount).Int())
		},
	}
}

func vectorCase() *Case {
	return &Case{
		Name:  "vector",
		Title: "Vector rendering",
		Params: []ParamSpec{
			{ID: ParamCount, Label: "Feature count", Domain: params.Range(1000, 500000, 1000), Default: params.Number(20000), Reload: true},
		},
		Style: func(Values) Style {
			return Style{
				"fill-color":   []any{"get", "color"},
				"stroke-color": "gray",
				"stroke-width": 0.5,
			}
		},
		Load: func(g *generator.Generator, v Values) *geojson.FeatureCollection {
			return g.Squares(v.Value(ParamCount).Int())
		},
	}
}

func tilesCase() *Case {
	return &Case{
		Name:  "tiles",
		Title: "Vector tiles rendering",
		Params: []ParamSpec{
			{ID: ParamCount, Label: "Feature count", Domain: params.Range(500, 10000, 500), Default: params.Number(500), Reload: true},
		},
		Style: func(Values) Style {
			return Style{
				"fill-color":          []any{"get", "color"},
				"stroke-color":        []any{"get", "color"},
				"stroke-width":        2,
				"circle-radius":       7,
				"circle-fill-color":   []any{"get", "color"},
				"circle-stroke-color": "gray",
				"circle-stroke-width": 0.5,
			}
		},
		LoadTile: func(g *generator.Generator, bound orb.Bound, v Values) *geojson.FeatureCollection {
			return g.Tile(bound, v.Value(ParamCount).Int(), 5)
		},
	}
}
