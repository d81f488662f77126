package generator

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
)

func newTestGenerator(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, 0)))
}

func TestPolygonsCountAndClosure(t *testing.T) {
	g := newTestGenerator(1)

	for _, count := range []int{2, 100, 2000, 20000} {
		for _, vertices := range []int{3, 4, 7, 20} {
			fc := g.Polygons(count, vertices)
			n := len(fc.Features)
			if n == 0 || n > count || n < count/10 {
				t.Fatalf("Polygons(%d, %d): %d features, want within a constant factor", count, vertices, n)
			}

			for i, f := range fc.Features {
				poly, ok := f.Geometry.(orb.Polygon)
				if !ok {
					t.Fatalf("feature %d: geometry %T, want orb.Polygon", i, f.Geometry)
				}
				if len(poly) != 1 {
					t.Fatalf("feature %d: %d rings, want 1", i, len(poly))
				}
				ring := poly[0]
				if len(ring) != vertices+1 {
					t.Fatalf("feature %d: %d coordinates, want %d", i, len(ring), vertices+1)
				}
				if ring[0] != ring[len(ring)-1] {
					t.Fatalf("feature %d: ring not closed: %v != %v", i, ring[0], ring[len(ring)-1])
				}
			}
		}
	}
}

func TestPolygonsProperties(t *testing.T) {
	g := newTestGenerator(2)
	fc := g.Polygons(500, 5)

	palette := make(map[string]bool, len(Palette))
	for _, c := range Palette {
		palette[c] = true
	}

	for i, f := range fc.Features {
		color, ok := f.Properties["color"].(string)
		if !ok || !palette[color] {
			t.Fatalf("feature %d: color %v not in palette", i, f.Properties["color"])
		}
		ratio, ok := f.Properties["ratio"].(int)
		if !ok || ratio < 0 || ratio > 100 {
			t.Fatalf("feature %d: ratio %v, want int in [0,100]", i, f.Properties["ratio"])
		}
	}
}

func TestPolygonsDegenerateInput(t *testing.T) {
	g := newTestGenerator(3)

	for _, count := range []int{-10, 0, 1} {
		if n := len(g.Polygons(count, 4).Features); n != 0 {
			t.Fatalf("Polygons(%d, 4): %d features, want 0", count, n)
		}
	}

	if n := len(g.Polygons(100, 0).Features); n != 0 {
		t.Fatalf("Polygons(100, 0): %d features, want 0", n)
	}

	for _, f := range g.Polygons(100, 2).Features {
		ring := f.Geometry.(orb.Polygon)[0]
		if len(ring) != 3 || ring[0] != ring[2] {
			t.Fatalf("Polygons(100, 2): ring %v, want 3 closed coordinates", ring)
		}
	}
}

func TestLines(t *testing.T) {
	g := newTestGenerator(4)

	tests := []struct {
		count      int
		complexity int
		width      float64
	}{
		{1, 2, 1},
		{2, 2, 2},
		{17, 30, 4.5},
		{100, 1000, 20},
	}

	for _, tt := range tests {
		fc := g.Lines(tt.count, tt.complexity, tt.width)
		if len(fc.Features) != tt.count {
			t.Fatalf("Lines(%d, %d, %v): %d features", tt.count, tt.complexity, tt.width, len(fc.Features))
		}

		for i, f := range fc.Features {
			if w := f.Properties["width"]; w != tt.width {
				t.Fatalf("feature %d: width %v, want %v", i, w, tt.width)
			}
			line, ok := f.Geometry.(orb.LineString)
			if !ok {
				t.Fatalf("feature %d: geometry %T, want orb.LineString", i, f.Geometry)
			}
			if len(line) != tt.complexity*LinePeriods {
				t.Fatalf("feature %d: %d coordinates, want %d", i, len(line), tt.complexity*LinePeriods)
			}
			if line[0][0] != -180 {
				t.Fatalf("feature %d: starts at lon %v, want -180", i, line[0][0])
			}
		}
	}

	if n := len(g.Lines(0, 10, 1).Features); n != 0 {
		t.Fatalf("Lines(0, ...): %d features, want 0", n)
	}
}

func TestPointsStructuralDeterminism(t *testing.T) {
	const (
		count  = 100
		radius = 5.0
	)

	a := newTestGenerator(10).Points(count, radius)
	b := newTestGenerator(11).Points(count, radius)
	if len(a.Features) != len(b.Features) {
		t.Fatalf("feature counts differ: %d vs %d", len(a.Features), len(b.Features))
	}

	grid := Grid(count)
	if len(grid.Cells) != len(a.Features) {
		t.Fatalf("grid has %d cells, collection %d features", len(grid.Cells), len(a.Features))
	}
	if again := Grid(count); len(again.Cells) != len(grid.Cells) || again.Size != grid.Size {
		t.Fatalf("grid layout not stable")
	}

	lo := 0.3 * grid.Size * radius / 5
	hi := 0.5 * grid.Size * radius / 5
	for _, fc := range []*geojson.FeatureCollection{a, b} {
		for i, f := range fc.Features {
			p := f.Geometry.(orb.Point)
			cell := grid.Cells[i]
			dx, dy := p[0]-cell[0], p[1]-cell[1]
			if math.Abs(dx-dy) > 1e-9 {
				t.Fatalf("feature %d: offset (%v, %v), want equal axes", i, dx, dy)
			}
			if dx < lo || dx > hi {
				t.Fatalf("feature %d: offset %v outside [%v, %v]", i, dx, lo, hi)
			}
			if r := f.Properties["radius"]; r != radius {
				t.Fatalf("feature %d: radius %v, want %v", i, r, radius)
			}
		}
	}
}

func TestSeededOutputIsReproducible(t *testing.T) {
	encode := func(g *Generator) string {
		data, err := json.Marshal(g.Polygons(300, 6))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return string(data)
	}

	if encode(NewSeeded(42)) != encode(NewSeeded(42)) {
		t.Fatal("same seed produced different collections")
	}
	if encode(NewSeeded(42)) == encode(NewSeeded(43)) {
		t.Fatal("different seeds produced identical collections")
	}
}

func TestSquaresAndFilterShapes(t *testing.T) {
	g := newTestGenerator(5)

	squares := g.Squares(1000)
	if len(squares.Features) == 0 {
		t.Fatal("Squares(1000): empty collection")
	}
	for i, f := range squares.Features {
		ring := f.Geometry.(orb.Polygon)[0]
		if len(ring) != 5 || ring[0] != ring[4] {
			t.Fatalf("square %d: ring %v", i, ring)
		}
	}

	shapes := g.FilterShapes(1000)
	if len(shapes.Features) != len(Grid(1000).Cells) {
		t.Fatalf("FilterShapes(1000): %d features, want %d", len(shapes.Features), len(Grid(1000).Cells))
	}
	for i, f := range shapes.Features {
		n, ok := f.Properties["number"].(int)
		if !ok || n < 1 || n > 10 {
			t.Fatalf("shape %d: number %v, want int in [1,10]", i, f.Properties["number"])
		}
	}
}

func TestTileStaysInBound(t *testing.T) {
	g := newTestGenerator(6)

	for _, tile := range []maptile.Tile{
		maptile.New(0, 0, 0),
		maptile.New(1, 0, 1),
		maptile.New(300, 200, 10),
	} {
		bound := tile.Bound()
		fc := g.Tile(bound, 500, 5)

		_, _, lines := TileCounts(500)
		var lineStrings int
		for i, f := range fc.Features {
			if _, ok := f.Geometry.(orb.LineString); ok {
				lineStrings++
			}
			fb := f.Geometry.Bound()
			if !bound.Contains(fb.Min) || !bound.Contains(fb.Max) {
				t.Fatalf("tile %v feature %d: bound %v outside %v", tile, i, fb, bound)
			}
		}
		if lineStrings != lines+1 {
			t.Fatalf("tile %v: %d line strings, want %d", tile, lineStrings, lines+1)
		}
	}
}

func TestTileCounts(t *testing.T) {
	tests := []struct {
		total, points, polygons, lines int
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{500, 166, 166, 168},
		{10000, 3333, 3333, 3334},
	}
	for _, tt := range tests {
		p, q, l := TileCounts(tt.total)
		if p != tt.points || q != tt.polygons || l != tt.lines {
			t.Fatalf("TileCounts(%d) = %d, %d, %d", tt.total, p, q, l)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := ValidatePolygons(100, 4); err != nil {
		t.Fatalf("ValidatePolygons: %v", err)
	}
	for _, err := range []error{
		ValidatePolygons(0, 4),
		ValidatePolygons(100, 2),
		ValidatePoints(100, 0),
		ValidateLines(0, 2, 1),
		ValidateLines(2, 0, 1),
		ValidateLines(2, 2, -1),
	} {
		if !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("got %v, want ErrInvalidParameter", err)
		}
	}
}

func BenchmarkPolygons(b *testing.B) {
	g := newTestGenerator(7)
	for i := 0; i < b.N; i++ {
		_ = g.Polygons(500000, 4)
	}
}

func BenchmarkLines(b *testing.B) {
	g := newTestGenerator(8)
	for i := 0; i < b.N; i++ {
		_ = g.Lines(100, 1000, 2)
	}
}
