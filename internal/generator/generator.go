// Package generator builds synthetic feature collections for renderer
// stress tests.
//
// The layout of every collection (feature count, grid positions, vertex
// counts, segment structure) depends only on the arguments. Colors, radii
// and jitter come from the injected random source, so two generators with
// the same seed produce identical output.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/woozymasta/synthgeo/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrInvalidParameter is returned by the Validate helpers.
var ErrInvalidParameter = errors.New("invalid parameter")

// Palette is the default color set used by the generic generators.
var Palette = []string{
	"#66c2a5",
	"#fc8d62",
	"#8da0cb",
	"#e78ac3",
	"#a6d854",
	"#ffd92f",
}

// CasePalette is the smaller color set used by the tile and filtering cases.
var CasePalette = []string{"#6ff05b", "#00AAFF", "#faa91e"}

// Line layout constants.
const (
	LinePeriods      = 10
	linePeriodHeight = 20.0
)

// Generator produces feature collections from a random source.
// It is not safe for concurrent use.
type Generator struct {
	rng     *rand.Rand
	palette []string
}

// Option configures a Generator.
type Option func(*Generator)

// WithPalette replaces the default color palette. Empty palettes are ignored.
func WithPalette(colors []string) Option {
	return func(g *Generator) {
		if len(colors) > 0 {
			g.palette = append([]string(nil), colors...)
		}
	}
}

// New returns a generator drawing from rng.
func New(rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{rng: rng, palette: Palette}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeeded returns a generator with a deterministic PCG source.
// A zero seed picks a random one.
func NewSeeded(seed uint64, opts ...Option) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return New(rand.New(rand.NewPCG(seed, 0)), opts...)
}

// Color picks a random color from the palette.
func (g *Generator) Color() string {
	return g.pick(g.palette)
}

func (g *Generator) pick(colors []string) string {
	return colors[g.rng.IntN(len(colors))]
}

// Grid returns the cell layout used by Polygons, Points and FilterShapes for count.
func Grid(count int) geo.Grid {
	return geo.NewGrid(geo.CellSize(400, count))
}

// Polygons lays out roughly count polygons with vertices corners each on a
// grid covering the whole globe. Each corner is jittered by up to a quarter
// of a cell and the ring is closed.
//
// Precondition: count > 0 and vertices >= 3. Smaller values yield an empty
// collection or degenerate rings, never a panic.
func (g *Generator) Polygons(count, vertices int) *geojson.FeatureCollection {
	grid := Grid(count)
	fc := newCollection(len(grid.Cells))
	if vertices <= 0 {
		return fc
	}

	size := grid.Size
	jitter := func() (float64, float64) {
		return -g.rng.Float64() * size / 4, -g.rng.Float64() * size / 4
	}

	for _, cell := range grid.Cells {
		radius := (0.3 + g.rng.Float64()*0.2) * size
		ring := geo.RegularRing(grid.Center(cell), radius, vertices, jitter)

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["color"] = g.Color()
		f.Properties["ratio"] = int(math.Round(g.rng.Float64() * 100))
		fc.Append(f)
	}

	return fc
}

// Points places one point per grid cell, offset from the cell corner by a
// random buffer scaled with radius.
func (g *Generator) Points(count int, radius float64) *geojson.FeatureCollection {
	grid := Grid(count)
	fc := newCollection(len(grid.Cells))

	for _, cell := range grid.Cells {
		buffer := (0.3 + g.rng.Float64()*0.2) * grid.Size * (radius / 5)

		f := geojson.NewFeature(orb.Point{cell[0] + buffer, cell[1] + buffer})
		f.Properties["color"] = g.Color()
		f.Properties["radius"] = radius
		fc.Append(f)
	}

	return fc
}

// Lines builds lineCount sinusoids spanning the whole longitude range, each
// made of LinePeriods periods of curveComplexity points, spaced evenly in
// latitude.
func (g *Generator) Lines(lineCount, curveComplexity int, width float64) *geojson.FeatureCollection {
	fc := newCollection(max(lineCount, 0))
	if lineCount <= 0 {
		return fc
	}

	periodWidth := 360.0 / LinePeriods
	latitudeSpacing := 180.0 / float64(lineCount+1)

	for j := 0; j < lineCount; j++ {
		startLat := geo.MinLat + float64(j+1)*latitudeSpacing
		line := sinusoid(geo.MinLon, startLat, periodWidth, linePeriodHeight, LinePeriods, curveComplexity)

		f := geojson.NewFeature(line)
		f.Properties["color"] = g.Color()
		f.Properties["width"] = width
		fc.Append(f)
	}

	return fc
}

// Squares fills a denser grid with inset axis aligned rectangles.
func (g *Generator) Squares(count int) *geojson.FeatureCollection {
	grid := geo.NewGrid(geo.CellSize(180, count))
	fc := newCollection(len(grid.Cells))
	size := grid.Size

	for _, cell := range grid.Cells {
		b := (0.1 + g.rng.Float64()*0.1) * size
		lon, lat := cell[0], cell[1]
		ring := orb.Ring{
			{lon + b, lat + b},
			{lon + size - b, lat + b},
			{lon + size - b, lat + size - b},
			{lon + b, lat + size - b},
			{lon + b, lat + b},
		}

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["color"] = g.pick(CasePalette)
		fc.Append(f)
	}

	return fc
}

// FilterShapes lays out regular quadrilaterals carrying a "number" property
// in 1..10 for filter expressions to select on.
func (g *Generator) FilterShapes(count int) *geojson.FeatureCollection {
	const vertices = 4

	grid := Grid(count)
	fc := newCollection(len(grid.Cells))

	for _, cell := range grid.Cells {
		radius := (0.3 + g.rng.Float64()*0.2) * grid.Size
		ring := geo.RegularRing(grid.Center(cell), radius, vertices, nil)

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["color"] = g.pick(CasePalette)
		f.Properties["number"] = g.rng.IntN(10) + 1
		fc.Append(f)
	}

	return fc
}

// ValidatePolygons checks the Polygons preconditions.
func ValidatePolygons(count, vertices int) error {
	if err := validateCount(count); err != nil {
		return err
	}
	if vertices < 3 {
		return fmt.Errorf("%w: vertices must be >= 3, got %d", ErrInvalidParameter, vertices)
	}
	return nil
}

// ValidatePoints checks the Points preconditions.
func ValidatePoints(count int, radius float64) error {
	if err := validateCount(count); err != nil {
		return err
	}
	if !(radius > 0) {
		return fmt.Errorf("%w: radius must be > 0, got %v", ErrInvalidParameter, radius)
	}
	return nil
}

// ValidateLines checks the Lines preconditions.
func ValidateLines(lineCount, curveComplexity int, width float64) error {
	if lineCount <= 0 {
		return fmt.Errorf("%w: line count must be > 0, got %d", ErrInvalidParameter, lineCount)
	}
	if curveComplexity <= 0 {
		return fmt.Errorf("%w: curve complexity must be > 0, got %d", ErrInvalidParameter, curveComplexity)
	}
	if !(width > 0) {
		return fmt.Errorf("%w: width must be > 0, got %v", ErrInvalidParameter, width)
	}
	return nil
}

func validateCount(count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: count must be > 0, got %d", ErrInvalidParameter, count)
	}
	return nil
}

// sinusoid builds periods cosine waves of perPeriod points each, starting at
// (startLon, startLat) and moving east.
func sinusoid(startLon, startLat, periodWidth, periodHeight float64, periods, perPeriod int) orb.LineString {
	if perPeriod <= 0 {
		return orb.LineString{}
	}

	line := make(orb.LineString, 0, periods*perPeriod)
	for i := 0; i < periods; i++ {
		lon0 := startLon + float64(i)*periodWidth
		for k := 0; k < perPeriod; k++ {
			ratio := float64(k) / float64(perPeriod)
			line = append(line, orb.Point{
				lon0 + ratio*periodWidth,
				startLat + math.Cos(ratio*math.Pi*2)*periodHeight*0.5,
			})
		}
	}

	return line
}

func newCollection(capacity int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = make([]*geojson.Feature, 0, capacity)
	return fc
}
