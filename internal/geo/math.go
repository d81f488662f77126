// Package geo handles the grid layout and summary maths shared by the generators.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// World extent in degrees.
const (
	MinLon = -180.0
	MaxLon = 180.0
	MinLat = -90.0
	MaxLat = 90.0
)

// Grid is a square cell layout over the whole lon/lat range.
type Grid struct {
	Cells []orb.Point // lower-left corner of every cell, column major
	Size  float64     // side of a cell in degrees
}

// CellSize derives the side of a grid cell from the requested feature count
// so that a grid spanning `span` degrees holds roughly count cells.
//
// Non-positive or tiny counts give an infinite or NaN size, which produces
// an empty layout.
func CellSize(span float64, count int) float64 {
	return span / math.Floor(math.Sqrt(float64(count)/2))
}

// NewGrid lays out cells of the given size over lon [-180,180) and
// lat [-90,90). The last column and row are kept only if at least a quarter
// of a cell still fits.
func NewGrid(size float64) Grid {
	g := Grid{Size: size}
	if !(size > 0) || math.IsInf(size, 0) {
		return g
	}

	cols := steps(MinLon, MaxLon-size/4, size)
	rows := steps(MinLat, MaxLat-size/4, size)
	g.Cells = make([]orb.Point, 0, cols*rows)

	for lon := MinLon; lon < MaxLon-size/4; lon += size {
		for lat := MinLat; lat < MaxLat-size/4; lat += size {
			g.Cells = append(g.Cells, orb.Point{lon, lat})
		}
	}

	return g
}

// Center returns the center of the cell whose lower-left corner is p.
func (g Grid) Center(p orb.Point) orb.Point {
	return orb.Point{p[0] + g.Size/2, p[1] + g.Size/2}
}

// RegularRing places n vertices at equal angular steps around center.
// The vertex offset function may shift each vertex, it is called once per
// vertex in order. The ring is closed by repeating the first vertex.
func RegularRing(center orb.Point, radius float64, n int, offset func() (dx, dy float64)) orb.Ring {
	if n <= 0 {
		return nil
	}

	ring := make(orb.Ring, 0, n+1)
	angleStep := (2 * math.Pi) / float64(n)
	for i := 0; i < n; i++ {
		angle := float64(i) * angleStep
		x := center[0] + radius*math.Cos(angle)
		y := center[1] + radius*math.Sin(angle)
		if offset != nil {
			dx, dy := offset()
			x, y = x+dx, y+dy
		}
		ring = append(ring, orb.Point{x, y})
	}

	return append(ring, ring[0])
}

func steps(from, to, step float64) int {
	if to <= from {
		return 0
	}
	return int(math.Ceil((to - from) / step))
}
