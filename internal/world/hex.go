// Package world provides the town's hex grid geometry and agent wandering.
// Uses axial coordinates (q, r) for the hex grid.
package world

import "math"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	return max(abs(a.Q-b.Q), abs(a.R-b.R), abs(a.S()-b.S()))
}

// HexSize is the centre-to-corner distance of a hex in world units.
const HexSize = 1.0

// Center returns the cartesian centre of a pointy-top hex.
func (h HexCoord) Center() (x, y float64) {
	x = HexSize * math.Sqrt(3) * (float64(h.Q) + float64(h.R)/2)
	y = HexSize * 1.5 * float64(h.R)
	return x, y
}

// Midpoint returns the cartesian point halfway between two hex centres.
func Midpoint(a, b HexCoord) (x, y float64) {
	ax, ay := a.Center()
	bx, by := b.Center()
	return (ax + bx) / 2, (ay + by) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
